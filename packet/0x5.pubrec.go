package packet

import (
	"bytes"
	"fmt"
	"io"
)

// PUBREC 发布收到报文 (QoS 2第一步)
//
// MQTT v3.1.1: 参考章节 3.5 PUBREC - Publish received (QoS 2 publish received, part 1)
//
// QoS 2流程:
// 1. 发送端发送PUBLISH (QoS=2)
// 2. 接收端响应PUBREC ← 当前报文
// 3. 发送端发送PUBREL
// 4. 接收端响应PUBCOMP
type PUBREC struct {
	PacketID uint16 `json:"PacketID"` // 报文标识符
}

func (pkt *PUBREC) Kind() byte {
	return 0x5
}

func (pkt *PUBREC) Flags() byte {
	return 0
}

func (pkt *PUBREC) Len() uint32 {
	return 2
}

func (pkt *PUBREC) String() string {
	return fmt.Sprintf("[0x5]PUBREC: PacketID=%d", pkt.PacketID)
}

func (pkt *PUBREC) Pack(w io.Writer) error {
	return packPacketID(w, pkt.PacketID)
}

func (pkt *PUBREC) Unpack(_ *DecodeContext, buf *bytes.Buffer) error {
	return unpackPacketID(buf, &pkt.PacketID)
}
