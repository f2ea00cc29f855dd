package packet

import (
	"bytes"
	"fmt"
	"io"
)

// PUBCOMP 发布完成报文 (QoS 2第三步)
//
// MQTT v3.1.1: 参考章节 3.7 PUBCOMP - Publish complete (QoS 2 publish received, part 3)
type PUBCOMP struct {
	PacketID uint16 `json:"PacketID"` // 报文标识符
}

func (pkt *PUBCOMP) Kind() byte {
	return 0x7
}

func (pkt *PUBCOMP) Flags() byte {
	return 0
}

func (pkt *PUBCOMP) Len() uint32 {
	return 2
}

func (pkt *PUBCOMP) String() string {
	return fmt.Sprintf("[0x7]PUBCOMP: PacketID=%d", pkt.PacketID)
}

func (pkt *PUBCOMP) Pack(w io.Writer) error {
	return packPacketID(w, pkt.PacketID)
}

func (pkt *PUBCOMP) Unpack(_ *DecodeContext, buf *bytes.Buffer) error {
	return unpackPacketID(buf, &pkt.PacketID)
}
