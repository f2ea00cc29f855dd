package packet

import (
	"bytes"
	"fmt"
	"io"
)

// UNSUBACK 取消订阅确认报文
//
// MQTT v3.1.1: 参考章节 3.11 UNSUBACK - Unsubscribe acknowledgement
//
// 报文结构:
// 固定报头: 报文类型0x0B，剩余长度2
// 可变报头: 报文标识符, 与对应的UNSUBSCRIBE相同 [MQTT-3.11.2-1]
// 载荷: 无载荷
type UNSUBACK struct {
	PacketID uint16 `json:"PacketID"`
}

func (pkt *UNSUBACK) Kind() byte {
	return 0xB
}

func (pkt *UNSUBACK) Flags() byte {
	return 0
}

func (pkt *UNSUBACK) Len() uint32 {
	return 2
}

func (pkt *UNSUBACK) String() string {
	return fmt.Sprintf("[0xB]UNSUBACK: PacketID=%d", pkt.PacketID)
}

func (pkt *UNSUBACK) Pack(w io.Writer) error {
	return packPacketID(w, pkt.PacketID)
}

func (pkt *UNSUBACK) Unpack(_ *DecodeContext, buf *bytes.Buffer) error {
	return unpackPacketID(buf, &pkt.PacketID)
}
