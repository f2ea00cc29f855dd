package packet

import (
	"bytes"
	"fmt"
	"io"
)

// PUBACK 发布确认报文 (QoS 1)
//
// MQTT v3.1.1: 参考章节 3.4 PUBACK - Publish acknowledgement
//
// 报文结构:
// 固定报头: 报文类型0x04，剩余长度2
// 可变报头: 报文标识符
// 载荷: 无载荷
type PUBACK struct {
	PacketID uint16 `json:"PacketID"` // 报文标识符
}

func (pkt *PUBACK) Kind() byte {
	return 0x4
}

func (pkt *PUBACK) Flags() byte {
	return 0
}

func (pkt *PUBACK) Len() uint32 {
	return 2
}

func (pkt *PUBACK) String() string {
	return fmt.Sprintf("[0x4]PUBACK: PacketID=%d", pkt.PacketID)
}

func (pkt *PUBACK) Pack(w io.Writer) error {
	return packPacketID(w, pkt.PacketID)
}

func (pkt *PUBACK) Unpack(_ *DecodeContext, buf *bytes.Buffer) error {
	return unpackPacketID(buf, &pkt.PacketID)
}

// packPacketID 写出只包含报文标识符的可变报头
// PUBACK, PUBREC, PUBREL, PUBCOMP, UNSUBACK 共用
func packPacketID(w io.Writer, id uint16) error {
	_, err := w.Write(i2b(id))
	return err
}

func unpackPacketID(buf *bytes.Buffer, id *uint16) error {
	v, err := readUint16(buf)
	if err != nil {
		return err
	}
	*id = v
	return nil
}
