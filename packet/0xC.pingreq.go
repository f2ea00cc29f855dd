package packet

import (
	"bytes"
	"io"
)

// PINGREQ 心跳请求报文
//
// MQTT v3.1.1: 参考章节 3.12 PINGREQ - PING request
//
// 只有固定报头, 剩余长度为0。
type PINGREQ struct{}

func (pkt *PINGREQ) Kind() byte {
	return 0xC
}

func (pkt *PINGREQ) Flags() byte {
	return 0
}

func (pkt *PINGREQ) Len() uint32 {
	return 0
}

func (pkt *PINGREQ) String() string {
	return "[0xC]PINGREQ"
}

func (pkt *PINGREQ) Pack(io.Writer) error {
	return nil
}

// Unpack 不读取任何字节, 剩余长度不为0时由解码器的剩余字节检查拒绝
func (pkt *PINGREQ) Unpack(*DecodeContext, *bytes.Buffer) error {
	return nil
}
