package packet

import (
	"bytes"
	"io"
)

// PINGRESP 心跳响应报文
//
// MQTT v3.1.1: 参考章节 3.13 PINGRESP - PING response
//
// 只有固定报头, 剩余长度为0。
type PINGRESP struct{}

func (pkt *PINGRESP) Kind() byte {
	return 0xD
}

func (pkt *PINGRESP) Flags() byte {
	return 0
}

func (pkt *PINGRESP) Len() uint32 {
	return 0
}

func (pkt *PINGRESP) String() string {
	return "[0xD]PINGRESP"
}

func (pkt *PINGRESP) Pack(io.Writer) error {
	return nil
}

// Unpack 不读取任何字节, 剩余长度不为0时由解码器的剩余字节检查拒绝
func (pkt *PINGRESP) Unpack(*DecodeContext, *bytes.Buffer) error {
	return nil
}
