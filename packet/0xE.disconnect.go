package packet

import (
	"bytes"
	"io"
)

// DISCONNECT 断开连接报文
//
// MQTT v3.1.1: 参考章节 3.14 DISCONNECT - Disconnect notification
//
// 只有固定报头, 剩余长度为0。
type DISCONNECT struct{}

func (pkt *DISCONNECT) Kind() byte {
	return 0xE
}

func (pkt *DISCONNECT) Flags() byte {
	return 0
}

func (pkt *DISCONNECT) Len() uint32 {
	return 0
}

func (pkt *DISCONNECT) String() string {
	return "[0xE]DISCONNECT"
}

func (pkt *DISCONNECT) Pack(io.Writer) error {
	return nil
}

// Unpack 不读取任何字节, 剩余长度不为0时由解码器的剩余字节检查拒绝
func (pkt *DISCONNECT) Unpack(*DecodeContext, *bytes.Buffer) error {
	return nil
}
