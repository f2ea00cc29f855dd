package packet

import (
	"bytes"
	"fmt"
	"io"
)

// CONNACK 连接确认报文
//
// MQTT v3.1.1: 参考章节 3.2 CONNACK - Acknowledge connection request
//
// 报文结构:
// 固定报头: 报文类型0x02，标志位必须为0，剩余长度必须为2
// 可变报头: 连接确认标志、连接返回码
// 载荷: 无载荷
type CONNACK struct {
	// SessionPresent 会话存在标志
	// 位置: 可变报头第1字节的bit 0, bits 7-1为保留位，必须为0
	// 参考章节: 3.2.2.2 Session Present
	SessionPresent bool `json:"SessionPresent"`

	// ReturnCode 连接返回码
	// 位置: 可变报头第2字节
	// 参考章节: 3.2.2.3 Connect Return code
	// 注意:
	// - 如果服务端发送了一个包含非零返回码的CONNACK报文，那么它必须关闭网络连接 [MQTT-3.2.2-5]
	ReturnCode ConnackCode `json:"ReturnCode"`
}

func (pkt *CONNACK) Kind() byte {
	return 0x2
}

func (pkt *CONNACK) Flags() byte {
	return 0
}

func (pkt *CONNACK) Len() uint32 {
	return 2
}

func (pkt *CONNACK) String() string {
	return fmt.Sprintf("[0x2]CONNACK: SessionPresent=%v, ReturnCode=%s", pkt.SessionPresent, pkt.ReturnCode)
}

func (pkt *CONNACK) Pack(w io.Writer) error {
	if _, err := decodeConnackCode(byte(pkt.ReturnCode)); err != nil {
		return err
	}
	ack := uint8(0)
	if pkt.SessionPresent {
		ack = 1
	}
	_, err := w.Write([]byte{ack, byte(pkt.ReturnCode)})
	return err
}

func (pkt *CONNACK) Unpack(ctx *DecodeContext, buf *bytes.Buffer) error {
	if err := ctx.expectFlags(0); err != nil {
		return err
	}
	if ctx.Header.RemainingLength != 2 {
		return fmt.Errorf("%w: CONNACK Len=%d", ErrMalformedLength, ctx.Header.RemainingLength)
	}
	ack, err := readUint8(buf)
	if err != nil {
		return err
	}
	if ack > 1 {
		return fmt.Errorf("%w: %08b", ErrMalformedSessionPresent, ack)
	}
	b, err := readUint8(buf)
	if err != nil {
		return err
	}
	code, err := decodeConnackCode(b)
	if err != nil {
		return err
	}
	pkt.SessionPresent, pkt.ReturnCode = ack == 1, code
	return nil
}

// ConnackCode 连接返回码
// 参考章节: 3.2.2.3 Connect Return code
type ConnackCode byte

const (
	// Accepted 0x00 连接已接受
	Accepted ConnackCode = iota
	// UnacceptableProtocolVersion 0x01 连接已拒绝，不支持的协议版本
	UnacceptableProtocolVersion
	// IdentifierRejected 0x02 连接已拒绝，不合格的客户端标识符
	IdentifierRejected
	// ServerUnavailable 0x03 连接已拒绝，服务端不可用
	ServerUnavailable
	// BadUsernameOrPassword 0x04 连接已拒绝，无效的用户名或密码
	BadUsernameOrPassword
	// NotAuthorized 0x05 连接已拒绝，未授权
	NotAuthorized
)

var connackCodeName = map[ConnackCode]string{
	Accepted:                    "Accepted",
	UnacceptableProtocolVersion: "UnacceptableProtocolVersion",
	IdentifierRejected:          "IdentifierRejected",
	ServerUnavailable:           "ServerUnavailable",
	BadUsernameOrPassword:       "BadUsernameOrPassword",
	NotAuthorized:               "NotAuthorized",
}

func (c ConnackCode) String() string {
	if name, ok := connackCodeName[c]; ok {
		return name
	}
	return fmt.Sprintf("ConnackCode(0x%02X)", byte(c))
}

func decodeConnackCode(b byte) (ConnackCode, error) {
	if b > byte(NotAuthorized) {
		return 0, fmt.Errorf("%w: 0x%02X", ErrMalformedConnackCode, b)
	}
	return ConnackCode(b), nil
}
