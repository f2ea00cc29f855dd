package packet

import (
	"bytes"
	"fmt"
	"io"
)

// SUBACK 订阅确认报文
//
// MQTT v3.1.1: 参考章节 3.9 SUBACK - Subscribe acknowledgement
//
// 报文结构:
// 固定报头: 报文类型0x09，标志位必须为0
// 可变报头: 报文标识符
// 载荷: 返回码列表, 剩余长度减2个字节, 每个字节对应SUBSCRIBE报文中的一个订阅
//
// 返回码值:
// - 0x00: 最大 QoS 0
// - 0x01: 最大 QoS 1
// - 0x02: 最大 QoS 2
// - 0x80: 失败
// SUBACK报文中的返回码必须使用上述值, 其它值都是保留的 [MQTT-3.9.3-2]
type SUBACK struct {
	// PacketID 报文标识符, 与对应的SUBSCRIBE相同
	PacketID uint16 `json:"PacketID"`

	// ReturnCodes 返回码列表, 顺序与SUBSCRIBE报文中的订阅顺序一致
	ReturnCodes []ReturnCode `json:"ReturnCodes,omitempty"`
}

func (pkt *SUBACK) Kind() byte {
	return 0x9
}

func (pkt *SUBACK) Flags() byte {
	return 0
}

func (pkt *SUBACK) Len() uint32 {
	return 2 + uint32(len(pkt.ReturnCodes))
}

func (pkt *SUBACK) String() string {
	return fmt.Sprintf("[0x9]SUBACK: PacketID=%d, ReturnCodes=%v", pkt.PacketID, pkt.ReturnCodes)
}

func (pkt *SUBACK) Pack(w io.Writer) error {
	for _, code := range pkt.ReturnCodes {
		if _, err := decodeReturnCode(byte(code)); err != nil {
			return err
		}
	}
	e := &encoder{w: w}
	e.putUint16(pkt.PacketID)
	for _, code := range pkt.ReturnCodes {
		e.putUint8(byte(code))
	}
	return e.err
}

func (pkt *SUBACK) Unpack(ctx *DecodeContext, buf *bytes.Buffer) error {
	if err := ctx.expectFlags(0); err != nil {
		return err
	}
	id, err := readUint16(buf)
	if err != nil {
		return err
	}
	var codes []ReturnCode
	for buf.Len() != 0 {
		b, err := readUint8(buf)
		if err != nil {
			return err
		}
		code, err := decodeReturnCode(b)
		if err != nil {
			return err
		}
		codes = append(codes, code)
	}
	pkt.PacketID, pkt.ReturnCodes = id, codes
	return nil
}

// ReturnCode SUBACK 中每个订阅的处理结果: 授予的最大QoS, 或失败
type ReturnCode byte

// Failure 0x80 订阅失败
const Failure ReturnCode = 0x80

// Granted 返回授予 qos 的成功返回码
func Granted(qos QoS) ReturnCode {
	return ReturnCode(qos)
}

// Success 是否为成功返回码
func (c ReturnCode) Success() bool {
	return c != Failure
}

// QoS 成功时授予的最大QoS, 失败时无意义
func (c ReturnCode) QoS() QoS {
	return QoS(c)
}

func (c ReturnCode) String() string {
	if c == Failure {
		return "Failure"
	}
	return fmt.Sprintf("Success(%s)", c.QoS())
}

func decodeReturnCode(b byte) (ReturnCode, error) {
	switch b {
	case byte(AtMostOnce), byte(AtLeastOnce), byte(ExactlyOnce), byte(Failure):
		return ReturnCode(b), nil
	}
	return 0, fmt.Errorf("%w: 0x%02X", ErrMalformedReturnCode, b)
}
