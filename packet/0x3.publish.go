package packet

import (
	"bytes"
	"fmt"
	"io"
)

// PUBLISH 发布消息报文
//
// MQTT v3.1.1: 参考章节 3.3 PUBLISH - Publish message
//
// 报文结构:
// 固定报头: 报文类型0x03，标志位包含DUP、QoS、RETAIN
// 可变报头: 主题名、报文标识符(QoS>0时)
// 载荷: 应用消息, 剩余长度减去可变报头之后的全部字节, 包含零长度有效载荷的Publish报文是合法的
//
// 标志位规则:
// - DUP: 表示重复发送
// - QoS: 0(最多一次)、1(至少一次)、2(恰好一次), 3为非法值 [MQTT-3.3.1-4]
// - RETAIN: 表示消息是否应该被服务端保留
type PUBLISH struct {
	Dup    bool `json:"Dup"`    // 固定报头 bit 3
	QoS    QoS  `json:"QoS"`    // 固定报头 bits 2-1
	Retain bool `json:"Retain"` // 固定报头 bit 0

	// TopicName 主题名
	// 参考章节: 3.3.2.1 Topic Name
	TopicName string `json:"TopicName"`

	// PacketID 报文标识符
	// 参考章节: 2.3.1 Packet Identifier
	// 要求:
	// - QoS = 0: 不能包含报文标识符 [MQTT-2.3.1-5], 编码时忽略此字段, 解码结果为 0
	// - QoS > 0: 必须包含报文标识符
	PacketID uint16 `json:"PacketID,omitempty"`

	// Payload 应用消息, 原始字节, 不做UTF-8校验
	// 参考章节: 3.3.3 PUBLISH Payload
	// 线上无法区分 nil 与空切片, 零长度载荷解码为 nil
	Payload []byte `json:"Payload,omitempty"`
}

func (pkt *PUBLISH) Kind() byte {
	return 0x3
}

func (pkt *PUBLISH) Flags() byte {
	var f byte
	if pkt.Dup {
		f |= 0b1000
	}
	f |= byte(pkt.QoS&0x03) << 1
	if pkt.Retain {
		f |= 0b0001
	}
	return f
}

func (pkt *PUBLISH) Len() uint32 {
	n := stringLen(pkt.TopicName) + uint32(len(pkt.Payload))
	if pkt.QoS != AtMostOnce {
		n += 2
	}
	return n
}

func (pkt *PUBLISH) String() string {
	return fmt.Sprintf("[0x3]PUBLISH: Topic=%s, QoS=%d, PacketID=%d, Dup=%v, Retain=%v, Payload=%d bytes",
		pkt.TopicName, pkt.QoS, pkt.PacketID, pkt.Dup, pkt.Retain, len(pkt.Payload))
}

func (pkt *PUBLISH) Pack(w io.Writer) error {
	if _, err := decodeQoS(byte(pkt.QoS)); err != nil {
		return err
	}
	e := &encoder{w: w}
	e.putString(pkt.TopicName)
	// QoS 设置为 0 的 Publish 报文不能包含报文标识符 [MQTT-2.3.1-5]。
	if pkt.QoS != AtMostOnce {
		e.putUint16(pkt.PacketID)
	}
	e.write(pkt.Payload)
	return e.err
}

func (pkt *PUBLISH) Unpack(ctx *DecodeContext, buf *bytes.Buffer) error {
	qos, err := decodeQoS(ctx.Header.QoS())
	if err != nil {
		return err
	}
	p := PUBLISH{Dup: ctx.Header.Dup(), QoS: qos, Retain: ctx.Header.Retain()}

	if p.TopicName, err = readString(buf); err != nil {
		return err
	}
	if qos != AtMostOnce {
		if p.PacketID, err = readUint16(buf); err != nil {
			return err
		}
	}
	if buf.Len() > 0 {
		p.Payload = bytes.Clone(buf.Next(buf.Len()))
	}
	*pkt = p
	return nil
}
