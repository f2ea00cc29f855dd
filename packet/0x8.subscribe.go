package packet

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// SUBSCRIBE 订阅请求报文
//
// MQTT v3.1.1: 参考章节 3.8 SUBSCRIBE - Subscribe to topics
//
// 报文结构:
// 固定报头: 报文类型0x08，标志位必须为DUP=0, QoS=1, RETAIN=0
// 可变报头: 报文标识符
// 载荷: 订阅列表，每个订阅包含主题过滤器和服务质量要求
//
// 载荷没有数量前缀, 由剩余长度界定: 解码循环到缓冲区耗尽为止。
// 空订阅列表可以编解码, 是否违反 [MQTT-3.8.3-3] 由服务端判断。
type SUBSCRIBE struct {
	// PacketID 报文标识符
	// 参考章节: 2.3.1 Packet Identifier
	PacketID uint16 `json:"PacketID"`

	// Subscriptions 订阅列表
	// 参考章节: 3.8.3 SUBSCRIBE Payload
	Subscriptions []Subscription `json:"Subscriptions,omitempty"`
}

func (pkt *SUBSCRIBE) Kind() byte {
	return 0x8
}

func (pkt *SUBSCRIBE) Flags() byte {
	return 0b0010
}

func (pkt *SUBSCRIBE) Len() uint32 {
	return 2 + sequenceLen(pkt.Subscriptions, Subscription.Len)
}

func (pkt *SUBSCRIBE) String() string {
	subs := make([]string, len(pkt.Subscriptions))
	for i, s := range pkt.Subscriptions {
		subs[i] = s.String()
	}
	return fmt.Sprintf("[0x8]SUBSCRIBE: PacketID=%d, Subscriptions=[%s]", pkt.PacketID, strings.Join(subs, ", "))
}

func (pkt *SUBSCRIBE) Pack(w io.Writer) error {
	for _, subscription := range pkt.Subscriptions {
		if _, err := decodeQoS(byte(subscription.QoS)); err != nil {
			return err
		}
	}
	e := &encoder{w: w}
	e.putUint16(pkt.PacketID)
	for _, subscription := range pkt.Subscriptions {
		e.putString(subscription.TopicFilter)
		e.putUint8(byte(subscription.QoS))
	}
	return e.err
}

func (pkt *SUBSCRIBE) Unpack(ctx *DecodeContext, buf *bytes.Buffer) error {
	// SUBSCRIBE 控制报固定报头的第 3,2,1,0 位是保留位，必须分别设置为 0,0,1,0。
	// 服务端必须将其它的任何值都当做是不合法的并关闭网络连接 [MQTT-3.8.1-1]。
	if err := ctx.expectFlags(pkt.Flags()); err != nil {
		return err
	}
	id, err := readUint16(buf)
	if err != nil {
		return err
	}
	var subscriptions []Subscription
	for buf.Len() != 0 {
		subscription := Subscription{}
		if subscription.TopicFilter, err = readString(buf); err != nil {
			return err
		}
		options, err := readUint8(buf)
		if err != nil {
			return err
		}
		// 服务端必须检查保留位, 保留位不为0或者QoS不是0,1,2时必须关闭网络连接 [MQTT-3.8.3-4]。
		if subscription.QoS, err = decodeQoS(options); err != nil {
			return err
		}
		subscriptions = append(subscriptions, subscription)
	}
	pkt.PacketID, pkt.Subscriptions = id, subscriptions
	return nil
}

// Subscription 订阅项
// 参考章节: 3.8.3 SUBSCRIBE Payload
type Subscription struct {
	// TopicFilter 主题过滤器, 支持通配符 + 和 #
	TopicFilter string `json:"TopicFilter"`

	// QoS 服务质量要求, 订阅选项字节的 bits 1-0, bits 7-2 保留
	QoS QoS `json:"QoS"`
}

// Len 主题过滤器(含长度前缀) + 1字节服务质量要求
func (s Subscription) Len() uint32 {
	return stringLen(s.TopicFilter) + 1
}

func (s Subscription) String() string {
	return fmt.Sprintf("%s@%d", s.TopicFilter, s.QoS)
}
