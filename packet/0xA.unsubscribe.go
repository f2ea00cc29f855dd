package packet

import (
	"bytes"
	"fmt"
	"io"
)

// UNSUBSCRIBE 取消订阅报文
//
// MQTT v3.1.1: 参考章节 3.10 UNSUBSCRIBE - Unsubscribe from topics
//
// 报文结构:
// 固定报头: 报文类型0x0A，标志位必须为DUP=0, QoS=1, RETAIN=0 [MQTT-3.10.1-1]
// 可变报头: 报文标识符
// 载荷: 主题过滤器列表, 由剩余长度界定
type UNSUBSCRIBE struct {
	PacketID     uint16   `json:"PacketID"`
	TopicFilters []string `json:"TopicFilters,omitempty"`
}

func (pkt *UNSUBSCRIBE) Kind() byte {
	return 0xA
}

func (pkt *UNSUBSCRIBE) Flags() byte {
	return 0b0010
}

func (pkt *UNSUBSCRIBE) Len() uint32 {
	return 2 + sequenceLen(pkt.TopicFilters, stringLen)
}

func (pkt *UNSUBSCRIBE) String() string {
	return fmt.Sprintf("[0xA]UNSUBSCRIBE: PacketID=%d, TopicFilters=%v", pkt.PacketID, pkt.TopicFilters)
}

func (pkt *UNSUBSCRIBE) Pack(w io.Writer) error {
	e := &encoder{w: w}
	e.putUint16(pkt.PacketID)
	for _, filter := range pkt.TopicFilters {
		e.putString(filter)
	}
	return e.err
}

func (pkt *UNSUBSCRIBE) Unpack(ctx *DecodeContext, buf *bytes.Buffer) error {
	if err := ctx.expectFlags(pkt.Flags()); err != nil {
		return err
	}
	id, err := readUint16(buf)
	if err != nil {
		return err
	}
	var filters []string
	for buf.Len() != 0 {
		filter, err := readString(buf)
		if err != nil {
			return err
		}
		filters = append(filters, filter)
	}
	pkt.PacketID, pkt.TopicFilters = id, filters
	return nil
}
