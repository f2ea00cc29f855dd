package packet

import (
	"bytes"
	"fmt"
	"io"
)

// PUBREL 发布释放报文 (QoS 2第二步)
//
// MQTT v3.1.1: 参考章节 3.6 PUBREL - Publish release (QoS 2 publish received, part 2)
//
// 报文结构:
// 固定报头: 报文类型0x06，标志位必须为DUP=0, QoS=1, RETAIN=0
// 可变报头: 报文标识符
// 载荷: 无载荷
//
// 标志位规则:
// - PUBREL 控制报文固定报头的第 3,2,1,0 位是保留位，必须被设置为 0,0,1,0 [MQTT-3.6.1-1]
type PUBREL struct {
	PacketID uint16 `json:"PacketID"` // 报文标识符
}

func (pkt *PUBREL) Kind() byte {
	return 0x6
}

func (pkt *PUBREL) Flags() byte {
	return 0b0010
}

func (pkt *PUBREL) Len() uint32 {
	return 2
}

func (pkt *PUBREL) String() string {
	return fmt.Sprintf("[0x6]PUBREL: PacketID=%d", pkt.PacketID)
}

func (pkt *PUBREL) Pack(w io.Writer) error {
	return packPacketID(w, pkt.PacketID)
}

func (pkt *PUBREL) Unpack(ctx *DecodeContext, buf *bytes.Buffer) error {
	// 服务端必须将其它的任何值都当做是不合法的并关闭网络连接 [MQTT-3.6.1-1]。
	if err := ctx.expectFlags(pkt.Flags()); err != nil {
		return err
	}
	return unpackPacketID(buf, &pkt.PacketID)
}
