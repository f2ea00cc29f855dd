package packet

import (
	"bytes"
	"fmt"
	"io"
)

// Packet 定义了MQTT v3.1.1控制报文的通用接口
//
// 参考章节: 2.1 Structure of an MQTT Control Packet
// - 每个MQTT控制报文都包含固定报头, 某些报文还包含可变报头和载荷
// - 固定报头不属于报文的值: 解码时由 DecodeContext 传给报文体, 编码时由 Kind/Flags/Len 重新计算
type Packet interface {
	// Kind 返回报文的类型标识符
	// - 位置: 固定报头第1字节的bits 7-4
	// - 范围: 0x01-0x0E (CONNECT到DISCONNECT), 0x00和0x0F保留
	Kind() byte

	// Flags 返回固定报头第1字节的bits 3-0
	// - PUBLISH: DUP, QoS, RETAIN
	// - PUBREL, SUBSCRIBE, UNSUBSCRIBE: 固定为0b0010
	// - 其余报文: 固定为0
	Flags() byte

	// Len 返回报文体(可变报头+载荷)编码后的字节数, 即固定报头中的剩余长度
	// Pack 写出的字节数必须恰好等于 Len
	Len() uint32

	// Pack 将报文体序列化到写入器, 不包含固定报头
	Pack(io.Writer) error

	// Unpack 从缓冲区解析报文体
	// - buf 恰好包含剩余长度个字节, 解析器不可能读到下一个报文
	// - ctx.Header 是刚解析出的固定报头, 需要标志位或剩余长度的解析器从这里读取
	Unpack(ctx *DecodeContext, buf *bytes.Buffer) error
}

// Decoder reads packets from a byte stream. The zero value accepts any packet
// the protocol allows.
type Decoder struct {
	// MaxRemainingLength rejects larger packets before their body is read.
	// 0 means MaxRemainingLength (268,435,455).
	MaxRemainingLength uint32
}

func (d *Decoder) limit() uint32 {
	if d == nil || d.MaxRemainingLength == 0 || d.MaxRemainingLength > MaxRemainingLength {
		return MaxRemainingLength
	}
	return d.MaxRemainingLength
}

// Decode reads exactly one packet from r.
//
// 解析流程参考章节 2.1 Structure of an MQTT Control Packet:
// 1. 解析固定报头获取报文类型、标志位和剩余长度, 存入 DecodeContext
// 2. 根据报文类型创建对应的报文结构, 保留类型(0x0, 0xF)直接返回 ErrForbidden
// 3. 读取恰好剩余长度个字节, 解析可变报头和载荷
// 4. 报文体解析完成后不允许有剩余字节
//
// On failure no packet is returned. r is never read past the end of the
// packet, but a failed decode may leave r inside the packet.
func (d *Decoder) Decode(r io.Reader) (Packet, error) {
	ctx := &DecodeContext{}
	fixed := &FixedHeader{}
	if err := fixed.Unpack(r, ctx); err != nil {
		return nil, err
	}

	pkt, err := newPacket(fixed.Kind)
	if err != nil {
		return nil, err
	}

	if limit := d.limit(); fixed.RemainingLength > limit {
		return nil, fmt.Errorf("%w: %s Len=%d, limit=%d", ErrPacketTooLarge, Kind[fixed.Kind], fixed.RemainingLength, limit)
	}

	buf := GetBuffer()
	defer PutBuffer(buf)

	lr := io.LimitReader(r, int64(fixed.RemainingLength))
	if _, err := buf.ReadFrom(lr); err != nil {
		return nil, ioErr(err)
	}
	if uint32(buf.Len()) != fixed.RemainingLength {
		return nil, fmt.Errorf("%w: %s body %d of %d bytes: %w", ErrIO, Kind[fixed.Kind], buf.Len(), fixed.RemainingLength, io.ErrUnexpectedEOF)
	}

	if err := pkt.Unpack(ctx, buf); err != nil {
		return nil, fmt.Errorf("%s: %w", Kind[fixed.Kind], err)
	}
	if buf.Len() != 0 {
		return nil, fmt.Errorf("%w: %s %d bytes left", ErrMalformedTrailingBytes, Kind[fixed.Kind], buf.Len())
	}
	return pkt, nil
}

// Decode reads exactly one packet from r with a fresh DecodeContext.
func Decode(r io.Reader) (Packet, error) {
	return (&Decoder{}).Decode(r)
}

// Header synthesises the fixed header of pkt.
func Header(pkt Packet) FixedHeader {
	return FixedHeader{Kind: pkt.Kind(), Flags: pkt.Flags(), RemainingLength: pkt.Len()}
}

// Size is the number of bytes Encode writes for pkt.
func Size(pkt Packet) int {
	fixed := Header(pkt)
	return fixed.Size() + int(fixed.RemainingLength)
}

// Encode writes pkt, fixed header first, to w with a single Write call.
func Encode(w io.Writer, pkt Packet) error {
	buf := GetBuffer()
	defer PutBuffer(buf)

	fixed := Header(pkt)
	if err := fixed.Pack(buf); err != nil {
		return err
	}
	// 枚举字段越界时不写出任何字节
	if err := pkt.Pack(buf); err != nil {
		return fmt.Errorf("%s: %w", Kind[pkt.Kind()&0x0F], err)
	}
	_, err := buf.WriteTo(w)
	return ioErr(err)
}

// newPacket 根据报文类型创建对应的报文结构
func newPacket(kind byte) (Packet, error) {
	switch kind {
	case 0x1: // CONNECT - 客户端请求连接服务端, 参考章节 3.1
		return &CONNECT{}, nil
	case 0x2: // CONNACK - 连接确认, 参考章节 3.2
		return &CONNACK{}, nil
	case 0x3: // PUBLISH - 发布消息, 参考章节 3.3
		return &PUBLISH{}, nil
	case 0x4: // PUBACK - 发布确认(QoS 1), 参考章节 3.4
		return &PUBACK{}, nil
	case 0x5: // PUBREC - 发布收到(QoS 2第一步), 参考章节 3.5
		return &PUBREC{}, nil
	case 0x6: // PUBREL - 发布释放(QoS 2第二步), 参考章节 3.6
		return &PUBREL{}, nil
	case 0x7: // PUBCOMP - 发布完成(QoS 2第三步), 参考章节 3.7
		return &PUBCOMP{}, nil
	case 0x8: // SUBSCRIBE - 订阅请求, 参考章节 3.8
		return &SUBSCRIBE{}, nil
	case 0x9: // SUBACK - 订阅确认, 参考章节 3.9
		return &SUBACK{}, nil
	case 0xA: // UNSUBSCRIBE - 取消订阅, 参考章节 3.10
		return &UNSUBSCRIBE{}, nil
	case 0xB: // UNSUBACK - 取消订阅确认, 参考章节 3.11
		return &UNSUBACK{}, nil
	case 0xC: // PINGREQ - 心跳请求, 参考章节 3.12
		return &PINGREQ{}, nil
	case 0xD: // PINGRESP - 心跳响应, 参考章节 3.13
		return &PINGRESP{}, nil
	case 0xE: // DISCONNECT - 断开连接, 参考章节 3.14
		return &DISCONNECT{}, nil
	default: // 0x0, 0xF: 保留, 参考章节 2.2.1
		return nil, fmt.Errorf("%w: %s", ErrForbidden, Kind[kind&0x0F])
	}
}
