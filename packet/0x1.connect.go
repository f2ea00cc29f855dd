package packet

import (
	"bytes"
	"fmt"
	"io"
)

// NAME 协议名，固定为"MQTT"
// MQTT v3.1.1: 参考章节 3.1.2.1 Protocol Name
// 编码: 0x00 0x04 'M' 'Q' 'T' 'T'
var NAME = []byte{0x00, 0x04, 'M', 'Q', 'T', 'T'}

// CONNECT 客户端连接请求报文
//
// MQTT v3.1.1: 参考章节 3.1 CONNECT - Client requests a connection to a Server
//
// 报文结构:
// 固定报头: 报文类型0x01，标志位必须为0
// 可变报头: 协议名、协议级别、连接标志、保持连接
// 载荷: 客户端ID、遗嘱主题和遗嘱消息(可选)、用户名(可选)、密码(可选)
//
// 连接标志不单独存储: 编码时由 CleanSession、Will、Username、Password 是否存在计算得出。
type CONNECT struct {
	// ProtocolLevel 协议级别
	// 参考章节: 3.1.2.2 Protocol Level
	// v3.1.1 为 4 (VERSION311)。编解码器原样传递, 是否接受由服务端决定。
	ProtocolLevel byte `json:"ProtocolLevel"`

	// CleanSession 清理会话标志, 连接标志 bit 1
	// 参考章节: 3.1.2.4 Clean Session
	CleanSession bool `json:"CleanSession"`

	// KeepAlive 保持连接时间间隔, 单位: 秒, 0表示禁用
	// 参考章节: 3.1.2.10 Keep Alive
	KeepAlive uint16 `json:"KeepAlive"`

	// ClientID 客户端标识符, 可以为空字符串
	// 参考章节: 3.1.3.1 Client Identifier
	ClientID string `json:"ClientID"`

	// Will 遗嘱, 非nil时设置 WillFlag 并在载荷中写入遗嘱主题和遗嘱消息
	// 参考章节: 3.1.2.5 Will Flag, 3.1.3.2 Will Topic, 3.1.3.3 Will Message
	Will *Will `json:"Will,omitempty"`

	// Username 用户名, 非nil时设置 UserNameFlag
	// 参考章节: 3.1.3.4 User Name
	Username *string `json:"Username,omitempty"`

	// Password 密码, 非nil时设置 PasswordFlag
	// 参考章节: 3.1.3.5 Password
	Password *string `json:"Password,omitempty"`
}

// Will 遗嘱消息
type Will struct {
	Topic   string `json:"Topic"`
	Message string `json:"Message"`
	QoS     QoS    `json:"QoS"`    // 连接标志 bits 4-3
	Retain  bool   `json:"Retain"` // 连接标志 bit 5
}

func (pkt *CONNECT) Kind() byte {
	return 0x1
}

func (pkt *CONNECT) Flags() byte {
	return 0
}

func (pkt *CONNECT) String() string {
	return fmt.Sprintf("[0x1]CONNECT: ClientID=%q, Level=%d, Flags=%08b, KeepAlive=%d", pkt.ClientID, pkt.ProtocolLevel, uint8(pkt.ConnectFlags()), pkt.KeepAlive)
}

// ConnectFlags 根据字段计算连接标志字节
func (pkt *CONNECT) ConnectFlags() ConnectFlags {
	var f uint8
	if pkt.CleanSession {
		f |= 0x02
	}
	if pkt.Will != nil {
		f |= 0x04
		f |= uint8(pkt.Will.QoS&0x03) << 3
		if pkt.Will.Retain {
			f |= 0x20
		}
	}
	if pkt.Password != nil {
		f |= 0x40
	}
	if pkt.Username != nil {
		f |= 0x80
	}
	return ConnectFlags(f)
}

func (pkt *CONNECT) Len() uint32 {
	n := uint32(len(NAME)) + 1 + 1 + 2 // 协议名 + 协议级别 + 连接标志 + 保持连接
	n += stringLen(pkt.ClientID)
	if pkt.Will != nil {
		n += stringLen(pkt.Will.Topic) + stringLen(pkt.Will.Message)
	}
	return n + optionalLen(pkt.Username) + optionalLen(pkt.Password)
}

// Pack 将CONNECT报文体序列化到写入器
// 参考章节: 3.1 CONNECT - Client requests a connection to a Server
// 序列化顺序:
// 1. 可变报头: 协议名、协议级别、连接标志、保持连接
// 2. 载荷: 客户端ID、遗嘱主题、遗嘱消息、用户名、密码
func (pkt *CONNECT) Pack(w io.Writer) error {
	if pkt.Will != nil {
		if _, err := decodeQoS(byte(pkt.Will.QoS)); err != nil {
			return err
		}
	}
	e := &encoder{w: w}
	e.write(NAME)
	e.putUint8(pkt.ProtocolLevel)
	e.putUint8(uint8(pkt.ConnectFlags()))
	e.putUint16(pkt.KeepAlive)

	e.putString(pkt.ClientID)
	if pkt.Will != nil {
		e.putString(pkt.Will.Topic)
		e.putString(pkt.Will.Message)
	}
	e.putOptional(pkt.Username)
	e.putOptional(pkt.Password)
	return e.err
}

func (pkt *CONNECT) Unpack(ctx *DecodeContext, buf *bytes.Buffer) error {
	if err := ctx.expectFlags(0); err != nil {
		return err
	}

	if buf.Len() < len(NAME) {
		return truncated("protocol name", len(NAME), buf.Len())
	}
	if name := buf.Next(len(NAME)); !bytes.Equal(name, NAME) {
		return fmt.Errorf("%w: %q", ErrMalformedProtocolName, name)
	}

	var c CONNECT
	var err error
	if c.ProtocolLevel, err = readUint8(buf); err != nil {
		return err
	}
	flag, err := readUint8(buf)
	if err != nil {
		return err
	}
	flags := ConnectFlags(flag)

	// The Server MUST validate that the reserved flag in the CONNECT Control Packet is set to zero and
	// disconnect the Client if it is not zero [MQTT-3.1.2-3].
	if flags.Reserved() != 0 {
		return ErrMalformedReservedBit
	}

	// 如果遗嘱标志被设置为 1，遗嘱 QoS 的值可以等于 0(0x00)，1(0x01)，2(0x02)。它的值不能等于 3 [MQTT-3.1.2-14]。
	willQoS, err := decodeQoS(flags.WillQoS())
	if err != nil {
		return err
	}
	// 如果遗嘱标志被设置为 0，连接标志中的Will QoS 和 Will Retain 字段必须设置为 0 [MQTT-3.1.2-11] [MQTT-3.1.2-13] [MQTT-3.1.2-15]。
	if !flags.WillFlag() && (willQoS != AtMostOnce || flags.WillRetain()) {
		return ErrMalformedWill
	}
	c.CleanSession = flags.CleanSession()

	if c.KeepAlive, err = readUint16(buf); err != nil {
		return err
	}
	if c.ClientID, err = readString(buf); err != nil {
		return err
	}

	// 如果遗嘱标志被设置为 1，有效载荷中必须包含Will Topic 和Will Message 字段 [MQTT-3.1.2-9]。
	if flags.WillFlag() {
		will := &Will{QoS: willQoS, Retain: flags.WillRetain()}
		if will.Topic, err = readString(buf); err != nil {
			return err
		}
		if will.Message, err = readString(buf); err != nil {
			return err
		}
		c.Will = will
	}

	// 如果用户名（User Name）标志被设置为 1，有效载荷中必须包含用户名字段 [MQTT-3.1.2-19]。
	if c.Username, err = readOptional(buf, flags.UserNameFlag()); err != nil {
		return err
	}
	// 如果密码（Password）标志被设置为 0，有效载荷中不能包含密码字段 [MQTT-3.1.2-20]。
	if c.Password, err = readOptional(buf, flags.PasswordFlag()); err != nil {
		return err
	}
	*pkt = c
	return nil
}

// ConnectFlags 连接标志，8位标志字段
// 参考章节: 3.1.2.3 Connect Flags
// 位置: 可变报头第8字节
// 标志位定义:
// - bit 7: UserNameFlag - 用户名标志
// - bit 6: PasswordFlag - 密码标志
// - bit 5: WillRetain - 遗嘱保留标志
// - bit 4-3: WillQoS - 遗嘱QoS等级
// - bit 2: WillFlag - 遗嘱标志
// - bit 1: CleanSession - 清理会话标志
// - bit 0: Reserved - 保留位，必须为0
type ConnectFlags uint8

// Reserved 保留位，位置: bit 0
func (f ConnectFlags) Reserved() uint8 {
	return uint8(f) & 0x01
}

// CleanSession 清理会话标志，位置: bit 1
// 值:
// - 0: 使用已存在的会话状态
// - 1: 丢弃之前的会话并创建新会话
func (f ConnectFlags) CleanSession() bool {
	return (uint8(f) & 0x02) == 0x02
}

// WillFlag 遗嘱标志，位置: bit 2
// 注意: 如果此标志为1，则必须包含遗嘱主题和遗嘱消息
func (f ConnectFlags) WillFlag() bool {
	return (uint8(f) & 0x04) == 0x04
}

// WillQoS 遗嘱QoS等级，位置: bits 4-3
// 注意: 原始值可能为3, 由解码器拒绝
func (f ConnectFlags) WillQoS() uint8 {
	return (uint8(f) & 0x18) >> 3
}

// WillRetain 遗嘱保留标志，位置: bit 5
func (f ConnectFlags) WillRetain() bool {
	return (uint8(f) & 0x20) == 0x20
}

// UserNameFlag 用户名标志，位置: bit 7
func (f ConnectFlags) UserNameFlag() bool {
	return (uint8(f) & 0x80) == 0x80
}

// PasswordFlag 密码标志，位置: bit 6
func (f ConnectFlags) PasswordFlag() bool {
	return (uint8(f) & 0x40) == 0x40
}
