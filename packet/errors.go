package packet

import (
	"errors"
	"fmt"
)

/*
================================================================================
MQTT v3.1.1 编解码错误
================================================================================

参考文档:
- MQTT v3.1.1: 章节 1.5.3 UTF-8 encoded strings, 章节 2.2 Fixed header, 章节 4.8 Handling errors

错误分为四类:
1. ClassIO        底层读写失败(短读、连接断开), 原样向上抛出
2. ClassUTF8      字符串不是合法的UTF-8编码
3. ClassMalformed 已知报文的结构违规(标志位、剩余长度、枚举字节越界、保留位)
4. ClassForbidden 保留或未知的报文类型(0x0, 0xF)

Malformed 与 Forbidden 分开: 前者是"坏掉的已知报文", 后者是"根本不认识的报文",
调用方可以选择不同的处理方式(丢弃并记录 vs 直接断开连接)。
================================================================================
*/

// Class is the category of a codec failure.
type Class uint8

const (
	ClassNone Class = iota
	ClassIO
	ClassUTF8
	ClassMalformed
	ClassForbidden
)

var className = map[Class]string{
	ClassNone:      "none",
	ClassIO:        "io",
	ClassUTF8:      "utf8",
	ClassMalformed: "malformed",
	ClassForbidden: "forbidden",
}

func (c Class) String() string {
	if name, ok := className[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", uint8(c))
}

// Error is a codec failure. The sentinels with an empty Reason stand for a
// whole class: errors.Is(err, ErrMalformed) holds for every malformed error.
type Error struct {
	Class  Class
	Reason string
}

func (e Error) Error() string {
	if e.Reason == "" {
		switch e.Class {
		case ClassIO:
			return "i/o error"
		case ClassMalformed:
			return "malformed packet"
		}
		return e.Class.String()
	}
	return e.Reason
}

// Is matches e against a class-wide sentinel.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Reason == "" && t.Class == e.Class
}

var (
	// ErrIO 底层字节源/字节汇失败, 具体错误通过 %w 保留, errors.Is(err, io.EOF) 依然成立
	ErrIO = Error{Class: ClassIO}

	// ErrMalformed 任意结构违规
	ErrMalformed = Error{Class: ClassMalformed}

	// ErrInvalidUTF8 字符串字节不是合法UTF-8
	// 参考: MQTT v3.1.1 章节 1.5.3 [MQTT-1.5.3-1]
	ErrInvalidUTF8 = Error{Class: ClassUTF8, Reason: "malformed packet: invalid utf-8 string"}

	// ErrForbidden 报文类型 0 和 15 在 v3.1.1 中保留
	// 参考: MQTT v3.1.1 章节 2.2.1 MQTT Control Packet type
	ErrForbidden = Error{Class: ClassForbidden, Reason: "forbidden packet type"}

	// 各种格式错误的具体类型
	ErrMalformedRemainingLength = Error{Class: ClassMalformed, Reason: "malformed packet: remaining length exceeds 4 bytes"}
	ErrPacketTooLarge           = Error{Class: ClassMalformed, Reason: "malformed packet: packet too large"}
	ErrMalformedFlags           = Error{Class: ClassMalformed, Reason: "malformed packet: flags"}
	ErrMalformedLength          = Error{Class: ClassMalformed, Reason: "malformed packet: remaining length"}
	ErrMalformedTruncated       = Error{Class: ClassMalformed, Reason: "malformed packet: field exceeds remaining length"}
	ErrMalformedTrailingBytes   = Error{Class: ClassMalformed, Reason: "malformed packet: trailing bytes"}
	ErrMalformedProtocolName    = Error{Class: ClassMalformed, Reason: "malformed packet: protocol name"}
	ErrMalformedReservedBit     = Error{Class: ClassMalformed, Reason: "malformed packet: reserved bit not 0"}
	ErrMalformedQos             = Error{Class: ClassMalformed, Reason: "malformed packet: qos"}
	ErrMalformedWill            = Error{Class: ClassMalformed, Reason: "malformed packet: will qos or retain without will flag"}
	ErrMalformedSessionPresent  = Error{Class: ClassMalformed, Reason: "malformed packet: session present"}
	ErrMalformedConnackCode     = Error{Class: ClassMalformed, Reason: "malformed packet: connack return code"}
	ErrMalformedReturnCode      = Error{Class: ClassMalformed, Reason: "malformed packet: return code"}
)

// ErrorClass returns the class of err, ClassNone for nil. Errors that did not
// come from the codec are reported as ClassIO.
func ErrorClass(err error) Class {
	if err == nil {
		return ClassNone
	}
	var e Error
	if errors.As(err, &e) {
		return e.Class
	}
	return ClassIO
}

func ioErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}

func truncated(field string, need, have int) error {
	return fmt.Errorf("%w: %s needs %d bytes, %d left", ErrMalformedTruncated, field, need, have)
}
