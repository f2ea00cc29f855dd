package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

const (
	VERSION311 byte = 0x4

	max1 = 0x7F      // 127
	max2 = 0x3FFF    // 16383
	max3 = 0x1FFFFF  // 2097151
	max4 = 0xFFFFFFF // 268435455

	// MaxRemainingLength is the largest value the 4-byte remaining length can hold.
	MaxRemainingLength uint32 = max4

	maxLengthBytes = 4

	KB = 1024 * 1
	MB = 1024 * KB
)

// Kind Control packet types. Position: byte 1, bits 7-4
var Kind = map[byte]string{
	0x0: "[0x0]RESERVED",    // Forbidden 					Reserved
	0x1: "[0x1]CONNECT",     // 客户端到服务端 客户端请求连接服务端
	0x2: "[0x2]CONNACK",     // 服务端到客户端 连接报文确认
	0x3: "[0x3]PUBLISH",     // Client to Server or Server to Client Publish message
	0x4: "[0x4]PUBACK",      // Client to Server or Server to Client Publish acknowledgment
	0x5: "[0x5]PUBREC",      // Client to Server or Server to Client Publish received (assured delivery part 1)
	0x6: "[0x6]PUBREL",      // Client to Server or Server to Client Publish release (assured delivery part 2)
	0x7: "[0x7]PUBCOMP",     // Client to Server or Server to Client Publish complete (assured delivery part 3)
	0x8: "[0x8]SUBSCRIBE",   // Client to Server Client subscribe request
	0x9: "[0x9]SUBACK",      // Server to Client Subscribe acknowledgment
	0xA: "[0xA]UNSUBSCRIBE", // Client to Server Unsubscribe request
	0xB: "[0xB]UNSUBACK",    // Server to Client Unsubscribe acknowledgment
	0xC: "[0xC]PINGREQ",     // Client to Server PING request
	0xD: "[0xD]PINGRESP",    // Server to Client PING response
	0xE: "[0xE]DISCONNECT",  // Client to Server Client is disconnecting
	0xF: "[0xF]RESERVED",    // MQTT 3.1.1: Forbidden Reserved
}

// QoS 服务质量等级
// 参考: MQTT v3.1.1 章节 4.3 Quality of Service levels and protocol flows
// 二进制 11 (3) 是保留值, 必须按格式错误处理 [MQTT-3.3.1-4]
type QoS byte

const (
	AtMostOnce  QoS = 0x0
	AtLeastOnce QoS = 0x1
	ExactlyOnce QoS = 0x2
)

func (q QoS) String() string {
	switch q {
	case AtMostOnce:
		return "AtMostOnce"
	case AtLeastOnce:
		return "AtLeastOnce"
	case ExactlyOnce:
		return "ExactlyOnce"
	}
	return fmt.Sprintf("QoS(%d)", byte(q))
}

func decodeQoS(bits byte) (QoS, error) {
	if bits > byte(ExactlyOnce) {
		return 0, fmt.Errorf("%w: %d", ErrMalformedQos, bits)
	}
	return QoS(bits), nil
}

// encodeLength writes v as the 1-4 byte variable length integer, least
// significant 7-bit group first.
// 参考: MQTT v3.1.1 章节 2.2.3 Remaining Length
func encodeLength[T ~uint32 | ~int | ~int64](v T) ([]byte, error) {
	if v < 0 || uint64(v) > uint64(max4) {
		return nil, fmt.Errorf("%w: Len=%d", ErrPacketTooLarge, v)
	}
	result := make([]byte, 0, maxLengthBytes)
	for {
		enc := byte(v % 128)
		v = v / 128
		if v > 0 { // if there are more data to encode, set the top bit of this byte
			enc = enc | 128
		}
		result = append(result, enc)
		if v == 0 {
			return result, nil
		}
	}
}

// decodeLength reads the variable length integer one byte at a time so it
// never consumes bytes past the field.
func decodeLength(r io.Reader) (uint32, error) {
	value, multiplier, b := uint32(0), uint32(1), make([]byte, 1)
	for i := 0; i < maxLengthBytes; i++ {
		if _, err := io.ReadFull(r, b); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, ioErr(err)
		}
		value += uint32(b[0]&127) * multiplier
		if b[0]&128 == 0 {
			return value, nil
		}
		multiplier *= 128
	}
	return 0, ErrMalformedRemainingLength
}

// lengthSize returns how many bytes encodeLength produces for v.
func lengthSize(v uint32) int {
	switch {
	case v <= max1:
		return 1
	case v <= max2:
		return 2
	case v <= max3:
		return 3
	default:
		return 4
	}
}

// s2b insert length into content
func s2b[T string | []byte](s T) []byte {
	b := make([]byte, 2, 2+len(s))
	binary.BigEndian.PutUint16(b, uint16(len(s)))
	return append(b, s...)
}

func i2b(i uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, i)
	return b
}

// stringLen is the encoded length of a length-prefixed string.
func stringLen(s string) uint32 {
	return uint32(len(s)) + 2
}

// optionalLen is 0 for an absent value. Presence on the wire is always
// signalled by a flag bit elsewhere in the packet.
func optionalLen(s *string) uint32 {
	if s == nil {
		return 0
	}
	return stringLen(*s)
}

// sequenceLen sums the encoded lengths of items. Sequences carry no count
// prefix; the remaining length bounds them.
func sequenceLen[T any](items []T, size func(T) uint32) uint32 {
	n := uint32(0)
	for _, item := range items {
		n += size(item)
	}
	return n
}

// encoder keeps the first write error so body encoders can write their
// fields in order and check once.
type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *encoder) putUint8(v byte) {
	e.write([]byte{v})
}

func (e *encoder) putUint16(v uint16) {
	e.write(i2b(v))
}

// putString writes the 2-byte length then the raw bytes. Strings over 65535
// bytes are a caller error and are not checked here.
func (e *encoder) putString(s string) {
	e.write(s2b(s))
}

func (e *encoder) putOptional(s *string) {
	if s != nil {
		e.putString(*s)
	}
}

func readUint8(b *bytes.Buffer) (byte, error) {
	if b.Len() < 1 {
		return 0, truncated("uint8", 1, b.Len())
	}
	return b.Next(1)[0], nil
}

func readUint16(b *bytes.Buffer) (uint16, error) {
	if b.Len() < 2 {
		return 0, truncated("uint16", 2, b.Len())
	}
	return binary.BigEndian.Uint16(b.Next(2)), nil
}

// readString decodes a length-prefixed UTF-8 string. The returned string is a
// copy, the buffer may be reused afterwards.
func readString(b *bytes.Buffer) (string, error) {
	n, err := readUint16(b)
	if err != nil {
		return "", err
	}
	if b.Len() < int(n) {
		return "", truncated("string", int(n), b.Len())
	}
	raw := b.Next(int(n))
	if !utf8.Valid(raw) {
		return "", ErrInvalidUTF8
	}
	return string(raw), nil
}

// readOptional reads a string only when present is set.
func readOptional(b *bytes.Buffer, present bool) (*string, error) {
	if !present {
		return nil, nil
	}
	s, err := readString(b)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
