package packet

import (
	"fmt"
	"io"
)

// FixedHeader contains the values of the fixed header portion of the MQTT pkt.
// Each MQTT Control Packet contains a fixed header.
// Bit 		| 7 | 6 |	5	4	3	2	1	0
// byte1    | MQTT Control Packet type | Flags specific to each MQTT Control Packet type|
// byte2...	|    Remaining Length
type FixedHeader struct {
	// Kind MQTT Control Packet type
	// Position: byte 1, bits 7-4.
	Kind byte `json:"Kind"`

	// Flags Position: byte 1, bits 3-0.
	// PUBLISH: DUP(bit 3) QoS(bits 2-1) RETAIN(bit 0)
	// PUBREL/SUBSCRIBE/UNSUBSCRIBE: 0b0010, 其余报文: 0b0000
	Flags byte `json:"Flags"`

	// RemainingLength position: starts at byte 2.
	RemainingLength uint32 `json:"RemainingLength"` // the number of remaining bytes in the body.
}

// Dup position: byte 1, bit 3.
func (pkt *FixedHeader) Dup() bool {
	return pkt.Flags&0b1000 != 0
}

// QoS position: byte 1, bits 2-1. The raw bits may be 3; the PUBLISH decoder rejects it.
func (pkt *FixedHeader) QoS() byte {
	return pkt.Flags & 0b0110 >> 1
}

// Retain position: byte 1, bit 0.
func (pkt *FixedHeader) Retain() bool {
	return pkt.Flags&0b0001 != 0
}

func (pkt *FixedHeader) String() string {
	name, ok := Kind[pkt.Kind]
	if !ok {
		name = fmt.Sprintf("[0x%X]UNKNOWN", pkt.Kind)
	}
	return fmt.Sprintf("%s: Flags=%04b, Len=%d", name, pkt.Flags, pkt.RemainingLength)
}

// Size is the encoded size of the header itself.
func (pkt *FixedHeader) Size() int {
	return 1 + lengthSize(pkt.RemainingLength)
}

func (pkt *FixedHeader) Pack(w io.Writer) error {
	enc, err := encodeLength(pkt.RemainingLength)
	if err != nil {
		return err
	}
	b := make([]byte, 1, 1+len(enc))
	b[0] = pkt.Kind<<4 | pkt.Flags&0x0F
	b = append(b, enc...)
	_, err = w.Write(b)
	return err
}

// Unpack reads the type/flags byte and the remaining length from r and
// records the result in ctx for the body decoder that runs next. A clean
// io.EOF before the first byte is returned wrapped but unchanged, so callers
// can tell the end of a stream from a packet cut in half.
func (pkt *FixedHeader) Unpack(r io.Reader, ctx *DecodeContext) error {
	b := []byte{0x00}
	if _, err := io.ReadFull(r, b); err != nil {
		return ioErr(err)
	}
	pkt.Kind = b[0] >> 4
	pkt.Flags = b[0] & 0x0F

	n, err := decodeLength(r)
	if err != nil {
		return err
	}
	pkt.RemainingLength = n
	if ctx != nil {
		ctx.Header = *pkt
	}
	return nil
}

// DecodeContext carries the fixed header of the packet being decoded to its
// body decoder. It belongs to a single Decode call.
type DecodeContext struct {
	Header FixedHeader
}

// expectFlags checks the fixed flag nibble mandated for a packet kind.
// 参考: MQTT v3.1.1 章节 2.2.2 Flags [MQTT-2.2.2-1] [MQTT-2.2.2-2]
func (ctx *DecodeContext) expectFlags(want byte) error {
	if ctx.Header.Flags != want {
		return fmt.Errorf("%w: %s want %04b, got %04b", ErrMalformedFlags, Kind[ctx.Header.Kind], want, ctx.Header.Flags)
	}
	return nil
}
