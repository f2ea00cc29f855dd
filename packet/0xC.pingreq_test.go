package packet

import (
	"bytes"
	"reflect"
	"testing"
)

// TestEmptyPackets PINGREQ, PINGRESP, DISCONNECT 只有固定报头
func TestEmptyPackets(t *testing.T) {
	testCases := []struct {
		pkt  Packet
		wire []byte
	}{
		{&PINGREQ{}, []byte{0xC0, 0x00}},
		{&PINGRESP{}, []byte{0xD0, 0x00}},
		{&DISCONNECT{}, []byte{0xE0, 0x00}},
	}
	for _, tc := range testCases {
		t.Run(Kind[tc.pkt.Kind()], func(t *testing.T) {
			if tc.pkt.Len() != 0 {
				t.Errorf("Len() = %d, want 0", tc.pkt.Len())
			}
			if b := encode(t, tc.pkt); !bytes.Equal(b, tc.wire) {
				t.Errorf("Encode() = % x, want % x", b, tc.wire)
			}
			got, err := Decode(bytes.NewReader(tc.wire))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tc.pkt) {
				t.Errorf("Decode() = %v, want %v", got, tc.pkt)
			}
		})
	}
}

// TestEmptyPackets_NonZeroLength 剩余长度不为0时报错, 但字节已被消费, 流保持对齐
func TestEmptyPackets_NonZeroLength(t *testing.T) {
	r := bytes.NewReader([]byte{0xD0, 0x02, 0xAA, 0xBB, 0xC0, 0x00})
	if _, err := Decode(r); err == nil {
		t.Fatal("Decode(PINGRESP Len=2) error = nil")
	}
	pkt, err := Decode(r)
	if err != nil {
		t.Fatalf("Decode() after malformed packet error = %v", err)
	}
	if pkt.Kind() != 0xC {
		t.Errorf("Decode() = %v, want PINGREQ", pkt)
	}
}
