package packet

import (
	"bytes"
	"reflect"
	"testing"
)

func TestUNSUBSCRIBE_Decode(t *testing.T) {
	input := []byte{
		0xA2, 0x0B,
		0x00, 0x05,
		0x00, 0x01, 'a',
		0x00, 0x04, 'b', '/', '+', '#',
	}
	pkt, err := Decode(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want := &UNSUBSCRIBE{PacketID: 5, TopicFilters: []string{"a", "b/+#"}}
	if !reflect.DeepEqual(pkt, want) {
		t.Errorf("Decode() = %v, want %v", pkt, want)
	}
	if b := encode(t, want); !bytes.Equal(b, input) {
		t.Errorf("Encode() = % x, want % x", b, input)
	}
}

func TestUNSUBSCRIBE_RoundTrip(t *testing.T) {
	for _, pkt := range []*UNSUBSCRIBE{
		{PacketID: 1},
		{PacketID: 2, TopicFilters: []string{"x"}},
		{PacketID: 3, TopicFilters: []string{"a/b", "", "设备/+/温度"}},
	} {
		roundTrip(t, pkt)
	}
}

func TestUNSUBSCRIBE_DecodeErrors(t *testing.T) {
	testCases := []struct {
		name   string
		input  []byte
		target error
	}{
		// UNSUBSCRIBE 固定报头标志位必须为 0010 [MQTT-3.10.1-1]
		{"Flags", []byte{0xA0, 0x05, 0x00, 0x01, 0x00, 0x01, 'a'}, ErrMalformedFlags},
		{"FilterOverrun", []byte{0xA2, 0x05, 0x00, 0x01, 0x00, 0x02, 'a'}, ErrMalformedTruncated},
		{"InvalidUTF8", []byte{0xA2, 0x05, 0x00, 0x01, 0x00, 0x01, 0xFF}, ErrInvalidUTF8},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decodeErr(t, tc.input, tc.target)
		})
	}
}
