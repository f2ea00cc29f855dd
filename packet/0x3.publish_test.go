package packet

import (
	"bytes"
	"testing"
)

func TestPUBLISH_Flags(t *testing.T) {
	testCases := []struct {
		pkt  PUBLISH
		want byte
	}{
		{PUBLISH{}, 0b0000},
		{PUBLISH{Retain: true}, 0b0001},
		{PUBLISH{QoS: AtLeastOnce}, 0b0010},
		{PUBLISH{QoS: ExactlyOnce}, 0b0100},
		{PUBLISH{Dup: true, QoS: ExactlyOnce, Retain: true}, 0b1101},
	}
	for _, tc := range testCases {
		if got := tc.pkt.Flags(); got != tc.want {
			t.Errorf("%v Flags() = %04b, want %04b", &tc.pkt, got, tc.want)
		}
	}
}

func TestPUBLISH_Decode(t *testing.T) {
	testCases := []struct {
		name  string
		input []byte
		want  *PUBLISH
	}{
		{"QoS0", []byte{0x30, 0x07, 0x00, 0x03, 'a', '/', 'b', 'h', 'i'},
			&PUBLISH{TopicName: "a/b", Payload: []byte("hi")}},
		{"QoS1_Retain", []byte{0x33, 0x07, 0x00, 0x01, 't', 0x00, 0x0A, 'x', 'y'},
			&PUBLISH{QoS: AtLeastOnce, Retain: true, TopicName: "t", PacketID: 10, Payload: []byte("xy")}},
		{"QoS2_Dup_EmptyPayload", []byte{0x3C, 0x05, 0x00, 0x01, 't', 0x12, 0x34},
			&PUBLISH{Dup: true, QoS: ExactlyOnce, TopicName: "t", PacketID: 0x1234}},
		// 载荷是原始字节, 不要求UTF-8
		{"BinaryPayload", []byte{0x30, 0x05, 0x00, 0x01, 't', 0xFF, 0x00},
			&PUBLISH{TopicName: "t", Payload: []byte{0xFF, 0x00}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pkt, err := Decode(bytes.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Decode(% x) error = %v", tc.input, err)
			}
			got := pkt.(*PUBLISH)
			if got.Dup != tc.want.Dup || got.QoS != tc.want.QoS || got.Retain != tc.want.Retain ||
				got.TopicName != tc.want.TopicName || got.PacketID != tc.want.PacketID || !bytes.Equal(got.Payload, tc.want.Payload) {
				t.Errorf("Decode() = %v, want %v", got, tc.want)
			}
			if b := encode(t, got); !bytes.Equal(b, tc.input) {
				t.Errorf("Encode() = % x, want % x", b, tc.input)
			}
		})
	}
}

func TestPUBLISH_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		pkt  *PUBLISH
	}{
		{"QoS0", &PUBLISH{TopicName: "sensors/temp", Payload: []byte("21.5")}},
		{"QoS0_NoPayload", &PUBLISH{TopicName: "empty"}},
		{"QoS1", &PUBLISH{QoS: AtLeastOnce, TopicName: "a", PacketID: 1, Payload: []byte{0, 1, 2}}},
		{"QoS2_DupRetain", &PUBLISH{Dup: true, QoS: ExactlyOnce, Retain: true, TopicName: "b", PacketID: 65535, Payload: []byte("x")}},
		{"EmptyTopic", &PUBLISH{Payload: []byte("no topic")}},
		{"LargePayload", &PUBLISH{QoS: AtLeastOnce, TopicName: "big", PacketID: 7, Payload: bytes.Repeat([]byte{0xAB}, 70000)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			roundTrip(t, tc.pkt)
		})
	}
}

// TestPUBLISH_QoS0IgnoresPacketID QoS 0 不写报文标识符 [MQTT-2.3.1-5]
func TestPUBLISH_QoS0IgnoresPacketID(t *testing.T) {
	pkt := &PUBLISH{TopicName: "t", PacketID: 99}
	b := encode(t, pkt)
	want := []byte{0x30, 0x03, 0x00, 0x01, 't'}
	if !bytes.Equal(b, want) {
		t.Errorf("Encode() = % x, want % x", b, want)
	}
	got, err := Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if id := got.(*PUBLISH).PacketID; id != 0 {
		t.Errorf("PacketID = %d, want 0", id)
	}
}

// TestPUBLISH_EmptyPayload 零长度载荷解码为 nil
func TestPUBLISH_EmptyPayload(t *testing.T) {
	b := encode(t, &PUBLISH{QoS: AtLeastOnce, TopicName: "t", PacketID: 1, Payload: []byte{}})
	want := []byte{0x32, 0x05, 0x00, 0x01, 't', 0x00, 0x01}
	if !bytes.Equal(b, want) {
		t.Errorf("Encode() = % x, want % x", b, want)
	}
	got, err := Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if payload := got.(*PUBLISH).Payload; payload != nil {
		t.Errorf("Payload = %#v, want nil", payload)
	}
}

func TestPUBLISH_DecodeErrors(t *testing.T) {
	testCases := []struct {
		name   string
		input  []byte
		target error
	}{
		{"QoS3", []byte{0x36, 0x05, 0x00, 0x01, 't', 0x00, 0x01}, ErrMalformedQos},
		{"TopicTruncated", []byte{0x30, 0x03, 0x00, 0x05, 't'}, ErrMalformedTruncated},
		{"MissingPacketID", []byte{0x32, 0x04, 0x00, 0x01, 't', 0x00}, ErrMalformedTruncated},
		{"TopicInvalidUTF8", []byte{0x30, 0x03, 0x00, 0x01, 0xFE}, ErrInvalidUTF8},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decodeErr(t, tc.input, tc.target)
		})
	}
}

// TestPUBLISH_PayloadIsCopied 解码结果不能引用池化缓冲区
func TestPUBLISH_PayloadIsCopied(t *testing.T) {
	input := []byte{0x30, 0x04, 0x00, 0x01, 't', 'A'}
	pkt, err := Decode(bytes.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if _, err := Decode(bytes.NewReader([]byte{0x30, 0x04, 0x00, 0x01, 't', 'Z'})); err != nil {
			t.Fatal(err)
		}
	}
	if got := pkt.(*PUBLISH).Payload; !bytes.Equal(got, []byte("A")) {
		t.Errorf("Payload = %q after buffer reuse, want %q", got, "A")
	}
}
