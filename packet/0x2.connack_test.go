package packet

import (
	"bytes"
	"testing"
)

// TestCONNACK_Decode 参考MQTT v3.1.1章节 3.2 CONNACK
func TestCONNACK_Decode(t *testing.T) {
	testCases := []struct {
		name  string
		input []byte
		want  CONNACK
	}{
		// [0x20, 0x02, 0x01, 0x00] 解码为 SessionPresent=true, ReturnCode=Accepted
		{"SessionPresent_Accepted", []byte{0x20, 0x02, 0x01, 0x00}, CONNACK{SessionPresent: true, ReturnCode: Accepted}},
		{"NoSession_Accepted", []byte{0x20, 0x02, 0x00, 0x00}, CONNACK{ReturnCode: Accepted}},
		{"UnacceptableProtocolVersion", []byte{0x20, 0x02, 0x00, 0x01}, CONNACK{ReturnCode: UnacceptableProtocolVersion}},
		{"NotAuthorized", []byte{0x20, 0x02, 0x00, 0x05}, CONNACK{ReturnCode: NotAuthorized}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pkt, err := Decode(bytes.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Decode(% x) error = %v", tc.input, err)
			}
			got, ok := pkt.(*CONNACK)
			if !ok {
				t.Fatalf("Decode() = %T, want *CONNACK", pkt)
			}
			if *got != tc.want {
				t.Errorf("Decode() = %+v, want %+v", *got, tc.want)
			}
			if b := encode(t, got); !bytes.Equal(b, tc.input) {
				t.Errorf("Encode() = % x, want % x", b, tc.input)
			}
		})
	}
}

func TestCONNACK_RoundTrip(t *testing.T) {
	for code := Accepted; code <= NotAuthorized; code++ {
		for _, sp := range []bool{false, true} {
			roundTrip(t, &CONNACK{SessionPresent: sp, ReturnCode: code})
		}
	}
}

func TestCONNACK_DecodeErrors(t *testing.T) {
	testCases := []struct {
		name   string
		input  []byte
		target error
	}{
		{"HeaderFlags", []byte{0x21, 0x02, 0x00, 0x00}, ErrMalformedFlags},
		{"LengthTooShort", []byte{0x20, 0x01, 0x00}, ErrMalformedLength},
		{"LengthTooLong", []byte{0x20, 0x03, 0x00, 0x00, 0x00}, ErrMalformedLength},
		{"SessionPresentReservedBits", []byte{0x20, 0x02, 0x02, 0x00}, ErrMalformedSessionPresent},
		{"ReturnCode6", []byte{0x20, 0x02, 0x00, 0x06}, ErrMalformedConnackCode},
		{"ReturnCode0x80", []byte{0x20, 0x02, 0x00, 0x80}, ErrMalformedConnackCode},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decodeErr(t, tc.input, tc.target)
		})
	}
}

// TestConnackCode_Decode 只接受 0..5
func TestConnackCode_Decode(t *testing.T) {
	for b := 0; b <= 0xFF; b++ {
		code, err := decodeConnackCode(byte(b))
		if b <= 5 {
			if err != nil || byte(code) != byte(b) {
				t.Errorf("decodeConnackCode(%d) = %v, %v", b, code, err)
			}
		} else if err == nil {
			t.Errorf("decodeConnackCode(%d) = %v, want error", b, code)
		}
	}
	if BadUsernameOrPassword.String() != "BadUsernameOrPassword" {
		t.Errorf("String() = %s", BadUsernameOrPassword)
	}
	if ConnackCode(9).String() != "ConnackCode(0x09)" {
		t.Errorf("String() = %s", ConnackCode(9))
	}
}
