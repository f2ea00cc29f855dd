package packet

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestError_Is(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"SameSentinel", ErrMalformedQos, ErrMalformedQos, true},
		{"ClassSentinel", ErrMalformedQos, ErrMalformed, true},
		{"Wrapped", fmt.Errorf("PUBLISH: %w", ErrMalformedQos), ErrMalformed, true},
		{"OtherSentinel", ErrMalformedQos, ErrMalformedFlags, false},
		{"UTF8NotMalformed", ErrInvalidUTF8, ErrMalformed, false},
		{"ForbiddenNotMalformed", ErrForbidden, ErrMalformed, false},
		{"IO", ioErr(io.EOF), ErrIO, true},
		{"IOKeepsCause", ioErr(io.EOF), io.EOF, true},
		{"IONotMalformed", ioErr(io.EOF), ErrMalformed, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := errors.Is(tc.err, tc.target); got != tc.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tc.err, tc.target, got, tc.want)
			}
		})
	}
}

func TestErrorClass(t *testing.T) {
	testCases := []struct {
		err  error
		want Class
	}{
		{nil, ClassNone},
		{io.ErrUnexpectedEOF, ClassIO},
		{ioErr(io.EOF), ClassIO},
		{ErrInvalidUTF8, ClassUTF8},
		{fmt.Errorf("CONNACK: %w", ErrMalformedLength), ClassMalformed},
		{ErrForbidden, ClassForbidden},
	}
	for _, tc := range testCases {
		if got := ErrorClass(tc.err); got != tc.want {
			t.Errorf("ErrorClass(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
	if ClassMalformed.String() != "malformed" || Class(42).String() != "class(42)" {
		t.Errorf("Class.String() = %s, %s", ClassMalformed, Class(42))
	}
}

func TestError_Message(t *testing.T) {
	if ErrMalformed.Error() != "malformed packet" {
		t.Errorf("ErrMalformed.Error() = %q", ErrMalformed.Error())
	}
	if got := ioErr(io.EOF).Error(); got != "i/o error: EOF" {
		t.Errorf("ioErr(io.EOF).Error() = %q", got)
	}
	if ioErr(nil) != nil {
		t.Errorf("ioErr(nil) != nil")
	}
}
