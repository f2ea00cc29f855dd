// Package mqtt carries MQTT v3.1.1 packets over any byte stream.
//
// The codec itself lives in package packet. This package adds what a
// transport or session layer needs around it: a Conn that reads and writes
// whole packets, prometheus metrics, and configuration.
package mqtt

import "github.com/golang-io/mqtt-codec/packet"

// Control packet types. Position: byte 1, bits 7-4
const (
	RESERVED    byte = 0x0
	CONNECT     byte = 0x1
	CONNACK     byte = 0x2
	PUBLISH     byte = 0x3
	PUBACK      byte = 0x4
	PUBREC      byte = 0x5
	PUBREL      byte = 0x6
	PUBCOMP     byte = 0x7
	SUBSCRIBE   byte = 0x8
	SUBACK      byte = 0x9
	UNSUBSCRIBE byte = 0xA
	UNSUBACK    byte = 0xB
	PINGREQ     byte = 0xC
	PINGRESP    byte = 0xD
	DISCONNECT  byte = 0xE
)

// label is the metric label of a packet kind: "CONNECT", "PUBLISH", ...
func label(kind byte) string {
	name, ok := packet.Kind[kind&0x0F]
	if !ok {
		return "UNKNOWN"
	}
	// "[0x1]CONNECT" -> "CONNECT"
	return name[5:]
}
