package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	mqtt "github.com/golang-io/mqtt-codec"
	"github.com/golang-io/mqtt-codec/packet"
	"github.com/vmihailenco/msgpack/v5"
)

// record is one decoded packet in the output stream.
type record struct {
	Kind   string        `json:"kind"`
	Size   int           `json:"size"`
	Packet packet.Packet `json:"packet"`
}

type encoder interface {
	Encode(v any) error
}

func newEncoder(w io.Writer, format string) (encoder, error) {
	switch format {
	case "", "json":
		return json.NewEncoder(w), nil
	case "msgpack":
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// readInput returns r unchanged for raw captures. Hex captures may contain
// any whitespace between bytes.
func readInput(r io.Reader, encoding string) (io.Reader, error) {
	switch encoding {
	case "", "raw":
		return r, nil
	case "hex":
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		raw, err := hex.DecodeString(strings.Join(strings.Fields(string(b)), ""))
		if err != nil {
			return nil, fmt.Errorf("hex input: %w", err)
		}
		return bytes.NewReader(raw), nil
	}
	return nil, fmt.Errorf("unknown input encoding %q", encoding)
}

type readWriter struct {
	io.Reader
	io.Writer
}

// dump decodes packets from r until EOF and writes one record per packet to
// w. It returns the number of packets written.
func dump(r io.Reader, w io.Writer, format string, opts ...mqtt.Option) (int, error) {
	enc, err := newEncoder(w, format)
	if err != nil {
		return 0, err
	}
	conn := mqtt.NewConn(readWriter{r, io.Discard}, opts...)
	defer conn.Close()

	n := 0
	for {
		pkt, err := conn.ReadPacket()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("packet %d: %w", n+1, err)
		}
		rec := record{Kind: packet.Kind[pkt.Kind()], Size: packet.Size(pkt), Packet: pkt}
		if err := enc.Encode(rec); err != nil {
			return n, err
		}
		n++
	}
}
