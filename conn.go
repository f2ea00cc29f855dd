package mqtt

import (
	"bufio"
	"errors"
	"io"
	"sync"

	"github.com/golang-io/mqtt-codec/packet"
	log "github.com/sirupsen/logrus"
)

// Conn reads and writes whole MQTT packets over a byte stream. The stream
// is usually a net.Conn, but anything that reads and writes will do.
//
// ReadPacket must be called from one goroutine at a time. WritePacket may be
// called concurrently with itself and with ReadPacket.
type Conn struct {
	rwc     io.ReadWriter
	r       *countingReader
	decoder packet.Decoder
	options Options
	log     log.FieldLogger

	mu     sync.Mutex // 保护写
	closed bool
}

// NewConn wraps rw. Reads go through a bufio.Reader, so rw must not be read
// directly afterwards.
func NewConn(rw io.ReadWriter, opts ...Option) *Conn {
	options := newOptions(opts...)
	c := &Conn{
		rwc:     rw,
		r:       &countingReader{r: bufio.NewReader(rw)},
		decoder: packet.Decoder{MaxRemainingLength: options.MaxPacketSize},
		options: options,
		log:     options.Logger.WithField("conn", options.Name),
	}
	options.Stat.ActiveConnections.Inc()
	return c
}

// ReadPacket decodes the next packet. At the end of the stream it returns an
// error matching io.EOF. After a codec error the stream position is
// undefined and the connection should be closed.
func (c *Conn) ReadPacket() (packet.Packet, error) {
	start := c.r.n
	pkt, err := c.decoder.Decode(c.r)
	n := int(c.r.n - start)
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 {
			return nil, err
		}
		class := packet.ErrorClass(err)
		c.options.Stat.DecodeErrors.WithLabelValues(class.String()).Inc()
		c.options.Stat.ByteReceived.Add(float64(n))
		c.log.WithFields(log.Fields{"class": class, "bytes": n}).Warnf("decode: %v", err)
		return nil, err
	}
	c.options.Stat.received(pkt.Kind(), n)
	c.log.WithField("bytes", n).Debugf("recv %v", pkt)
	return pkt, nil
}

// WritePacket encodes pkt with one Write call on the underlying stream.
func (c *Conn) WritePacket(pkt packet.Packet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return io.ErrClosedPipe
	}
	if err := packet.Encode(c.rwc, pkt); err != nil {
		c.log.Warnf("encode %v: %v", pkt, err)
		return err
	}
	c.options.Stat.sent(pkt.Kind(), packet.Size(pkt))
	c.log.Debugf("send %v", pkt)
	return nil
}

// Close closes the underlying stream if it is an io.Closer.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.options.Stat.ActiveConnections.Dec()
	if closer, ok := c.rwc.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Name is the connection's log label.
func (c *Conn) Name() string {
	return c.options.Name
}

type countingReader struct {
	r io.Reader
	n int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.n += int64(n)
	return n, err
}
