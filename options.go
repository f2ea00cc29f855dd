package mqtt

import (
	"github.com/BurntSushi/toml"
	"github.com/golang-io/requests"
	log "github.com/sirupsen/logrus"
)

type Listen struct {
	URL string `toml:"url" json:"url"`
}

// Config of the mqtt-dump command, loaded from a TOML file.
//
//	[http]
//	url = "http://127.0.0.1:9090"
//
//	[input]
//	path = "capture.bin"
//	encoding = "hex"
type config struct {
	HTTP  Listen `toml:"http" json:"HTTP"`
	Input struct {
		Path     string `toml:"path" json:"path"`
		Encoding string `toml:"encoding" json:"encoding"` // raw | hex
	} `toml:"input" json:"Input"`
	Output struct {
		Format string `toml:"format" json:"format"` // json | msgpack
	} `toml:"output" json:"Output"`
	MaxPacketSize uint32 `toml:"max_packet_size" json:"MaxPacketSize"`
	LogLevel      string `toml:"log_level" json:"LogLevel"`
}

var CONFIG = &config{
	LogLevel: "info",
}

func init() {
	CONFIG.Input.Encoding = "raw"
	CONFIG.Output.Format = "json"
}

// Load decodes the TOML file at path over c. Keys missing from the file
// keep the value already in c.
func (c *config) Load(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		log.Warnf("config %s: unknown keys %v", path, undecoded)
	}
	return nil
}

type Options struct {
	Name          string
	MaxPacketSize uint32
	Logger        log.FieldLogger
	Stat          *Stat
}

type Option func(*Options)

func newOptions(opts ...Option) Options {
	options := Options{
		Name:   "conn-" + requests.GenId(),
		Logger: log.StandardLogger(),
		Stat:   stat,
	}
	for _, o := range opts {
		o(&options)
	}
	return options
}

// Name labels the connection in logs.
func Name(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// MaxPacketSize rejects packets whose remaining length is larger than n. 0 means no limit beyond the protocol's.
func MaxPacketSize(n uint32) Option {
	return func(o *Options) {
		o.MaxPacketSize = n
	}
}

func Logger(l log.FieldLogger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Metrics records traffic in s instead of the default Stat.
func Metrics(s *Stat) Option {
	return func(o *Options) {
		o.Stat = s
	}
}
