package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-io/requests"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Stat 报文编解码统计
type Stat struct {
	Uptime            prometheus.Counter
	ActiveConnections prometheus.Gauge
	PacketReceived    *prometheus.CounterVec // label: kind
	ByteReceived      prometheus.Counter
	PacketSent        *prometheus.CounterVec // label: kind
	ByteSent          prometheus.Counter
	DecodeErrors      *prometheus.CounterVec // label: class
}

// NewStat returns unregistered collectors. Tests use their own Stat so that
// counts do not leak between them.
func NewStat() *Stat {
	return &Stat{
		Uptime:            prometheus.NewCounter(prometheus.CounterOpts{Name: "mqtt_uptime_seconds", Help: "The uptime in seconds"}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{Name: "mqtt_active_conn_count", Help: "The active number of MQTT packet streams"}),
		PacketReceived:    prometheus.NewCounterVec(prometheus.CounterOpts{Name: "mqtt_received_packets", Help: "The total number of decoded MQTT packets"}, []string{"kind"}),
		ByteReceived:      prometheus.NewCounter(prometheus.CounterOpts{Name: "mqtt_received_bytes", Help: "The total number of received MQTT bytes"}),
		PacketSent:        prometheus.NewCounterVec(prometheus.CounterOpts{Name: "mqtt_send_packets", Help: "The total number of encoded MQTT packets"}, []string{"kind"}),
		ByteSent:          prometheus.NewCounter(prometheus.CounterOpts{Name: "mqtt_send_bytes", Help: "The total number of send MQTT bytes"}),
		DecodeErrors:      prometheus.NewCounterVec(prometheus.CounterOpts{Name: "mqtt_decode_errors", Help: "The total number of failed MQTT packet decodes"}, []string{"class"}),
	}
}

var stat = NewStat()

func (s *Stat) collectors() []prometheus.Collector {
	return []prometheus.Collector{s.Uptime, s.ActiveConnections, s.PacketReceived, s.ByteReceived, s.PacketSent, s.ByteSent, s.DecodeErrors}
}

// Register adds the collectors to reg. Registering the same Stat twice is not an error.
func (s *Stat) Register(reg prometheus.Registerer) error {
	for _, c := range s.collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// RefreshUptime counts seconds until ctx is done.
func (s *Stat) RefreshUptime(ctx context.Context) {
	go func() {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				s.Uptime.Inc()
			}
		}
	}()
}

func (s *Stat) received(kind byte, n int) {
	s.PacketReceived.WithLabelValues(label(kind)).Inc()
	s.ByteReceived.Add(float64(n))
}

func (s *Stat) sent(kind byte, n int) {
	s.PacketSent.WithLabelValues(label(kind)).Inc()
	s.ByteSent.Add(float64(n))
}

func ServerLog(ctx context.Context, stat *requests.Stat) {
	b, err := json.Marshal(stat.Request.Body)
	log.Debugf("%s # body=%s, resp=%v, err=%v", stat.Print(), b, stat.Response.Body, err)
}

// Httpd serves /metrics and pprof on url with the default Stat.
func Httpd(ctx context.Context, url string) error {
	if err := stat.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}
	stat.RefreshUptime(ctx)
	mux := requests.NewServeMux(requests.URL(url), requests.Logf(ServerLog))
	mux.Route("/metrics", promhttp.Handler())
	mux.Pprof()
	s := requests.NewServer(ctx, mux, requests.OnStart(func(s *http.Server) {
		log.Infof("http serve: %s", s.Addr)
	}))
	return s.ListenAndServe()
}
