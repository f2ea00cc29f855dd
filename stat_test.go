package mqtt

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewStat()
	require.NoError(t, s.Register(reg))
	// 重复注册不报错
	require.NoError(t, s.Register(reg))

	s.received(PUBLISH, 10)
	s.sent(PUBACK, 4)
	s.DecodeErrors.WithLabelValues("malformed").Inc()

	n, err := testutil.GatherAndCount(reg, "mqtt_received_packets", "mqtt_send_packets", "mqtt_decode_errors")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 10.0, testutil.ToFloat64(s.ByteReceived))
	assert.Equal(t, 4.0, testutil.ToFloat64(s.ByteSent))
}

func TestStatRefreshUptime(t *testing.T) {
	s := NewStat()
	ctx, cancel := context.WithCancel(context.Background())
	s.RefreshUptime(ctx)
	cancel()
	assert.GreaterOrEqual(t, testutil.ToFloat64(s.Uptime), 0.0)
}

func TestLabel(t *testing.T) {
	testCases := map[byte]string{
		CONNECT:    "CONNECT",
		PUBLISH:    "PUBLISH",
		UNSUBACK:   "UNSUBACK",
		DISCONNECT: "DISCONNECT",
		RESERVED:   "RESERVED",
		0x1F:       "RESERVED",
	}
	for kind, want := range testCases {
		assert.Equal(t, want, label(kind), "label(0x%X)", kind)
	}
}
