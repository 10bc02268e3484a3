package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchvenue/internal/order"
	"matchvenue/internal/scalar"
)

func TestCollector_IncReceived(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.IncReceived()
	c.IncReceived()

	assert.Equal(t, float64(2), testutil.ToFloat64(c.ordersReceived))
}

func TestCollector_SetDepth(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.SetDepth(order.Ask, scalar.Amount(42))
	assert.Equal(t, float64(42), testutil.ToFloat64(c.depth.WithLabelValues("ASK")))
}

func TestCollector_IncTradesExecutedIgnoresNonPositive(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.IncTradesExecuted(0)
	c.IncTradesExecuted(-1)
	assert.Equal(t, float64(0), testutil.ToFloat64(c.tradesExecuted))

	c.IncTradesExecuted(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(c.tradesExecuted))
}

func TestNewCollector_RegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotNil(t, NewCollector(reg))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}
