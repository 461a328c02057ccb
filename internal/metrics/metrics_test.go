package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Mutation("add_node")
	m.Mutation("add_node")
	m.Mutation("connect")
	m.Generation(OutcomeSuccess, time.Second)
	m.Generation(OutcomeFailure, 2*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Mutations.WithLabelValues("add_node")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("connect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Generations.WithLabelValues(OutcomeFailure)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GenerationDuration))
}
