package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { RegisterCollectors(reg) })

	Requests.WithLabelValues("create", "201").Inc()
	StoreErrors.WithLabelValues("list").Inc()

	n, err := testutil.GatherAndCount(reg, "todos_requests_total", "todos_store_errors_total")
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, 2)

	// registering twice on the same registry is a programming error
	require.Panics(t, func() { RegisterCollectors(reg) })
}
