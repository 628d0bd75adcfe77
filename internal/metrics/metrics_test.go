package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObservers(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveLogin(nil)
	m.ObserveLogin(errors.New("rejected"))
	m.ObserveLogin(errors.New("rejected"))
	m.ObserveProbe("/luaquery.lua", false)
	m.ObserveProbe("/query.lua", true)

	require.Equal(t, 1.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("success")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ProbesTotal.WithLabelValues("/luaquery.lua", "failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ProbesTotal.WithLabelValues("/query.lua", "success")))
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	require.Panics(t, func() { New(reg) })
}
