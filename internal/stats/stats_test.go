package stats

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestStats_DescribeAndCollect(t *testing.T) {
	s := New()
	s.SetQueueDepth(7)
	s.FileStarted()
	s.FileStarted()
	s.FileFinished()
	s.SetLines(100)
	s.AddMatch()
	s.AddMatch()

	descCh := make(chan *prometheus.Desc, 8)
	s.Describe(descCh)
	close(descCh)

	var descs []*prometheus.Desc
	for d := range descCh {
		descs = append(descs, d)
	}
	require.Len(t, descs, 4)

	metricCh := make(chan prometheus.Metric, 8)
	s.Collect(metricCh)
	close(metricCh)

	var metrics []prometheus.Metric
	for m := range metricCh {
		metrics = append(metrics, m)
	}
	require.Len(t, metrics, 4)
}

func TestStats_CollectOnFreshInstanceEmitsFourMetrics(t *testing.T) {
	s := New()
	metricCh := make(chan prometheus.Metric, 8)
	s.Collect(metricCh)
	close(metricCh)
	require.Len(t, metricCh, 4)
}
