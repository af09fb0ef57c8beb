// SPDX-License-Identifier: MIT

package merge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/katalvlaran/lexnet/merge"
	"github.com/katalvlaran/lexnet/semiring"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

// counter sums all data points of the named int64 counter.
func counter(t *testing.T, rm metricdata.ResourceMetrics, name string) (int64, []attribute.Set) {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			var (
				total int64
				attrs []attribute.Set
			)
			for _, dp := range sum.DataPoints {
				total += dp.Value
				attrs = append(attrs, dp.Attributes)
			}
			return total, attrs
		}
	}
	t.Fatalf("metric %q not recorded", name)
	return 0, nil
}

func TestMerge_Metrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	w := buildWords(t, false, append(catDogWords, wordScore{"cow", -0.1})...)
	m, err := merge.Merge(w, buildLexicon(t, catDogLexicon...), semiring.PushMax, merge.WithMeterProvider(mp))
	require.NoError(t, err)

	rm := collect(t, reader)
	nodes, _ := counter(t, rm, "lexnet.merge.nodes")
	assert.Equal(t, int64(m.NodeCount()), nodes)
	edges, _ := counter(t, rm, "lexnet.merge.edges")
	assert.Equal(t, int64(m.EdgeCount()), edges)
	pruned, _ := counter(t, rm, "lexnet.merge.pruned_words")
	assert.Equal(t, int64(1), pruned)

	runs, attrs := counter(t, rm, "lexnet.merge.runs")
	assert.Equal(t, int64(1), runs)
	require.Len(t, attrs, 1)
	v, ok := attrs[0].Value("push")
	require.True(t, ok)
	assert.Equal(t, "max", v.AsString())
	v, ok = attrs[0].Value("verify")
	require.True(t, ok)
	assert.Equal(t, "ok", v.AsString())
}
