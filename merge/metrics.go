// SPDX-License-Identifier: MIT

package merge

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/katalvlaran/lexnet/semiring"
)

// metrics holds the composition counters.
type metrics struct {
	nodes  metric.Int64Counter
	edges  metric.Int64Counter
	pruned metric.Int64Counter
	runs   metric.Int64Counter
}

func newMetrics(mp metric.MeterProvider) (*metrics, error) {
	m := mp.Meter(meterName)
	met := &metrics{}
	var err error
	if met.nodes, err = m.Int64Counter("lexnet.merge.nodes",
		metric.WithDescription("Nodes created in composed networks."),
	); err != nil {
		return nil, err
	}
	if met.edges, err = m.Int64Counter("lexnet.merge.edges",
		metric.WithDescription("Edges created in composed networks."),
	); err != nil {
		return nil, err
	}
	if met.pruned, err = m.Int64Counter("lexnet.merge.pruned_words",
		metric.WithDescription("Word continuations dropped for lack of a pronunciation."),
	); err != nil {
		return nil, err
	}
	if met.runs, err = m.Int64Counter("lexnet.merge.runs",
		metric.WithDescription("Completed compositions by push mode and verification outcome."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

func (m *metrics) record(push semiring.Push, nodes, edges, pruned int, verified string) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("push", push.String()))
	m.nodes.Add(ctx, int64(nodes), attrs)
	m.edges.Add(ctx, int64(edges), attrs)
	m.pruned.Add(ctx, int64(pruned), attrs)
	m.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("push", push.String()),
		attribute.String("verify", verified),
	))
}
