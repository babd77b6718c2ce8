// Package views turns a (filtered) table into count, histogram and summary
// views ready to hand to a chart layer.
package views

import (
	"fmt"

	"hrdash/domain/dataset"
	"hrdash/internal/errors"
)

// DefaultBins is used when neither the request nor the config sets a bin count
const DefaultBins = 20

// Config holds builder defaults
type Config struct {
	DefaultBins int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{DefaultBins: DefaultBins}
}

// Builder computes views. It holds no per-call state and is safe for concurrent use.
type Builder struct {
	config Config
}

// NewBuilder creates a builder, falling back to DefaultBins for a non-positive default
func NewBuilder(config Config) *Builder {
	if config.DefaultBins <= 0 {
		config.DefaultBins = DefaultBins
	}
	return &Builder{config: config}
}

// DefaultBinCount returns the bin count used when a request leaves Bins at zero
func (b *Builder) DefaultBinCount() int { return b.config.DefaultBins }

// target is a resolved request
type target struct {
	metric    dataset.Column
	metricIdx int
	group     *grouping
}

// Validate checks a request against a schema without computing anything
func (b *Builder) Validate(schema *dataset.Schema, req Request) error {
	if !req.Kind.Valid() {
		return errors.InvalidInput(fmt.Sprintf("unknown view kind %q", req.Kind))
	}
	if req.Bins < 0 {
		return errors.InvalidInput(fmt.Sprintf("bin count must not be negative, got %d", req.Bins))
	}
	metric, _, ok := schema.Lookup(req.Metric)
	if !ok {
		return errors.UnknownColumn(req.Metric)
	}
	if req.Group != "" && !schema.Has(req.Group) {
		return errors.UnknownColumn(req.Group)
	}
	if (req.Kind == KindHistogram || req.Kind == KindSummary) && !metric.IsNumeric() {
		return errors.TypeMismatch(req.Metric, string(req.Kind))
	}
	return nil
}

// Build computes the view described by req over t. The result depends only on
// t and req.
func (b *Builder) Build(t *dataset.Table, req Request) (Result, error) {
	if err := b.Validate(t.Schema(), req); err != nil {
		return Result{}, err
	}

	metric, metricIdx, _ := t.Schema().Lookup(req.Metric)
	tg := target{metric: metric, metricIdx: metricIdx}
	if req.Group != "" {
		g, err := newGrouping(t, req.Group)
		if err != nil {
			return Result{}, err
		}
		tg.group = g
	}

	var res Result
	switch req.Kind {
	case KindCount:
		res = buildCount(t, tg)
	case KindHistogram:
		bins := req.Bins
		if bins == 0 {
			bins = b.config.DefaultBins
		}
		res = buildHistogram(t, tg, bins)
	case KindSummary:
		res = buildSummary(t, tg, req.IncludePoints)
	}

	res.Request = req
	if tg.group != nil {
		res.Groups = tg.group.labels
	}
	return res, nil
}

// grouping assigns each row to a group. The group domain comes from the root
// table so groups keep a stable set and order while filters change.
type grouping struct {
	col    int
	labels []string
	index  map[string]int
}

func newGrouping(t *dataset.Table, name string) (*grouping, error) {
	labels, err := t.Root().Labels(name)
	if err != nil {
		return nil, errors.UnknownColumn(name)
	}
	_, col, _ := t.Schema().Lookup(name)
	g := &grouping{col: col, labels: labels, index: make(map[string]int, len(labels))}
	for i, l := range labels {
		g.index[l] = i
	}
	return g, nil
}

func (g *grouping) of(t *dataset.Table, row int) int {
	label := t.Value(row, g.col).Label()
	i, ok := g.index[label]
	if !ok {
		// only reachable for tables that were not selected from their root
		i = len(g.labels)
		g.labels = append(g.labels, label)
		g.index[label] = i
	}
	return i
}

func (g *grouping) size() int { return len(g.labels) }
