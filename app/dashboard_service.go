package app

import (
	"context"
	"fmt"

	"hrdash/domain/dataset"
	"hrdash/domain/snapshot"
	"hrdash/internal"
	"hrdash/internal/catalog"
	"hrdash/internal/errors"
	"hrdash/internal/filter"
	"hrdash/internal/profiling"
	"hrdash/internal/views"
	"hrdash/ports"

	"golang.org/x/sync/errgroup"
)

// DefaultParallelism bounds concurrent chart builds when none is configured
const DefaultParallelism = 4

// DashboardService answers dashboard interactions: it filters the current
// snapshot and builds the catalog's views over the result.
type DashboardService struct {
	store       ports.SnapshotStore
	catalog     *catalog.Catalog
	builder     *views.Builder
	profiler    *profiling.Profiler
	parallelism int
	logger      *internal.Logger
}

// FilterOption is one filter control: every label of a column, all selected
type FilterOption struct {
	Column   string   `json:"column"`
	Values   []string `json:"values"`
	Selected []string `json:"selected"`
}

// RenderedChart is a catalog chart with its computed view
type RenderedChart struct {
	Number int           `json:"number"`
	Title  string        `json:"title"`
	Style  catalog.Style `json:"style"`
	View   views.Result  `json:"view"`
}

// RenderedTab is one tab's charts computed over one filter selection
type RenderedTab struct {
	Key      string          `json:"key"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle,omitempty"`
	Rows     int             `json:"rows"`
	Charts   []RenderedChart `json:"charts"`
}

// Overview describes the dashboard without computing any chart
type Overview struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	DescriptionHTML string        `json:"description_html"`
	Filters         []string      `json:"filters"`
	Tabs            []TabInfo     `json:"tabs"`
	Snapshot        snapshot.Info `json:"snapshot"`
}

// TabInfo is tab metadata for navigation
type TabInfo struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Charts   int    `json:"charts"`
}

// NewDashboardService creates a dashboard service
func NewDashboardService(store ports.SnapshotStore, cat *catalog.Catalog, builder *views.Builder, parallelism int, logger *internal.Logger) *DashboardService {
	if cat == nil {
		cat = catalog.Default()
	}
	if builder == nil {
		builder = views.NewBuilder(views.DefaultConfig())
	}
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &DashboardService{
		store:       store,
		catalog:     cat,
		builder:     builder,
		profiler:    profiling.NewProfiler(profiling.DefaultTopLabels),
		parallelism: parallelism,
		logger:      logger.WithComponent("DashboardService"),
	}
}

// Catalog returns the dashboard definition
func (s *DashboardService) Catalog() *catalog.Catalog { return s.catalog }

// Overview returns the dashboard title, description and tab list
func (s *DashboardService) Overview(ctx context.Context) (*Overview, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	tabs := make([]TabInfo, 0, len(s.catalog.Tabs))
	for _, t := range s.catalog.Tabs {
		tabs = append(tabs, TabInfo{Key: t.Key, Title: t.Title, Subtitle: t.Subtitle, Charts: len(t.Charts)})
	}
	return &Overview{
		Title:           s.catalog.Title,
		Description:     s.catalog.Description,
		DescriptionHTML: s.catalog.DescriptionHTML(),
		Filters:         s.catalog.Filters,
		Tabs:            tabs,
		Snapshot:        snap.Info(),
	}, nil
}

// Options lists the selectable labels of every catalog filter column
func (s *DashboardService) Options(ctx context.Context) ([]FilterOption, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	all, err := filter.All(snap.Table, s.catalog.Filters...)
	if err != nil {
		return nil, err
	}
	options := make([]FilterOption, 0, len(s.catalog.Filters))
	for _, col := range s.catalog.Filters {
		labels := all[col]
		options = append(options, FilterOption{
			Column:   col,
			Values:   labels,
			Selected: append([]string(nil), labels...),
		})
	}
	return options, nil
}

// DefaultSpec is the selection the dashboard opens with: every label of every
// filter column, which keeps every row
func (s *DashboardService) DefaultSpec(ctx context.Context) (filter.Spec, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return filter.All(snap.Table, s.catalog.Filters...)
}

// View filters the snapshot and builds one view
func (s *DashboardService) View(ctx context.Context, spec filter.Spec, req views.Request) (views.Result, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return views.Result{}, err
	}
	filtered, err := filter.Apply(snap.Table, spec)
	if err != nil {
		return views.Result{}, err
	}
	return s.builder.Build(filtered, req)
}

// RenderTab builds every chart of one tab over the filtered snapshot
func (s *DashboardService) RenderTab(ctx context.Context, spec filter.Spec, key string) (*RenderedTab, error) {
	tab, ok := s.catalog.Tab(key)
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("tab %q", key))
	}
	tabs, err := s.render(ctx, spec, []catalog.Tab{tab})
	if err != nil {
		return nil, err
	}
	return &tabs[0], nil
}

// RenderAll builds every chart of every tab, in catalog order
func (s *DashboardService) RenderAll(ctx context.Context, spec filter.Spec) ([]RenderedTab, error) {
	return s.render(ctx, spec, s.catalog.Tabs)
}

// render filters once, then builds the charts concurrently over the shared
// read-only filtered table. Results keep catalog order; the first failing
// chart fails the call.
func (s *DashboardService) render(ctx context.Context, spec filter.Spec, tabs []catalog.Tab) ([]RenderedTab, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	filtered, err := filter.Apply(snap.Table, spec)
	if err != nil {
		return nil, err
	}

	out := make([]RenderedTab, len(tabs))
	for i, tab := range tabs {
		out[i] = RenderedTab{
			Key:      tab.Key,
			Title:    tab.Title,
			Subtitle: tab.Subtitle,
			Rows:     filtered.Len(),
			Charts:   make([]RenderedChart, len(tab.Charts)),
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.parallelism)
	for i, tab := range tabs {
		for j, chart := range tab.Charts {
			i, j, chart := i, j, chart
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				res, err := s.builder.Build(filtered, chart.View)
				if err != nil {
					return errors.Wrapf(err, "chart %d (%s)", chart.Number, chart.Title)
				}
				out[i].Charts[j] = RenderedChart{Number: chart.Number, Title: chart.Title, Style: chart.Style, View: res}
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	s.logger.Debug("rendered %d tab(s) over %d of %d rows", len(tabs), filtered.Len(), snap.Table.Len())
	return out, nil
}

// Columns profiles every column of the filtered snapshot
func (s *DashboardService) Columns(ctx context.Context, spec filter.Spec) ([]profiling.ColumnProfile, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	filtered, err := filter.Apply(snap.Table, spec)
	if err != nil {
		return nil, err
	}
	return s.profiler.Profile(filtered), nil
}

// Reload re-reads the data source and checks the catalog still fits it
func (s *DashboardService) Reload(ctx context.Context) (snapshot.Info, error) {
	snap, err := s.store.Reload(ctx)
	if err != nil {
		return snapshot.Info{}, err
	}
	if err := s.catalog.Validate(snap.Table.Schema()); err != nil {
		s.logger.Warn("catalog no longer matches reloaded data: %v", err)
	}
	return snap.Info(), nil
}

// Snapshot describes the current snapshot
func (s *DashboardService) Snapshot(ctx context.Context) (snapshot.Info, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return snapshot.Info{}, err
	}
	return snap.Info(), nil
}

// Schema returns the current snapshot's schema
func (s *DashboardService) Schema(ctx context.Context) (*dataset.Schema, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Table.Schema(), nil
}
