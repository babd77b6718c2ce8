// Package catalog describes the dashboard: which filters it offers and which
// charts each tab shows. The catalog is data, so a deployment can replace the
// built-in one with a YAML file.
package catalog

import (
	"fmt"

	"hrdash/domain/dataset"
	"hrdash/internal/errors"
	"hrdash/internal/views"
)

// Style is the chart shape a renderer should draw
type Style string

const (
	StyleGroupedBar Style = "grouped_bar"
	StylePie        Style = "pie"
	StyleHistogram  Style = "histogram"
	StyleBox        Style = "box"
)

// kindFor is the view kind each style renders
var kindFor = map[Style]views.Kind{
	StyleGroupedBar: views.KindCount,
	StylePie:        views.KindCount,
	StyleHistogram:  views.KindHistogram,
	StyleBox:        views.KindSummary,
}

// Catalog is the whole dashboard definition
type Catalog struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"` // markdown
	Filters     []string `json:"filters" yaml:"filters"`
	Tabs        []Tab    `json:"tabs" yaml:"tabs"`
}

// Tab groups charts under one heading
type Tab struct {
	Key      string  `json:"key" yaml:"key"`
	Title    string  `json:"title" yaml:"title"`
	Subtitle string  `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Charts   []Chart `json:"charts" yaml:"charts"`
}

// Chart is one numbered chart and the view that feeds it
type Chart struct {
	Number int           `json:"number" yaml:"number"`
	Title  string        `json:"title" yaml:"title"`
	Style  Style         `json:"style" yaml:"style"`
	View   views.Request `json:"view" yaml:"view"`
}

// Tab returns the tab with key
func (c *Catalog) Tab(key string) (Tab, bool) {
	for _, t := range c.Tabs {
		if t.Key == key {
			return t, true
		}
	}
	return Tab{}, false
}

// Charts returns every chart in display order
func (c *Catalog) Charts() []Chart {
	var out []Chart
	for _, t := range c.Tabs {
		out = append(out, t.Charts...)
	}
	return out
}

// Validate checks the catalog's own consistency and that every filter and
// chart fits schema. The first problem is returned as CONFIG_INVALID with
// the underlying view error, if any, as its cause.
func (c *Catalog) Validate(schema *dataset.Schema) error {
	if len(c.Tabs) == 0 {
		return errors.ConfigInvalid("catalog has no tabs")
	}
	for _, f := range c.Filters {
		if !schema.Has(f) {
			return &errors.AppError{Code: errors.CodeConfigInvalid, Message: "catalog filter", Cause: errors.InvalidColumn(f)}
		}
	}

	builder := views.NewBuilder(views.DefaultConfig())
	tabKeys := make(map[string]bool)
	numbers := make(map[int]bool)
	for _, tab := range c.Tabs {
		if tab.Key == "" {
			return errors.ConfigInvalid(fmt.Sprintf("tab %q has no key", tab.Title))
		}
		if tabKeys[tab.Key] {
			return errors.ConfigInvalid(fmt.Sprintf("duplicate tab key %q", tab.Key))
		}
		tabKeys[tab.Key] = true

		for _, ch := range tab.Charts {
			if numbers[ch.Number] {
				return errors.ConfigInvalid(fmt.Sprintf("duplicate chart number %d", ch.Number))
			}
			numbers[ch.Number] = true

			want, ok := kindFor[ch.Style]
			if !ok {
				return errors.ConfigInvalid(fmt.Sprintf("chart %d: unknown style %q", ch.Number, ch.Style))
			}
			if ch.View.Kind != want {
				return errors.ConfigInvalid(fmt.Sprintf("chart %d: style %s needs a %s view, got %q", ch.Number, ch.Style, want, ch.View.Kind))
			}
			if err := builder.Validate(schema, ch.View); err != nil {
				return &errors.AppError{
					Code:    errors.CodeConfigInvalid,
					Message: fmt.Sprintf("chart %d (%s)", ch.Number, ch.Title),
					Cause:   err,
				}
			}
		}
	}
	return nil
}
