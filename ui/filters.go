package ui

import (
	"net/url"

	"hrdash/internal/filter"
)

// filtersFromQuery reads a selection from repeated query parameters:
// ?Department=Sales&Department=Human+Resources. A parameter given only with
// an empty value (?Department=) selects nothing; an absent parameter leaves
// its column unconstrained.
func filtersFromQuery(q url.Values) filter.Spec {
	if len(q) == 0 {
		return nil
	}
	spec := make(filter.Spec, len(q))
	for col, values := range q {
		labels := make([]string, 0, len(values))
		for _, v := range values {
			if v != "" {
				labels = append(labels, v)
			}
		}
		spec[col] = labels
	}
	return spec
}
