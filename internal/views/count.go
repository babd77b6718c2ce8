package views

import (
	"hrdash/domain/dataset"
)

func buildCount(t *dataset.Table, tg target) Result {
	var (
		res     Result
		order   []dataset.Value
		catIdx  = make(map[string]int)
		perCat  [][]int // category -> group -> count
		nGroups = 1
	)

	for i := 0; i < t.Len(); i++ {
		v := t.Value(i, tg.metricIdx)
		if v.Null {
			res.Missing++
			continue
		}
		label := v.Label()
		c, ok := catIdx[label]
		if !ok {
			c = len(order)
			catIdx[label] = c
			order = append(order, v)
			perCat = append(perCat, nil)
		}

		g := 0
		if tg.group != nil {
			g = tg.group.of(t, i)
		}
		for len(perCat[c]) <= g {
			perCat[c] = append(perCat[c], 0)
		}
		perCat[c][g]++
		res.Total++
	}

	if tg.group != nil {
		nGroups = tg.group.size()
	}

	categories := dataset.OrderLabels(tg.metric, order)
	counts := &Counts{
		Categories: categories,
		Cells:      make([]CountCell, 0, len(categories)*nGroups),
	}
	for _, cat := range categories {
		row := perCat[catIdx[cat]]
		for g := 0; g < nGroups; g++ {
			n := 0
			if g < len(row) {
				n = row[g]
			}
			cell := CountCell{Category: cat, Count: n}
			if tg.group != nil {
				cell.Group = tg.group.labels[g]
			}
			counts.Cells = append(counts.Cells, cell)
		}
	}
	res.Counts = counts
	return res
}
