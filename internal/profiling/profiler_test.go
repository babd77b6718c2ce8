package profiling

import (
	"encoding/json"
	"math"
	"testing"

	"hrdash/domain/dataset"
	"hrdash/internal/errors"
	"hrdash/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTable(t *testing.T) *dataset.Table {
	t.Helper()
	schema := dataset.MustSchema(
		dataset.Column{Name: "Dept", Kind: dataset.KindCategorical},
		dataset.Column{Name: "Level", Kind: dataset.KindNumeric, Ordinal: true},
		dataset.Column{Name: "Income", Kind: dataset.KindNumeric},
	)
	tbl, err := dataset.New(schema, [][]dataset.Value{
		{dataset.Text("Sales"), dataset.Number(2), dataset.Number(1)},
		{dataset.Text("R&D"), dataset.Number(1), dataset.Number(2)},
		{dataset.Text("R&D"), dataset.Number(2), dataset.Number(3)},
		{dataset.NullValue(), dataset.Number(3), dataset.Number(4)},
		{dataset.Text("HR"), dataset.Number(1), dataset.Number(100)},
	})
	require.NoError(t, err)
	return tbl
}

func TestProfileCategorical(t *testing.T) {
	prof, err := NewProfiler(2).ProfileColumn(smallTable(t), "Dept")
	require.NoError(t, err)

	assert.Equal(t, 5, prof.Rows)
	assert.Equal(t, 1, prof.Missing)
	assert.InDelta(t, 0.2, prof.MissingRate, 1e-9)
	assert.Equal(t, 3, prof.Distinct)
	assert.Equal(t, []LabelCount{{"R&D", 2}, {"Sales", 1}}, prof.TopLabels, "ties keep first-seen order")
	assert.Nil(t, prof.Numeric)
}

func TestProfileOrdinalTies(t *testing.T) {
	prof, err := NewProfiler(0).ProfileColumn(smallTable(t), "Level")
	require.NoError(t, err)
	assert.True(t, prof.Ordinal)
	assert.Equal(t, []LabelCount{{"1", 2}, {"2", 2}, {"3", 1}}, prof.TopLabels)
}

func TestProfileNumeric(t *testing.T) {
	prof, err := NewProfiler(5).ProfileColumn(smallTable(t), "Income")
	require.NoError(t, err)
	require.NotNil(t, prof.Numeric)

	n := prof.Numeric
	assert.Equal(t, 1.0, n.Min)
	assert.Equal(t, 100.0, n.Max)
	assert.Equal(t, 3.0, n.Median)
	assert.Equal(t, 1.5, n.Q1)
	assert.Equal(t, 52.0, n.Q3)
	assert.InDelta(t, 22.0, n.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(1902.5), n.StdDev, 1e-9)
	assert.Greater(t, n.Skewness, 1.0, "one large value skews right")
	assert.Equal(t, 0, n.Outliers)
}

func TestProfileWholeTable(t *testing.T) {
	table := testkit.Employees(200, 4)
	profiles := NewProfiler(DefaultTopLabels).Profile(table)
	require.Len(t, profiles, table.Schema().Len())

	for i, p := range profiles {
		assert.Equal(t, table.Schema().Column(i).Name, p.Name)
		assert.Equal(t, 200, p.Rows)
		assert.LessOrEqual(t, len(p.TopLabels), DefaultTopLabels)
		if p.Kind == dataset.KindNumeric {
			require.NotNil(t, p.Numeric, p.Name)
			assert.LessOrEqual(t, p.Numeric.Min, p.Numeric.Q1)
			assert.LessOrEqual(t, p.Numeric.Q1, p.Numeric.Median)
			assert.LessOrEqual(t, p.Numeric.Median, p.Numeric.Q3)
			assert.LessOrEqual(t, p.Numeric.Q3, p.Numeric.Max)
		}
	}
}

func TestProfileEdgeCases(t *testing.T) {
	_, err := NewProfiler(3).ProfileColumn(smallTable(t), "Shoe")
	assert.Equal(t, errors.CodeUnknownColumn, errors.GetCode(err))

	empty := dataset.Empty(smallTable(t).Schema())
	prof, err := NewProfiler(3).ProfileColumn(empty, "Income")
	require.NoError(t, err)
	assert.Zero(t, prof.Rows)
	assert.Zero(t, prof.MissingRate)
	assert.Nil(t, prof.Numeric)

	assert.Zero(t, skewness([]float64{4, 4, 4}, 0))
	assert.Zero(t, skewness([]float64{1, 9}, 5.6))
	assert.Equal(t, 1, outliers([]float64{1, 2, 3, 4, 50}, 2, 4))
}

func TestProfileSingleValue(t *testing.T) {
	schema := dataset.MustSchema(dataset.Column{Name: "Age", Kind: dataset.KindNumeric})
	tbl, err := dataset.New(schema, [][]dataset.Value{{dataset.Number(41)}, {dataset.NullValue()}})
	require.NoError(t, err)

	prof, err := NewProfiler(0).ProfileColumn(tbl, "Age")
	require.NoError(t, err)
	require.NotNil(t, prof.Numeric)

	n := prof.Numeric
	assert.Equal(t, 41.0, n.Min)
	assert.Equal(t, 41.0, n.Q1)
	assert.Equal(t, 41.0, n.Q3)
	assert.Equal(t, 41.0, n.Mean)
	assert.Zero(t, n.StdDev)
	assert.Zero(t, n.Skewness)

	_, err = json.Marshal(prof)
	assert.NoError(t, err, "profile must stay JSON encodable")
}
