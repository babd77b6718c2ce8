package datareadiness

import (
	stderrors "errors"
	"testing"

	"hrdash/domain/datareadiness/ingestion"
	"hrdash/domain/dataset"
	"hrdash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func declared() *dataset.Schema {
	return dataset.MustSchema(
		dataset.Column{Name: "Age", Kind: dataset.KindNumeric},
		dataset.Column{Name: "Department", Kind: dataset.KindCategorical},
		dataset.Column{Name: "JobLevel", Kind: dataset.KindNumeric, Ordinal: true},
	)
}

func TestTabulateDeclaredColumns(t *testing.T) {
	grid := ingestion.NewRawGrid("test.csv",
		[]string{" Department ", "Age", "JobLevel"},
		[][]string{
			{"Sales", "41", "2"},
			{"Research & Development", " 49 ", ""},
			{"", "37", "1"},
		})

	table, err := NewTabulator(declared(), nil).Tabulate(grid)
	require.NoError(t, err)

	assert.Equal(t, []string{"Age", "Department", "JobLevel"}, table.Schema().Names(), "schema order wins")
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, dataset.Number(49), table.Value(1, 0))
	assert.True(t, table.Value(1, 2).Null, "empty cell is null")
	assert.True(t, table.Value(2, 1).Null)
	assert.Equal(t, "Sales", table.Value(0, 1).Label())
}

func TestTabulateMissingLabelIsNull(t *testing.T) {
	grid := ingestion.NewRawGrid("test.csv",
		[]string{"Age", "Department", "JobLevel"},
		[][]string{
			{"41", dataset.MissingLabel, "2"},
			{"30", "", "1"},
		})

	table, err := NewTabulator(declared(), nil).Tabulate(grid)
	require.NoError(t, err)

	labels, err := table.Labels("Department")
	require.NoError(t, err)
	assert.Equal(t, []string{dataset.MissingLabel}, labels)
	assert.True(t, table.Value(0, 1).Null)
}

func TestTabulateInfersExtraColumns(t *testing.T) {
	grid := ingestion.NewRawGrid("extra.csv",
		[]string{"Age", "Department", "JobLevel", "Region", "Bonus", ""},
		[][]string{
			{"30", "Sales", "1", "North", "1,200", "ignored"},
			{"31", "Sales", "2", "South", "950", ""},
		})

	table, err := NewTabulator(declared(), nil).Tabulate(grid)
	require.NoError(t, err)

	assert.Equal(t, []string{"Age", "Department", "JobLevel", "Region", "Bonus"}, table.Schema().Names())
	region, _, _ := table.Schema().Lookup("Region")
	assert.Equal(t, dataset.KindCategorical, region.Kind)
	bonus, idx, _ := table.Schema().Lookup("Bonus")
	assert.Equal(t, dataset.KindNumeric, bonus.Kind)
	assert.Equal(t, 1200.0, table.Value(0, idx).Num)
}

func TestTabulateNilSchemaInfersEverything(t *testing.T) {
	grid := ingestion.NewRawGrid("any", []string{"A", "B"}, [][]string{{"x", "1.5"}, {"y", "2.5"}})
	table, err := NewTabulator(nil, nil).Tabulate(grid)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, table.Schema().Names())
	b, _, _ := table.Schema().Lookup("B")
	assert.True(t, b.IsNumeric())
}

func TestTabulateErrors(t *testing.T) {
	tests := []struct {
		name     string
		grid     *ingestion.RawGrid
		errType  string
		rowIndex int
		field    string
	}{
		{
			name:    "missing declared column",
			grid:    ingestion.NewRawGrid("a.csv", []string{"Age", "Department"}, [][]string{{"1", "Sales"}}),
			errType: ingestion.ErrorTypeMissingColumn,
			field:   "JobLevel",
		},
		{
			name:     "unparsable numeric cell",
			grid:     ingestion.NewRawGrid("b.csv", []string{"Age", "Department", "JobLevel"}, [][]string{{"40", "Sales", "1"}, {"forty", "Sales", "1"}}),
			errType:  ingestion.ErrorTypeUnparsable,
			rowIndex: 2,
			field:    "Age",
		},
		{
			name:    "duplicate header",
			grid:    ingestion.NewRawGrid("c.csv", []string{"Age", "Age", "Department", "JobLevel"}, nil),
			errType: ingestion.ErrorTypeDuplicate,
			field:   "Age",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTabulator(declared(), nil).Tabulate(tc.grid)
			require.Error(t, err)
			assert.Equal(t, errors.CodeIngestion, errors.GetCode(err))

			var ie ingestion.IngestionError
			require.True(t, stderrors.As(err, &ie))
			assert.Equal(t, tc.errType, ie.ErrorType)
			assert.Equal(t, tc.rowIndex, ie.RowIndex)
			assert.Equal(t, tc.field, ie.Field)
			assert.Contains(t, err.Error(), tc.grid.Source)
		})
	}
}

func TestTabulateHeaderOnlyGridIsEmptyTable(t *testing.T) {
	grid := ingestion.NewRawGrid("empty.csv", []string{"Age", "Department", "JobLevel"}, nil)
	table, err := NewTabulator(declared(), nil).Tabulate(grid)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 3, table.Schema().Len())
}
