package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"hrdash/domain/core"
	"hrdash/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshot(t *testing.T) {
	schema := dataset.MustSchema(dataset.Column{Name: "Age", Kind: dataset.KindNumeric})
	table, err := dataset.New(schema, [][]dataset.Value{{dataset.Number(30)}, {dataset.NullValue()}})
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	a := NewSnapshot("hr.csv", table, at)
	b := NewSnapshot("hr.csv", table, at)

	assert.NotEqual(t, a.ID, b.ID, "every load gets a fresh id")
	_, err = core.ParseSnapshotID(a.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, a.LoadedAt.Location())

	info := a.Info()
	assert.Equal(t, 2, info.Rows)
	assert.Equal(t, []string{"Age"}, info.Columns)

	raw, err := json.Marshal(a)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Table")
	assert.Contains(t, string(raw), `"source":"hr.csv"`)
}
