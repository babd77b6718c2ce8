package filter

import (
	"math/rand"
	"testing"

	"hrdash/domain/dataset"
	"hrdash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioTable(t *testing.T) *dataset.Table {
	t.Helper()
	schema := dataset.MustSchema(
		dataset.Column{Name: "Dept", Kind: dataset.KindCategorical},
		dataset.Column{Name: "OT", Kind: dataset.KindCategorical},
	)
	tbl, err := dataset.New(schema, [][]dataset.Value{
		{dataset.Text("Sales"), dataset.Text("Yes")},
		{dataset.Text("Sales"), dataset.Text("No")},
		{dataset.Text("R&D"), dataset.Text("Yes")},
	})
	require.NoError(t, err)
	return tbl
}

func randomTable(t *testing.T, seed int64, n int) *dataset.Table {
	t.Helper()
	schema := dataset.MustSchema(
		dataset.Column{Name: "Department", Kind: dataset.KindCategorical},
		dataset.Column{Name: "Gender", Kind: dataset.KindCategorical},
		dataset.Column{Name: "OverTime", Kind: dataset.KindCategorical},
		dataset.Column{Name: "Age", Kind: dataset.KindNumeric},
	)
	rng := rand.New(rand.NewSource(seed))
	depts := []string{"Sales", "Research & Development", "Human Resources", ""}
	genders := []string{"Male", "Female"}
	ot := []string{"Yes", "No"}

	rows := make([][]dataset.Value, n)
	for i := range rows {
		rows[i] = []dataset.Value{
			dataset.Text(depts[rng.Intn(len(depts))]),
			dataset.Text(genders[rng.Intn(len(genders))]),
			dataset.Text(ot[rng.Intn(len(ot))]),
			dataset.Number(float64(18 + rng.Intn(42))),
		}
	}
	tbl, err := dataset.New(schema, rows)
	require.NoError(t, err)
	return tbl
}

func TestApplyScenario(t *testing.T) {
	tbl := scenarioTable(t)

	out, err := Apply(tbl, Spec{"Dept": {"Sales"}})
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "Yes", out.Value(0, 1).Str)
	assert.Equal(t, "No", out.Value(1, 1).Str)
	assert.Equal(t, 3, tbl.Len(), "input untouched")
}

func TestApplyUnknownColumn(t *testing.T) {
	_, err := Apply(scenarioTable(t), Spec{"Region": {"EMEA"}})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidColumn))
}

func TestApplyEmptySetExcludesEverything(t *testing.T) {
	tbl := scenarioTable(t)

	for name, spec := range map[string]Spec{
		"empty slice": {"Dept": {}},
		"nil slice":   {"Dept": nil},
		"one of two":  {"Dept": {"Sales", "R&D"}, "OT": {}},
	} {
		out, err := Apply(tbl, spec)
		require.NoError(t, err, name)
		assert.Equal(t, 0, out.Len(), name)
	}
}

func TestApplyNoConstraintKeepsAllRows(t *testing.T) {
	tbl := scenarioTable(t)
	out, err := Apply(tbl, Spec{})
	require.NoError(t, err)
	assert.Equal(t, tbl.Len(), out.Len())
}

func TestApplyMissingPolicy(t *testing.T) {
	tbl := randomTable(t, 7, 200)

	withoutNulls, err := Apply(tbl, Spec{"Department": {"Sales", "Research & Development", "Human Resources"}})
	require.NoError(t, err)
	for i := 0; i < withoutNulls.Len(); i++ {
		assert.False(t, withoutNulls.Value(i, 0).Null)
	}

	onlyNulls, err := Apply(tbl, Spec{"Department": {dataset.MissingLabel}})
	require.NoError(t, err)
	assert.Equal(t, tbl.Len(), withoutNulls.Len()+onlyNulls.Len())
	for i := 0; i < onlyNulls.Len(); i++ {
		assert.True(t, onlyNulls.Value(i, 0).Null)
	}
}

func TestApplyNumericColumnByLabel(t *testing.T) {
	tbl := randomTable(t, 11, 100)
	out, err := Apply(tbl, Spec{"Age": {"30"}})
	require.NoError(t, err)
	for i := 0; i < out.Len(); i++ {
		assert.Equal(t, 30.0, out.Value(i, 3).Num)
	}
}

func TestApplySoundAndComplete(t *testing.T) {
	tbl := randomTable(t, 42, 500)
	spec := Spec{
		"Department": {"Sales", dataset.MissingLabel},
		"OverTime":   {"Yes"},
	}

	out, err := Apply(tbl, spec)
	require.NoError(t, err)
	assert.LessOrEqual(t, out.Len(), tbl.Len())

	satisfies := func(row map[string]dataset.Value) bool {
		d := row["Department"].Label()
		return (d == "Sales" || d == dataset.MissingLabel) && row["OverTime"].Label() == "Yes"
	}

	for i := 0; i < out.Len(); i++ {
		assert.True(t, satisfies(out.Row(i)), "soundness at %d", i)
	}

	var expected []map[string]dataset.Value
	for i := 0; i < tbl.Len(); i++ {
		if satisfies(tbl.Row(i)) {
			expected = append(expected, tbl.Row(i))
		}
	}
	require.Equal(t, len(expected), out.Len(), "completeness")
	for i := range expected {
		assert.Equal(t, expected[i], out.Row(i), "order preserved at %d", i)
	}
}

func TestApplyIdempotent(t *testing.T) {
	tbl := randomTable(t, 3, 300)
	spec := Spec{"Gender": {"Female"}, "OverTime": {"No"}}

	once, err := Apply(tbl, spec)
	require.NoError(t, err)
	twice, err := Apply(once, spec)
	require.NoError(t, err)

	require.Equal(t, once.Len(), twice.Len())
	for i := 0; i < once.Len(); i++ {
		assert.Equal(t, once.Row(i), twice.Row(i))
	}
}

func TestAllIsIdentity(t *testing.T) {
	tbl := randomTable(t, 5, 250)
	spec, err := All(tbl, tbl.Schema().Names()...)
	require.NoError(t, err)

	out, err := Apply(tbl, spec)
	require.NoError(t, err)
	require.Equal(t, tbl.Len(), out.Len())
	for i := 0; i < tbl.Len(); i++ {
		assert.Equal(t, tbl.Row(i), out.Row(i))
	}

	_, err = All(tbl, "Region")
	assert.True(t, errors.HasCode(err, errors.CodeInvalidColumn))
}

func TestCloneIsDeep(t *testing.T) {
	spec := Spec{"Gender": {"Female"}}
	cp := spec.Clone()
	cp["Gender"][0] = "Male"
	assert.Equal(t, "Female", spec["Gender"][0])
	assert.Equal(t, []string{"Gender"}, cp.Columns())
}
