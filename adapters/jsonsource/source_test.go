package jsonsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"hrdash/domain/dataset"
	"hrdash/internal"
	"hrdash/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schema() *dataset.Schema {
	return dataset.MustSchema(
		dataset.Column{Name: "Age", Kind: dataset.KindNumeric},
		dataset.Column{Name: "Department", Kind: dataset.KindCategorical},
	)
}

func quiet() *internal.Logger { return internal.NewLogger(internal.LogLevelError) }

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadArray(t *testing.T) {
	path := writeFile(t, "employees.json", `[
		{"Age": 41, "Department": "Sales", "Remote": true},
		{"Department": "Research & Development", "Age": null},
		{"Age": 29.5, "Department": "Sales", "Remote": false}
	]`)

	src := New(Config{Location: path}, schema(), quiet())
	table, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, path, src.Name())
	assert.Equal(t, []string{"Age", "Department", "Remote"}, table.Schema().Names())
	require.Equal(t, 3, table.Len())
	assert.Equal(t, 41.0, table.Value(0, 0).Num)
	assert.True(t, table.Value(1, 0).Null)
	assert.True(t, table.Value(1, 2).Null, "absent key is null")
	assert.Equal(t, "false", table.Value(2, 2).Label())
}

func TestLoadDataPath(t *testing.T) {
	path := writeFile(t, "export.json", `{"meta": {"count": 1}, "data": {"employees": [{"Age": 30, "Department": "Sales"}]}}`)

	table, err := New(Config{Location: path, DataPath: "data.employees"}, schema(), quiet()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = New(Config{Location: path, DataPath: "data.staff"}, schema(), quiet()).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeIngestion))
}

func TestLoadNDJSON(t *testing.T) {
	path := writeFile(t, "employees.ndjson", "{\"Age\": 30, \"Department\": \"Sales\"}\n{\"Age\": 31, \"Department\": \"Human Resources\"}\n")

	table, err := New(Config{Location: path}, schema(), quiet()).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "Human Resources", table.Value(1, 1).Str)
}

func TestLoadHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/employees" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [{"Age": "52", "Department": "Sales"}]}`))
	}))
	defer srv.Close()

	table, err := New(Config{Location: srv.URL + "/employees", DataPath: "results"}, schema(), quiet()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 52.0, table.Value(0, 0).Num)

	_, err = New(Config{Location: srv.URL + "/missing"}, schema(), quiet()).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeIngestion))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `[{"Age": 1,`},
		{"scalar records", `[1, 2, 3]`},
		{"scalar root", `"hello"`},
		{"bad numeric cell", `[{"Age": "old", "Department": "Sales"}]`},
		{"missing declared column", `[{"Age": 1}]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "bad.json", tc.content)
			_, err := New(Config{Location: path}, schema(), quiet()).Load(context.Background())
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.CodeIngestion), "got %v", err)
		})
	}

	_, err := New(Config{Location: filepath.Join(t.TempDir(), "none.json")}, schema(), quiet()).Load(context.Background())
	assert.True(t, errors.HasCode(err, errors.CodeIngestion))
}
