package schema_test

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"tc-migrate/internal/dialect"
	"tc-migrate/internal/schema"
)

func TestAnalyze(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "analyze.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE problems (id INTEGER PRIMARY KEY, title TEXT, test_cases TEXT, difficulty TEXT);
		CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT);`)
	require.NoError(t, err)

	tables, err := schema.Analyze(db, dialect.GetDialect("sqlite"), "")
	require.NoError(t, err)

	byName := make(map[string][]string)
	for _, tbl := range tables {
		for _, c := range tbl.Columns {
			byName[tbl.Name] = append(byName[tbl.Name], c.Name)
		}
	}
	assert.Equal(t, []string{"id", "title", "test_cases", "difficulty"}, byName["problems"])
	assert.Equal(t, []string{"id", "email"}, byName["users"])
}

func TestRequireColumns(t *testing.T) {
	// Oracle reports upper-case identifiers.
	tables := []*schema.Table{
		{Name: "PROBLEMS", Columns: []*schema.Column{{Name: "ID"}, {Name: "TITLE"}, {Name: "TEST_CASES"}}},
	}

	assert.NoError(t, schema.RequireColumns(tables, "problems", "id", "title"))

	err := schema.RequireColumns(tables, "problems", "id", "difficulty", "created_at")
	require.Error(t, err)
	assert.Equal(t, "table PROBLEMS is missing columns: created_at, difficulty", err.Error())

	err = schema.RequireColumns(tables, "test_cases", "id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test_cases")
}

func TestNormalizedTestCaseJSON(t *testing.T) {
	tc := schema.NormalizedTestCase{
		ProblemID:      7,
		InputData:      []schema.Value{schema.List(schema.Number(2), schema.Number(7)), schema.Text("x")},
		ExpectedOutput: schema.List(schema.Bool(true), schema.Null()),
	}
	b, err := json.Marshal(tc.InputData)
	require.NoError(t, err)
	assert.JSONEq(t, `[[2,7],"x"]`, string(b))

	b, err = json.Marshal(tc.ExpectedOutput)
	require.NoError(t, err)
	assert.JSONEq(t, `[true,null]`, string(b))

	var back []schema.Value
	require.NoError(t, json.Unmarshal([]byte(`[[2,7],"x"]`), &back))
	require.Len(t, back, 2)
	assert.True(t, back[0].Equal(tc.InputData[0]))
	assert.True(t, back[1].Equal(tc.InputData[1]))
}

func TestParsedTestCase(t *testing.T) {
	tc := schema.ParsedTestCase{schema.Number(1), schema.Number(2), schema.Number(3)}
	assert.Len(t, tc.Inputs(), 2)
	exp, ok := tc.Expected()
	require.True(t, ok)
	assert.True(t, exp.Equal(schema.Number(3)))

	var empty schema.ParsedTestCase
	assert.NotNil(t, empty.Inputs())
	_, ok = empty.Expected()
	assert.False(t, ok)
}
