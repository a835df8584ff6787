package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"tc-migrate/internal/dialect"
	"tc-migrate/internal/engine"
	"tc-migrate/internal/schema"
	"tc-migrate/internal/store"
)

const ddl = `
CREATE TABLE problems (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	test_cases TEXT,
	difficulty TEXT
);
CREATE TABLE test_cases (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	problem_id INTEGER NOT NULL,
	input_data TEXT NOT NULL,
	expected_output TEXT NOT NULL,
	source TEXT,
	difficulty_level TEXT,
	is_active BOOLEAN DEFAULT 1,
	created_at TIMESTAMP
);`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(ddl)
	require.NoError(t, err)
	return db
}

func seedProblems(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO problems (id, title, test_cases, difficulty) VALUES
		(7, 'Two Sum', '(2, 7, 9), ([2,7,11,15], 9, [0,1])', NULL),
		(8, 'No Cases', NULL, 'easy'),
		(9, 'Blank Cases', '', 'hard'),
		(3, 'Reverse String', '("abc", "cba")', 'easy')`)
	require.NoError(t, err)
}

func newStore(db *sql.DB) *store.SQLStore {
	return store.New(db, dialect.GetDialect("sqlite"), store.Options{})
}

func TestFetchLegacyRecords(t *testing.T) {
	db := openTestDB(t)
	seedProblems(t, db)

	records, err := newStore(db).FetchLegacyRecords(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, int64(3), records[0].ID)
	assert.Equal(t, "easy", records[0].Difficulty)
	assert.Equal(t, int64(7), records[1].ID)
	assert.Equal(t, "Two Sum", records[1].Title)
	assert.Equal(t, "", records[1].Difficulty)
}

func TestFetchLegacyRecords_Limit(t *testing.T) {
	db := openTestDB(t)
	seedProblems(t, db)

	s := store.New(db, dialect.GetDialect("sqlite"), store.Options{Limit: 1})
	records, err := s.FetchLegacyRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(3), records[0].ID)
}

func TestInsertCountDelete(t *testing.T) {
	db := openTestDB(t)
	s := newStore(db)
	ctx := context.Background()

	tc := schema.NormalizedTestCase{
		ProblemID:       7,
		InputData:       []schema.Value{schema.List(schema.Number(2), schema.Number(7)), schema.Number(9)},
		ExpectedOutput:  schema.List(schema.Number(0), schema.Number(1)),
		Source:          schema.ProvenanceTag,
		DifficultyLevel: "medium",
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, s.InsertTestCase(ctx, tc))
	require.NoError(t, s.InsertTestCase(ctx, tc))

	other := tc
	other.Source = "manual"
	other.InputData = nil
	require.NoError(t, s.InsertTestCase(ctx, other))

	var input, output string
	var active bool
	err := db.QueryRow(`SELECT input_data, expected_output, is_active FROM test_cases WHERE id = 1`).Scan(&input, &output, &active)
	require.NoError(t, err)
	assert.JSONEq(t, `[[2,7],9]`, input)
	assert.JSONEq(t, `[0,1]`, output)
	assert.True(t, active)

	err = db.QueryRow(`SELECT input_data FROM test_cases WHERE source = 'manual'`).Scan(&input)
	require.NoError(t, err)
	assert.Equal(t, `[]`, input)

	counts, err := s.CountBySource(ctx, schema.ProvenanceTag)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{7: 2}, counts)

	deleted, err := s.DeleteBySource(ctx, schema.ProvenanceTag)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	counts, err = s.CountBySource(ctx, schema.ProvenanceTag)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestInsertLegacyRecord(t *testing.T) {
	db := openTestDB(t)
	s := newStore(db)

	require.NoError(t, s.InsertLegacyRecord(context.Background(), schema.LegacyRecord{
		Title:        "Climb Stairs",
		TestCasesRaw: "(2, 2), (3, 3)",
	}))

	var difficulty sql.NullString
	require.NoError(t, db.QueryRow(`SELECT difficulty FROM problems WHERE title = 'Climb Stairs'`).Scan(&difficulty))
	assert.False(t, difficulty.Valid)
}

func TestPreflight(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, newStore(db).Preflight(""))

	s := store.New(db, dialect.GetDialect("sqlite"), store.Options{TargetTable: "missing_table"})
	err := s.Preflight("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_table")

	_, err = db.Exec(`CREATE TABLE thin_cases (problem_id INTEGER, input_data TEXT)`)
	require.NoError(t, err)
	s = store.New(db, dialect.GetDialect("sqlite"), store.Options{TargetTable: "thin_cases"})
	err = s.Preflight("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected_output")
}

func TestMigrationAgainstSQLite(t *testing.T) {
	db := openTestDB(t)
	seedProblems(t, db)
	s := newStore(db)

	report, err := engine.New(s).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, schema.MigrationSummary{ProblemsProcessed: 2, TestCasesMigrated: 3, Errors: 0}, report.Summary)
	for _, d := range report.Details {
		require.NotNil(t, d.VerifiedCount)
		assert.Equal(t, d.MigratedCount, *d.VerifiedCount)
	}

	rows, err := db.Query(`SELECT input_data, expected_output, difficulty_level FROM test_cases WHERE problem_id = 7 ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct{ input, output, difficulty string }
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.input, &r.output, &r.difficulty))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []row{
		{`[2,7]`, `9`, "medium"},
		{`[[2,7,11,15],9]`, `[0,1]`, "medium"},
	}, got)
}
