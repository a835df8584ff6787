// Package store reads legacy problems and writes normalized test cases
// through database/sql, with SQL supplied by a dialect.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tc-migrate/internal/dialect"
	"tc-migrate/internal/schema"
)

type Options struct {
	SourceTable string
	TargetTable string
	// Limit caps the number of legacy records fetched; 0 means all.
	Limit int
}

type SQLStore struct {
	db   *sql.DB
	d    dialect.Dialect
	opts Options
}

func New(db *sql.DB, d dialect.Dialect, opts Options) *SQLStore {
	if opts.SourceTable == "" {
		opts.SourceTable = "problems"
	}
	if opts.TargetTable == "" {
		opts.TargetTable = "test_cases"
	}
	return &SQLStore{db: db, d: d, opts: opts}
}

// Preflight checks that both tables exist with the columns the migration
// reads and writes.
func (s *SQLStore) Preflight(schemaName string) error {
	tables, err := schema.Analyze(s.db, s.d, schemaName)
	if err != nil {
		return err
	}
	if err := schema.RequireColumns(tables, s.opts.SourceTable, dialect.LegacyColumns...); err != nil {
		return err
	}
	return schema.RequireColumns(tables, s.opts.TargetTable, dialect.TestCaseColumns...)
}

func (s *SQLStore) FetchLegacyRecords(ctx context.Context) ([]schema.LegacyRecord, error) {
	query := s.d.SelectLegacyQuery(s.opts.SourceTable)
	if s.opts.Limit > 0 {
		query = s.d.GetLimitRowQuery(query, s.opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.opts.SourceTable, err)
	}
	defer rows.Close()

	var records []schema.LegacyRecord
	for rows.Next() {
		var (
			id                           int64
			title, testCases, difficulty sql.NullString
		)
		if err := rows.Scan(&id, &title, &testCases, &difficulty); err != nil {
			return nil, fmt.Errorf("failed to scan legacy record: %w", err)
		}
		if !testCases.Valid || testCases.String == "" {
			continue
		}
		records = append(records, schema.LegacyRecord{
			ID:           id,
			Title:        title.String,
			Difficulty:   difficulty.String,
			TestCasesRaw: testCases.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legacy records: %w", err)
	}
	return records, nil
}

func (s *SQLStore) InsertTestCase(ctx context.Context, tc schema.NormalizedTestCase) error {
	inputs := tc.InputData
	if inputs == nil {
		inputs = []schema.Value{}
	}
	inputJSON, err := json.Marshal(inputs)
	if err != nil {
		return fmt.Errorf("failed to encode input data: %w", err)
	}
	outputJSON, err := json.Marshal(tc.ExpectedOutput)
	if err != nil {
		return fmt.Errorf("failed to encode expected output: %w", err)
	}

	query := s.d.InsertQuery(s.opts.TargetTable, dialect.TestCaseColumns)
	_, err = s.db.ExecContext(ctx, query,
		tc.ProblemID,
		string(inputJSON),
		string(outputJSON),
		tc.Source,
		tc.DifficultyLevel,
		s.d.BoolValue(tc.IsActive),
		tc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert test case for problem %d: %w", tc.ProblemID, err)
	}
	return nil
}

func (s *SQLStore) CountBySource(ctx context.Context, source string) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx, s.d.CountBySourceQuery(s.opts.TargetTable), source)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s rows: %w", source, err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var (
			problemID int64
			n         int
		)
		if err := rows.Scan(&problemID, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[problemID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counts: %w", err)
	}
	return counts, nil
}

// DeleteBySource removes every row carrying source and returns how many went.
func (s *SQLStore) DeleteBySource(ctx context.Context, source string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.d.DeleteBySourceQuery(s.opts.TargetTable), source)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s rows: %w", source, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

// InsertLegacyRecord writes a problem in the legacy shape; the id is left to
// the database. An empty difficulty is stored as NULL.
func (s *SQLStore) InsertLegacyRecord(ctx context.Context, rec schema.LegacyRecord) error {
	cols := []string{"title", "test_cases", "difficulty"}
	difficulty := sql.NullString{String: rec.Difficulty, Valid: rec.Difficulty != ""}
	_, err := s.db.ExecContext(ctx, s.d.InsertQuery(s.opts.SourceTable, cols), rec.Title, rec.TestCasesRaw, difficulty)
	if err != nil {
		return fmt.Errorf("failed to insert legacy record %q: %w", rec.Title, err)
	}
	return nil
}
