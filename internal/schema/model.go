package schema

import "time"

const (
	// ProvenanceTag marks rows written by the legacy migration.
	ProvenanceTag = "migrated_legacy"
	// DefaultDifficulty applies when a legacy problem has no difficulty.
	DefaultDifficulty = "medium"
)

type Table struct {
	Name    string
	Columns []*Column
}

type Column struct {
	Name string
}

// LegacyRecord is one problem row carrying the old delimited test-case text.
type LegacyRecord struct {
	ID           int64
	Title        string
	Difficulty   string // empty when NULL in the source
	TestCasesRaw string
}

// ParsedTestCase is one tuple: inputs followed by the expected output.
type ParsedTestCase []Value

// Inputs returns every element except the last.
func (c ParsedTestCase) Inputs() []Value {
	if len(c) == 0 {
		return []Value{}
	}
	out := make([]Value, len(c)-1)
	copy(out, c[:len(c)-1])
	return out
}

// Expected returns the last element.
func (c ParsedTestCase) Expected() (Value, bool) {
	if len(c) == 0 {
		return Value{}, false
	}
	return c[len(c)-1], true
}

// NormalizedTestCase is the persisted row shape.
type NormalizedTestCase struct {
	ProblemID       int64     `json:"problem_id"`
	InputData       []Value   `json:"input_data"`
	ExpectedOutput  Value     `json:"expected_output"`
	Source          string    `json:"source"`
	DifficultyLevel string    `json:"difficulty_level"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

// 리포트용 구조체
type MigrationResult struct {
	ProblemID     int64  `json:"problemId"`
	Title         string `json:"title"`
	ParsedCount   int    `json:"parsedCount"`
	MigratedCount int    `json:"migratedCount"`
	Error         string `json:"error,omitempty"`
	VerifiedCount *int   `json:"verifiedCount,omitempty"`
}

type MigrationSummary struct {
	ProblemsProcessed int `json:"problems_processed"`
	TestCasesMigrated int `json:"test_cases_migrated"`
	Errors            int `json:"errors"`
}

type MigrationReport struct {
	RunID   string
	Summary MigrationSummary
	Details []MigrationResult
	Elapsed time.Duration
}
