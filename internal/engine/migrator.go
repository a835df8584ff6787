package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tc-migrate/internal/legacy"
	"tc-migrate/internal/schema"
)

// Source yields legacy problems whose test-case text is non-null and non-empty.
type Source interface {
	FetchLegacyRecords(ctx context.Context) ([]schema.LegacyRecord, error)
}

// Sink persists one normalized test case.
type Sink interface {
	InsertTestCase(ctx context.Context, tc schema.NormalizedTestCase) error
}

// Store is what a migration run needs.
type Store interface {
	Source
	Sink
}

// Verifier counts rows carrying a provenance tag, per problem. A Store that
// also implements Verifier gets a verification read at the end of a run.
type Verifier interface {
	CountBySource(ctx context.Context, source string) (map[int64]int, error)
}

type Option func(*Migrator)

func WithLogger(l *zap.Logger) Option {
	return func(m *Migrator) { m.log = l }
}

func WithSourceTag(tag string) Option {
	return func(m *Migrator) { m.sourceTag = tag }
}

func WithDefaultDifficulty(d string) Option {
	return func(m *Migrator) { m.defaultDifficulty = d }
}

// WithWorkers bounds concurrent inserts within one record. Records are
// always migrated one after another.
func WithWorkers(n int) Option {
	return func(m *Migrator) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithDryRun parses and reports without writing.
func WithDryRun(dry bool) Option {
	return func(m *Migrator) { m.dryRun = dry }
}

// WithProgress is called after each record with the number done so far.
func WithProgress(fn func(done, total int)) Option {
	return func(m *Migrator) { m.onProgress = fn }
}

func WithClock(now func() time.Time) Option {
	return func(m *Migrator) { m.now = now }
}

// Migrator copies legacy test cases into the normalized table. It keeps no
// state between runs; running twice writes every row twice.
type Migrator struct {
	store             Store
	log               *zap.Logger
	sourceTag         string
	defaultDifficulty string
	workers           int
	dryRun            bool
	onProgress        func(done, total int)
	now               func() time.Time
}

func New(store Store, opts ...Option) *Migrator {
	m := &Migrator{
		store:             store,
		log:               zap.NewNop(),
		sourceTag:         schema.ProvenanceTag,
		defaultDifficulty: schema.DefaultDifficulty,
		workers:           1,
		now:               func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// tally accumulates run totals; it is owned by the goroutine running Run.
type tally struct {
	migrated int
	errors   int
}

// Run migrates every qualifying record. The only returned error is a failure
// to read the legacy records; everything after that is reported in the
// summary and per-record details.
func (m *Migrator) Run(ctx context.Context) (*schema.MigrationReport, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := m.log.With(zap.String("run_id", runID))

	records, err := m.store.FetchLegacyRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch legacy records: %w", err)
	}
	log.Info("Starting migration",
		zap.Int("records", len(records)),
		zap.String("source_tag", m.sourceTag),
		zap.Bool("dry_run", m.dryRun))

	var t tally
	details := make([]schema.MigrationResult, 0, len(records))
	for i, rec := range records {
		details = append(details, m.migrateRecord(ctx, log, rec, &t))
		if m.onProgress != nil {
			m.onProgress(i+1, len(records))
		}
	}

	if !m.dryRun {
		m.verify(ctx, log, details)
	}

	report := &schema.MigrationReport{
		RunID: runID,
		Summary: schema.MigrationSummary{
			ProblemsProcessed: len(details),
			TestCasesMigrated: t.migrated,
			Errors:            t.errors,
		},
		Details: details,
		Elapsed: time.Since(start),
	}
	log.Info("Migration finished",
		zap.Int("problems", report.Summary.ProblemsProcessed),
		zap.Int("migrated", report.Summary.TestCasesMigrated),
		zap.Int("errors", report.Summary.Errors),
		zap.Duration("elapsed", report.Elapsed))
	return report, nil
}

func (m *Migrator) migrateRecord(ctx context.Context, log *zap.Logger, rec schema.LegacyRecord, t *tally) (res schema.MigrationResult) {
	res = schema.MigrationResult{ProblemID: rec.ID, Title: rec.Title}
	log = log.With(zap.Int64("problem_id", rec.ID), zap.String("title", rec.Title))

	defer func() {
		if r := recover(); r != nil {
			// A failed record contributes no migrated cases.
			t.migrated -= res.MigratedCount
			res.MigratedCount = 0
			res.Error = fmt.Sprintf("panic: %v", r)
			t.errors++
			log.Error("Record failed", zap.String("error", res.Error))
		}
	}()

	cases, err := legacy.Parse(rec.TestCasesRaw)
	if err != nil {
		res.Error = err.Error()
		t.errors++
		log.Error("Failed to parse legacy test cases", zap.Error(err))
		return res
	}

	res.ParsedCount = len(cases)
	if len(cases) == 0 {
		log.Info("No test cases parsed, skipping")
		return res
	}

	rows := m.normalize(rec, cases)
	if m.dryRun {
		log.Info("Parsed (dry run)", zap.Int("parsed", len(rows)))
		return res
	}

	for i, err := range m.persist(ctx, rows) {
		if err != nil {
			t.errors++
			log.Warn("Failed to insert test case", zap.Int("case", i+1), zap.Error(err))
			continue
		}
		res.MigratedCount++
		t.migrated++
	}
	log.Info("Record migrated", zap.Int("parsed", res.ParsedCount), zap.Int("migrated", res.MigratedCount))
	return res
}

func (m *Migrator) normalize(rec schema.LegacyRecord, cases []schema.ParsedTestCase) []schema.NormalizedTestCase {
	difficulty := rec.Difficulty
	if difficulty == "" {
		difficulty = m.defaultDifficulty
	}
	createdAt := m.now()

	rows := make([]schema.NormalizedTestCase, 0, len(cases))
	for _, tc := range cases {
		expected, _ := tc.Expected() // Parse never returns empty cases
		rows = append(rows, schema.NormalizedTestCase{
			ProblemID:       rec.ID,
			InputData:       tc.Inputs(),
			ExpectedOutput:  expected,
			Source:          m.sourceTag,
			DifficultyLevel: difficulty,
			IsActive:        true,
			CreatedAt:       createdAt,
		})
	}
	return rows
}

// persist writes rows and returns one error slot per row, in row order.
func (m *Migrator) persist(ctx context.Context, rows []schema.NormalizedTestCase) []error {
	errs := make([]error, len(rows))
	if m.workers <= 1 {
		for i, row := range rows {
			errs[i] = m.insert(ctx, row)
		}
		return errs
	}

	// Failures are collected per slot, so the group itself never errors
	// and one failed insert does not cancel the others.
	var g errgroup.Group
	g.SetLimit(m.workers)
	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			errs[i] = m.insert(ctx, row)
			return nil
		})
	}
	_ = g.Wait()
	return errs
}

// insert turns a panicking sink into an ordinary insert failure, so the
// outcome does not depend on which goroutine ran it.
func (m *Migrator) insert(ctx context.Context, row schema.NormalizedTestCase) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return m.store.InsertTestCase(ctx, row)
}
