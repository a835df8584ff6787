package engine

import (
	"context"

	"go.uber.org/zap"

	"tc-migrate/internal/schema"
)

// verify attaches the per-problem count of tagged rows to details. It is
// best effort: a failed read is logged and leaves details untouched.
func (m *Migrator) verify(ctx context.Context, log *zap.Logger, details []schema.MigrationResult) {
	v, ok := m.store.(Verifier)
	if !ok {
		return
	}

	counts, err := v.CountBySource(ctx, m.sourceTag)
	if err != nil {
		log.Warn("Verification read failed", zap.Error(err))
		return
	}

	for i := range details {
		n := counts[details[i].ProblemID]
		details[i].VerifiedCount = &n
		if details[i].MigratedCount > n {
			log.Warn("Verified count below migrated count",
				zap.Int64("problem_id", details[i].ProblemID),
				zap.Int("migrated", details[i].MigratedCount),
				zap.Int("verified", n))
		}
	}
}
