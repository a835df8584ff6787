package server

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"tc-migrate/internal/schema"
)

// Runner performs one migration run.
type Runner interface {
	Run(ctx context.Context) (*schema.MigrationReport, error)
}

type migrateResponse struct {
	Success bool                     `json:"success"`
	Message string                   `json:"message"`
	Summary schema.MigrationSummary  `json:"summary"`
	Details []schema.MigrationResult `json:"details"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// MigrateHandler triggers a run. The request body is ignored. A 200 response
// can still carry per-record errors; only a failure before any record is
// processed yields 500.
func MigrateHandler(runner Runner, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The run is not tied to the client connection.
		ctx := context.WithoutCancel(r.Context())

		report, err := runner.Run(ctx)
		if err != nil {
			log.Error("Migration failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error:   "Migration failed",
				Details: err.Error(),
			})
			return
		}

		details := report.Details
		if details == nil {
			details = []schema.MigrationResult{}
		}
		writeJSON(w, http.StatusOK, migrateResponse{
			Success: true,
			Message: "Migration completed",
			Summary: report.Summary,
			Details: details,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
