package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tc-migrate/internal/schema"
	"tc-migrate/internal/server"
)

type stubRunner struct {
	report *schema.MigrationReport
	err    error
	calls  int
	ctxErr error
}

func (s *stubRunner) Run(ctx context.Context) (*schema.MigrationReport, error) {
	s.calls++
	s.ctxErr = ctx.Err()
	return s.report, s.err
}

func serve(t *testing.T, runner server.Runner, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := server.NewRouter(runner, "", zap.NewNop())
	req := httptest.NewRequest(method, path, strings.NewReader(`{"ignored": true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMigrateHandler_Success(t *testing.T) {
	verified := 1
	runner := &stubRunner{report: &schema.MigrationReport{
		Summary: schema.MigrationSummary{ProblemsProcessed: 2, TestCasesMigrated: 1, Errors: 1},
		Details: []schema.MigrationResult{
			{ProblemID: 7, Title: "Two Sum", ParsedCount: 2, MigratedCount: 1, VerifiedCount: &verified},
			{ProblemID: 8, Title: "Broken", Error: "legacy test cases are not valid UTF-8"},
		},
	}}

	rec := serve(t, runner, http.MethodPost, server.DefaultPath)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, 1, runner.calls)

	assert.JSONEq(t, `{
		"success": true,
		"message": "Migration completed",
		"summary": {"problems_processed": 2, "test_cases_migrated": 1, "errors": 1},
		"details": [
			{"problemId": 7, "title": "Two Sum", "parsedCount": 2, "migratedCount": 1, "verifiedCount": 1},
			{"problemId": 8, "title": "Broken", "parsedCount": 0, "migratedCount": 0, "error": "legacy test cases are not valid UTF-8"}
		]
	}`, rec.Body.String())
}

func TestMigrateHandler_EmptyDetailsIsArray(t *testing.T) {
	runner := &stubRunner{report: &schema.MigrationReport{}}

	rec := serve(t, runner, http.MethodPost, server.DefaultPath)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "[]", string(body["details"]))
}

func TestMigrateHandler_SetupFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("failed to fetch legacy records: connection refused")}

	rec := serve(t, runner, http.MethodPost, server.DefaultPath)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{
		"error": "Migration failed",
		"details": "failed to fetch legacy records: connection refused"
	}`, rec.Body.String())
}

func TestMigrateHandler_Preflight(t *testing.T) {
	runner := &stubRunner{}

	rec := serve(t, runner, http.MethodOptions, server.DefaultPath)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "content-type")
	assert.Equal(t, 0, runner.calls)
}

func TestMigrateHandler_GetNotAllowed(t *testing.T) {
	runner := &stubRunner{}

	rec := serve(t, runner, http.MethodGet, server.DefaultPath)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 0, runner.calls)
}

func TestMigrateHandler_RunSurvivesCancelledRequest(t *testing.T) {
	runner := &stubRunner{report: &schema.MigrationReport{}}
	router := server.NewRouter(runner, "/run", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/run", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, runner.ctxErr)
}

type panicRunner struct{}

func (panicRunner) Run(ctx context.Context) (*schema.MigrationReport, error) {
	panic("boom")
}

func TestMigrateHandler_PanicRecovered(t *testing.T) {
	rec := serve(t, panicRunner{}, http.MethodPost, server.DefaultPath)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Migration failed")
}
