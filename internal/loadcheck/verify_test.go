package loadcheck

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/raidstats/internal/adapters/http/api"
	"github.com/okian/raidstats/internal/adapters/repository"
	service "github.com/okian/raidstats/internal/app"
	"github.com/okian/raidstats/internal/domain/model"
	"github.com/okian/raidstats/pkg/logger"
)

func init() {
	if err := logger.InitWith(io.Discard, logger.FormatText); err != nil {
		panic(err)
	}
}

// startService serves a generated snapshot through the real API.
func startService(t *testing.T, cfg *Config) *httptest.Server {
	t.Helper()
	tbl, err := Generate(context.Background(), cfg)
	require.NoError(t, err)

	svc := service.New(
		service.WithWorkerCount(2),
		service.WithLoader(repository.LoaderFunc(func(context.Context) (*model.MasterTable, string, error) {
			return tbl, "loadcheck", nil
		})),
	)
	require.NoError(t, svc.Start(context.Background()))
	t.Cleanup(svc.Stop)

	srv := httptest.NewServer(api.NewServer(svc, svc).NewRouter(context.Background()))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifyAgainstService(t *testing.T) {
	cfg := smallConfig()
	cfg.MaxK = 5
	cfg.BaseURL = startService(t, cfg).URL

	report, err := Verify(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, report.Violations)
	assert.NotEmpty(t, report.RunID)
	// 12 Other/conservation, 8 percentage, 6 single partition, 1 top-k.
	assert.Equal(t, 27, report.Checks)
	assert.Greater(t, report.Requests, int64(report.Checks))
}

// brokenService answers with data that breaks every checked invariant.
func brokenService() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		switch r.URL.Path {
		case "/stats":
			fmt.Fprint(w, `{"maxLimit":100,"snapshot":{"generation":1,"skillOccurrences":1000}}`)
		case "/v1/partitions":
			fmt.Fprint(w, `[{"id":1,"name":"one"}]`)
		case "/v1/skills/top", "/v1/sets/top":
			if q.Get("normalised") == "true" {
				fmt.Fprint(w, `[{"id":1,"count":2}]`)
				return
			}
			fmt.Fprint(w, `[{"id":999,"count":1},{"id":1,"count":3},{"id":2,"count":9}]`)
		case "/v1/skills/prevalence", "/v1/sets/prevalence":
			fmt.Fprint(w, `[{"id":1,"name":"Fire","percentage":120.5}]`)
		case "/v1/players/top-k":
			fmt.Fprintf(w, `[{"player_id":7,"count":%d}]`, 20-len(q.Get("k")+q.Get("k")))
		default:
			http.NotFound(w, r)
		}
	})
}

func TestVerifyReportsViolations(t *testing.T) {
	srv := httptest.NewServer(brokenService())
	defer srv.Close()

	cfg := smallConfig()
	cfg.BaseURL = srv.URL
	cfg.MaxK = 12

	report, err := Verify(context.Background(), cfg)
	require.ErrorIs(t, err, ErrViolations)
	require.NotNil(t, report)

	joined := strings.Join(report.Violations, "\n")
	for _, want := range []string{"conservation", "Other at position 0", "count rises", "120.500%", "normalised", "top-k"} {
		assert.Contains(t, joined, want)
	}
}

func TestVerifyRequestFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stats" {
			fmt.Fprint(w, `{"maxLimit":100,"snapshot":null}`)
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := smallConfig()
	cfg.BaseURL = srv.URL
	_, err := Verify(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no snapshot")

	cfg.BaseURL = srv.URL + "/missing"
	_, err = Verify(context.Background(), cfg)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrViolations))
}

func TestVerifyRejectsBadConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.MaxK = 0
	_, err := Verify(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRunUnknownMode(t *testing.T) {
	err := Run(context.Background(), "explode", smallConfig())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
