package adminapi

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"auditengine/pkg/testutil"
)

type fakeSweeper struct {
	called bool
}

func (f *fakeSweeper) Sweep(ctx context.Context) { f.called = true }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newHandler(sweeper Sweeper) *Handler {
	return &Handler{sweeper: sweeper, logger: discardLogger()}
}

func TestRouter_HealthzIsUnauthenticated(t *testing.T) {
	testutil.Given(t, "a router with auth disabled", func(t *testing.T) {
		router := newHandler(&fakeSweeper{}).Router(nil)

		testutil.When(t, "GET /healthz is called", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))

			testutil.Then(t, "it responds 200 without auth", func(t *testing.T) {
				testutil.AssertStatusOK(t, rec)
				testutil.AssertJSONContains(t, rec, "status", "ok")
			})
		})
	})
}

func TestRouter_MetricsIsUnauthenticated(t *testing.T) {
	router := newHandler(&fakeSweeper{}).Router(nil)

	rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))

	testutil.AssertStatusOK(t, rec)
}

func TestRouter_SweepTriggersSweeperWhenAuthDisabled(t *testing.T) {
	sweeper := &fakeSweeper{}
	router := newHandler(sweeper).Router(nil)

	rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/admin/sweep"))

	testutil.AssertStatus(t, rec, http.StatusAccepted)
	assert.True(t, sweeper.called)
}
