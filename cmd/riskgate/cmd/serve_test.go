package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradegate/riskgate/journal"
	"github.com/tradegate/riskgate/risk"
)

func TestServeMuxBreakerControl(t *testing.T) {
	j := journal.NewMemory()
	mgr, err := risk.New(risk.Default(), j)
	require.NoError(t, err)
	mux := newServeMux(mgr)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, false, status["circuit_breaker_active"])

	// Tripping through the HTTP surface halts the running gate itself.
	form := url.Values{"reason": {"ops halt"}}
	req := httptest.NewRequest(http.MethodPost, "/breaker/trip", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	s := mgr.Status()
	assert.True(t, s.CircuitBreakerActive)
	assert.Equal(t, "ops halt", s.TripReason)

	// The control endpoints are POST-only.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/breaker/reset", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.True(t, mgr.Status().CircuitBreakerActive)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/breaker/reset", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, mgr.Status().CircuitBreakerActive)

	events := j.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "TRIP", events[0].Action)
	assert.Equal(t, "ops halt", events[0].Reason)
	assert.Equal(t, "RESET", events[1].Action)
}
