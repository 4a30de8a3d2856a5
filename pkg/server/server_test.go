package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engage/pkg/analytics"
	"engage/pkg/config"
	errs "engage/pkg/errors"
	"engage/pkg/gamification"
	"engage/pkg/store"
)

// fakeChecker returns scripted reports by username
type fakeChecker struct {
	reports map[string]*analytics.Report
	err     error
}

func (f *fakeChecker) CheckEngagement(username string) (*analytics.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	report, ok := f.reports[username]
	if !ok {
		return nil, errs.New(errs.ErrorTypeNotFound, "user not found", 404)
	}
	return report, nil
}

func newTestServer(t *testing.T, checker Checker, burst int) *Server {
	t.Helper()

	cfg := &config.ServerConfig{
		Addr:           "127.0.0.1:0",
		AllowedOrigins: []string{"*"},
		EnableMetrics:  false,
	}
	engine := gamification.NewEngine(store.NewMemoryStore(), nil)
	return New(cfg, burst, engine, checker, nil)
}

func report(username string, followers int, rate float64) *analytics.Report {
	return &analytics.Report{
		Username:       username,
		Followers:      followers,
		EngagementRate: analytics.RateVal(rate),
	}
}

func postJSON(t *testing.T, srv *Server, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, srv *Server, path string, out interface{}) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestHandleCheck(t *testing.T) {
	checker := &fakeChecker{reports: map[string]*analytics.Report{
		"natgeo": report("natgeo", 280000000, 6.5),
	}}
	srv := newTestServer(t, checker, 60)

	w := postJSON(t, srv, "/api/check", map[string]string{"username": "natgeo"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp checkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "natgeo", resp.Username)
	assert.InDelta(t, 6.5, resp.EngagementRate, 0.0001)
	require.NotNil(t, resp.Gamification)
	assert.Equal(t, 60, resp.Gamification.PointsEarned)
	assert.NotEmpty(t, resp.Gamification.NewAchievements)
}

func TestHandleCheckMissingUsername(t *testing.T) {
	srv := newTestServer(t, &fakeChecker{}, 60)

	w := postJSON(t, srv, "/api/check", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCheckErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", errs.New(errs.ErrorTypeNotFound, "user not found", 404), http.StatusBadRequest},
		{"endpoint error", errs.New(errs.ErrorTypeEndpoint, "account is private", 200), http.StatusBadRequest},
		{"rate limited", errs.New(errs.ErrorTypeRateLimit, "slow down", 429), http.StatusTooManyRequests},
		{"network", errs.New(errs.ErrorTypeNetwork, "connection refused", 0), http.StatusBadGateway},
		{"server error", errs.New(errs.ErrorTypeServerError, "boom", 500), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeChecker{err: tt.err}, 60)

			w := postJSON(t, srv, "/api/check", map[string]string{"username": "anyone"})
			assert.Equal(t, tt.wantStatus, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleCheckFailureMutatesNothing(t *testing.T) {
	srv := newTestServer(t, &fakeChecker{err: errs.New(errs.ErrorTypeNotFound, "user not found", 404)}, 60)

	postJSON(t, srv, "/api/check", map[string]string{"username": "ghost"})

	var stats struct {
		Stats gamification.UserStats `json:"stats"`
	}
	getJSON(t, srv, "/api/stats", &stats)
	assert.Zero(t, stats.Stats.TotalPoints)
	assert.Zero(t, stats.Stats.AccountsChecked)
}

func TestHandleStats(t *testing.T) {
	checker := &fakeChecker{reports: map[string]*analytics.Report{
		"acct": report("acct", 100, 2.0),
	}}
	srv := newTestServer(t, checker, 60)
	postJSON(t, srv, "/api/check", map[string]string{"username": "acct"})

	var resp struct {
		Stats         gamification.UserStats `json:"stats"`
		LevelProgress float64                `json:"levelProgress"`
		PointsToNext  int                    `json:"pointsToNext"`
		SessionChecks int64                  `json:"sessionChecks"`
		ChallengeDone bool                   `json:"challengeDone"`
	}
	w := getJSON(t, srv, "/api/stats", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 30, resp.Stats.TotalPoints, "20 check points plus the first-check badge")
	assert.Equal(t, int64(1), resp.SessionChecks)
	assert.False(t, resp.ChallengeDone)
	assert.Equal(t, 70, resp.PointsToNext)
}

func TestHandleAchievements(t *testing.T) {
	srv := newTestServer(t, &fakeChecker{}, 60)

	var resp struct {
		Achievements []gamification.Achievement `json:"achievements"`
	}
	w := getJSON(t, srv, "/api/achievements", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Achievements, 10)
	for _, a := range resp.Achievements {
		assert.False(t, a.Unlocked)
	}
}

func TestHandleLeaderboard(t *testing.T) {
	srv := newTestServer(t, &fakeChecker{}, 60)

	var resp struct {
		Leaderboard []gamification.LeaderboardEntry `json:"leaderboard"`
	}
	w := getJSON(t, srv, "/api/leaderboard", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Leaderboard, 7)
	assert.Equal(t, "Alex", resp.Leaderboard[0].Username)
}

func TestHandleTop(t *testing.T) {
	checker := &fakeChecker{reports: map[string]*analytics.Report{
		"low":  report("low", 10, 1.0),
		"high": report("high", 10, 8.0),
	}}
	srv := newTestServer(t, checker, 60)
	postJSON(t, srv, "/api/check", map[string]string{"username": "low"})
	postJSON(t, srv, "/api/check", map[string]string{"username": "high"})

	var resp struct {
		Entries []gamification.EngagementEntry `json:"entries"`
	}
	w := getJSON(t, srv, "/api/top?limit=1", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "high", resp.Entries[0].Username)
}

func TestHandleTopEmpty(t *testing.T) {
	srv := newTestServer(t, &fakeChecker{}, 60)

	var resp struct {
		Entries []gamification.EngagementEntry `json:"entries"`
	}
	w := getJSON(t, srv, "/api/top", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, resp.Entries)
	assert.Empty(t, resp.Entries)
}

func TestHandleChallenge(t *testing.T) {
	srv := newTestServer(t, &fakeChecker{}, 60)

	var resp struct {
		Description string                              `json:"description"`
		Reward      int                                 `json:"reward"`
		Progress    gamification.DailyChallengeProgress `json:"progress"`
		Complete    bool                                `json:"complete"`
	}
	w := getJSON(t, srv, "/api/challenge", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, resp.Reward)
	assert.NotEmpty(t, resp.Description)
	assert.False(t, resp.Complete)
}

func TestHandleVSMode(t *testing.T) {
	srv := newTestServer(t, &fakeChecker{}, 60)

	var resp struct {
		Unlocked []gamification.Achievement `json:"unlocked"`
	}

	w := postJSON(t, srv, "/api/vsmode", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Unlocked, 1)
	assert.Equal(t, "vs_mode", resp.Unlocked[0].ID)

	w = postJSON(t, srv, "/api/vsmode", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Unlocked, "second unlock is a no-op")
}

func TestThrottle(t *testing.T) {
	checker := &fakeChecker{reports: map[string]*analytics.Report{
		"acct": report("acct", 10, 1.0),
	}}
	srv := newTestServer(t, checker, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := postJSON(t, srv, "/api/check", map[string]string{"username": "acct"})
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeChecker{}, 60)

	var resp map[string]string
	w := getJSON(t, srv, "/healthz", &resp)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", resp["status"])
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, &fakeChecker{}, 60)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
