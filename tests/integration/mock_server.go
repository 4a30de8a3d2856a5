package integration

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
)

// account is one profile the mock analytics endpoint knows about
type account struct {
	Username       string `json:"username"`
	Followers      int    `json:"followers"`
	AvgLikes       int    `json:"avgLikes"`
	AvgComments    int    `json:"avgComments"`
	EngagementRate string `json:"engagementRate"`
}

// MockAnalyticsServer simulates the external engagement endpoint with
// realistic behavior: JSON error envelopes, error-in-200 payloads, and
// simulated failures per username.
type MockAnalyticsServer struct {
	server       *httptest.Server
	requestCount int32

	mu       sync.RWMutex
	accounts map[string]account
	failWith map[string]int // username -> forced status code
}

// NewMockAnalyticsServer creates a mock endpoint seeded with a few accounts
func NewMockAnalyticsServer() *MockAnalyticsServer {
	m := &MockAnalyticsServer{
		accounts: map[string]account{
			"natgeo":   {Username: "natgeo", Followers: 280000000, AvgLikes: 350000, AvgComments: 2100, EngagementRate: "0.13"},
			"smallbiz": {Username: "smallbiz", Followers: 1200, AvgLikes: 95, AvgComments: 12, EngagementRate: "8.92"},
			"midsize":  {Username: "midsize", Followers: 50000, AvgLikes: 1800, AvgComments: 150, EngagementRate: "3.90"},
			"private":  {Username: "private"},
		},
		failWith: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/engagement", m.handleEngagement)
	m.server = httptest.NewServer(mux)
	return m
}

// URL returns the mock endpoint URL
func (m *MockAnalyticsServer) URL() string {
	return m.server.URL + "/api/engagement"
}

// Close shuts the server down
func (m *MockAnalyticsServer) Close() {
	m.server.Close()
}

// RequestCount returns the number of requests served so far
func (m *MockAnalyticsServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// FailWith makes requests for username return the given status code
func (m *MockAnalyticsServer) FailWith(username string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith[username] = status
}

// ClearFailure removes a forced failure for username
func (m *MockAnalyticsServer) ClearFailure(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failWith, username)
}

func (m *MockAnalyticsServer) handleEngagement(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	m.mu.RLock()
	forced, hasForced := m.failWith[req.Username]
	acct, known := m.accounts[req.Username]
	m.mu.RUnlock()

	if hasForced {
		writeError(w, forced, "simulated failure")
		return
	}

	if !known {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	// Private accounts answer 200 with an error payload
	if acct.EngagementRate == "" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"error": "account is private"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(acct)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
