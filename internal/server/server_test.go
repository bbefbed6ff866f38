package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anoa.com/trackforge/internal/config"
	"anoa.com/trackforge/internal/middleware"
	"anoa.com/trackforge/internal/testutil"
	"github.com/gin-gonic/gin"
)

func TestServerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	ctx := context.Background()
	cfg := &config.Config{
		AppEnv:                  "test",
		AllowedOrigins:          "http://localhost:3000",
		JWTSecret:               "secret",
		MetricConcurrency:       2,
		MetricTimeout:           time.Second,
		LedgerRepairSchedule:    "@every 1h",
		LeaderboardDefaultLimit: 10,
		LeaderboardMaxLimit:     100,
	}

	srv, err := NewServer(cfg, db, nil, testutil.Logger(t))
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	alice := testutil.SeedUser(t, ctx, db, "alice")
	token, err := middleware.NewAuthMiddleware(cfg.JWTSecret).IssueToken(alice.ID, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		auth   bool
		status int
	}{
		{"health", http.MethodGet, "/healthz", false, http.StatusOK},
		{"auth required", http.MethodGet, "/api/leaderboard", false, http.StatusUnauthorized},
		{"leaderboard", http.MethodGet, "/api/leaderboard", true, http.StatusOK},
		{"workflow", http.MethodGet, "/api/workflow", true, http.StatusOK},
		{"evaluate", http.MethodPost, "/api/achievements/evaluate", true, http.StatusOK},
		{"catalog", http.MethodGet, "/api/achievements", true, http.StatusOK},
		{"stats", http.MethodGet, "/api/stats/me", true, http.StatusOK},
		{"notifications", http.MethodGet, "/api/notifications", true, http.StatusOK},
		{"stream without redis", http.MethodGet, "/api/notifications/ws", true, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestNewServer_RejectsBadSchedule(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:               "secret",
		LedgerRepairSchedule:    "whenever",
		LeaderboardDefaultLimit: 10,
		LeaderboardMaxLimit:     100,
	}
	if _, err := NewServer(cfg, testutil.DB(t), nil, testutil.Logger(t)); err == nil {
		t.Fatalf("expected invalid schedule to fail")
	}
}

func TestOriginAllowed(t *testing.T) {
	allowed := originAllowed(parseOrigins(" http://a.test , http://b.test,"))
	if !allowed("http://a.test") || !allowed("http://b.test") {
		t.Fatalf("expected configured origins to be allowed")
	}
	if allowed("http://evil.test") {
		t.Fatalf("unexpected origin allowed")
	}
	if got := parseOrigins(""); len(got) != 1 || got[0] != "http://localhost:3000" {
		t.Fatalf("unexpected default origins: %v", got)
	}
}
