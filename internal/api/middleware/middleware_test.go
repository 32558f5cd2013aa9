package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"internship-tracker/backend/config"
	"internship-tracker/backend/internal/api/handler"
	"internship-tracker/backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── fakes ──

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type fakeLimiter struct {
	remaining int
	err       error
	keys      []string
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return false, f.err
	}
	if f.remaining <= 0 {
		return false, nil
	}
	f.remaining--
	return true, nil
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-for-middleware",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func authedEngine(mgr *jwt.Manager, bl TokenBlacklist) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuth(mgr, bl, zap.NewNop()))
	r.GET("/me", func(c *gin.Context) {
		exp, _ := c.Get(handler.CtxTokenExp)
		c.JSON(http.StatusOK, gin.H{
			"user_id":    c.GetString(handler.CtxUserID),
			"role":       c.GetString(handler.CtxRole),
			"advisor_id": c.GetString(handler.CtxAdvisorID),
			"jti":        c.GetString(handler.CtxTokenJTI),
			"has_exp":    exp != nil,
		})
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth ──

func TestJWTAuth_SetsCaller(t *testing.T) {
	mgr := newTestJWT()
	token, err := mgr.GenerateAccessToken("user-1", "advisor", "adv-1")
	if err != nil {
		t.Fatal(err)
	}

	w := get(authedEngine(mgr, nil), "/me", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`"user_id":"user-1"`, `"role":"advisor"`, `"advisor_id":"adv-1"`, `"has_exp":true`} {
		if !strings.Contains(body, want) {
			t.Errorf("body %s missing %s", body, want)
		}
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	mgr := newTestJWT()
	refresh, _ := mgr.GenerateRefreshToken("user-1", "advisor", "adv-1")
	r := authedEngine(mgr, nil)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"refresh token", "Bearer " + refresh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestJWTAuth_Blacklist(t *testing.T) {
	mgr := newTestJWT()
	token, _ := mgr.GenerateAccessToken("user-1", "admin", "")
	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}

	bl := &fakeBlacklist{revoked: map[string]bool{claims.ID: true}}
	if w := get(authedEngine(mgr, bl), "/me", token); w.Code != http.StatusUnauthorized {
		t.Errorf("revoked token: expected 401, got %d", w.Code)
	}

	// lookup failure lets the request through
	bl = &fakeBlacklist{err: errors.New("redis down")}
	if w := get(authedEngine(mgr, bl), "/me", token); w.Code != http.StatusOK {
		t.Errorf("blacklist error: expected 200, got %d", w.Code)
	}
}

// ── RoleAuth ──

func TestRoleAuth(t *testing.T) {
	mgr := newTestJWT()
	r := gin.New()
	r.Use(JWTAuth(mgr, nil, zap.NewNop()))
	r.GET("/admin", RoleAuth("admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	adminToken, _ := mgr.GenerateAccessToken("u1", "admin", "")
	advisorToken, _ := mgr.GenerateAccessToken("u2", "advisor", "adv-2")

	if w := get(r, "/admin", adminToken); w.Code != http.StatusNoContent {
		t.Errorf("admin: expected 204, got %d", w.Code)
	}
	if w := get(r, "/admin", advisorToken); w.Code != http.StatusForbidden {
		t.Errorf("advisor: expected 403, got %d", w.Code)
	}

	bare := gin.New()
	bare.GET("/admin", RoleAuth("admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	if w := get(bare, "/admin", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("no auth: expected 401, got %d", w.Code)
	}
}

// ── RateLimit ──

func TestRateLimit(t *testing.T) {
	limiter := &fakeLimiter{remaining: 2}
	r := gin.New()
	r.POST("/send-otp", RateLimit(limiter, 2, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/send-otp", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != 200 || codes[1] != 200 || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
	if !strings.HasSuffix(limiter.keys[0], ":/send-otp") {
		t.Errorf("key = %q", limiter.keys[0])
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	cases := map[string]RateLimiter{
		"nil limiter":   nil,
		"limiter error": &fakeLimiter{err: errors.New("redis down")},
	}
	for name, limiter := range cases {
		t.Run(name, func(t *testing.T) {
			r := gin.New()
			r.POST("/send-otp", RateLimit(limiter, 1, time.Minute, zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/send-otp", nil))
			if w.Code != http.StatusOK {
				t.Errorf("expected 200, got %d", w.Code)
			}
		})
	}
}

// ── BodyLimit ──

func TestBodyLimit_DeclaredLength(t *testing.T) {
	r := gin.New()
	r.POST("/x", BodyLimit(8), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("0123456789")))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("small")))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ── RequestID / CORS ──

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get(requestIDHeader) != "abc-123" || w.Body.String() != "abc-123" {
		t.Errorf("client id not reused: header=%q body=%q", w.Header().Get(requestIDHeader), w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", requestIDMaxLen+1))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); len(got) != 36 {
		t.Errorf("expected generated uuid, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://mini-app.example/"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://mini-app.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight: expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://mini-app.example" {
		t.Errorf("allow origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin must not be allowed")
	}
}
