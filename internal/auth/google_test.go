package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	sharedauth "resume-builder/internal/shared/auth"
	"resume-builder/internal/users"
)

type fakeAccounts struct {
	calls []string
}

func (f *fakeAccounts) UpsertFromAuth(_ context.Context, email, name, _ string) (users.User, error) {
	f.calls = append(f.calls, email)
	return users.User{ID: "user-42", Email: email, Name: name}, nil
}

func newGoogleTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":    "g-1",
			"email": "grace@example.com",
			"name":  "Grace",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(t *testing.T, srv *httptest.Server, accounts Accounts) (*GoogleService, *sharedauth.Signer) {
	t.Helper()
	signer, err := sharedauth.NewSigner("test-secret", time.Hour, false)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	svc := NewGoogleService("client", "secret", "http://api.local/api/auth/google/callback", "http://ui.local/auth", accounts, signer)
	if srv != nil {
		svc.oauthConfig.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
		svc.userInfoURL = srv.URL + "/userinfo"
	}
	return svc, signer
}

func newRouter(svc *GoogleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api/auth"))
	return r
}

func TestCallbackIssuesTokenForLinkedAccount(t *testing.T) {
	srv := newGoogleTestServer(t)
	accounts := &fakeAccounts{}
	svc, signer := newTestService(t, srv, accounts)
	r := newRouter(svc)

	svc.stateStore.put("state-1", time.Now().Add(time.Minute))
	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=state-1&code=abc", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", resp.Code, resp.Body.String())
	}
	loc, err := url.Parse(resp.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if loc.Host != "ui.local" {
		t.Fatalf("unexpected redirect %s", loc)
	}
	claims, err := signer.Verify(loc.Query().Get("token"))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "user-42" || claims.Email != "grace@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if len(accounts.calls) != 1 {
		t.Fatalf("expected one account upsert, got %d", len(accounts.calls))
	}
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	svc, _ := newTestService(t, nil, &fakeAccounts{})
	r := newRouter(svc)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=nope&code=abc", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestStartRedirectsWithState(t *testing.T) {
	svc, _ := newTestService(t, nil, &fakeAccounts{})
	r := newRouter(svc)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/auth/google/start", nil))
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	loc, _ := url.Parse(resp.Header().Get("Location"))
	state := loc.Query().Get("state")
	if state == "" || !svc.stateStore.consume(state) {
		t.Fatalf("expected stored state, got %q", state)
	}
}

func TestStartRequiresConfiguration(t *testing.T) {
	signer, _ := sharedauth.NewSigner("s", time.Hour, false)
	svc := NewGoogleService("", "", "", "", &fakeAccounts{}, signer)
	r := newRouter(svc)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/auth/google/start", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
}

func TestStateStoreExpires(t *testing.T) {
	s := newStateStore()
	s.put("old", time.Now().Add(-time.Second))
	if s.consume("old") {
		t.Fatalf("expected expired state to be rejected")
	}
	s.put("fresh", time.Now().Add(time.Minute))
	if !s.consume("fresh") {
		t.Fatalf("expected fresh state to be accepted")
	}
	if s.consume("fresh") {
		t.Fatalf("expected state to be single-use")
	}
}
