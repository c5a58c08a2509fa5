package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	localstore "resume-builder/internal/shared/storage/object/local"
	"resume-builder/internal/users"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := localstore.New(dir)
	require.NoError(t, err)
	signer, err := auth.NewSigner("router-secret", time.Hour, false)
	require.NoError(t, err)

	userSvc := users.NewService(users.NewMemoryRepo())
	r := NewRouter(RouterDeps{
		Config:        config.Config{Env: "test", CORSAllowOrigin: []string{"http://localhost:5173"}},
		Signer:        signer,
		Users:         userSvc,
		UserHandler:   users.NewHandler(userSvc, signer),
		ResumeHandler: resumes.NewHandler(resumes.NewService(resumes.NewMemoryRepo(), store), 0, ""),
		UploadsDir:    dir,
	})
	return r, dir
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get("X-Request-Id"))

	resp = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "go_goroutines")
}

func TestResumeRoutesRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := serve(r, httptest.NewRequest(http.MethodGet, "/api/resume/", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "No token provided")
}

func TestStaticUploadsAllowAnyOrigin(t *testing.T) {
	r, dir := newTestRouter(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1700000000000-a.png"), []byte("png"), 0o644))

	for _, prefix := range []string{"/uploads/", "/upload/"} {
		resp := serve(r, httptest.NewRequest(http.MethodGet, prefix+"1700000000000-a.png", nil))
		assert.Equal(t, http.StatusOK, resp.Code, prefix)
		assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"), prefix)
		assert.Equal(t, "png", resp.Body.String(), prefix)
	}
}

func TestRegisterCreateAndUploadFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{"name":"Ada","email":"ada@example.com","password":"supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := serve(r, req)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var registered users.AuthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &registered))
	require.NotEmpty(t, registered.Token)
	bearer := "Bearer " + registered.Token

	req = httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", bearer)
	resp = serve(r, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "ada@example.com")
	assert.NotContains(t, resp.Body.String(), "supersecret")

	req = httptest.NewRequest(http.MethodPost, "/api/resume/create", bytes.NewBufferString(`{"title":"CV"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer)
	resp = serve(r, req)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var created struct {
		Data resumes.Resume `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, registered.ID, created.Data.UserID)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="thumbnail"; filename="thumb.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte("thumbnail-bytes"))
	require.NoError(t, w.Close())

	req = httptest.NewRequest(http.MethodPut, "/api/resume/"+created.Data.ID+"/upload-images", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", bearer)
	resp = serve(r, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var uploaded struct {
		Data resumes.UploadResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &uploaded))
	link, err := url.Parse(uploaded.Data.ThumbnailLink)
	require.NoError(t, err)

	resp = serve(r, httptest.NewRequest(http.MethodGet, link.Path, nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "thumbnail-bytes", resp.Body.String())
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
}

type fakeLinker struct {
	keys map[string]bool
	ttl  time.Duration
}

func (f *fakeLinker) Exists(_ context.Context, key string) (bool, error) {
	return f.keys[key], nil
}

func (f *fakeLinker) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	f.ttl = ttl
	return "https://bucket.example.com/" + key + "?sig=1", nil
}

func TestUploadsRedirectToSignedURLWithoutLocalDir(t *testing.T) {
	linker := &fakeLinker{keys: map[string]bool{"1700000000000-a.png": true}}
	r := NewRouter(RouterDeps{
		Config:      config.Config{Env: "test", SignedURLTTL: 5 * time.Minute},
		SignedFiles: linker,
	})

	for _, prefix := range []string{"/uploads/", "/upload/"} {
		resp := serve(r, httptest.NewRequest(http.MethodGet, prefix+"1700000000000-a.png", nil))
		assert.Equal(t, http.StatusFound, resp.Code, prefix)
		assert.Equal(t, "https://bucket.example.com/1700000000000-a.png?sig=1", resp.Header().Get("Location"), prefix)
		assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"), prefix)
	}
	assert.Equal(t, 5*time.Minute, linker.ttl)

	resp := serve(r, httptest.NewRequest(http.MethodGet, "/uploads/1700000000000-missing.png", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
