package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestListIncludesCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/items", func(c *gin.Context) {
		List[string](c, "ok", nil)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/items", nil))

	var body struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
		Count   *int     `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Count == nil || *body.Count != 0 || body.Data == nil {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestErrorRedaction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", "db down")
	})

	for _, redact := range []bool{false, true} {
		RedactDetails(redact)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))

		var body Envelope
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Success || body.Message != "Internal server error" {
			t.Fatalf("unexpected body: %+v", body)
		}
		if redact && body.Error != "" {
			t.Fatalf("expected redacted detail, got %q", body.Error)
		}
		if !redact && body.Error != "db down" {
			t.Fatalf("expected detail, got %q", body.Error)
		}
	}
	RedactDetails(false)
}
