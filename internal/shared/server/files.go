package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/storage/object"
)

const defaultSignedURLTTL = 15 * time.Minute

// signedFileRedirect serves stored links from a bucket by redirecting to a
// short-lived presigned URL.
func signedFileRedirect(files object.Linker, ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = defaultSignedURLTTL
	}
	return func(c *gin.Context) {
		key := c.Param("key")
		if !object.ValidKey(key) {
			respond.Error(c, http.StatusNotFound, "not_found", "File not found", "")
			return
		}
		ok, err := files.Exists(c.Request.Context(), key)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", err.Error())
			return
		}
		if !ok {
			respond.Error(c, http.StatusNotFound, "not_found", "File not found", "")
			return
		}
		url, err := files.SignedURL(c.Request.Context(), key, ttl)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Internal server error", err.Error())
			return
		}
		c.Header("Cache-Control", "no-store")
		c.Redirect(http.StatusFound, url)
	}
}
