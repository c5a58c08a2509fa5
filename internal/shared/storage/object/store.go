package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"resume-builder/internal/shared/util"
)

// UploadsPath is the URL path prefix under which stored files are served.
const UploadsPath = "/uploads/"

// ErrNotFound is returned when a key has no stored object.
var ErrNotFound = errors.New("object not found")

// FileStore persists uploaded files under flat, collision-free keys.
type FileStore interface {
	Save(ctx context.Context, originalName, contentType string, r io.Reader) (key string, err error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Linker hands out short-lived direct download URLs for stored keys.
type Linker interface {
	Exists(ctx context.Context, key string) (bool, error)
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// NewKey returns the storage name for an upload: <unix-millis>-<sanitized name>.
func NewKey(at time.Time, originalName string) string {
	name, err := util.SanitizeFileName(originalName)
	if err != nil {
		name = "file"
	}
	return fmt.Sprintf("%d-%s", at.UnixMilli(), name)
}

// ValidKey reports whether key is a single flat path segment.
func ValidKey(key string) bool {
	if key == "" || key == "." || key == ".." {
		return false
	}
	return !strings.ContainsAny(key, "/\\")
}

// PublicURL builds the link stored in a resume for key.
func PublicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + UploadsPath + url.PathEscape(key)
}

// URLSuffix is the tail every public link to key ends with, whatever the host.
func URLSuffix(key string) string {
	return UploadsPath + url.PathEscape(key)
}

// KeyFromURL recovers the storage key from a link produced by PublicURL.
// Empty, unparsable, or foreign links (not under an uploads path) yield "".
func KeyFromURL(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	dir, base := path.Split(u.EscapedPath())
	if !strings.HasSuffix(dir, UploadsPath) {
		return ""
	}
	key, err := url.PathUnescape(base)
	if err != nil || !ValidKey(key) {
		return ""
	}
	return key
}
