package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/users"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config        config.Config
	Signer        *auth.Signer
	Users         middleware.UserResolver
	UserHandler   *users.Handler
	ResumeHandler *resumes.Handler
	GoogleAuth    *googleauth.GoogleService
	// UploadsDir is served under /uploads and /upload when files are kept on local disk.
	UploadsDir string
	// SignedFiles redirects /uploads and /upload to presigned URLs when there is no UploadsDir.
	SignedFiles object.Linker
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		metrics.Instrument(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	files := r.Group("/", middleware.PublicFiles())
	switch {
	case deps.UploadsDir != "":
		files.Static("/uploads", deps.UploadsDir)
		files.Static("/upload", deps.UploadsDir)
	case deps.SignedFiles != nil:
		redirect := signedFileRedirect(deps.SignedFiles, deps.Config.SignedURLTTL)
		files.GET("/uploads/:key", redirect)
		files.GET("/upload/:key", redirect)
	}

	requireAuth := middleware.Auth(deps.Signer, deps.Users)

	authGroup := r.Group("/api/auth")
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(authGroup, requireAuth)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(authGroup)
	}

	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(r.Group("/api/resume", requireAuth))
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
