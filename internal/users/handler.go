package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

type Handler struct {
	Svc    *Service
	Signer *auth.Signer
}

func NewHandler(svc *Service, signer *auth.Signer) *Handler {
	return &Handler{Svc: svc, Signer: signer}
}

// RegisterRoutes mounts the account endpoints. requireAuth guards the profile route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.GET("/profile", requireAuth, h.profile)
}

func (h *Handler) register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "Invalid request body", err.Error())
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "bad_request", err.Error(), "")
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusConflict, "conflict", "User already exists", "")
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Server Error", err.Error())
		}
		return
	}
	h.issue(c, http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "Invalid request body", err.Error())
		return
	}
	user, err := h.Svc.Login(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Invalid email or password", "")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Server Error", err.Error())
		return
	}
	h.issue(c, http.StatusOK, user)
}

func (h *Handler) profile(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "User not found", "")
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Server Error", err.Error())
		return
	}
	respond.JSON(c, http.StatusOK, user)
}

func (h *Handler) issue(c *gin.Context, status int, user User) {
	token, err := h.Signer.Sign(auth.Claims{UserID: user.ID, Email: user.Email, Name: user.Name})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Server Error", err.Error())
		return
	}
	respond.JSON(c, status, AuthResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		ProfileImageURL: user.ProfileImageURL,
		Token:           token,
	})
}
