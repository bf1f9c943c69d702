package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/motivationapp/motivation-service/internal/adapters/http/dto"
	"github.com/motivationapp/motivation-service/internal/adapters/http/middleware"
)

// AuthHandler serves sign-in, sign-up and password recovery.
type AuthHandler struct {
	accounts Accounts
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(accounts Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	session, err := h.accounts.Login(c.Request.Context(), middleware.GetDeviceID(c), req.ToDomain())
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// Register handles POST /auth/register and signs the device in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	session, err := h.accounts.Register(c.Request.Context(), middleware.GetDeviceID(c), req.ToDomain())
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSessionResponse(session))
}

// Recover handles POST /auth/recover.
func (h *AuthHandler) Recover(c *gin.Context) {
	var req dto.RecoverRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	msg, err := h.accounts.RequestRecovery(c.Request.Context(), req.Email)
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: msg})
}

// Reset handles POST /auth/reset.
func (h *AuthHandler) Reset(c *gin.Context) {
	var req dto.ResetRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	msg, err := h.accounts.ResetPassword(c.Request.Context(), req.ToDomain())
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: msg})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.accounts.Logout(c.Request.Context(), middleware.GetDeviceID(c)); err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Session handles GET /auth/session. A signed-out device gets 401.
func (h *AuthHandler) Session(c *gin.Context) {
	session, err := h.accounts.Session(c.Request.Context(), middleware.GetDeviceID(c))
	if err != nil {
		dto.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSessionResponse(session))
}

// RegisterRoutes mounts the auth routes.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register", h.Register)
	auth.POST("/recover", h.Recover)
	auth.POST("/reset", h.Reset)
	auth.POST("/logout", h.Logout)
	auth.GET("/session", h.Session)
}
