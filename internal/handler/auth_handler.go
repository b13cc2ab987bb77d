package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/christianEkogha/basic-cash-card/internal/auth"
	"github.com/christianEkogha/basic-cash-card/internal/middleware"
)

// TokenIssuer mints bearer tokens for verified identities.
type TokenIssuer interface {
	Issue(*auth.Identity) (string, error)
}

// AuthHandler exchanges a username and password for a bearer token.
type AuthHandler struct {
	creds  auth.CredentialStore
	tokens TokenIssuer
}

type LoginRequest struct {
	// Owners are stored as VARCHAR(256).
	Username string `json:"username" validate:"required,max=256"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

func NewAuthHandler(creds auth.CredentialStore, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{creds: creds, tokens: tokens}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	identity, err := h.creds.Verify(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			_ = c.Error(err)
		}
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(identity)
	if err != nil {
		_ = c.Error(err)
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token})
}
