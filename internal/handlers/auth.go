package handlers

import (
	"errors"
	"net/http"

	"github.com/fmtlab/fmtlab/internal/models"
	"github.com/fmtlab/fmtlab/internal/services"

	"github.com/gin-gonic/gin"
)

// Client-facing messages for the authentication failure taxonomy. Store and
// directory failures intentionally map to generic text; the detailed cause is
// only logged server-side.
const (
	msgLoginSuccess    = "Login successful."
	msgLogoutSuccess   = "Logout Successful"
	msgInvalidInput    = "Username and password are required."
	msgUnknownUser     = "Invalid UserName, Please Try Again"
	msgInactive        = "This user account is not active."
	msgWrongPassword   = "Password Is Incorrect, Please Enter Correct Password"
	msgNoLocalPassword = "No local password is set for this user."
	msgStoreFailure    = "A database error occurred. Please try again later."
	msgDirectoryError  = "An error occurred during directory authentication."
	msgSystemError     = "An unexpected error occurred. Please try again later."
)

type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(as *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type loginData struct {
	Token                string `json:"token"`
	AuthenticationTypeID int    `json:"authenticationTypeID"`
	Message              string `json:"message"`
}

// Authenticate handles POST /api/user/authenticate. Both success and failure
// use HTTP 200 with the uniform envelope; the isSuccess flag carries the
// outcome.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, models.Failure(msgInvalidInput))
		return
	}

	result, err := h.authService.Authenticate(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		c.JSON(http.StatusOK, models.Failure(failureMessage(err)))
		return
	}

	c.JSON(http.StatusOK, models.Success(loginData{
		Token:                result.Token,
		AuthenticationTypeID: result.AuthType,
		Message:              msgLoginSuccess,
	}))
}

// Logout handles POST /api/user/logout. Tokens are client-owned and the
// server holds no session state, so this only acknowledges the request.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, models.Success(map[string]string{
		"message": msgLogoutSuccess,
	}))
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return msgInvalidInput
	case errors.Is(err, services.ErrUnknownUser):
		return msgUnknownUser
	case errors.Is(err, services.ErrAccountInactive):
		return msgInactive
	case errors.Is(err, services.ErrWrongPassword):
		return msgWrongPassword
	case errors.Is(err, services.ErrNoLocalPassword):
		return msgNoLocalPassword
	case errors.Is(err, services.ErrStoreUnavailable):
		return msgStoreFailure
	case errors.Is(err, services.ErrDirectoryUnavailable):
		return msgDirectoryError
	default:
		return msgSystemError
	}
}
