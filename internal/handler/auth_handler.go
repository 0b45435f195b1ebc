package handler

import (
	"net/http"

	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  service.AuthService
	resetService service.PasswordResetService
}

// NewAuthHandler sets up the routing dependencies for auth endpoints
func NewAuthHandler(authService service.AuthService, resetService service.PasswordResetService) *AuthHandler {
	return &AuthHandler{authService: authService, resetService: resetService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/google", h.GoogleLogin)
		auth.POST("/refresh-token", h.RefreshToken)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/verify-reset-code", h.VerifyResetCode)
		auth.POST("/reset-password", h.ResetPassword)
	}
}

// Register handles POST /auth/register
// @Summary      Register user
// @Description  Creates a local account and returns an access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterRequest  true  "Register Payload"
// @Success      201      {object}  response.Success{data=service.AuthResponse}
// @Failure      400      {object}  response.APIError
// @Failure      409      {object}  response.APIError
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	auth, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "user registered", auth)
}

// Login handles POST /auth/login
// @Summary      Login user
// @Description  Authenticates by username and password, returning a token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Login Credentials"
// @Success      200      {object}  response.Success{data=service.AuthResponse}
// @Failure      400      {object}  response.APIError
// @Failure      401      {object}  response.APIError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	auth, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "login successful", auth)
}

// GoogleLogin handles POST /auth/google
// @Summary      Login with Google
// @Description  Verifies a Google ID token, creating the account on first login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.GoogleLoginRequest  true  "Google ID Token"
// @Success      200      {object}  response.Success{data=service.AuthResponse}
// @Failure      400      {object}  response.APIError
// @Failure      401      {object}  response.APIError
// @Router       /auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req service.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	auth, err := h.authService.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "login successful", auth)
}

// RefreshToken handles POST /auth/refresh-token
// @Summary      Refresh token
// @Description  Redeems a single-use refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RefreshTokenRequest  true  "Refresh Token"
// @Success      200      {object}  response.Success{data=service.AuthResponse}
// @Failure      400      {object}  response.APIError
// @Failure      401      {object}  response.APIError
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req service.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	auth, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "token refreshed", auth)
}

// ForgotPassword handles POST /auth/forgot-password
// @Summary      Request password reset
// @Description  Emails a one-time code to the account's address
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ForgotPasswordRequest  true  "Account Email"
// @Success      200      {object}  response.Success
// @Failure      400      {object}  response.APIError
// @Failure      404      {object}  response.APIError
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req service.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	if err := h.resetService.InitiateReset(c.Request.Context(), req.Email); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "reset code sent", nil)
}

// VerifyResetCode handles POST /auth/verify-reset-code
// @Summary      Verify reset code
// @Description  Trades a valid one-time code for a password reset token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.VerifyResetCodeRequest  true  "Email and Code"
// @Success      200      {object}  response.Success{data=service.VerifyResetCodeResponse}
// @Failure      400      {object}  response.APIError
// @Router       /auth/verify-reset-code [post]
func (h *AuthHandler) VerifyResetCode(c *gin.Context) {
	var req service.VerifyResetCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	result, err := h.resetService.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "reset code verified", result)
}

// ResetPassword handles POST /auth/reset-password
// @Summary      Reset password
// @Description  Sets a new password using a verified reset token and revokes all sessions
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ResetPasswordRequest  true  "Reset Token and New Password"
// @Success      200      {object}  response.Success
// @Failure      400      {object}  response.APIError
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req service.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err))
		return
	}

	if err := h.resetService.ResetPassword(c.Request.Context(), req.ResetToken, req.NewPassword, req.ConfirmNewPassword); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, "password reset successful", nil)
}
