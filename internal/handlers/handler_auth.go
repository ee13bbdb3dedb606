package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/dues_ledger/internal/core/ports/services"
	"github.com/SscSPs/dues_ledger/internal/dto"
	"github.com/SscSPs/dues_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// authHandler handles authentication related requests.
type authHandler struct {
	memberService portssvc.MemberAuthSvc
	tokenService  portssvc.TokenSvcFacade
}

// registerAuthRoutes sets up the public login routes behind the login rate limiter.
func registerAuthRoutes(r *gin.Engine, loginLimiter gin.HandlerFunc, memberService portssvc.MemberAuthSvc, tokenService portssvc.TokenSvcFacade) {
	h := &authHandler{memberService: memberService, tokenService: tokenService}

	auth := r.Group("/auth")
	{
		auth.POST("/login", loginLimiter, h.login)
		auth.POST("/setup-password", loginLimiter, h.setupPassword)
	}
}

// login godoc
// @Summary Member login
// @Description Authenticates a member by ID and password and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind login request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	member, err := h.memberService.AuthenticateMember(c.Request.Context(), req.MemberID, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid member ID or password"})
			return
		}
		respondWithError(c, err, "Failed to authenticate")
		return
	}

	h.issueToken(c, member)
}

// setupPassword godoc
// @Summary Set first password
// @Description Sets the password of a member registered without one and logs them in. Rejected once a password exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param setup body dto.SetupPasswordRequest true "Member ID and new password"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/setup-password [post]
func (h *authHandler) setupPassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetupPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind password setup request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	member, err := h.memberService.SetInitialPassword(c.Request.Context(), req.MemberID, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid member ID"})
			return
		}
		respondWithError(c, err, "Failed to set password")
		return
	}
	h.issueToken(c, member)
}

func (h *authHandler) issueToken(c *gin.Context, member *domain.Member) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), member)
	if err != nil {
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	logger.Info("Member logged in", slog.String("member_id", member.MemberID), slog.Bool("is_admin", member.IsAdmin))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		MemberID:  member.MemberID,
		IsAdmin:   member.IsAdmin,
	})
}
