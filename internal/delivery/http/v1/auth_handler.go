package v1

import (
	"errors"
	"net/http"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/delivery/http/middleware"
	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC        domain.AuthUsecase
	loginTracker  *security.LoginTracker
	uploadLimiter *security.UploadLimiter
	config        *config.Config
}

func NewAuthHandler(
	public *gin.RouterGroup,
	protected *gin.RouterGroup,
	loginLimit gin.HandlerFunc,
	authUC domain.AuthUsecase,
	loginTracker *security.LoginTracker,
	uploadLimiter *security.UploadLimiter,
	cfg *config.Config,
) {
	handler := &AuthHandler{
		authUC:        authUC,
		loginTracker:  loginTracker,
		uploadLimiter: uploadLimiter,
		config:        cfg,
	}

	publicUser := public.Group("/user")
	{
		publicUser.POST("/register", loginLimit, handler.Register)
		publicUser.POST("/login", loginLimit, handler.Login)
		publicUser.GET("/logout", handler.Logout)
	}

	protectedUser := protected.Group("/user")
	{
		protectedUser.GET("/me", handler.Me)
		protectedUser.POST("/me", handler.UpdateProfile)
	}
}

// Register godoc
// @Summary      Register
// @Description  Create a student or recruiter account
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterInput  true  "Registration details"
// @Success      201       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Router       /user/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	if err := h.authUC.Register(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Account created successfully.", nil)
}

// Login godoc
// @Summary      Login
// @Description  Authenticate and receive the session cookie
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        login  body      domain.LoginInput  true  "Credentials"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /user/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	reqID := c.GetString(string(domain.KeyRequestID))

	blocked, err := h.loginTracker.IsBlocked(ctx, req.Email)
	if err != nil {
		logger.Log.Warn("Login tracker unavailable", "error", err)
	}
	if blocked {
		security.DefaultLogger().LogLoginBlocked(ctx, req.Email, c.ClientIP(), reqID)
		c.Error(apperror.TooManyRequests("Too many failed login attempts. Please try again later."))
		return
	}

	session, err := h.authUC.Authenticate(ctx, req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			if _, trackErr := h.loginTracker.RecordFailedAttempt(ctx, req.Email, c.ClientIP(), reqID); trackErr != nil {
				logger.Log.Warn("Failed to record login attempt", "error", trackErr)
			}
		}
		c.Error(err)
		return
	}

	if err := h.loginTracker.ClearAttempts(ctx, req.Email); err != nil {
		logger.Log.Warn("Failed to clear login attempts", "error", err)
	}
	security.DefaultLogger().LogLoginSuccess(ctx, session.User.ID, c.ClientIP(), reqID)

	h.setSessionCookie(c, session.Token, int(h.config.SessionTTL.Seconds()))
	response.Success(c, http.StatusOK, "Welcome back "+session.User.Name, response.Payload{
		"user": session.User,
	})
}

// Logout godoc
// @Summary      Logout
// @Description  Clear the session cookie and revoke the session
// @Tags         user
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /user/logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.SessionToken(c); token != "" {
		if err := h.authUC.EndSession(c.Request.Context(), token); err != nil {
			c.Error(err)
			return
		}
	}

	h.setSessionCookie(c, "", -1)
	response.Success(c, http.StatusOK, "Logged out successfully.", nil)
}

// Me godoc
// @Summary      Current profile
// @Tags         user
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /user/me [get]
// @Security     CookieAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetProfile(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile fetched successfully.", response.Payload{"user": user})
}

// UpdateProfile godoc
// @Summary      Update profile
// @Description  Update profile fields; resume and profilePhoto are optional files
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Param        name          formData  string  false  "Full name"
// @Param        email         formData  string  false  "Email"
// @Param        phoneNumber   formData  string  false  "Phone number"
// @Param        bio           formData  string  false  "Bio"
// @Param        skills        formData  string  false  "Comma separated skills"
// @Param        resume        formData  file    false  "Resume (pdf, doc, docx, jpg, png)"
// @Param        profilePhoto  formData  file    false  "Profile photo (jpg, png)"
// @Success      200           {object}  response.Response
// @Failure      400           {object}  response.Response
// @Router       /user/me [post]
// @Security     CookieAuth
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	maxBytes := int64(h.config.MaxUploadMB) << 20

	resume, err := formFile(c, "resume", maxBytes)
	if err != nil {
		c.Error(err)
		return
	}
	photo, err := formFile(c, "profilePhoto", maxBytes)
	if err != nil {
		c.Error(err)
		return
	}
	if resume != nil || photo != nil {
		if err := checkUploadQuota(c, h.uploadLimiter, userID); err != nil {
			c.Error(err)
			return
		}
	}

	input := domain.UpdateProfileInput{
		Name:         c.PostForm("name"),
		Email:        c.PostForm("email"),
		PhoneNumber:  c.PostForm("phoneNumber"),
		Bio:          c.PostForm("bio"),
		Skills:       c.PostForm("skills"),
		Resume:       resume,
		ProfilePhoto: photo,
	}

	user, err := h.authUC.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated successfully.", response.Payload{"user": user})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(h.config.CookieSameSite)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.config.CookieSecure, true)
}
