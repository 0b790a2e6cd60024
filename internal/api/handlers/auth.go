package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joincivil/civil-newsroom-plugin/internal/services"
	"github.com/joincivil/civil-newsroom-plugin/internal/store"
	"github.com/joincivil/civil-newsroom-plugin/internal/utils"
	"go.uber.org/zap"
)

type AuthHandler struct {
	sessions *services.SessionService
	users    store.UserDirectory
	logger   *zap.Logger
}

func NewAuthHandler(sessions *services.SessionService, users store.UserDirectory, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		users:    users,
		logger:   logger.With(zap.String("handler", "auth")),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		apiError(c, http.StatusBadRequest, "missing-credentials", "Username and password required.")
		return
	}

	user, err := ah.users.FindUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			ah.logger.Error("user lookup failed", zap.Error(err))
		}
		apiError(c, http.StatusUnauthorized, "invalid-credentials", "Invalid username or password.")
		return
	}

	if !user.ActiveStatus || !utils.VerifyPassword(user.PasswordHash, req.Password) {
		ah.logger.Warn("Failed login attempt",
			zap.String("username", req.Username),
			zap.String("client_ip", c.ClientIP()))
		apiError(c, http.StatusUnauthorized, "invalid-credentials", "Invalid username or password.")
		return
	}

	token := ah.sessions.Create(user.ID, c.ClientIP(), c.Request.UserAgent())
	c.SetCookie("session_token", token, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "login": user.Username})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie("session_token"); err == nil {
		ah.sessions.Destroy(token)
	}
	c.SetCookie("session_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, "success")
}
