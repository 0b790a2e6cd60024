package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joincivil/civil-newsroom-plugin/internal/db/models"
	"github.com/joincivil/civil-newsroom-plugin/internal/store"
	"github.com/joincivil/civil-newsroom-plugin/internal/utils"
	"go.uber.org/zap"
)

type UserHandler struct {
	users  store.UserDirectory
	logger *zap.Logger
}

func NewUserHandler(users store.UserDirectory, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger.With(zap.String("handler", "user")),
	}
}

type userProfile struct {
	ID          uint   `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Bio         string `json:"bio"`
}

// GetUserByAddress looks an identity up by its wallet address attribute.
func (uh *UserHandler) GetUserByAddress(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		apiError(c, http.StatusBadRequest, "no-address-found", "No wallet address provided.")
		return
	}

	user, err := uh.users.FindUserByAddress(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiError(c, http.StatusBadRequest, "no-user-found", "No user found with given address.")
			return
		}
		uh.logger.Error("user lookup failed", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "internal-error", "Internal server error")
		return
	}

	displayName := user.DisplayName
	if displayName == "" {
		displayName = user.Username
	}

	c.JSON(http.StatusOK, userProfile{
		ID:          user.ID,
		Login:       user.Username,
		DisplayName: displayName,
		AvatarURL:   user.AvatarURL,
		Bio:         user.Bio,
	})
}

type userMetaRequest struct {
	WalletAddress *string `json:"walletAddress"`
	NewsroomRole  *string `json:"newsroomRole"`
}

// SetUserMeta updates a user's wallet address and/or newsroom role. The
// special ID "me" targets the session user; updating anybody else requires
// the admin role.
func (uh *UserHandler) SetUserMeta(c *gin.Context) {
	callerID := c.GetUint("userID")
	role := c.GetString("role")

	rawID := c.Param("id")
	if rawID == "" {
		apiError(c, http.StatusBadRequest, "no-id-found", "No user ID provided.")
		return
	}

	var targetID uint
	if rawID == "me" {
		targetID = callerID
	} else {
		id, ok := parseID(rawID)
		if !ok {
			apiError(c, http.StatusBadRequest, "no-id-found", "No user ID provided.")
			return
		}
		targetID = id
	}

	if targetID != callerID && role != string(models.RoleAdmin) {
		apiError(c, http.StatusUnauthorized, "forbidden", "Insufficient permissions.")
		return
	}

	var req userMetaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "no-meta-found", "No meta provided.")
		return
	}
	if req.WalletAddress == nil && req.NewsroomRole == nil {
		apiError(c, http.StatusBadRequest, "no-meta-found", "No meta provided.")
		return
	}

	user, err := uh.users.GetUser(c.Request.Context(), targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apiError(c, http.StatusBadRequest, "no-user-found", "No user found with given id.")
			return
		}
		uh.logger.Error("user lookup failed", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "internal-error", "Internal server error")
		return
	}

	if req.WalletAddress != nil {
		addr := *req.WalletAddress
		// An empty address clears the attribute.
		if addr != "" && !utils.IsValidWalletAddress(addr) {
			apiError(c, http.StatusBadRequest, "invalid-wallet-address", "Invalid wallet address provided.")
			return
		}
		user.WalletAddress = addr
	}

	if req.NewsroomRole != nil {
		user.NewsroomRole = *req.NewsroomRole
	}

	if err := uh.users.SaveUser(c.Request.Context(), user); err != nil {
		uh.logger.Error("user update failed", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "internal-error", "Internal server error")
		return
	}

	c.JSON(http.StatusOK, "success")
}
