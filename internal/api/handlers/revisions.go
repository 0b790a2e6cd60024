package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joincivil/civil-newsroom-plugin/internal/services"
	"go.uber.org/zap"
)

type RevisionHandler struct {
	queries *services.QueryService
	logger  *zap.Logger
}

func NewRevisionHandler(queries *services.QueryService, logger *zap.Logger) *RevisionHandler {
	return &RevisionHandler{
		queries: queries,
		logger:  logger.With(zap.String("handler", "revision")),
	}
}

// GetRevisionPayload returns the cleaned revision payload used by the
// anchoring system.
func (h *RevisionHandler) GetRevisionPayload(c *gin.Context) {
	revisionID, ok := parseID(c.Param("id"))
	if !ok {
		apiError(c, http.StatusBadRequest, "no-revision-id-found", "No revision ID provided.")
		return
	}

	view, err := h.queries.RevisionPayload(c.Request.Context(), revisionID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRevisionNotFound):
			apiError(c, http.StatusBadRequest, "no-revision-found", "No revision found matching the provided ID.")
		case errors.Is(err, services.ErrDocumentNotFound):
			apiError(c, http.StatusBadRequest, "no-document-found", "No parent document found for the revision.")
		case errors.Is(err, services.ErrNotEligible):
			apiError(c, http.StatusBadRequest, "document-not-eligible", "This document is not eligible for hash exposure.")
		default:
			h.logger.Error("revision payload lookup failed", zap.Error(err))
			apiError(c, http.StatusInternalServerError, "internal-error", "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetLastRevisionID returns the numerically greatest revision ID for a
// document. The store's iteration order is not trusted here.
func (h *RevisionHandler) GetLastRevisionID(c *gin.Context) {
	documentID, ok := parseID(c.Param("id"))
	if !ok {
		apiError(c, http.StatusBadRequest, "no-document-id-found", "No document ID provided.")
		return
	}

	latest, err := h.queries.LatestRevisionID(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, services.ErrRevisionNotFound) {
			apiError(c, http.StatusBadRequest, "no-revision-found", "No revision found for the provided document ID.")
			return
		}
		h.logger.Error("last revision lookup failed", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "internal-error", "Internal server error")
		return
	}

	c.JSON(http.StatusOK, latest)
}

// GetRevisionContent returns the raw body of the revision matching the
// given content hash.
func (h *RevisionHandler) GetRevisionContent(c *gin.Context) {
	hash := c.Param("hash")
	if hash == "" {
		apiError(c, http.StatusBadRequest, "no-hash-found", "No hash provided.")
		return
	}

	content, err := h.queries.ContentByHash(c.Request.Context(), hash)
	if err != nil {
		if errors.Is(err, services.ErrRevisionNotFound) {
			apiError(c, http.StatusBadRequest, "no-revision-found", "No revision found matching the provided hash.")
			return
		}
		h.logger.Error("content lookup failed", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "internal-error", "Internal server error")
		return
	}

	c.String(http.StatusOK, content)
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// apiError writes the machine-readable error shape shared by all
// endpoints. Not-found conditions deliberately use status 400, matching the
// contract consumers already depend on.
func apiError(c *gin.Context, status int, kind, message string) {
	c.JSON(status, gin.H{
		"error":   kind,
		"message": message,
	})
}
