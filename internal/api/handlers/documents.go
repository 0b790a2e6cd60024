package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joincivil/civil-newsroom-plugin/internal/db/models"
	"github.com/joincivil/civil-newsroom-plugin/internal/services"
	"go.uber.org/zap"
)

// DocumentHandler receives the editorial host's lifecycle hooks: save
// events and publish-state transitions.
type DocumentHandler struct {
	revisions *services.RevisionService
	logger    *zap.Logger
}

func NewDocumentHandler(revisions *services.RevisionService, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		revisions: revisions,
		logger:    logger.With(zap.String("handler", "document")),
	}
}

// CaptureRevision snapshots a document on a save event. Every qualifying
// save produces a new revision, including metadata-only edits.
func (h *DocumentHandler) CaptureRevision(c *gin.Context) {
	documentID, ok := parseID(c.Param("id"))
	if !ok {
		apiError(c, http.StatusBadRequest, "no-document-id-found", "No document ID provided.")
		return
	}

	rev, err := h.revisions.CaptureRevision(c.Request.Context(), documentID)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			apiError(c, http.StatusBadRequest, "no-document-found", "No document found with given id.")
			return
		}
		h.logger.Error("revision capture failed", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "internal-error", "Internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":                  rev.ID,
		"revisionContentHash": rev.ContentHash,
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

// TransitionStatus moves a document between publish states. The first
// transition into published triggers revision pruning.
func (h *DocumentHandler) TransitionStatus(c *gin.Context) {
	documentID, ok := parseID(c.Param("id"))
	if !ok {
		apiError(c, http.StatusBadRequest, "no-document-id-found", "No document ID provided.")
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "no-status-found", "No status provided.")
		return
	}

	status := models.DocumentStatus(req.Status)
	if status != models.StatusDraft && status != models.StatusPublished {
		apiError(c, http.StatusBadRequest, "invalid-status", "Unknown document status.")
		return
	}

	if err := h.revisions.TransitionStatus(c.Request.Context(), documentID, status); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			apiError(c, http.StatusBadRequest, "no-document-found", "No document found with given id.")
			return
		}
		h.logger.Error("status transition failed", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "internal-error", "Internal server error")
		return
	}

	c.JSON(http.StatusOK, "success")
}
