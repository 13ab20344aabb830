// Package http exposes the read-only companion endpoints: node identity,
// liveness and repository browsing. All writes go through the stream
// protocols.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sui-direct/node/core"
	"github.com/sui-direct/node/service"
)

// RepoHandlers serves the browsing endpoints.
type RepoHandlers struct {
	peerID   string
	transfer *service.TransferService
}

func NewRepoHandlers(peerID string, transfer *service.TransferService) *RepoHandlers {
	return &RepoHandlers{peerID: peerID, transfer: transfer}
}

// PeerID returns the node's peer identity, for clients to connect to.
func (h *RepoHandlers) PeerID(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"id": h.peerID})
}

func (h *RepoHandlers) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// List returns the repositories owned by an account.
func (h *RepoHandlers) List(c *gin.Context) {
	recs, err := h.transfer.List(c.Request.Context(), c.Param("owner"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list repositories"})
		return
	}

	out := make([]gin.H, 0, len(recs))
	for _, rec := range recs {
		out = append(out, repoJSON(rec))
	}
	c.JSON(http.StatusOK, gin.H{"repositories": out})
}

// Metadata returns the catalog row for a repository, matched by display
// name or blob identifier.
func (h *RepoHandlers) Metadata(c *gin.Context) {
	rec, err := h.transfer.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Repository not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load repository"})
		return
	}
	c.JSON(http.StatusOK, repoJSON(*rec))
}

// Content serves a repository's raw bytes.
func (h *RepoHandlers) Content(c *gin.Context) {
	_, data, err := h.transfer.Fetch(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Repository not found"})
		case errors.Is(err, core.ErrBlobUnavailable):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Repository content is unavailable"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load repository"})
		}
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func repoJSON(rec core.RepositoryRecord) gin.H {
	return gin.H{
		"blobId":      rec.BlobID,
		"id":          rec.Name,
		"owner":       rec.Owner,
		"description": rec.Description,
		"timestamp":   rec.CreatedAt,
	}
}
