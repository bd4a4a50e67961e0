// Package upload serves pre-signed upload targets so browsers can write
// image blobs straight to object storage without routing bytes through
// the API server.
package upload

import (
	"log"
	"net/http"

	"github.com/wardrobe/service/internal/response"
	"github.com/wardrobe/service/internal/storage"
)

// Handler issues signed upload URLs.
type Handler struct {
	store storage.Storage
}

// NewHandler creates a new upload Handler.
func NewHandler(store storage.Storage) *Handler {
	return &Handler{store: store}
}

// SignedURLResponse is the wire shape of a signed-url request.
type SignedURLResponse struct {
	Success   bool   `json:"success"`
	SignedURL string `json:"signedURL,omitempty"`
	Error     string `json:"error,omitempty"`
}

// GetSignedURL godoc
//
//	@Summary		Issue a signed upload URL
//	@Description	Returns a pre-signed PUT URL valid for 60 seconds.
//	@Tags			upload
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	SignedURLResponse
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	SignedURLResponse
//	@Router			/signed-url [get]
func (h *Handler) GetSignedURL(w http.ResponseWriter, r *http.Request) {
	target, err := h.store.PresignUpload(r.Context())
	if err != nil {
		log.Printf("upload: presign failed: %v", err)
		response.JSON(w, http.StatusInternalServerError, SignedURLResponse{
			Success: false,
			Error:   "Failed to generate signed URL",
		})
		return
	}

	response.JSON(w, http.StatusOK, SignedURLResponse{
		Success:   true,
		SignedURL: target.SignedURL,
	})
}
