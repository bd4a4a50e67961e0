package identity

import (
	"context"
	"net/http"

	"github.com/wardrobe/service/internal/middleware"
	"github.com/wardrobe/service/internal/response"
)

// Handler serves the identity endpoint.
type Handler struct{}

// NewHandler creates a new identity Handler.
func NewHandler() *Handler {
	return &Handler{}
}

type meResponse struct {
	User Identity `json:"user"`
}

// FromContext assembles the caller's identity from the claims the auth
// middleware injected. ok is false for anonymous requests.
func FromContext(ctx context.Context) (Identity, bool) {
	id := Identity{ID: middleware.UserID(ctx)}
	if id.ID == "" {
		return Identity{}, false
	}
	id.Email, _ = ctx.Value(middleware.UserEmailKey).(string)
	id.GivenName, _ = ctx.Value(middleware.UserGivenNameKey).(string)
	id.FamilyName, _ = ctx.Value(middleware.UserFamilyNameKey).(string)
	return id, true
}

// GetMe godoc
//
//	@Summary		Current identity
//	@Description	Returns the verified identity of the caller.
//	@Tags			identity
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	meResponse
//	@Failure		401	{object}	response.Envelope
//	@Router			/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	id, ok := FromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}
	response.JSON(w, http.StatusOK, meResponse{User: id})
}
