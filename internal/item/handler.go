package item

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wardrobe/service/internal/middleware"
	"github.com/wardrobe/service/internal/response"
)

// Handler holds HTTP handlers for the wardrobe endpoints. Every operation
// is scoped to the authenticated caller; no endpoint accepts an owner from
// the client.
type Handler struct {
	svc *Service
}

// NewHandler creates a new item Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type itemsResponse struct {
	Items []Item `json:"items"`
}

type itemResponse struct {
	Item *Item `json:"item"`
}

type totalResponse struct {
	Total int64 `json:"total"`
}

// List godoc
//
//	@Summary		List wardrobe items
//	@Description	Returns the caller's items, newest first, capped at 100.
//	@Tags			wardrobe
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	itemsResponse
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/wardrobe [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.InternalError(w)
		return
	}
	response.JSON(w, http.StatusOK, itemsResponse{Items: items})
}

// Total godoc
//
//	@Summary		Total item count
//	@Tags			wardrobe
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	totalResponse
//	@Failure		401	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/wardrobe/total-items [get]
func (h *Handler) Total(w http.ResponseWriter, r *http.Request) {
	total, err := h.svc.Count(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.InternalError(w)
		return
	}
	response.JSON(w, http.StatusOK, totalResponse{Total: total})
}

// Get godoc
//
//	@Summary		Get one item
//	@Tags			wardrobe
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"item id"
//	@Success		200	{object}	itemResponse
//	@Failure		401	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/wardrobe/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		response.NotFound(w, "item not found")
		return
	}

	it, err := h.svc.Get(r.Context(), middleware.UserID(r.Context()), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, itemResponse{Item: it})
}

// Create godoc
//
//	@Summary		Create an item
//	@Tags			wardrobe
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		Draft	true	"item fields"
//	@Success		201		{object}	Item
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/wardrobe [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var d Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	it, err := h.svc.Create(r.Context(), middleware.UserID(r.Context()), d)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, it)
}

// Update godoc
//
//	@Summary		Replace an item
//	@Tags			wardrobe
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int		true	"item id"
//	@Param			request	body		Draft	true	"item fields"
//	@Success		200		{object}	Item
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/wardrobe/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		response.NotFound(w, "item not found")
		return
	}

	var d Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	it, err := h.svc.Update(r.Context(), middleware.UserID(r.Context()), id, d)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, it)
}

// Delete godoc
//
//	@Summary		Delete an item
//	@Description	Removes the item and best-effort deletes its stored image.
//	@Tags			wardrobe
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"item id"
//	@Success		200	{object}	itemResponse	"the deleted record"
//	@Failure		401	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/wardrobe/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(r)
	if !ok {
		response.NotFound(w, "item not found")
		return
	}

	it, err := h.svc.Delete(r.Context(), middleware.UserID(r.Context()), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, itemResponse{Item: it})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(w, verr.Fields)
	case h.svc.IsNotFound(err):
		response.NotFound(w, "item not found")
	default:
		response.InternalError(w)
	}
}

func itemID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}
