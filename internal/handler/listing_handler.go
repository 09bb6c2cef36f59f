package handler

import (
	"net/http"

	service "github.com/honeynil/rotrade/internal/services"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
)

type createListingRequest struct {
	UserID      int64   `json:"userId"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	GameURL     *string `json:"gameUrl"`
	GameName    *string `json:"gameName"`
}

type deactivateListingRequest struct {
	ListingID int64 `json:"listingId"`
	UserID    int64 `json:"userId"`
}

// Listings serves the public feed, or one owner's listings when userId is set.
func (h *Handler) Listings(w http.ResponseWriter, r *http.Request) {
	ownerID, err := queryID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	listings, err := h.listings.List(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := actingAs(r, req.UserID); err != nil {
		h.writeError(w, r, err)
		return
	}

	listing, err := h.listings.Create(r.Context(), service.CreateListingInput{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		GameURL:     req.GameURL,
		GameName:    req.GameName,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

// DeactivateListing is the PUT form of delete, with ids in the body.
func (h *Handler) DeactivateListing(w http.ResponseWriter, r *http.Request) {
	var req deactivateListingRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.deleteListing(w, r, req.ListingID, req.UserID)
}

func (h *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	listingID, err := queryID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	userID, err := queryID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if listingID == nil || userID == nil {
		h.writeError(w, r, pkgerrors.Invalid("Listing ID and user ID required"))
		return
	}
	h.deleteListing(w, r, *listingID, *userID)
}

func (h *Handler) deleteListing(w http.ResponseWriter, r *http.Request, listingID, userID int64) {
	if listingID <= 0 || userID <= 0 {
		h.writeError(w, r, pkgerrors.Invalid("Listing ID and user ID required"))
		return
	}
	if err := actingAs(r, userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.listings.Delete(r.Context(), listingID, userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w)
}
