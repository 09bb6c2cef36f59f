package handler

import (
	"net/http"

	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"github.com/shopspring/decimal"
)

type depositRequest struct {
	UserID    int64            `json:"userId"`
	AmountRub *decimal.Decimal `json:"amountRub"`
}

type featureListingRequest struct {
	UserID    int64 `json:"userId"`
	ListingID int64 `json:"listingId"`
}

type coinsResponse struct {
	Coins int64 `json:"coins"`
}

func (h *Handler) UserCoins(w http.ResponseWriter, r *http.Request) {
	userID, err := requireQueryID(r, "userId", "User ID required")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	coins, err := h.coins.Balance(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coinsResponse{Coins: coins})
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.UserID <= 0 || req.AmountRub == nil {
		h.writeError(w, r, pkgerrors.Invalid("User ID and amount required"))
		return
	}
	if err := actingAs(r, req.UserID); err != nil {
		h.writeError(w, r, err)
		return
	}

	deposit, err := h.coins.Deposit(r.Context(), req.UserID, *req.AmountRub)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deposit)
}

func (h *Handler) Deposits(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	deposits, err := h.coins.Deposits(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deposits)
}

func (h *Handler) FeatureListing(w http.ResponseWriter, r *http.Request) {
	var req featureListingRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := actingAs(r, req.UserID); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.coins.FeatureListing(r.Context(), req.UserID, req.ListingID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, err := requireQueryID(r, "userId", "User ID required")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := actingAs(r, userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	txs, err := h.coins.Transactions(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}
