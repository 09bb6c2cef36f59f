package handler

import (
	"net/http"

	service "github.com/honeynil/rotrade/internal/services"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
)

type reportRequest struct {
	ReporterID     int64  `json:"reporterId"`
	ReportedUserID int64  `json:"reportedUserId"`
	Reason         string `json:"reason"`
}

type reviewRequest struct {
	FromUserID int64  `json:"fromUserId"`
	ToUserID   int64  `json:"toUserId"`
	Rating     *int32 `json:"rating"`
	Comment    string `json:"comment"`
}

func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.moderation.Users(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := actingAs(r, req.ReporterID); err != nil {
		h.writeError(w, r, err)
		return
	}
	report, err := h.moderation.Report(r.Context(), req.ReporterID, req.ReportedUserID, req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.moderation.Reports(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Rating == nil {
		h.writeError(w, r, pkgerrors.Invalid("Rating required"))
		return
	}
	if err := actingAs(r, req.FromUserID); err != nil {
		h.writeError(w, r, err)
		return
	}

	review, err := h.moderation.Review(r.Context(), service.ReviewInput{
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Rating:     *req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *Handler) Reviews(w http.ResponseWriter, r *http.Request) {
	toUserID, err := queryID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	reviews, err := h.moderation.Reviews(r.Context(), toUserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
