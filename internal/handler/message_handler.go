package handler

import (
	"net/http"

	service "github.com/honeynil/rotrade/internal/services"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
)

type sendMessageRequest struct {
	FromUserID int64  `json:"fromUserId"`
	ToUserID   int64  `json:"toUserId"`
	Content    string `json:"content"`
	ReplyToID  *int64 `json:"replyToId"`
	ListingID  *int64 `json:"listingId"`
}

type blockRequest struct {
	UserID        int64 `json:"userId"`
	BlockedUserID int64 `json:"blockedUserId"`
}

type unreadResponse struct {
	Unread int64 `json:"unread"`
}

// Messages returns the thread with chatWith when it is given, and the
// inbox otherwise.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, err := requireQueryID(r, "userId", "User ID required")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	peerID, err := queryID(r, "chatWith")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := actingAs(r, userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	if peerID != nil {
		thread, err := h.messages.Thread(r.Context(), userID, *peerID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, thread)
		return
	}

	conversations, err := h.messages.Conversations(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := actingAs(r, req.FromUserID); err != nil {
		h.writeError(w, r, err)
		return
	}

	msg, err := h.messages.Send(r.Context(), service.SendMessageInput{
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Content:    req.Content,
		ReplyToID:  req.ReplyToID,
		ListingID:  req.ListingID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// Unread counts unread messages, optionally only those from chatWith.
func (h *Handler) Unread(w http.ResponseWriter, r *http.Request) {
	userID, err := requireQueryID(r, "userId", "User ID required")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	fromID, err := queryID(r, "chatWith")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := actingAs(r, userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	count, err := h.messages.UnreadCount(r.Context(), userID, fromID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, unreadResponse{Unread: count})
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID, err := queryID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	userID, err := queryID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if messageID == nil || userID == nil {
		h.writeError(w, r, pkgerrors.Invalid("Message ID and user ID required"))
		return
	}
	if err := actingAs(r, *userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.messages.Delete(r.Context(), *messageID, *userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w)
}

func (h *Handler) Block(w http.ResponseWriter, r *http.Request) {
	var req blockRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := actingAs(r, req.UserID); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.blocks.Block(r.Context(), req.UserID, req.BlockedUserID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w)
}

func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	blockedID, err := queryID(r, "blockedUserId")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if userID == nil || blockedID == nil {
		h.writeError(w, r, pkgerrors.Invalid("User IDs required"))
		return
	}
	if err := actingAs(r, *userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.blocks.Unblock(r.Context(), *userID, *blockedID); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeSuccess(w)
}

func (h *Handler) Blocked(w http.ResponseWriter, r *http.Request) {
	userID, err := requireQueryID(r, "userId", "User ID required")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := actingAs(r, userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	ids, err := h.blocks.Blocked(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}
