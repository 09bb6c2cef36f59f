package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/honeynil/rotrade/internal/infrastructure/auth"
	"github.com/honeynil/rotrade/internal/infrastructure/observability"
	service "github.com/honeynil/rotrade/internal/services"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
)

// Action names accepted in the action query parameter.
const (
	ActionRegister       = "register"
	ActionLogin          = "login"
	ActionListings       = "listings"
	ActionListing        = "listing"
	ActionMessages       = "messages"
	ActionMessage        = "message"
	ActionUnread         = "unread"
	ActionBlock          = "block"
	ActionBlocked        = "blocked"
	ActionUsers          = "users"
	ActionReport         = "report"
	ActionReports        = "reports"
	ActionReview         = "review"
	ActionReviews        = "reviews"
	ActionUserCoins      = "user-coins"
	ActionDeposit        = "deposit"
	ActionDeposits       = "deposits"
	ActionFeatureListing = "feature-listing"
	ActionTransactions   = "transactions"
)

// PublicActions never require a token.
var PublicActions = []string{ActionRegister, ActionLogin}

type Services struct {
	Auth       service.AuthService
	Listings   service.ListingService
	Messages   service.MessageService
	Blocks     service.BlockService
	Moderation service.ModerationService
	Coins      service.CoinService
}

type Handler struct {
	auth       service.AuthService
	listings   service.ListingService
	messages   service.MessageService
	blocks     service.BlockService
	moderation service.ModerationService
	coins      service.CoinService
}

func NewHandler(s Services) *Handler {
	return &Handler{
		auth:       s.Auth,
		listings:   s.Listings,
		messages:   s.Messages,
		blocks:     s.Blocks,
		moderation: s.Moderation,
		coins:      s.Coins,
	}
}

type route struct {
	method  string
	action  string
	handler http.HandlerFunc
}

func (h *Handler) routes() []route {
	return []route{
		{http.MethodPost, ActionRegister, h.Register},
		{http.MethodPost, ActionLogin, h.Login},

		{http.MethodGet, ActionListings, h.Listings},
		{http.MethodPost, ActionListing, h.CreateListing},
		{http.MethodPut, ActionListing, h.DeactivateListing},
		{http.MethodDelete, ActionListing, h.DeleteListing},

		{http.MethodGet, ActionMessages, h.Messages},
		{http.MethodPost, ActionMessage, h.SendMessage},
		{http.MethodDelete, ActionMessage, h.DeleteMessage},
		{http.MethodGet, ActionUnread, h.Unread},

		{http.MethodPost, ActionBlock, h.Block},
		{http.MethodDelete, ActionBlock, h.Unblock},
		{http.MethodGet, ActionBlocked, h.Blocked},

		{http.MethodGet, ActionUsers, h.Users},
		{http.MethodPost, ActionReport, h.CreateReport},
		{http.MethodGet, ActionReports, h.Reports},
		{http.MethodPost, ActionReview, h.CreateReview},
		{http.MethodGet, ActionReviews, h.Reviews},

		{http.MethodGet, ActionUserCoins, h.UserCoins},
		{http.MethodPost, ActionDeposit, h.Deposit},
		{http.MethodGet, ActionDeposits, h.Deposits},
		{http.MethodPost, ActionFeatureListing, h.FeatureListing},
		{http.MethodGet, ActionTransactions, h.Transactions},
	}
}

// RegisterRoutes binds every action. Routes match on the action query
// parameter only, so the function works under any gateway path.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	for _, rt := range h.routes() {
		r.NewRoute().
			Queries("action", rt.action).
			Methods(rt.method).
			HandlerFunc(rt.handler)
	}
}

// Actions lists the distinct action names the handler serves.
func (h *Handler) Actions() []string {
	seen := make(map[string]bool)
	var actions []string
	for _, rt := range h.routes() {
		if !seen[rt.action] {
			seen[rt.action] = true
			actions = append(actions, rt.action)
		}
	}
	return actions
}

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// writeError maps a service error to a status code. Unknown errors become
// a generic 500; the details only go to the log.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		observability.FromContext(r.Context()).Error("request failed",
			"action", r.URL.Query().Get("action"),
			"method", r.Method,
			"error", err)
	}
	writeMessage(w, status, msg)
}

func classify(err error) (int, string) {
	var inputErr *pkgerrors.InputError
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, inputErr.Error()
	case errors.Is(err, pkgerrors.ErrInvalidInput):
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, pkgerrors.ErrInsufficientCoins):
		return http.StatusBadRequest, "Insufficient coins"
	case errors.Is(err, pkgerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, pkgerrors.ErrAccountRemoved):
		return http.StatusForbidden, "Account has been removed"
	case errors.Is(err, pkgerrors.ErrBlocked):
		return http.StatusForbidden, "You are blocked by this user"
	case errors.Is(err, pkgerrors.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, pkgerrors.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, pkgerrors.ErrListingNotFound):
		return http.StatusNotFound, "Listing not found"
	case errors.Is(err, pkgerrors.ErrMessageNotFound):
		return http.StatusNotFound, "Message not found"
	case errors.Is(err, pkgerrors.ErrUsernameExists):
		return http.StatusConflict, "Username already exists"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return pkgerrors.Invalid("Request body required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return pkgerrors.Invalid("Invalid JSON body")
	}
	return nil
}

// queryID parses an optional positive integer query parameter.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, pkgerrors.Invalid("Invalid %s", name)
	}
	return &id, nil
}

// requireQueryID parses a mandatory query parameter and fails with msg
// when it is absent.
func requireQueryID(r *http.Request, name, msg string) (int64, error) {
	id, err := queryID(r, name)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, pkgerrors.Invalid("%s", msg)
	}
	return *id, nil
}

// actingAs rejects a request whose token belongs to someone other than
// userID. Anonymous requests pass; the auth middleware decides whether
// they are allowed at all.
func actingAs(r *http.Request, userID int64) error {
	if tokenUser, ok := auth.UserIDFromContext(r.Context()); ok && tokenUser != userID {
		return pkgerrors.ErrForbidden
	}
	return nil
}
