package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/honeynil/rotrade/internal/infrastructure/auth"
	"github.com/honeynil/rotrade/internal/infrastructure/auth/mocks"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	var seenUser int64
	var seenOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser, seenOK = auth.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	run := func(t *testing.T, tokens auth.TokenValidator, required bool, req *http.Request) int {
		seenUser, seenOK = 0, false
		rec := httptest.NewRecorder()
		auth.Middleware(tokens, required, "register", "login")(next).ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("ValidToken", func(t *testing.T) {
		tokens := mocks.NewMockTokenValidator(gomock.NewController(t))
		tokens.EXPECT().Validate(gomock.Any(), "tok").Return(int64(5), nil)

		req := httptest.NewRequest(http.MethodGet, "/?action=listings", nil)
		req.Header.Set("Authorization", "Bearer tok")

		assert.Equal(t, http.StatusOK, run(t, tokens, false, req))
		assert.True(t, seenOK)
		assert.Equal(t, int64(5), seenUser)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		tokens := mocks.NewMockTokenValidator(gomock.NewController(t))

		req := httptest.NewRequest(http.MethodGet, "/?action=listings", nil)
		req.Header.Set("Authorization", "Token tok")

		assert.Equal(t, http.StatusUnauthorized, run(t, tokens, false, req))
	})

	t.Run("RejectedToken", func(t *testing.T) {
		tokens := mocks.NewMockTokenValidator(gomock.NewController(t))
		tokens.EXPECT().Validate(gomock.Any(), "old").Return(int64(0), pkgerrors.ErrUnauthorized)

		req := httptest.NewRequest(http.MethodPost, "/?action=listing", nil)
		req.Header.Set("Authorization", "Bearer old")

		assert.Equal(t, http.StatusUnauthorized, run(t, tokens, false, req))
	})

	t.Run("AnonymousWhenOptional", func(t *testing.T) {
		tokens := mocks.NewMockTokenValidator(gomock.NewController(t))

		req := httptest.NewRequest(http.MethodPost, "/?action=listing", nil)
		assert.Equal(t, http.StatusOK, run(t, tokens, false, req))
		assert.False(t, seenOK)
	})

	t.Run("RequiredForMutations", func(t *testing.T) {
		tokens := mocks.NewMockTokenValidator(gomock.NewController(t))

		req := httptest.NewRequest(http.MethodDelete, "/?action=listing&id=1&userId=1", nil)
		assert.Equal(t, http.StatusUnauthorized, run(t, tokens, true, req))
	})

	t.Run("PublicActionsStayOpen", func(t *testing.T) {
		tokens := mocks.NewMockTokenValidator(gomock.NewController(t))

		req := httptest.NewRequest(http.MethodPost, "/?action=register", nil)
		assert.Equal(t, http.StatusOK, run(t, tokens, true, req))
	})

	t.Run("ReadsStayOpen", func(t *testing.T) {
		tokens := mocks.NewMockTokenValidator(gomock.NewController(t))

		req := httptest.NewRequest(http.MethodGet, "/?action=listings", nil)
		assert.Equal(t, http.StatusOK, run(t, tokens, true, req))
	})
}
