package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/honeynil/rotrade/internal/events"
	eventmocks "github.com/honeynil/rotrade/internal/events/mocks"
	authmocks "github.com/honeynil/rotrade/internal/infrastructure/auth/mocks"
	"github.com/honeynil/rotrade/internal/models"
	"github.com/honeynil/rotrade/internal/repository/mocks"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	svc       *authService
	users     *mocks.MockUserRepository
	tokens    *authmocks.MockTokenIssuer
	publisher *eventmocks.MockPublisher
}

func newAuthFixture(t *testing.T) authFixture {
	ctrl := gomock.NewController(t)
	f := authFixture{
		users:     mocks.NewMockUserRepository(ctrl),
		tokens:    authmocks.NewMockTokenIssuer(ctrl),
		publisher: eventmocks.NewMockPublisher(ctrl),
	}
	f.svc = NewAuthService(f.users, f.tokens, f.publisher)
	f.svc.hashCost = bcrypt.MinCost
	return f
}

func hashOf(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(nil, pkgerrors.ErrUserNotFound)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
			assert.Equal(t, "alice", u.Username)
			assert.Equal(t, DefaultAvatar("alice"), u.AvatarURL)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret")))
			u.ID = 1
			return nil
		})
		f.tokens.EXPECT().Issue(gomock.Any(), int64(1)).Return("token-1", nil)
		f.publisher.EXPECT().Publish(gomock.Any(), events.TopicUsers, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, evt events.Event) error {
				assert.Equal(t, events.UserRegistered, evt.Type)
				assert.Equal(t, int64(1), evt.UserID)
				return nil
			})

		session, err := f.svc.Register(ctx, "  alice ", "secret")
		require.NoError(t, err)
		assert.Equal(t, int64(1), session.ID)
		assert.Equal(t, "alice", session.Username)
		assert.Equal(t, "token-1", session.Token)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(&models.User{ID: 1, Username: "alice"}, nil)

		session, err := f.svc.Register(ctx, "alice", "secret")
		assert.Nil(t, session)
		assert.ErrorIs(t, err, pkgerrors.ErrUsernameExists)
	})

	t.Run("ConcurrentDuplicate", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(nil, pkgerrors.ErrUserNotFound)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(pkgerrors.ErrUsernameExists)

		_, err := f.svc.Register(ctx, "alice", "secret")
		assert.ErrorIs(t, err, pkgerrors.ErrUsernameExists)
	})

	t.Run("MissingFields", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.svc.Register(ctx, "   ", "secret")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
		assert.EqualError(t, err, "Username and password required")

		_, err = f.svc.Register(ctx, "alice", "")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})

	t.Run("UsernameTooLong", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.svc.Register(ctx, strings.Repeat("x", 51), "secret")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
	})

	t.Run("UsernameLengthCountsCharacters", func(t *testing.T) {
		f := newAuthFixture(t)
		name := strings.Repeat("ж", 30)
		f.users.EXPECT().GetByUsername(gomock.Any(), name).Return(nil, pkgerrors.ErrUserNotFound)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
			u.ID = 4
			return nil
		})
		f.tokens.EXPECT().Issue(gomock.Any(), int64(4)).Return("token-4", nil)
		f.publisher.EXPECT().Publish(gomock.Any(), events.TopicUsers, gomock.Any()).Return(nil)

		session, err := f.svc.Register(ctx, name, "secret")
		require.NoError(t, err)
		assert.Equal(t, name, session.Username)

		_, err = f.svc.Register(ctx, strings.Repeat("ж", 51), "secret")
		assert.EqualError(t, err, "Username too long (max 50 characters)")
	})

	t.Run("PasswordTooLong", func(t *testing.T) {
		f := newAuthFixture(t)

		session, err := f.svc.Register(ctx, "alice", strings.Repeat("p", 80))
		assert.Nil(t, session)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)
		assert.EqualError(t, err, "Password too long (max 72 bytes)")
	})

	t.Run("LookupFailure", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(nil, fmt.Errorf("connection refused"))

		_, err := f.svc.Register(ctx, "alice", "secret")
		assert.ErrorIs(t, err, pkgerrors.ErrInternal)
	})

	t.Run("PublishFailureDoesNotFail", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(gomock.Any(), "bob").Return(nil, pkgerrors.ErrUserNotFound)
		f.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *models.User) error {
			u.ID = 2
			return nil
		})
		f.tokens.EXPECT().Issue(gomock.Any(), int64(2)).Return("token-2", nil)
		f.publisher.EXPECT().Publish(gomock.Any(), events.TopicUsers, gomock.Any()).Return(fmt.Errorf("broker down"))

		session, err := f.svc.Register(ctx, "bob", "secret")
		require.NoError(t, err)
		assert.Equal(t, int64(2), session.ID)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(gomock.Any(), "alice").
			Return(&models.User{ID: 1, Username: "alice", PasswordHash: hashOf(t, "secret")}, nil)
		f.tokens.EXPECT().Issue(gomock.Any(), int64(1)).Return("token-1", nil)

		session, err := f.svc.Login(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.Equal(t, int64(1), session.ID)
		assert.Equal(t, "alice", session.Username)
		assert.Equal(t, "token-1", session.Token)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(gomock.Any(), "alice").
			Return(&models.User{ID: 1, Username: "alice", PasswordHash: hashOf(t, "secret")}, nil)

		_, err := f.svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, pkgerrors.ErrUserNotFound)

		_, err := f.svc.Login(ctx, "ghost", "secret")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidCredentials)
	})

	t.Run("RemovedAccountRegardlessOfPassword", func(t *testing.T) {
		for _, password := range []string{"secret", "wrong"} {
			f := newAuthFixture(t)
			f.users.EXPECT().GetByUsername(gomock.Any(), "carol").
				Return(&models.User{ID: 3, Username: "carol", PasswordHash: hashOf(t, "secret"), IsRemoved: true}, nil)

			session, err := f.svc.Login(ctx, "carol", password)
			assert.Nil(t, session)
			assert.ErrorIs(t, err, pkgerrors.ErrAccountRemoved, "password %q", password)
		}
	})

	t.Run("TokenStoreDownStillLogsIn", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.EXPECT().GetByUsername(gomock.Any(), "alice").
			Return(&models.User{ID: 1, Username: "alice", PasswordHash: hashOf(t, "secret")}, nil)
		f.tokens.EXPECT().Issue(gomock.Any(), int64(1)).Return("", fmt.Errorf("redis down"))

		session, err := f.svc.Login(ctx, "alice", "secret")
		require.NoError(t, err)
		assert.Empty(t, session.Token)
	})
}
