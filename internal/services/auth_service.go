package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/honeynil/rotrade/internal/events"
	"github.com/honeynil/rotrade/internal/infrastructure/auth"
	"github.com/honeynil/rotrade/internal/models"
	"github.com/honeynil/rotrade/internal/repository"
	pkgerrors "github.com/honeynil/rotrade/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	avatarBaseURL     = "https://api.dicebear.com/7.x/avataaars/svg?seed="
	maxUsernameLength = 50
	// bcrypt refuses longer input.
	maxPasswordBytes = 72
)

//go:generate mockgen -source=auth_service.go -destination=mocks/mock_auth_service.go -package=mocks

type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.Session, error)
	Login(ctx context.Context, username, password string) (*models.Session, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokens    auth.TokenIssuer
	publisher events.Publisher
	hashCost  int
}

func NewAuthService(userRepo repository.UserRepository, tokens auth.TokenIssuer, publisher events.Publisher) *authService {
	return &authService{
		userRepo:  userRepo,
		tokens:    tokens,
		publisher: publisher,
		hashCost:  bcrypt.DefaultCost,
	}
}

// DefaultAvatar is the generated avatar every new account starts with.
func DefaultAvatar(username string) string {
	return avatarBaseURL + url.QueryEscape(username)
}

func (s *authService) Register(ctx context.Context, username, password string) (_ *models.Session, err error) {
	ctx, _, done := startSpan(ctx, "Register")
	defer func() { done(err) }()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkgerrors.Invalid("Username and password required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return nil, pkgerrors.Invalid("Username too long (max %d characters)", maxUsernameLength)
	}
	if len(password) > maxPasswordBytes {
		return nil, pkgerrors.Invalid("Password too long (max %d bytes)", maxPasswordBytes)
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if existing != nil {
		slog.Warn("username already exists", "username", username, "existing_id", existing.ID)
		return nil, pkgerrors.ErrUsernameExists
	}
	if err != nil && !stderrors.Is(err, pkgerrors.ErrUserNotFound) {
		slog.Error("failed to check user existence", "username", username, "error", err)
		return nil, fmt.Errorf("%w: failed to check user existence", pkgerrors.ErrInternal)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		slog.Error("failed to hash password", "username", username, "error", err)
		return nil, fmt.Errorf("%w: failed to hash password", pkgerrors.ErrInternal)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		AvatarURL:    DefaultAvatar(username),
	}
	if err = s.userRepo.Create(ctx, user); err != nil {
		if stderrors.Is(err, pkgerrors.ErrUsernameExists) || stderrors.Is(err, pkgerrors.ErrInvalidInput) {
			return nil, err
		}
		slog.Error("failed to create user", "username", username, "error", err)
		return nil, fmt.Errorf("%w: failed to create user", pkgerrors.ErrInternal)
	}

	publish(ctx, s.publisher, events.TopicUsers, events.New(events.UserRegistered, user.ID, map[string]any{
		"username": user.Username,
	}))

	slog.Info("user registered", "user_id", user.ID, "username", username)
	return s.session(ctx, user), nil
}

func (s *authService) Login(ctx context.Context, username, password string) (_ *models.Session, err error) {
	ctx, _, done := startSpan(ctx, "Login")
	defer func() { done(err) }()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, pkgerrors.Invalid("Username and password required")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserNotFound) {
			slog.Warn("login for unknown user", "username", username)
			return nil, pkgerrors.ErrInvalidCredentials
		}
		slog.Error("failed to load user", "username", username, "error", err)
		return nil, fmt.Errorf("%w: failed to load user", pkgerrors.ErrInternal)
	}

	// Removed accounts are rejected before the password is looked at.
	if user.IsRemoved {
		slog.Warn("login for removed account", "user_id", user.ID)
		return nil, pkgerrors.ErrAccountRemoved
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("invalid password", "username", username)
		return nil, pkgerrors.ErrInvalidCredentials
	}

	slog.Info("user logged in", "username", username, "user_id", user.ID)
	return s.session(ctx, user), nil
}

func (s *authService) session(ctx context.Context, user *models.User) *models.Session {
	sess := &models.Session{User: *user}
	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		slog.Error("failed to issue token", "user_id", user.ID, "error", err)
		return sess
	}
	sess.Token = token
	return sess
}
