package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asimbashir/bazario-backend/internal/cart"
	"github.com/asimbashir/bazario-backend/internal/users"
	pkgauth "github.com/asimbashir/bazario-backend/pkg/auth"
	"github.com/asimbashir/bazario-backend/pkg/config"
	"github.com/asimbashir/bazario-backend/pkg/db/models"
	pkgerrors "github.com/asimbashir/bazario-backend/pkg/errors"
	"github.com/asimbashir/bazario-backend/pkg/logger"
	"github.com/asimbashir/bazario-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest, guestID *uuid.UUID) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type cartMerger interface {
	MergeGuestCart(ctx context.Context, guest, user cart.Owner) (*models.CartRecord, error)
}

type guestSessionStore interface {
	GuestSessionExists(ctx context.Context, guestID string) (bool, error)
	ClearGuestSession(ctx context.Context, guestID string) error
}

type service struct {
	users       userRepository
	carts       cartMerger
	guests      guestSessionStore
	logg        *logger.Logger
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	CartMerger     cartMerger
	GuestSessions  guestSessionStore
	Logger         *logger.Logger
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.CartMerger == nil {
		return nil, fmt.Errorf("cart merger is required")
	}
	if params.GuestSessions == nil {
		return nil, fmt.Errorf("guest session store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		users:       params.UserRepo,
		carts:       params.CartMerger,
		guests:      params.GuestSessions,
		logg:        params.Logger,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Login authenticates the credentials and, when a guest session marker is
// present, folds the guest's cart into the user's. The merge is best-effort:
// its failure never blocks the login.
func (s *service) Login(ctx context.Context, req LoginRequest, guestID *uuid.UUID) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, err
	}

	merged := false
	if guestID != nil {
		merged = s.mergeGuestCart(ctx, *guestID, user.ID)
	}

	return &LoginResponse{
		AccessToken:     token,
		User:            users.FromModel(user),
		GuestCartMerged: merged,
	}, nil
}

// Register creates the account and signs the user straight in.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	token, err := s.mintToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: token,
		User:        users.FromModel(user),
	}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) mintToken(user *models.User) (string, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

// mergeGuestCart reports whether the guest cart was actually folded in. On
// failure the session marker (and the caller's cookie) stay put so a later
// login can retry.
func (s *service) mergeGuestCart(ctx context.Context, guestID, userID uuid.UUID) bool {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"guest_id": guestID.String(),
		"user_id":  userID.String(),
	})

	exists, err := s.guests.GuestSessionExists(ctx, guestID.String())
	if err != nil {
		s.logg.Warn(ctx, "guest session lookup failed, skipping cart merge")
		return false
	}
	if !exists {
		return false
	}

	if _, err := s.carts.MergeGuestCart(ctx, cart.GuestOwner(guestID), cart.UserOwner(userID)); err != nil {
		s.logg.Warn(ctx, "guest cart merge failed")
		return false
	}

	if err := s.guests.ClearGuestSession(ctx, guestID.String()); err != nil {
		s.logg.Warn(ctx, "guest session cleanup failed")
	}
	return true
}
