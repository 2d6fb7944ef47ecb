package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"flanes/internal/auth"
	apperrors "flanes/internal/errors"
	"flanes/internal/metrics"
	"flanes/internal/model"
	"flanes/internal/repository"
	"flanes/internal/validation"
)

const bcryptCost = 10

// dummyHash is compared against when a username does not exist so that
// unknown and known usernames take similar time to reject.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("flanes-dummy-password"), bcryptCost)

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// AuthService handles registration and session operations.
type AuthService interface {
	Register(ctx context.Context, form *validation.RegisterForm) (*model.User, validation.Errors, error)
	Login(ctx context.Context, form *validation.LoginForm) (*Session, validation.Errors, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	EnsureAdmin(ctx context.Context, username, email, password string) (*model.User, bool, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, m *metrics.Metrics) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		metrics:    m,
		now:        time.Now,
	}
}

// Register validates the form and creates a user with a hashed password.
// Field problems, including a taken username, come back as Errors.
func (s *authService) Register(ctx context.Context, form *validation.RegisterForm) (*model.User, validation.Errors, error) {
	errs := validation.ValidateRegistration(form)
	if !errs.Valid() {
		return nil, errs, nil
	}

	// Check if user already exists
	existing, err := s.userRepo.FindByUsername(ctx, form.Username)
	if err == nil && existing != nil {
		errs.Add("username", apperrors.ErrUsernameTaken.Error())
		return nil, errs, nil
	}
	// If error is not "record not found", return it (could be a database error)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("check user existence: %w", err)
	}

	user, err := s.createUser(ctx, form.Username, form.Email, form.Password, model.RoleUser)
	if err != nil {
		// Lost a race with a concurrent registration; the unique index decides.
		switch {
		case errors.Is(err, apperrors.ErrUsernameTaken):
			errs.Add("username", apperrors.ErrUsernameTaken.Error())
			return nil, errs, nil
		case errors.Is(err, apperrors.ErrPasswordTooLong):
			errs.Add("password", fmt.Sprintf("Ensure this value has at most %d bytes.", validation.MaxPasswordBytes))
			return nil, errs, nil
		}
		return nil, nil, err
	}

	s.metrics.UserRegistered()
	return user, errs, nil
}

// Login checks credentials and issues a session token. Bad credentials are
// reported as a non-field error.
func (s *authService) Login(ctx context.Context, form *validation.LoginForm) (*Session, validation.Errors, error) {
	errs := validation.ValidateLogin(form)
	if !errs.Valid() {
		return nil, errs, nil
	}

	user, err := s.userRepo.FindByUsername(ctx, form.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	hash := dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	// Verify password
	if bcrypt.CompareHashAndPassword(hash, []byte(form.Password)) != nil || user == nil {
		s.metrics.LoginAttempt(false)
		errs.Add(validation.NonFieldErrors, "Please enter a correct username and password. Note that both fields may be case-sensitive.")
		return nil, errs, nil
	}

	token, claims, err := s.jwtService.GenerateSessionToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("generate session token: %w", err)
	}

	s.metrics.LoginAttempt(true)
	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, errs, nil
}

// Logout revokes the session token until it would have expired.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperrors.ErrInvalidSession
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if err := s.tokenStore.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// EnsureAdmin creates an admin user unless the username already exists.
// It reports whether a user was created.
func (s *authService) EnsureAdmin(ctx context.Context, username, email, password string) (*model.User, bool, error) {
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("check user existence: %w", err)
	}

	user, err := s.createUser(ctx, username, email, password, model.RoleAdmin)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *authService) createUser(ctx context.Context, username, email, password, role string) (*model.User, error) {
	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperrors.ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
