package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"flanes/internal/auth"
	apperrors "flanes/internal/errors"
	"flanes/internal/model"
	"flanes/internal/validation"
)

func validRegisterForm() *validation.RegisterForm {
	return &validation.RegisterForm{
		Username:        "newuser",
		Email:           "new@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
	}
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name        string
		form        func() *validation.RegisterForm
		setupMock   func(*MockUserRepository)
		fieldError  string
		expectError bool
	}{
		{
			name: "successful registration",
			form: validRegisterForm,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "newuser").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name: "password mismatch creates no user",
			form: func() *validation.RegisterForm {
				f := validRegisterForm()
				f.ConfirmPassword = "different"
				return f
			},
			setupMock:  func(m *MockUserRepository) {},
			fieldError: "confirm_password",
		},
		{
			name: "username already exists",
			form: validRegisterForm,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "newuser").Return(&model.User{ID: 1, Username: "newuser"}, nil)
			},
			fieldError: "username",
		},
		{
			name: "duplicate key on insert",
			form: validRegisterForm,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "newuser").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			fieldError: "username",
		},
		{
			name: "password over 72 bytes creates no user",
			form: func() *validation.RegisterForm {
				f := validRegisterForm()
				f.Password = strings.Repeat("p", 100)
				f.ConfirmPassword = f.Password
				return f
			},
			setupMock:  func(m *MockUserRepository) {},
			fieldError: "password",
		},
		{
			name: "database failure",
			form: validRegisterForm,
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "newuser").Return(nil, errors.New("connection refused"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour), new(MockTokenStore), nil)
			user, errs, err := service.Register(context.Background(), tt.form())

			switch {
			case tt.expectError:
				assert.Error(t, err)
				assert.Nil(t, user)
			case tt.fieldError != "":
				assert.NoError(t, err)
				assert.Nil(t, user)
				assert.True(t, errs.Has(tt.fieldError))
			default:
				require.NoError(t, err)
				assert.True(t, errs.Valid())
				require.NotNil(t, user)
				assert.Equal(t, "newuser", user.Username)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.NotEqual(t, "password123", user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
			}

			mockRepo.AssertExpectations(t)
			if tt.fieldError == "confirm_password" || tt.fieldError == "password" {
				mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	buyer := &model.User{ID: 4, Username: "buyer", PasswordHash: string(hashedPassword), Role: model.RoleUser}

	tests := []struct {
		name      string
		form      *validation.LoginForm
		setupMock func(*MockUserRepository)
		success   bool
	}{
		{
			name: "successful login",
			form: &validation.LoginForm{Username: "buyer", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "buyer").Return(buyer, nil)
			},
			success: true,
		},
		{
			name: "wrong password",
			form: &validation.LoginForm{Username: "buyer", Password: "wrong-password"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "buyer").Return(buyer, nil)
			},
		},
		{
			name: "unknown user",
			form: &validation.LoginForm{Username: "ghost", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			jwtService := auth.NewJWTService("test-secret", time.Hour)
			service := NewAuthService(mockRepo, jwtService, new(MockTokenStore), nil)

			session, errs, err := service.Login(context.Background(), tt.form)
			require.NoError(t, err)

			if tt.success {
				assert.True(t, errs.Valid())
				require.NotNil(t, session)
				claims, err := jwtService.ValidateToken(session.Token)
				require.NoError(t, err)
				assert.Equal(t, buyer.ID, claims.UserID)
				assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, time.Minute)
			} else {
				assert.Nil(t, session)
				assert.True(t, errs.Has(validation.NonFieldErrors))
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	claims := &auth.Claims{
		UserID: 4,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
		},
	}

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("Revoke", mock.Anything, "jti-1", 30*time.Minute).Return(nil)

	service := NewAuthService(new(MockUserRepository), auth.NewJWTService("test-secret", time.Hour), mockTokenStore, nil).(*authService)
	service.now = func() time.Time { return now }

	require.NoError(t, service.Logout(context.Background(), claims))
	assert.ErrorIs(t, service.Logout(context.Background(), nil), apperrors.ErrInvalidSession)
	mockTokenStore.AssertExpectations(t)
}

func TestAuthService_LogoutReportsRevocationFailure(t *testing.T) {
	claims := &auth.Claims{
		UserID: 4,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-2",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	storeErr := errors.New("connection refused")

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("Revoke", mock.Anything, "jti-2", mock.AnythingOfType("time.Duration")).Return(storeErr)

	service := NewAuthService(new(MockUserRepository), auth.NewJWTService("test-secret", time.Hour), mockTokenStore, nil)
	assert.ErrorIs(t, service.Logout(context.Background(), claims), storeErr)
	mockTokenStore.AssertExpectations(t)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	t.Run("creates missing admin", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "admin").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "admin" && u.Role == model.RoleAdmin
		})).Return(nil)

		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour), new(MockTokenStore), nil)
		user, created, err := service.EnsureAdmin(context.Background(), "admin", "admin@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, user.IsAdmin())
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects password bcrypt cannot hash", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "admin").Return(nil, gorm.ErrRecordNotFound)

		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour), new(MockTokenStore), nil)
		user, created, err := service.EnsureAdmin(context.Background(), "admin", "admin@example.com", strings.Repeat("p", 100))
		assert.ErrorIs(t, err, apperrors.ErrPasswordTooLong)
		assert.False(t, created)
		assert.Nil(t, user)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("keeps existing user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockRepo.On("FindByUsername", mock.Anything, "admin").Return(&model.User{ID: 1, Username: "admin", Role: model.RoleAdmin}, nil)

		service := NewAuthService(mockRepo, auth.NewJWTService("test-secret", time.Hour), new(MockTokenStore), nil)
		user, created, err := service.EnsureAdmin(context.Background(), "admin", "admin@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, uint(1), user.ID)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
