package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	domain "github.com/example/taskward/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AuthModule provides identity and account services.
type AuthModule struct {
	db      *gorm.DB
	service *AuthService
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule backed by the SQLite file at dbPath.
func NewModule(dbPath string) *AuthModule {
	return &AuthModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start initializes the auth module.
func (m *AuthModule) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	repo := NewUserRepository(db)
	hasher := NewPasswordHasher()
	jwtManager := NewJWTManager(loadJWTConfig())

	m.service = NewAuthService(repo, hasher, jwtManager)

	log.Printf("[auth] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"register": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "register", json.Unmarshal, json.Marshal, m.handleRegister)
		},
		"login": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "login", json.Unmarshal, json.Marshal, m.handleLogin)
		},
		"refresh-token": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "refresh-token", json.Unmarshal, json.Marshal, m.handleRefresh)
		},
		"resolve-token": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "resolve-token", json.Unmarshal, json.Marshal, m.handleResolveToken)
		},
		"get-profile": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "get-profile", json.Unmarshal, json.Marshal, m.handleGetProfile)
		},
		"update-profile": func() error {
			return helper.RegisterTypedRequestReplyService(
				container, "update-profile", json.Unmarshal, json.Marshal, m.handleUpdateProfile)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[auth] Registered services: register, login, refresh-token, resolve-token, get-profile, update-profile")
	return nil
}

// handleRegister handles user registration.
func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	user, err := m.service.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return RegisterResponse{}, err
	}

	return RegisterResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

// handleLogin handles user login.
func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	tokens, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.TokenType,
	}, nil
}

// handleRefresh handles token refresh.
func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (RefreshResponse, error) {
	tokens, err := m.service.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		return RefreshResponse{}, err
	}

	return RefreshResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
		TokenType:    tokens.TokenType,
	}, nil
}

// handleResolveToken resolves a bearer token to a user identity.
// Resolution failures are reported in the response body, not as errors.
func (m *AuthModule) handleResolveToken(ctx context.Context, req ResolveTokenRequest, _ *mono.Msg) (ResolveTokenResponse, error) {
	claims, err := m.service.ResolveToken(ctx, req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		return ResolveTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil
	}

	return ResolveTokenResponse{
		Valid:  true,
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// handleGetProfile handles profile lookups.
func (m *AuthModule) handleGetProfile(ctx context.Context, req GetProfileRequest, _ *mono.Msg) (ProfileResponse, error) {
	user, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return ProfileResponse{}, err
	}

	return toProfileResponse(user), nil
}

// handleUpdateProfile handles partial profile updates.
func (m *AuthModule) handleUpdateProfile(ctx context.Context, req UpdateProfileRequest, _ *mono.Msg) (ProfileResponse, error) {
	user, err := m.service.UpdateProfile(ctx, req.UserID, req.Name, req.Bio)
	if err != nil {
		return ProfileResponse{}, err
	}

	return toProfileResponse(user), nil
}

func toProfileResponse(user *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	}
}

// loadJWTConfig loads JWT configuration from environment variables.
func loadJWTConfig() JWTConfig {
	config := DefaultJWTConfig()

	if secret := os.Getenv("JWT_SECRET_KEY"); secret != "" {
		config.SecretKey = secret
	}

	if issuer := os.Getenv("JWT_ISSUER"); issuer != "" {
		config.Issuer = issuer
	}

	return config
}
