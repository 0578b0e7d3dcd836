package auth

import (
	"context"
	"encoding/json"
	"fmt"

	domain "github.com/example/taskward/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// IdentityPort is the boundary other modules use to resolve a bearer
// credential into a verified user identity and to read profiles.
type IdentityPort interface {
	ResolveToken(ctx context.Context, token string) (*domain.Claims, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
}

// IdentityAdapter implements IdentityPort over the auth service container.
type IdentityAdapter struct {
	container mono.ServiceContainer
}

// NewIdentityAdapter creates a new IdentityAdapter.
func NewIdentityAdapter(container mono.ServiceContainer) *IdentityAdapter {
	return &IdentityAdapter{
		container: container,
	}
}

// ResolveToken verifies an access token and returns the caller's identity.
func (a *IdentityAdapter) ResolveToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ResolveTokenRequest{Token: token}
	var resp ResolveTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"resolve-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("resolve-token request failed: %w", err)
	}

	if !resp.Valid {
		return nil, fmt.Errorf("token resolution failed: %s", resp.Error)
	}

	return &domain.Claims{
		UserID: resp.UserID,
		Email:  resp.Email,
	}, nil
}

// GetProfile retrieves a user by ID.
func (a *IdentityAdapter) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	req := GetProfileRequest{UserID: userID}
	var resp ProfileResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-profile",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-profile request failed: %w", err)
	}

	return &domain.User{
		ID:        resp.ID,
		Name:      resp.Name,
		Email:     resp.Email,
		Bio:       resp.Bio,
		CreatedAt: resp.CreatedAt,
	}, nil
}
