package http

import (
	"context"

	"github.com/campus-trust-api/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Put(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID string) (*domain.User, error)
	// GetByPhone resolves an account via the `phone-index` GSI; the phone
	// must already be canonical.
	GetByPhone(ctx context.Context, canonicalPhone string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
}

// VouchRepository is the minimal interface the router requires from a vouch store.
type VouchRepository interface {
	// Create fails with domain.ErrConflict when the (voucher, receiver)
	// pair already exists.
	Create(ctx context.Context, v *domain.Vouch) error
	CountByReceiver(ctx context.Context, receiverID string) (int, error)
}

// DeviceRepository is the minimal interface the router requires from a
// trusted-device store.
type DeviceRepository interface {
	Get(ctx context.Context, userID string) (*domain.TrustedDevice, error)
	Put(ctx context.Context, d *domain.TrustedDevice) error
}

// ChallengeRepository is the minimal interface the router requires from a
// device-challenge store.
type ChallengeRepository interface {
	Put(ctx context.Context, c *domain.DeviceChallenge) error
	Get(ctx context.Context, userID string) (*domain.DeviceChallenge, error)
	Delete(ctx context.Context, userID string) error
}
