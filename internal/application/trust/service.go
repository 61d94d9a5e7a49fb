package trust

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campus-trust-api/internal/domain"
	"github.com/campus-trust-api/internal/pkg/id"
)

// Service is the peer-vouching trust graph: verified users endorse each
// other, and three distinct endorsements lift the receiver to the trusted
// tier. The tier is derived on read, never stored.
type Service interface {
	Vouch(ctx context.Context, voucherID, receiverID string) error
	Tier(ctx context.Context, receiverID string) (*domain.TrustTier, error)
}

type vouchStore interface {
	Create(ctx context.Context, v *domain.Vouch) error
	CountByReceiver(ctx context.Context, receiverID string) (int, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type service struct {
	vouches vouchStore
	users   userStore
}

func NewService(vouches vouchStore, users userStore) Service {
	return &service{vouches: vouches, users: users}
}

// trustedThreshold is the distinct-vouch count at which a receiver becomes
// trusted regardless of underlying verification status.
const trustedThreshold = 3

// Vouch records a one-directional endorsement. Preconditions run in order:
// self-target, voucher verification at insert time, then the conditional
// insert whose uniqueness violation maps to ErrAlreadyVouched. Two
// concurrent attempts for the same pair race at the storage layer and
// exactly one succeeds.
func (s *service) Vouch(ctx context.Context, voucherID, receiverID string) error {
	if voucherID == receiverID {
		return domain.ErrSelfVouch
	}
	voucher, err := s.users.Get(ctx, voucherID)
	if err != nil {
		return fmt.Errorf("load voucher: %w", err)
	}
	if voucher.VerificationStatus != domain.VerificationVerified {
		return domain.ErrVoucherNotVerified
	}

	now := time.Now().UTC()
	v := &domain.Vouch{
		PairKey:    domain.VouchPairKey(voucherID, receiverID),
		VouchID:    id.New(),
		VoucherID:  voucherID,
		ReceiverID: receiverID,
		CreatedAt:  now,
	}
	if err := s.vouches.Create(ctx, v); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.ErrAlreadyVouched
		}
		return err
	}
	return nil
}

// Tier computes the receiver's trust standing on read: trusted at three or
// more distinct vouches, otherwise the account's own verification status.
func (s *service) Tier(ctx context.Context, receiverID string) (*domain.TrustTier, error) {
	count, err := s.vouches.CountByReceiver(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("count vouches: %w", err)
	}
	if count >= trustedThreshold {
		return &domain.TrustTier{Status: domain.VerificationTrusted, VouchCount: count}, nil
	}
	receiver, err := s.users.Get(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("load receiver: %w", err)
	}
	return &domain.TrustTier{Status: receiver.VerificationStatus, VouchCount: count}, nil
}
