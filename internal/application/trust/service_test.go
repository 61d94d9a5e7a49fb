package trust

import (
	"context"
	"testing"

	"github.com/campus-trust-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockVouchStore struct{ mock.Mock }

func (m *mockVouchStore) Create(ctx context.Context, v *domain.Vouch) error {
	return m.Called(ctx, v).Error(0)
}
func (m *mockVouchStore) CountByReceiver(ctx context.Context, receiverID string) (int, error) {
	args := m.Called(ctx, receiverID)
	return args.Int(0), args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func verifiedUser(id string) *domain.User {
	return &domain.User{UserID: id, VerificationStatus: domain.VerificationVerified}
}

// --- Vouch ---

func TestVouch_SelfTargetAlwaysRejected(t *testing.T) {
	svc := NewService(nil, nil)
	err := svc.Vouch(context.Background(), "u1", "u1")
	assert.ErrorIs(t, err, domain.ErrSelfVouch)
}

func TestVouch_UnverifiedVoucherRejected(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "u1").
		Return(&domain.User{UserID: "u1", VerificationStatus: domain.VerificationPending}, nil)

	svc := NewService(nil, us)
	err := svc.Vouch(context.Background(), "u1", "u2")
	assert.ErrorIs(t, err, domain.ErrVoucherNotVerified)
}

func TestVouch_HappyPath(t *testing.T) {
	us := &mockUserStore{}
	vs := &mockVouchStore{}
	us.On("Get", mock.Anything, "u1").Return(verifiedUser("u1"), nil)
	vs.On("Create", mock.Anything, mock.MatchedBy(func(v *domain.Vouch) bool {
		return v.PairKey == "u1#u2" && v.VoucherID == "u1" && v.ReceiverID == "u2" && v.VouchID != ""
	})).Return(nil)

	svc := NewService(vs, us)
	require.NoError(t, svc.Vouch(context.Background(), "u1", "u2"))
	vs.AssertExpectations(t)
}

func TestVouch_DuplicatePairMapsToAlreadyVouched(t *testing.T) {
	us := &mockUserStore{}
	vs := &mockVouchStore{}
	us.On("Get", mock.Anything, "u1").Return(verifiedUser("u1"), nil)
	vs.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)

	svc := NewService(vs, us)
	err := svc.Vouch(context.Background(), "u1", "u2")
	assert.ErrorIs(t, err, domain.ErrAlreadyVouched)
}

func TestVouch_VoucherNotFound(t *testing.T) {
	us := &mockUserStore{}
	us.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := NewService(nil, us)
	err := svc.Vouch(context.Background(), "ghost", "u2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// --- Tier ---

func TestTier_TrustedAtThreeVouches(t *testing.T) {
	vs := &mockVouchStore{}
	vs.On("CountByReceiver", mock.Anything, "u2").Return(3, nil)

	svc := NewService(vs, nil)
	tier, err := svc.Tier(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationTrusted, tier.Status)
	assert.Equal(t, 3, tier.VouchCount)
}

func TestTier_NotTrustedAtTwoVouches(t *testing.T) {
	vs := &mockVouchStore{}
	us := &mockUserStore{}
	vs.On("CountByReceiver", mock.Anything, "u2").Return(2, nil)
	us.On("Get", mock.Anything, "u2").Return(verifiedUser("u2"), nil)

	svc := NewService(vs, us)
	tier, err := svc.Tier(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, domain.VerificationVerified, tier.Status)
	assert.Equal(t, 2, tier.VouchCount)
}

func TestTier_FallsBackToReceiverStatus(t *testing.T) {
	for _, status := range []string{
		domain.VerificationPending,
		domain.VerificationUnverified,
		domain.VerificationRejected,
	} {
		vs := &mockVouchStore{}
		us := &mockUserStore{}
		vs.On("CountByReceiver", mock.Anything, "u2").Return(0, nil)
		us.On("Get", mock.Anything, "u2").
			Return(&domain.User{UserID: "u2", VerificationStatus: status}, nil)

		svc := NewService(vs, us)
		tier, err := svc.Tier(context.Background(), "u2")
		require.NoError(t, err)
		assert.Equal(t, status, tier.Status, "status %s", status)
	}
}
