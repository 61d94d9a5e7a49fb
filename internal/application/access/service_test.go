package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/campus-trust-api/internal/application/authority"
	"github.com/campus-trust-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockTokenIssuer struct{ mock.Mock }

func (m *mockTokenIssuer) Issue(phoneNum, school string, isAdmin bool, ttl time.Duration) (string, error) {
	args := m.Called(phoneNum, school, isAdmin, ttl)
	return args.String(0), args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByPhone(ctx context.Context, canonicalPhone string) (*domain.User, error) {
	args := m.Called(ctx, canonicalPhone)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserStore) Put(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockVerifier struct{ mock.Mock }

func (m *mockVerifier) Verify(ctx context.Context, userID, code, fingerprint, ip string) (bool, error) {
	args := m.Called(ctx, userID, code, fingerprint, ip)
	return args.Bool(0), args.Error(1)
}

func newService(ti *mockTokenIssuer, us *mockUserStore, v *mockVerifier, adminPhones []string) Service {
	return NewService(ServiceDeps{
		Tokens:         ti,
		Users:          us,
		Authority:      authority.New(nil, adminPhones, "NG"),
		Verifier:       v,
		DefaultCountry: "NG",
		AdminTTL:       24 * time.Hour,
		ContributorTTL: 720 * time.Hour,
	})
}

func TestIssueToken_AdminPhoneGetsAdminToken(t *testing.T) {
	ti := &mockTokenIssuer{}
	us := &mockUserStore{}
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, "2348012345678", "123456", "", "1.2.3.4").Return(true, nil)
	us.On("GetByPhone", mock.Anything, "2348012345678").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.Anything).Return(nil)
	ti.On("Issue", "2348012345678", "unilag", true, 24*time.Hour).Return("signed-token", nil)

	// Allow-list stores the local form; the claim presents plus-prefixed.
	svc := newService(ti, us, v, []string{"08012345678"})
	out, err := svc.IssueToken(context.Background(), IssueTokenRequest{
		Phone: "+2348012345678", School: "unilag", Code: "123456",
	}, "1.2.3.4")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", out.Token)
	assert.True(t, out.IsAdmin)
	ti.AssertExpectations(t)
}

func TestIssueToken_NonAdminGetsContributorToken(t *testing.T) {
	ti := &mockTokenIssuer{}
	us := &mockUserStore{}
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	us.On("GetByPhone", mock.Anything, "2349012345678").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.Anything).Return(nil)
	ti.On("Issue", "2349012345678", "unilag", false, 720*time.Hour).Return("signed-token", nil)

	svc := newService(ti, us, v, []string{"08012345678"})
	out, err := svc.IssueToken(context.Background(), IssueTokenRequest{
		Phone: "09012345678", School: "unilag", Code: "123456",
	}, "1.2.3.4")

	require.NoError(t, err)
	assert.False(t, out.IsAdmin)
	ti.AssertExpectations(t)
}

func TestIssueToken_PersistedFlagGrantsAdmin(t *testing.T) {
	ti := &mockTokenIssuer{}
	us := &mockUserStore{}
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	us.On("GetByPhone", mock.Anything, "2349012345678").
		Return(&domain.User{UserID: "u1", IsAdmin: true}, nil)
	ti.On("Issue", "2349012345678", "unilag", true, 24*time.Hour).Return("signed-token", nil)

	svc := newService(ti, us, v, nil)
	out, err := svc.IssueToken(context.Background(), IssueTokenRequest{
		Phone: "09012345678", School: "unilag", Code: "123456",
	}, "1.2.3.4")

	require.NoError(t, err)
	assert.True(t, out.IsAdmin)
}

func TestIssueToken_FirstIssueProvisionsAccount(t *testing.T) {
	ti := &mockTokenIssuer{}
	us := &mockUserStore{}
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	us.On("GetByPhone", mock.Anything, "2349012345678").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Phone == "2349012345678" &&
			u.VerificationStatus == domain.VerificationUnverified &&
			u.UserID != "" && u.Enable
	})).Return(nil)
	ti.On("Issue", "2349012345678", "unilag", false, 720*time.Hour).Return("signed-token", nil)

	svc := newService(ti, us, v, nil)
	_, err := svc.IssueToken(context.Background(), IssueTokenRequest{
		Phone: "09012345678", School: "unilag", Code: "123456",
	}, "1.2.3.4")

	require.NoError(t, err)
	us.AssertExpectations(t)
}

func TestIssueToken_ExistingAccountNotRewritten(t *testing.T) {
	ti := &mockTokenIssuer{}
	us := &mockUserStore{}
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	us.On("GetByPhone", mock.Anything, "2349012345678").
		Return(&domain.User{UserID: "u1", Phone: "2349012345678"}, nil)
	ti.On("Issue", "2349012345678", "unilag", false, 720*time.Hour).Return("signed-token", nil)

	svc := newService(ti, us, v, nil)
	_, err := svc.IssueToken(context.Background(), IssueTokenRequest{
		Phone: "09012345678", School: "unilag", Code: "123456",
	}, "1.2.3.4")

	require.NoError(t, err)
	us.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestIssueToken_ProvisionFailureStillIssues(t *testing.T) {
	ti := &mockTokenIssuer{}
	us := &mockUserStore{}
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	us.On("GetByPhone", mock.Anything, "2349012345678").Return(nil, domain.ErrNotFound)
	us.On("Put", mock.Anything, mock.Anything).Return(errors.New("throttled"))
	ti.On("Issue", "2349012345678", "unilag", false, 720*time.Hour).Return("signed-token", nil)

	svc := newService(ti, us, v, nil)
	out, err := svc.IssueToken(context.Background(), IssueTokenRequest{
		Phone: "09012345678", School: "unilag", Code: "123456",
	}, "1.2.3.4")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", out.Token)
}

func TestIssueToken_MalformedPhone(t *testing.T) {
	svc := newService(nil, nil, nil, nil)
	_, err := svc.IssueToken(context.Background(), IssueTokenRequest{
		Phone: "not-a-phone", School: "unilag", Code: "123456",
	}, "1.2.3.4")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestIssueToken_WrongCodeIsGenericUnauthorized(t *testing.T) {
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	svc := newService(nil, nil, v, nil)
	_, err := svc.IssueToken(context.Background(), IssueTokenRequest{
		Phone: "08012345678", School: "unilag", Code: "000000",
	}, "1.2.3.4")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestIssueToken_VerifierDownIsGenericUnauthorized(t *testing.T) {
	v := &mockVerifier{}
	v.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(false, errors.New("timeout"))

	svc := newService(nil, nil, v, nil)
	_, err := svc.IssueToken(context.Background(), IssueTokenRequest{
		Phone: "08012345678", School: "unilag", Code: "123456",
	}, "1.2.3.4")
	// Indistinguishable from a wrong code: no information leaks about which
	// check failed.
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
