package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-trust-api/internal/application/authority"
	"github.com/campus-trust-api/internal/domain"
	"github.com/campus-trust-api/internal/infrastructure/otp"
	"github.com/campus-trust-api/internal/pkg/id"
	"github.com/campus-trust-api/internal/pkg/phone"
)

// IssueTokenRequest is the phone-based token claim. The code is the OTP the
// caller received out of band; issuance and delivery are external.
type IssueTokenRequest struct {
	Phone  string `json:"phone" validate:"required"`
	School string `json:"school" validate:"required"`
	Code   string `json:"code" validate:"required"`
	Email  string `json:"email" validate:"omitempty,email"`
}

// IssuedToken is the capability token handed back to the caller. The token
// string itself is the sole authorization artifact; nothing is stored
// server-side.
type IssuedToken struct {
	Token     string    `json:"token"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service exchanges a verified phone claim for a signed capability token.
type Service interface {
	IssueToken(ctx context.Context, req IssueTokenRequest, ip string) (*IssuedToken, error)
}

type tokenIssuer interface {
	Issue(phoneNum, school string, isAdmin bool, ttl time.Duration) (string, error)
}

type userStore interface {
	GetByPhone(ctx context.Context, canonicalPhone string) (*domain.User, error)
	Put(ctx context.Context, u *domain.User) error
}

type service struct {
	tokens         tokenIssuer
	users          userStore
	authority      *authority.Authority
	verifier       otp.Verifier
	defaultCountry string
	adminTTL       time.Duration
	contributorTTL time.Duration
}

type ServiceDeps struct {
	Tokens         tokenIssuer
	Users          userStore
	Authority      *authority.Authority
	Verifier       otp.Verifier
	DefaultCountry string
	AdminTTL       time.Duration
	ContributorTTL time.Duration
}

func NewService(d ServiceDeps) Service {
	return &service{
		tokens:         d.Tokens,
		users:          d.Users,
		authority:      d.Authority,
		verifier:       d.Verifier,
		defaultCountry: d.DefaultCountry,
		adminTTL:       d.AdminTTL,
		contributorTTL: d.ContributorTTL,
	}
}

// IssueToken canonicalizes the claimed phone, consumes the external OTP
// verification result and mints a capability token. Admin standing comes
// solely from the server-side decision (persisted flag + allow-lists);
// nothing the client asserts is trusted. All authorization failures
// collapse to domain.ErrUnauthorized so the response cannot reveal which
// check failed.
func (s *service) IssueToken(ctx context.Context, req IssueTokenRequest, ip string) (*IssuedToken, error) {
	canonical, err := phone.Canonical(req.Phone, s.defaultCountry)
	if err != nil {
		return nil, err
	}

	valid, err := s.verifier.Verify(ctx, canonical, req.Code, "", ip)
	if err != nil {
		slog.Warn("otp verification unavailable during token issue", "err", err)
		return nil, fmt.Errorf("otp verify: %w", domain.ErrUnauthorized)
	}
	if !valid {
		return nil, domain.ErrUnauthorized
	}

	// The persisted admin flag rides on the account record when one exists;
	// a phone on the allow-list needs no account at all.
	persistedFlag := false
	if u, err := s.users.GetByPhone(ctx, canonical); err == nil {
		persistedFlag = u.IsAdmin
	} else if errors.Is(err, domain.ErrNotFound) {
		// First issue for this phone provisions the account record, so
		// vouching and manual verification have a row to act on. The token
		// does not hinge on the write.
		now := time.Now().UTC()
		if err := s.users.Put(ctx, &domain.User{
			UserID:             id.New(),
			Phone:              canonical,
			Email:              req.Email,
			School:             req.School,
			VerificationStatus: domain.VerificationUnverified,
			Enable:             true,
			CreatedAt:          now,
			UpdatedAt:          now,
		}); err != nil {
			slog.Warn("failed to provision account on first token issue", "err", err)
		}
	} else {
		return nil, fmt.Errorf("load user: %w", err)
	}

	isAdmin := s.authority.IsAdmin(req.Email, canonical, persistedFlag)
	ttl := s.contributorTTL
	if isAdmin {
		ttl = s.adminTTL
	}

	tok, err := s.tokens.Issue(canonical, req.School, isAdmin, ttl)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &IssuedToken{
		Token:     tok,
		IsAdmin:   isAdmin,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}
