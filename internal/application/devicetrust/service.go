package devicetrust

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campus-trust-api/internal/domain"
	"github.com/campus-trust-api/internal/infrastructure/otp"
)

// challengeTTL bounds how long an issued device challenge stays answerable.
const challengeTTL = 10 * time.Minute

// Gate is the device-trust state machine. A session start from an unknown
// or changed fingerprint is challenged; the challenge is consumed by one
// OTP verification attempt, and only a verified challenge promotes the new
// fingerprint to the accepted baseline.
type Gate interface {
	StartSession(ctx context.Context, userID string, attrs domain.DeviceAttributes, ip string) (*SessionState, error)
	VerifyChallenge(ctx context.Context, userID, code string, attrs domain.DeviceAttributes, ip string) (*SessionState, error)
}

// SessionState is the gate's answer for one session start or challenge
// attempt.
type SessionState struct {
	State       string `json:"state"`
	Fingerprint string `json:"fingerprint"`
}

type deviceStore interface {
	Get(ctx context.Context, userID string) (*domain.TrustedDevice, error)
	Put(ctx context.Context, d *domain.TrustedDevice) error
}

type challengeStore interface {
	Put(ctx context.Context, c *domain.DeviceChallenge) error
	Get(ctx context.Context, userID string) (*domain.DeviceChallenge, error)
	Delete(ctx context.Context, userID string) error
}

type gate struct {
	devices    deviceStore
	challenges challengeStore
	verifier   otp.Verifier
	now        func() time.Time
}

func NewGate(devices deviceStore, challenges challengeStore, verifier otp.Verifier) Gate {
	return &gate{devices: devices, challenges: challenges, verifier: verifier, now: time.Now}
}

// StartSession fingerprints the client and compares against the stored
// baseline. A matching fingerprint passes; anything else opens a challenge.
func (g *gate) StartSession(ctx context.Context, userID string, attrs domain.DeviceAttributes, ip string) (*SessionState, error) {
	fp := Fingerprint(attrs)

	dev, err := g.devices.Get(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("load trusted device: %w", err)
	}
	if dev != nil && dev.Fingerprint == fp {
		return &SessionState{State: domain.DeviceKnown, Fingerprint: fp}, nil
	}

	now := g.now().UTC()
	ch := &domain.DeviceChallenge{
		UserID:      userID,
		Fingerprint: fp,
		IP:          ip,
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(challengeTTL).Unix(),
	}
	if err := g.challenges.Put(ctx, ch); err != nil {
		return nil, fmt.Errorf("store challenge: %w", err)
	}
	return &SessionState{State: domain.DeviceChallenged, Fingerprint: fp}, nil
}

// VerifyChallenge consumes the pending challenge with one externally-issued
// OTP verification result. Wrong code, expired challenge and fingerprint
// drift all land in the rejected state; success persists the fingerprint as
// the new baseline.
func (g *gate) VerifyChallenge(ctx context.Context, userID, code string, attrs domain.DeviceAttributes, ip string) (*SessionState, error) {
	ch, err := g.challenges.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no pending challenge: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("load challenge: %w", err)
	}

	fp := Fingerprint(attrs)
	now := g.now().UTC()

	// Single use: whatever the outcome of this attempt, the challenge is spent.
	if err := g.challenges.Delete(ctx, userID); err != nil {
		slog.Warn("failed to delete consumed challenge", "user_id", userID, "err", err)
	}

	if now.Unix() > ch.ExpiresAt || ch.Fingerprint != fp {
		return &SessionState{State: domain.DeviceRejected, Fingerprint: fp}, domain.ErrUnauthorized
	}

	valid, err := g.verifier.Verify(ctx, userID, code, fp, ip)
	if err != nil {
		// Authentication fails closed: an unreachable verifier is a rejection.
		return nil, fmt.Errorf("otp verification unavailable: %v: %w", err, domain.ErrUnauthorized)
	}
	if !valid {
		return &SessionState{State: domain.DeviceRejected, Fingerprint: fp}, domain.ErrUnauthorized
	}

	if err := g.devices.Put(ctx, &domain.TrustedDevice{
		UserID:      userID,
		Fingerprint: fp,
		UserAgent:   attrs.UserAgent,
	}); err != nil {
		return nil, fmt.Errorf("persist device baseline: %w", err)
	}
	return &SessionState{State: domain.DeviceVerified, Fingerprint: fp}, nil
}
