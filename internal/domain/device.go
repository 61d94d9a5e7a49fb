package domain

import "time"

// DeviceAttributes is the fixed set of client-reported attributes a device
// fingerprint is derived from. The fingerprint is a change-detection signal
// only, never a security boundary.
type DeviceAttributes struct {
	UserAgent           string `json:"user_agent"`
	Language            string `json:"language"`
	Platform            string `json:"platform"`
	ScreenResolution    string `json:"screen_resolution"`
	Timezone            string `json:"timezone"`
	HardwareConcurrency int    `json:"hardware_concurrency"`
}

// TrustedDevice is the accepted fingerprint baseline for a user. Session
// starts compare against it; it is replaced only after a verified challenge.
type TrustedDevice struct {
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	Fingerprint string    `json:"fingerprint" dynamodbav:"fingerprint"`
	UserAgent   string    `json:"user_agent" dynamodbav:"user_agent"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

// DeviceChallenge is the ephemeral record of an OTP challenge issued when a
// new or changed device is seen. Single use: consumed on successful
// verification or dead after ExpiresAt.
type DeviceChallenge struct {
	UserID      string `json:"user_id" dynamodbav:"user_id"`
	Fingerprint string `json:"fingerprint" dynamodbav:"fingerprint"`
	IP          string `json:"ip" dynamodbav:"ip"`
	IssuedAt    int64  `json:"issued_at" dynamodbav:"issued_at"`
	ExpiresAt   int64  `json:"expires_at" dynamodbav:"expires_at"`
}

// Device-gate states as seen by the session-start surface.
const (
	DeviceKnown      = "known"
	DeviceChallenged = "challenged"
	DeviceVerified   = "verified"
	DeviceRejected   = "rejected"
)
