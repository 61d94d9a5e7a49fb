package domain

import "time"

// Verification statuses a user account can hold. VerificationTrusted is
// never stored; it is derived from the vouch count on read.
const (
	VerificationUnverified = "unverified"
	VerificationPending    = "pending"
	VerificationVerified   = "verified"
	VerificationRejected   = "rejected"
	VerificationTrusted    = "trusted"
)

type User struct {
	UserID             string    `json:"id" dynamodbav:"user_id"`
	Phone              string    `json:"phone" dynamodbav:"phone"`
	Email              string    `json:"email" dynamodbav:"email"`
	School             string    `json:"school" dynamodbav:"school"`
	VerificationStatus string    `json:"verification_status" dynamodbav:"verification_status"`
	IsAdmin            bool      `json:"is_admin" dynamodbav:"is_admin"`
	Enable             bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt          time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt          time.Time `json:"updated" dynamodbav:"updated_at"`
}

// TrustTier is the derived trust standing of a user: trusted at three or
// more distinct vouches, otherwise the account's own verification status.
type TrustTier struct {
	Status     string `json:"status"`
	VouchCount int    `json:"vouch_count"`
}
