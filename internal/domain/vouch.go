package domain

import "time"

// Vouch is a one-directional endorsement from a verified user toward
// another user. The (voucher, receiver) pair is unique; records are created
// once and never mutated. Uniqueness is enforced by the storage layer's
// conditional write, which is the sole concurrency-correctness mechanism.
type Vouch struct {
	// PairKey is "voucher_id#receiver_id", the table partition key.
	PairKey    string    `json:"-" dynamodbav:"pair_key"`
	VouchID    string    `json:"id" dynamodbav:"vouch_id"`
	VoucherID  string    `json:"voucher_id" dynamodbav:"voucher_id"`
	ReceiverID string    `json:"receiver_id" dynamodbav:"receiver_id"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
}

// VouchPairKey builds the unique partition key for a (voucher, receiver) pair.
func VouchPairKey(voucherID, receiverID string) string {
	return voucherID + "#" + receiverID
}
