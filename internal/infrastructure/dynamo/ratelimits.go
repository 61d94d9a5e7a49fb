package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-trust-api/internal/application/ratelimit"
)

// RateLimitStore backs the limiter registry with DynamoDB atomic ADD
// counters on window-aligned buckets.
//
// Known looseness: the bucket resets on window boundaries instead of
// sliding, so a burst straddling a boundary can see up to 2x the limit.
// This is best-effort limiting, accepted because DynamoDB has no atomic
// sliding-window primitive; the in-memory store gives the exact guarantee
// for single-process deployments. Buckets expire via the table TTL.
type RateLimitStore struct {
	client    *dynamodb.Client
	tableName string
	now       func() time.Time
}

func NewRateLimitStore(client *dynamodb.Client, tableName string) *RateLimitStore {
	return &RateLimitStore{client: client, tableName: tableName, now: time.Now}
}

func (s *RateLimitStore) Take(ctx context.Context, name, key string, cfg ratelimit.Config) (ratelimit.Result, error) {
	now := s.now()
	windowStart := now.Truncate(cfg.Window)
	resetAt := windowStart.Add(cfg.Window)
	bucketKey := fmt.Sprintf("%s#%s#%d", name, key, windowStart.Unix())

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.tableName),
		Key:              strKey("bucket_key", bucketKey),
		UpdateExpression: aws.String("ADD #c :one SET #exp = if_not_exists(#exp, :exp)"),
		// Increment only while under the limit; a rejected check must not
		// count toward it.
		ConditionExpression: aws.String("attribute_not_exists(#c) OR #c < :limit"),
		ExpressionAttributeNames: map[string]string{
			"#c":   "count",
			"#exp": "expires_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":   &types.AttributeValueMemberN{Value: "1"},
			":limit": &types.AttributeValueMemberN{Value: strconv.Itoa(cfg.Limit)},
			":exp":   &types.AttributeValueMemberN{Value: strconv.FormatInt(resetAt.Add(time.Hour).Unix(), 10)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ratelimit.Result{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
		}
		return ratelimit.Result{}, fmt.Errorf("rate limit bucket update: %w", err)
	}

	count := 0
	if n, ok := out.Attributes["count"].(*types.AttributeValueMemberN); ok {
		count, _ = strconv.Atoi(n.Value)
	}
	remaining := cfg.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return ratelimit.Result{Allowed: true, Remaining: remaining, ResetAt: resetAt}, nil
}
