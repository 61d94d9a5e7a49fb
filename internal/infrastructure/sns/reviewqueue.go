package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/campus-trust-api/internal/config"
)

// ReviewQueue routes AI-flagged submissions to the manual moderation queue.
// Flagged content is never auto-rejected; a human makes the call.
type ReviewQueue interface {
	Publish(ctx context.Context, item ReviewItem) error
}

// ReviewItem is the payload handed to the moderation queue.
type ReviewItem struct {
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Reason      string    `json:"reason"`
	FlaggedAt   time.Time `json:"flagged_at"`
}

type queue struct {
	client   *sns.Client
	topicARN string
}

func NewReviewQueue(cfg *config.Config) (ReviewQueue, error) {
	if cfg.ReviewQueueTopicARN == "" {
		return nil, fmt.Errorf("review queue topic not configured")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &queue{client: sns.NewFromConfig(awsCfg), topicARN: cfg.ReviewQueueTopicARN}, nil
}

func (q *queue) Publish(ctx context.Context, item ReviewItem) error {
	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal review item: %w", err)
	}
	msg := string(body)
	_, err = q.client.Publish(ctx, &sns.PublishInput{
		TopicArn: &q.topicARN,
		Message:  &msg,
	})
	return err
}
