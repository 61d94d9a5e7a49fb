package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/campus-trust-api/internal/domain"
)

// VouchRepo provides typed DynamoDB operations for the vouches table.
// PK: pair_key ("voucher#receiver"); GSI receiver-index on receiver_id.
type VouchRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVouchRepo(client *dynamodb.Client, tableName string) *VouchRepo {
	return &VouchRepo{client: client, tableName: tableName}
}

// Create inserts the vouch record iff the (voucher, receiver) pair does not
// exist yet. The conditional write is the only concurrency-correctness
// mechanism: of two racing inserts for the same pair exactly one wins, the
// other surfaces domain.ErrConflict. Never a silent duplicate.
func (r *VouchRepo) Create(ctx context.Context, v *domain.Vouch) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal vouch: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(pair_key)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("vouch pair exists: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

// CountByReceiver returns the number of distinct vouch records held by a
// receiver, via the receiver-index GSI with a COUNT projection.
func (r *VouchRepo) CountByReceiver(ctx context.Context, receiverID string) (int, error) {
	total := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			IndexName:                 aws.String("receiver-index"),
			KeyConditionExpression:    aws.String("#r = :v"),
			ExpressionAttributeNames:  map[string]string{"#r": "receiver_id"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: receiverID}},
			Select:                    types.SelectCount,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return 0, err
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			return total, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
