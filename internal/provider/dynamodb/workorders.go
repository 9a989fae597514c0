package dynamodb

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/gantryhq/gantry/internal/provider"
	"github.com/gantryhq/gantry/pkg/types"
)

// PutWorkOrder stores an externally-landed work order. Assigned orders are
// indexed by assignee on GSI1.
func (s *Source) PutWorkOrder(ctx context.Context, order types.WorkOrder) error {
	data, err := attributevalue.MarshalMap(order)
	if err != nil {
		return fmt.Errorf("marshaling work order: %w", err)
	}

	item := map[string]ddbtypes.AttributeValue{
		"PK":   &ddbtypes.AttributeValueMemberS{Value: orderPK(order.ID)},
		"SK":   &ddbtypes.AttributeValueMemberS{Value: metaSK()},
		"data": &ddbtypes.AttributeValueMemberM{Value: data},
	}
	if order.AssigneeID != "" {
		item["GSI1PK"] = &ddbtypes.AttributeValueMemberS{Value: techPK(order.AssigneeID)}
		item["GSI1SK"] = &ddbtypes.AttributeValueMemberS{Value: orderPK(order.ID)}
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	return err
}

// GetWorkOrder returns the work order, or provider.ErrNotFound.
func (s *Source) GetWorkOrder(ctx context.Context, id string) (*types.WorkOrder, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: orderPK(id)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: metaSK()},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("work order %q: %w", id, provider.ErrNotFound)
	}

	var order types.WorkOrder
	if err := unmarshalData(out.Item, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOpenAssignedTo queries the per-assignee index and returns the
// technician's open work orders, lowest priority first.
func (s *Source) ListOpenAssignedTo(ctx context.Context, techID string) ([]types.WorkOrder, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.tableName,
		IndexName:              aws.String(gsi1Name),
		KeyConditionExpression: aws.String("GSI1PK = :pk AND begins_with(GSI1SK, :sk)"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk": &ddbtypes.AttributeValueMemberS{Value: techPK(techID)},
			":sk": &ddbtypes.AttributeValueMemberS{Value: prefixOrder},
		},
	})
	if err != nil {
		return nil, err
	}

	var open []types.WorkOrder
	for _, item := range out.Items {
		var order types.WorkOrder
		if err := unmarshalData(item, &order); err != nil {
			s.logger.Warn("skipping corrupt work order entry", "technicianId", techID, "error", err)
			continue
		}
		if order.Status.IsOpen() {
			open = append(open, order)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		if open[i].Priority.Rank() != open[j].Priority.Rank() {
			return open[i].Priority.Rank() < open[j].Priority.Rank()
		}
		return open[i].CreatedAt.Before(open[j].CreatedAt)
	})
	return open, nil
}
