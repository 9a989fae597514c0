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

// PutAsset stores an externally-landed asset snapshot.
func (s *Source) PutAsset(ctx context.Context, asset types.AssetSnapshot) error {
	data, err := attributevalue.MarshalMap(asset)
	if err != nil {
		return fmt.Errorf("marshaling asset: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item: map[string]ddbtypes.AttributeValue{
			"PK":     &ddbtypes.AttributeValueMemberS{Value: assetPK(asset.ID)},
			"SK":     &ddbtypes.AttributeValueMemberS{Value: metaSK()},
			"GSI1PK": &ddbtypes.AttributeValueMemberS{Value: typePK("asset")},
			"GSI1SK": &ddbtypes.AttributeValueMemberS{Value: assetPK(asset.ID)},
			"data":   &ddbtypes.AttributeValueMemberM{Value: data},
		},
	})
	return err
}

// AddEvent stores a maintenance event under its asset's partition, sorted
// chronologically by sort key.
func (s *Source) AddEvent(ctx context.Context, event types.MaintenanceEvent) error {
	data, err := attributevalue.MarshalMap(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item: map[string]ddbtypes.AttributeValue{
			"PK":   &ddbtypes.AttributeValueMemberS{Value: assetPK(event.AssetID)},
			"SK":   &ddbtypes.AttributeValueMemberS{Value: eventSK(event.CreatedAt, event.ID)},
			"data": &ddbtypes.AttributeValueMemberM{Value: data},
		},
	})
	return err
}

// GetAsset returns the asset snapshot, or provider.ErrNotFound.
func (s *Source) GetAsset(ctx context.Context, id string) (*types.AssetSnapshot, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: assetPK(id)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: metaSK()},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("asset %q: %w", id, provider.ErrNotFound)
	}

	var asset types.AssetSnapshot
	if err := unmarshalData(out.Item, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// GetHistory queries the asset's event items in sort-key order.
func (s *Source) GetHistory(ctx context.Context, assetID string) ([]types.MaintenanceEvent, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk": &ddbtypes.AttributeValueMemberS{Value: assetPK(assetID)},
			":sk": &ddbtypes.AttributeValueMemberS{Value: prefixEvent},
		},
	})
	if err != nil {
		return nil, err
	}

	events := make([]types.MaintenanceEvent, 0, len(out.Items))
	for _, item := range out.Items {
		var e types.MaintenanceEvent
		if err := unmarshalData(item, &e); err != nil {
			s.logger.Warn("skipping corrupt event entry", "assetId", assetID, "error", err)
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

// ListAssets returns all assets in scope via GSI1, ordered by ID.
func (s *Source) ListAssets(ctx context.Context, scope string) ([]types.AssetSnapshot, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.tableName,
		IndexName:              aws.String(gsi1Name),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk": &ddbtypes.AttributeValueMemberS{Value: typePK("asset")},
		},
	})
	if err != nil {
		return nil, err
	}

	var assets []types.AssetSnapshot
	for _, item := range out.Items {
		var asset types.AssetSnapshot
		if err := unmarshalData(item, &asset); err != nil {
			s.logger.Warn("skipping corrupt asset entry", "error", err)
			continue
		}
		if scope == "" || asset.Scope == scope {
			assets = append(assets, asset)
		}
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets, nil
}

// unmarshalData decodes the record payload stored under the "data" attribute.
func unmarshalData(item map[string]ddbtypes.AttributeValue, out interface{}) error {
	m, ok := item["data"].(*ddbtypes.AttributeValueMemberM)
	if !ok {
		return fmt.Errorf("item missing data attribute")
	}
	return attributevalue.UnmarshalMap(m.Value, out)
}
