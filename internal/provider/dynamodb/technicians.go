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

// PutTechnician stores an externally-landed technician snapshot. The upstream
// sync maintains the workload counters on the snapshot.
func (s *Source) PutTechnician(ctx context.Context, tech types.TechnicianSnapshot) error {
	data, err := attributevalue.MarshalMap(tech)
	if err != nil {
		return fmt.Errorf("marshaling technician: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item: map[string]ddbtypes.AttributeValue{
			"PK":     &ddbtypes.AttributeValueMemberS{Value: techPK(tech.ID)},
			"SK":     &ddbtypes.AttributeValueMemberS{Value: metaSK()},
			"GSI1PK": &ddbtypes.AttributeValueMemberS{Value: typePK("tech")},
			"GSI1SK": &ddbtypes.AttributeValueMemberS{Value: techPK(tech.ID)},
			"data":   &ddbtypes.AttributeValueMemberM{Value: data},
		},
	})
	return err
}

// ListActiveTechnicians returns active technicians in scope via GSI1, ordered
// by ID.
func (s *Source) ListActiveTechnicians(ctx context.Context, scope string) ([]types.TechnicianSnapshot, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.tableName,
		IndexName:              aws.String(gsi1Name),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk": &ddbtypes.AttributeValueMemberS{Value: typePK("tech")},
		},
	})
	if err != nil {
		return nil, err
	}

	var techs []types.TechnicianSnapshot
	for _, item := range out.Items {
		var tech types.TechnicianSnapshot
		if err := unmarshalData(item, &tech); err != nil {
			s.logger.Warn("skipping corrupt technician entry", "error", err)
			continue
		}
		if !tech.Active {
			continue
		}
		if scope != "" && tech.Scope != scope {
			continue
		}
		techs = append(techs, tech)
	}
	sort.Slice(techs, func(i, j int) bool { return techs[i].ID < techs[j].ID })
	return techs, nil
}

// GetWorkload returns the technician's current request counts.
func (s *Source) GetWorkload(ctx context.Context, techID string) (*types.WorkloadCounts, error) {
	tech, err := s.getTechnician(ctx, techID)
	if err != nil {
		return nil, err
	}
	return &types.WorkloadCounts{
		Active:              tech.ActiveRequests,
		Pending:             tech.PendingRequests,
		InProgress:          tech.InProgressRequests,
		CompletedLast30Days: tech.CompletedLast30Days,
	}, nil
}

// RecentCompletionRate returns the completion rate the upstream sync landed
// on the snapshot. The window is fixed by the sync, not by windowDays.
func (s *Source) RecentCompletionRate(ctx context.Context, techID string, _ int) (float64, error) {
	tech, err := s.getTechnician(ctx, techID)
	if err != nil {
		return 0, err
	}
	return tech.CompletionRate, nil
}

func (s *Source) getTechnician(ctx context.Context, techID string) (*types.TechnicianSnapshot, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: techPK(techID)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: metaSK()},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("technician %q: %w", techID, provider.ErrNotFound)
	}

	var tech types.TechnicianSnapshot
	if err := unmarshalData(out.Item, &tech); err != nil {
		return nil, err
	}
	return &tech, nil
}
