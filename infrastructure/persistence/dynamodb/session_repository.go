package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"mnuda-backend/application/ports"
	"mnuda-backend/domain/core/aggregates"
	pkgerrors "mnuda-backend/pkg/errors"
	"mnuda-backend/pkg/utils"
)

// SessionRepository implements session persistence on DynamoDB. Sessions are
// stored as whole snapshots: the aggregate is small (an investigation is
// hundreds of nodes at most) and the snapshot round-trip already preserves
// identity, linkage, and timestamps.
type SessionRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewSessionRepository creates a new DynamoDB session repository
func NewSessionRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

// sessionItem represents the DynamoDB item structure for a session snapshot
type sessionItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	SessionID  string `dynamodbav:"SessionID"`
	Name       string `dynamodbav:"Name"`
	NodeCount  int    `dynamodbav:"NodeCount"`
	Snapshot   string `dynamodbav:"Snapshot"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
}

func sessionKey(id aggregates.SessionID) (string, string) {
	return fmt.Sprintf("SESSION#%s", id.String()), "SNAPSHOT"
}

// Save persists a session snapshot to DynamoDB
func (r *SessionRepository) Save(ctx context.Context, session *aggregates.Session) error {
	if session == nil {
		return pkgerrors.NewValidationError("session cannot be nil")
	}

	snap := session.Snapshot()
	body, err := json.Marshal(snap)
	if err != nil {
		return pkgerrors.NewInternalError("failed to serialize session snapshot").WithCause(err)
	}

	pk, sk := sessionKey(session.ID())
	item := sessionItem{
		PK:         pk,
		SK:         sk,
		EntityType: "SESSION",
		SessionID:  session.ID().String(),
		Name:       session.Name(),
		NodeCount:  session.Len(),
		Snapshot:   string(body),
		UpdatedAt:  utils.FormatTimestamp(session.UpdatedAt()),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal session item").WithCause(err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("put session", err)
	}

	r.logger.Debug("Session snapshot saved",
		zap.String("sessionID", session.ID().String()),
		zap.Int("nodeCount", session.Len()),
	)
	return nil
}

// GetByID retrieves a session by its ID and rebuilds the aggregate from its
// snapshot
func (r *SessionRepository) GetByID(ctx context.Context, id aggregates.SessionID) (*aggregates.Session, error) {
	pk, sk := sessionKey(id)
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get session", err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError("session")
	}

	var item sessionItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal session item").WithCause(err)
	}

	var snap aggregates.SessionSnapshot
	if err := json.Unmarshal([]byte(item.Snapshot), &snap); err != nil {
		return nil, pkgerrors.NewInternalError("failed to parse session snapshot").WithCause(err)
	}

	return aggregates.ReconstructSession(snap)
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id aggregates.SessionID) error {
	pk, sk := sessionKey(id)
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return pkgerrors.NewDatabaseError("delete session", err)
	}
	return nil
}

// List returns the IDs of all stored sessions
func (r *SessionRepository) List(ctx context.Context) ([]aggregates.SessionID, error) {
	filter := expression.Name("EntityType").Equal(expression.Value("SESSION"))
	proj := expression.NamesList(expression.Name("SessionID"))
	expr, err := expression.NewBuilder().WithFilter(filter).WithProjection(proj).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build scan expression").WithCause(err)
	}

	var ids []aggregates.SessionID
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ProjectionExpression:      expr.Projection(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("scan sessions", err)
		}
		for _, raw := range out.Items {
			var item struct {
				SessionID string `dynamodbav:"SessionID"`
			}
			if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
				continue
			}
			ids = append(ids, aggregates.SessionID(item.SessionID))
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return ids, nil
}
