// Package store is a generic document-store accessor over DynamoDB: one table
// per named collection, each record a flat item keyed by a store-assigned "_id".
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smileworks/go-whitening-store/internal/aws"
)

// ErrStoreUnavailable is returned by every operation when the store was
// constructed without a client (degraded startup).
var ErrStoreUnavailable = errors.New("document store unavailable")

const idField = "_id"

// Store provides create/read access to named collections. It is constructed
// once at startup and shared by all requests; a nil client is a valid degraded
// state observable through Available.
type Store struct {
	client aws.DynamoDBAPI
	name   string
}

// New returns a Store. client may be nil, in which case the store reports
// itself unavailable instead of panicking at call time.
func New(client aws.DynamoDBAPI, name string) *Store {
	return &Store{
		client: client,
		name:   name,
	}
}

// Available reports whether a store client exists.
func (s *Store) Available() bool { return s != nil && s.client != nil }

// Name returns the human-readable store name for diagnostics.
func (s *Store) Name() string { return s.name }

// Create serializes record, assigns it a fresh id and inserts it into the
// named collection. The collection is created implicitly on first write,
// mongo-style. Returns the assigned id as text.
func (s *Store) Create(ctx context.Context, collection string, record interface{}) (string, error) {
	if !s.Available() {
		return "", ErrStoreUnavailable
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	id := uuid.NewString()
	item[idField] = &types.AttributeValueMemberS{Value: id}

	input := &dyn.PutItemInput{
		TableName: &collection,
		Item:      item,
	}

	_, err = s.client.PutItem(ctx, input)
	if err != nil {
		var rnf *types.ResourceNotFoundException
		if !errors.As(err, &rnf) {
			return "", fmt.Errorf("put item: %w", err)
		}
		if err := s.createCollection(ctx, collection); err != nil {
			return "", err
		}
		if _, err := s.client.PutItem(ctx, input); err != nil {
			return "", fmt.Errorf("put item after create: %w", err)
		}
	}

	return id, nil
}

// ListAll returns every record in the named collection in store-native order.
// A missing or empty collection yields an empty slice, never an error.
func (s *Store) ListAll(ctx context.Context, collection string) ([]map[string]interface{}, error) {
	if !s.Available() {
		return nil, ErrStoreUnavailable
	}

	docs := []map[string]interface{}{}
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &collection,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			var rnf *types.ResourceNotFoundException
			if errors.As(err, &rnf) {
				return docs, nil
			}
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		for _, item := range out.Items {
			var doc map[string]interface{}
			if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
				return nil, fmt.Errorf("unmarshal record: %w", err)
			}
			docs = append(docs, doc)
		}
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return docs, nil
}

// ListCollections returns up to limit collection names, for diagnostics.
func (s *Store) ListCollections(ctx context.Context, limit int32) ([]string, error) {
	if !s.Available() {
		return nil, ErrStoreUnavailable
	}
	out, err := s.client.ListTables(ctx, &dyn.ListTablesInput{Limit: &limit})
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	names := out.TableNames
	if int32(len(names)) > limit {
		names = names[:limit]
	}
	return names, nil
}

func (s *Store) createCollection(ctx context.Context, collection string) error {
	log.Info().Str("collection", collection).Msg("creating missing collection")
	_, err := s.client.CreateTable(ctx, &dyn.CreateTableInput{
		TableName: &collection,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: awsString(idField), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: awsString(idField), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		// a concurrent request may have created it first; that is fine
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return fmt.Errorf("create collection %s: %w", collection, err)
		}
	}

	waiter := dyn.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dyn.DescribeTableInput{TableName: &collection}, 30*time.Second); err != nil {
		return fmt.Errorf("wait for collection %s: %w", collection, err)
	}
	return nil
}

// Normalize renames the store-internal "_id" field to a public "id" field
// coerced to text. Applied uniformly to every record returned to a client.
func Normalize(doc map[string]interface{}) map[string]interface{} {
	if doc == nil {
		return doc
	}
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k == idField {
			continue
		}
		out[k] = v
	}
	if raw, ok := doc[idField]; ok {
		out["id"] = fmt.Sprint(raw)
	}
	return out
}

func awsString(s string) *string { return &s }
