package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory DynamoDB supporting the store's operations.
// Items are kept per table keyed by the "_id" attribute.
// NOTE: intentionally minimal, not production-grade.
type mockDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue

	putCalls    int
	scanCalls   int
	createCalls int
}

func newMockDynamo(tables ...string) *mockDynamo {
	m := &mockDynamo{
		tables: map[string]map[string]map[string]types.AttributeValue{},
	}
	for _, t := range tables {
		m.tables[t] = map[string]map[string]types.AttributeValue{}
	}
	return m
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	table, ok := m.tables[*params.TableName]
	if !ok {
		return nil, &types.ResourceNotFoundException{}
	}
	keyAttr, ok := params.Item["_id"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing _id in put item")
	}
	table[keyAttr.Value] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanCalls++
	table, ok := m.tables[*params.TableName]
	if !ok {
		return nil, &types.ResourceNotFoundException{}
	}
	items := make([]map[string]types.AttributeValue, 0, len(table))
	for _, it := range table {
		items = append(items, it)
	}
	return &dyn.ScanOutput{Items: items}, nil
}

func (m *mockDynamo) CreateTable(ctx context.Context, params *dyn.CreateTableInput, optFns ...func(*dyn.Options)) (*dyn.CreateTableOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if _, ok := m.tables[*params.TableName]; ok {
		return nil, &types.ResourceInUseException{}
	}
	m.tables[*params.TableName] = map[string]map[string]types.AttributeValue{}
	return &dyn.CreateTableOutput{}, nil
}

func (m *mockDynamo) DescribeTable(ctx context.Context, params *dyn.DescribeTableInput, optFns ...func(*dyn.Options)) (*dyn.DescribeTableOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[*params.TableName]; !ok {
		return nil, &types.ResourceNotFoundException{}
	}
	return &dyn.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName:   params.TableName,
			TableStatus: types.TableStatusActive,
		},
	}, nil
}

func (m *mockDynamo) ListTables(ctx context.Context, params *dyn.ListTablesInput, optFns ...func(*dyn.Options)) (*dyn.ListTablesOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.tables))
	for n := range m.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	if params.Limit != nil && int32(len(names)) > *params.Limit {
		names = names[:*params.Limit]
	}
	return &dyn.ListTablesOutput{TableNames: names}, nil
}
