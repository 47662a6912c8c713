package registry

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

// MockRecordSource mocks interfaces.RecordSource
type MockRecordSource struct {
	mock.Mock
}

// Text mocks the Text method
func (m *MockRecordSource) Text(ctx context.Context, domain string, key string) (string, error) {
	args := m.Called(ctx, domain, key)
	return args.String(0), args.Error(1)
}

// ResolverAddress mocks the ResolverAddress method
func (m *MockRecordSource) ResolverAddress(ctx context.Context, domain string) (string, error) {
	args := m.Called(ctx, domain)
	return args.String(0), args.Error(1)
}

// MockRecordsContract mocks RecordsContract
type MockRecordsContract struct {
	mock.Mock
}

// GetRecord mocks the GetRecord method
func (m *MockRecordsContract) GetRecord(ctx context.Context, contract common.Address, name, key string) (string, error) {
	args := m.Called(ctx, contract, name, key)
	return args.String(0), args.Error(1)
}

// GetAddress mocks the GetAddress method
func (m *MockRecordsContract) GetAddress(ctx context.Context, contract common.Address, name string) (string, error) {
	args := m.Called(ctx, contract, name)
	return args.String(0), args.Error(1)
}
