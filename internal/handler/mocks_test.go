package handler

import (
	"context"

	"github.com/rocjay1/stmt-engine/internal/models"
)

// MockDatabaseClient is a mock implementation of DatabaseClient
type MockDatabaseClient struct {
	SaveStatementBatchFunc func(ctx context.Context, batch *models.StatementBatch) error
	GetStatementBatchFunc  func(ctx context.Context, period string) (*models.StatementBatch, error)
	SaveResultsFunc        func(ctx context.Context, period string, results []*models.CalculationResult) error
	GetResultsFunc         func(ctx context.Context, period string) ([]*models.CalculationResult, error)
}

func (m *MockDatabaseClient) SaveStatementBatch(ctx context.Context, batch *models.StatementBatch) error {
	if m.SaveStatementBatchFunc != nil {
		return m.SaveStatementBatchFunc(ctx, batch)
	}
	return nil
}

func (m *MockDatabaseClient) GetStatementBatch(ctx context.Context, period string) (*models.StatementBatch, error) {
	if m.GetStatementBatchFunc != nil {
		return m.GetStatementBatchFunc(ctx, period)
	}
	return nil, nil
}

func (m *MockDatabaseClient) SaveResults(ctx context.Context, period string, results []*models.CalculationResult) error {
	if m.SaveResultsFunc != nil {
		return m.SaveResultsFunc(ctx, period, results)
	}
	return nil
}

func (m *MockDatabaseClient) GetResults(ctx context.Context, period string) ([]*models.CalculationResult, error) {
	if m.GetResultsFunc != nil {
		return m.GetResultsFunc(ctx, period)
	}
	return nil, nil
}

// MockBlobClient is a mock implementation of BlobClient
type MockBlobClient struct {
	UploadTextFunc   func(ctx context.Context, containerName, blobName, content string) error
	DownloadTextFunc func(ctx context.Context, containerName, blobName string) (string, error)
}

func (m *MockBlobClient) UploadText(ctx context.Context, containerName, blobName, content string) error {
	if m.UploadTextFunc != nil {
		return m.UploadTextFunc(ctx, containerName, blobName, content)
	}
	return nil
}

func (m *MockBlobClient) DownloadText(ctx context.Context, containerName, blobName string) (string, error) {
	if m.DownloadTextFunc != nil {
		return m.DownloadTextFunc(ctx, containerName, blobName)
	}
	return "", nil
}

// MockQueueClient is a mock implementation of QueueClient
type MockQueueClient struct {
	EnqueueMessageFunc func(ctx context.Context, queueName string, message any) error
}

func (m *MockQueueClient) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	if m.EnqueueMessageFunc != nil {
		return m.EnqueueMessageFunc(ctx, queueName, message)
	}
	return nil
}

// MockEmailClient is a mock implementation of EmailClient
type MockEmailClient struct {
	SendAuditEmailFunc func(ctx context.Context, recipients []string, period string, warnings map[string][]string) error
}

func (m *MockEmailClient) SendAuditEmail(ctx context.Context, recipients []string, period string, warnings map[string][]string) error {
	if m.SendAuditEmailFunc != nil {
		return m.SendAuditEmailFunc(ctx, recipients, period, warnings)
	}
	return nil
}
