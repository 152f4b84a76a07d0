package handler

import (
	"context"

	"github.com/rocjay1/stmt-engine/internal/models"
)

// DatabaseClient defines the interface for table storage operations used by handlers.
type DatabaseClient interface {
	SaveStatementBatch(ctx context.Context, batch *models.StatementBatch) error
	GetStatementBatch(ctx context.Context, period string) (*models.StatementBatch, error)
	SaveResults(ctx context.Context, period string, results []*models.CalculationResult) error
	GetResults(ctx context.Context, period string) ([]*models.CalculationResult, error)
}

// BlobClient defines the interface for blob storage operations used by handlers.
type BlobClient interface {
	UploadText(ctx context.Context, containerName, blobName, content string) error
	DownloadText(ctx context.Context, containerName, blobName string) (string, error)
}

// QueueClient defines the interface for queue operations used by handlers.
type QueueClient interface {
	EnqueueMessage(ctx context.Context, queueName string, message any) error
}

// EmailClient defines the interface for email operations used by handlers.
type EmailClient interface {
	SendAuditEmail(ctx context.Context, recipients []string, period string, warnings map[string][]string) error
}
