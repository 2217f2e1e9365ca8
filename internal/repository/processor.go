package repository

import (
	"context"

	"github.com/pep299/docai-telegram-bot/internal/docai"
)

// ProcessorRepository defines the remote document-processing operation
type ProcessorRepository interface {
	Process(ctx context.Context, content []byte, mimeType string, role docai.Role) (*docai.Result, error)
}

type processorRepository struct {
	client *docai.Client
}

func NewProcessorRepository(client *docai.Client) ProcessorRepository {
	return &processorRepository{
		client: client,
	}
}

func (p *processorRepository) Process(ctx context.Context, content []byte, mimeType string, role docai.Role) (*docai.Result, error) {
	return p.client.Process(ctx, content, mimeType, role)
}
