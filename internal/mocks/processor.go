package mocks

import (
	"context"
	"sync"

	"github.com/pep299/docai-telegram-bot/internal/docai"
)

// MockProcessorRepo serves canned Document AI results per role
type MockProcessorRepo struct {
	mu sync.Mutex

	ExtractResult   *docai.Result
	SummarizeResult *docai.Result
	Err             error

	// Calls records the roles of received requests, in order
	Calls []docai.Role
}

func (m *MockProcessorRepo) Process(ctx context.Context, content []byte, mimeType string, role docai.Role) (*docai.Result, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, role)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if role == docai.RoleSummarize {
		if m.SummarizeResult != nil {
			return m.SummarizeResult, nil
		}
		return &docai.Result{Text: "test summary"}, nil
	}
	if m.ExtractResult != nil {
		return m.ExtractResult, nil
	}
	return &docai.Result{Text: "test text"}, nil
}

// CallCount returns how many requests hit the given role
func (m *MockProcessorRepo) CallCount(role docai.Role) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.Calls {
		if r == role {
			n++
		}
	}
	return n
}
