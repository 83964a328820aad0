package discovery

import (
	"context"
	"sync"

	"github.com/sells-group/discovery-funnel/internal/model"
	"github.com/sells-group/discovery-funnel/pkg/ice"
)

// mockStore implements store.Store for workflow tests.
type mockStore struct {
	products      []model.CandidateProduct
	listErr       error
	byCategory    map[string][]model.CandidateProduct
	byCategoryErr error
	pingErr       error
}

func (m *mockStore) ListProducts(context.Context) ([]model.CandidateProduct, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.products, nil
}

func (m *mockStore) ListProductsByCategory(_ context.Context, category string) ([]model.CandidateProduct, error) {
	if m.byCategoryErr != nil {
		return nil, m.byCategoryErr
	}
	return m.byCategory[category], nil
}

func (m *mockStore) GetProduct(context.Context, int64) (*model.CandidateProduct, error) {
	return nil, nil
}

func (m *mockStore) InsertProducts(_ context.Context, products []model.CandidateProduct) (int64, error) {
	return int64(len(products)), nil
}

func (m *mockStore) Ping(context.Context) error    { return m.pingErr }
func (m *mockStore) Migrate(context.Context) error { return nil }
func (m *mockStore) Close() error                  { return nil }

type generateReply struct {
	resp *ice.GenerateResponse
	err  error
}

type generateCall struct {
	model  string
	prompt string
}

// mockICE implements ice.Client, replying from a queue in call order.
type mockICE struct {
	mu      sync.Mutex
	replies []generateReply
	calls   []generateCall
}

func (m *mockICE) Generate(_ context.Context, model, prompt string) (*ice.GenerateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, generateCall{model: model, prompt: prompt})
	if len(m.replies) == 0 {
		return &ice.GenerateResponse{}, nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply.resp, reply.err
}

func (m *mockICE) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
