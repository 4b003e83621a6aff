package intelligence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/dealflow/internal/db"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/llm"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/alexanderramin/dealflow/internal/testutil"
)

// scriptedGenerator replies with texts in order and records each request.
type scriptedGenerator struct {
	replies  []string
	err      error
	requests []llm.GenerateRequest
}

func (g *scriptedGenerator) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	text := ""
	if len(g.replies) > 0 {
		text = g.replies[0]
		g.replies = g.replies[1:]
	}
	return &llm.GenerateResponse{Text: text, Provider: llm.ProviderAnthropic, Model: "claude-test", Attempts: 1}, nil
}

func newTestDeals(t *testing.T, deals ...*domain.Deal) service.DealService {
	t.Helper()
	store := service.NewStore(testutil.NewTestDB(t), db.DialectSQLite)
	for _, d := range deals {
		require.NoError(t, store.Deals.Save(context.Background(), d))
	}
	return service.NewDealService(store)
}
