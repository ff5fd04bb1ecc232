package usage

import (
	"context"

	"github.com/shopspring/decimal"

	"loom-server/services/chat-api/internal/domain/thread"
	"loom-server/services/chat-api/internal/utils/platformerrors"
)

// Report summarizes an owner's stored conversation volume. Cost is a decimal
// estimate derived from the approximate token count.
type Report struct {
	ThreadCount      int64           `json:"thread_count"`
	MessageCount     int64           `json:"message_count"`
	TokenCount       int64           `json:"token_count"`
	EstimatedCostUSD decimal.Decimal `json:"estimated_cost_usd"`
}

// Service computes per-owner usage reports.
type Service struct {
	threadRepo           thread.Repository
	costPerMillionTokens decimal.Decimal
}

// NewService creates a usage service. costPerMillionTokens is parsed from
// config; an unparsable value falls back to zero cost.
func NewService(threadRepo thread.Repository, costPerMillionTokens string) *Service {
	cost, err := decimal.NewFromString(costPerMillionTokens)
	if err != nil {
		cost = decimal.Zero
	}
	return &Service{
		threadRepo:           threadRepo,
		costPerMillionTokens: cost,
	}
}

// ReportForOwner scans the owner's threads and aggregates counts. The token
// total is the sum of the threads' derived tokenCount fields.
func (s *Service) ReportForOwner(ctx context.Context, ownerID string) (*Report, error) {
	threads, err := s.threadRepo.FindByFilter(ctx, thread.Filter{OwnerID: &ownerID}, nil)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to load threads for usage report")
	}

	report := &Report{}
	for _, t := range threads {
		report.ThreadCount++
		report.MessageCount += int64(len(t.Messages))
		report.TokenCount += int64(t.TokenCount)
	}

	report.EstimatedCostUSD = decimal.NewFromInt(report.TokenCount).
		Mul(s.costPerMillionTokens).
		Div(decimal.NewFromInt(1_000_000)).
		Round(6)

	return report, nil
}
