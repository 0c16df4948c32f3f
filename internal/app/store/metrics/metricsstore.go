package metricsstore

import (
	"context"

	"go.uber.org/zap"
)

// Counter is anything that can report how many records it holds.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Sources names the collections counted on the dashboard.
type Sources struct {
	Waitlist  Counter
	Contacts  Counter
	Reports   Counter
	Deletions Counter
}

// Counts is the set of totals shown on the dashboard cards.
type Counts struct {
	Waitlist  int64 `json:"waitlist"`
	Contacts  int64 `json:"contacts"`
	Reports   int64 `json:"reports"`
	Deletions int64 `json:"deletions"`
}

// FetchDashboardCounts returns the high-level counts used by the dashboard.
// Intentionally tolerant: on error it logs and returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, src Sources, logger *zap.Logger) Counts {
	count := func(name string, c Counter) int64 {
		if c == nil {
			return 0
		}
		n, err := c.Count(ctx)
		if err != nil {
			logger.Warn("dashboard count failed", zap.String("domain", name), zap.Error(err))
			return 0
		}
		return n
	}

	return Counts{
		Waitlist:  count("waitlist", src.Waitlist),
		Contacts:  count("contacts", src.Contacts),
		Reports:   count("reports", src.Reports),
		Deletions: count("deletions", src.Deletions),
	}
}
