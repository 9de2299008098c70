package services

import (
	"context"
	"time"

	gateway "github.com/nimasrn/ppob-gateway/internal/gateways"
	"github.com/nimasrn/ppob-gateway/pkg/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type ProviderStatsReporter interface {
	GetProviderStats() []gateway.ProviderStats
}

type HealthReport struct {
	Status    string                  `json:"status"`
	Timestamp time.Time               `json:"timestamp"`
	Storage   string                  `json:"storage"`
	BillCheck []gateway.ProviderStats `json:"billcheck,omitempty"`
}

type HealthService struct {
	storage Pinger
	stats   ProviderStatsReporter
	now     func() time.Time
}

// NewHealthService reports on storage and, when stats is not nil, on the
// bill-check upstream.
func NewHealthService(storage Pinger, stats ProviderStatsReporter) *HealthService {
	return &HealthService{storage: storage, stats: stats, now: time.Now}
}

// Get always reports status "ok" while the process serves requests;
// storage trouble shows up in the storage field only.
func (s *HealthService) Get(ctx context.Context) *HealthReport {
	r := &HealthReport{Status: "ok", Timestamp: s.now().UTC(), Storage: "ok"}

	if s.storage != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.storage.Ping(ctx); err != nil {
			logger.Warn("storage ping failed", "error", err)
			r.Storage = "unavailable"
		}
	}
	if s.stats != nil {
		r.BillCheck = s.stats.GetProviderStats()
	}
	return r
}
