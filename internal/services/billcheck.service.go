package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	gateway "github.com/nimasrn/ppob-gateway/internal/gateways"
	"github.com/nimasrn/ppob-gateway/internal/model"
	"github.com/nimasrn/ppob-gateway/pkg/logger"
	"github.com/nimasrn/ppob-gateway/pkg/prom"
)

const (
	MessageUpstreamUnavailable   = "Scraper Service tidak aktif/tidak bisa dihubungi."
	MessageUpstreamTimeout       = "Scraper Service timeout."
	MessageUpstreamNotConfigured = "URL layanan cek tagihan belum dikonfigurasi."
	MessageCheckFailed           = "Gagal mengecek tagihan PLN."
)

// Source answers bill inquiries for one backend.
type Source interface {
	Check(ctx context.Context, customerNumber string) (*model.BillCheckResult, error)
	Name() string
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, data interface{}, metadata map[string]string) (string, error)
}

type BillCheckService struct {
	source    Source
	publisher EventPublisher
	now       func() time.Time
}

// NewBillCheckService wires a source; publisher may be nil.
func NewBillCheckService(source Source, publisher EventPublisher) *BillCheckService {
	return &BillCheckService{source: source, publisher: publisher, now: time.Now}
}

func (s *BillCheckService) SourceName() string {
	return s.source.Name()
}

// Check returns the normalised bill. A customer the upstream declines is
// reported as *gateway.RejectedError; use ClassifyCheckError for the rest.
func (s *BillCheckService) Check(ctx context.Context, p model.BillCheckRequest) (*model.BillCheckResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	logger.Info("checking PLN bill", "customer_number", p.CustomerNumber, "source", s.source.Name())

	start := s.now()
	result, err := s.source.Check(ctx, p.CustomerNumber)
	elapsed := s.now().Sub(start).Seconds()

	event := &model.CheckEvent{
		ID:             uuid.NewString(),
		CustomerNumber: p.CustomerNumber,
		CheckedAt:      s.now(),
	}

	switch rej, rejected := gateway.IsRejected(err); {
	case err == nil:
		if result.Source == "" {
			result.Source = s.source.Name()
		}
		if p.AdminFee != nil {
			result.ApplyAdminFee(*p.AdminFee)
		}
		event.Success = true
		event.Result = result
		prom.ObserveBillCheck(s.source.Name(), "success", elapsed)
	case rejected:
		event.Message = rej.Message
		prom.ObserveBillCheck(s.source.Name(), "rejected", elapsed)
	default:
		logger.Error("bill check failed", "customer_number", p.CustomerNumber, "source", s.source.Name(), "error", err)
		prom.ObserveBillCheck(s.source.Name(), "error", elapsed)
		return nil, err
	}

	s.publish(ctx, event)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// publish is best effort; a broken stream must not fail the inquiry.
func (s *BillCheckService) publish(ctx context.Context, event *model.CheckEvent) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.PublishJSON(ctx, event, map[string]string{"event_id": event.ID}); err != nil {
		logger.Warn("failed to publish check event", "event_id", event.ID, "error", err)
	}
}

// ClassifyCheckError maps an upstream failure to the HTTP status and the
// fixed message shown to dashboard users.
func ClassifyCheckError(err error) (int, string) {
	switch {
	case errors.Is(err, gateway.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, MessageUpstreamUnavailable
	case errors.Is(err, gateway.ErrUpstreamTimeout):
		return http.StatusGatewayTimeout, MessageUpstreamTimeout
	case errors.Is(err, gateway.ErrUpstreamNotConfigured):
		return http.StatusInternalServerError, MessageUpstreamNotConfigured
	default:
		return http.StatusInternalServerError, MessageCheckFailed
	}
}
