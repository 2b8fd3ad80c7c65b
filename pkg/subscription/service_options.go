package subscription

import (
	"log/slog"
	"time"
)

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// WithLogger supplies a structured logger. Without it the service is silent.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithDeduplicator enables best-effort webhook event deduplication.
// Handlers stay idempotent without it; dedup only avoids redundant work on
// redelivery.
func WithDeduplicator(d Deduplicator) ServiceOption {
	return func(s *Service) {
		if d != nil {
			s.dedup = d
		}
	}
}

// WithCheckoutTimeout bounds the outbound checkout call to the processor.
// Panics on non-positive durations to catch misconfiguration at startup.
func WithCheckoutTimeout(d time.Duration) ServiceOption {
	if d <= 0 {
		panic("subscription: checkout timeout must be > 0")
	}
	return func(s *Service) {
		s.checkoutTimeout = d
	}
}
