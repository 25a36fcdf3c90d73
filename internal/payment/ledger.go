// Package payment records the value transfers the registry requests.
// Settlement is out of scope: the ledger accepts every well-formed transfer and
// keeps an ordered record of it for inspection.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/metrics"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
)

var (
	ErrInvalidTransfer = errors.New("invalid transfer")
	ErrUnknownTransfer = errors.New("unknown transfer")
	ErrAlreadyRefunded = errors.New("transfer already refunded")
)

// Ledger is an append-only, in-memory record of transfers. Refunds are recorded
// as reversing entries; nothing is ever removed.
type Ledger struct {
	mu        sync.RWMutex
	transfers []models.Transfer
	refunded  map[string]bool
	now       func() time.Time
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for RecordedAt.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// NewLedger creates an empty ledger.
func NewLedger(opts ...Option) *Ledger {
	l := &Ledger{
		refunded: make(map[string]bool),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Transfer records amount moving from one principal to another and returns the
// new entry's ID. Zero amounts are recorded too, since a zero creation fee is a
// valid configuration.
func (l *Ledger) Transfer(_ context.Context, amount uint64, from, to models.Principal) (string, error) {
	if from.IsZero() || to.IsZero() {
		return "", ErrInvalidTransfer
	}

	t := l.record(models.Transfer{Amount: amount, From: from, To: to})
	l.logger.Info("Transfer recorded",
		"transfer_id", t.ID,
		"amount", amount,
		"from", from,
		"to", to,
	)
	return t.ID, nil
}

// Refund reverses the transfer with the given ID by recording the same amount
// flowing back to the payer. A transfer can be refunded once.
func (l *Ledger) Refund(_ context.Context, id string) error {
	l.mu.Lock()
	i := slices.IndexFunc(l.transfers, func(t models.Transfer) bool { return t.ID == id })
	switch {
	case i < 0:
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownTransfer, id)
	case l.refunded[id]:
		l.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyRefunded, id)
	}
	orig := l.transfers[i]
	l.refunded[id] = true
	t := l.appendLocked(models.Transfer{
		Amount:  orig.Amount,
		From:    orig.To,
		To:      orig.From,
		Refunds: id,
	})
	l.mu.Unlock()

	l.metrics.TransferRecorded()
	l.logger.Warn("Transfer refunded",
		"transfer_id", t.ID,
		"refunds", id,
		"amount", t.Amount,
		"to", t.To,
	)
	return nil
}

// Transfers returns every recorded transfer in the order it was recorded.
func (l *Ledger) Transfers() []models.Transfer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.transfers)
}

func (l *Ledger) record(t models.Transfer) models.Transfer {
	l.mu.Lock()
	t = l.appendLocked(t)
	l.mu.Unlock()

	l.metrics.TransferRecorded()
	return t
}

func (l *Ledger) appendLocked(t models.Transfer) models.Transfer {
	t.ID = uuid.NewString()
	t.RecordedAt = l.now().UTC()
	l.transfers = append(l.transfers, t)
	return t
}
