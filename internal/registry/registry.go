// Package registry implements the savings group registry: creation, update and
// lookup of groups under authority gating, with a fee charged on every create.
//
// All state lives in a storage.Store. Operations are serialized by the registry and
// each mutation runs inside a single store transaction, so validation always
// completes before any write and a failure leaves the state untouched.
package registry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/metrics"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
)

const (
	// DefaultMaxGroups is the ceiling on ids ever issued.
	DefaultMaxGroups uint64 = 1000

	// DefaultCreationFee applies until SetCreationFee is called.
	DefaultCreationFee uint64 = 1000

	maxTextLength  = 100
	maxMembersCap  = 50
	maxPercent     = 100
	maxInterest    = 20
	maxGracePeriod = 30
)

// AuthorityOracle reports whether a principal is a verified authority.
type AuthorityOracle interface {
	IsVerifiedAuthority(ctx context.Context, p models.Principal) bool
}

// PaymentSink executes a value transfer. A returned error aborts the operation
// that requested the transfer. Refund reverses a transfer by the receipt that
// Transfer returned.
type PaymentSink interface {
	Transfer(ctx context.Context, amount uint64, from, to models.Principal) (receipt string, err error)
	Refund(ctx context.Context, receipt string) error
}

// Call carries the ambient context the host supplies with every mutation.
type Call struct {
	// Caller is the identity invoking the operation.
	Caller models.Principal

	// Height is the logical time of the call (block height or monotonic clock).
	Height uint64
}

// Registry owns all group state.
type Registry struct {
	mu         sync.RWMutex
	store      storage.Store
	oracle     AuthorityOracle
	payments   PaymentSink
	maxGroups  uint64
	defaultFee uint64
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxGroups sets the ceiling on ids ever issued.
func WithMaxGroups(n uint64) Option {
	return func(r *Registry) { r.maxGroups = n }
}

// WithDefaultCreationFee sets the fee charged until SetCreationFee is called.
func WithDefaultCreationFee(fee uint64) Option {
	return func(r *Registry) { r.defaultFee = fee }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// New creates a registry over store. The registry must be the only writer of the
// keys it manages in store.
func New(store storage.Store, oracle AuthorityOracle, payments PaymentSink, opts ...Option) *Registry {
	r := &Registry{
		store:      store,
		oracle:     oracle,
		payments:   payments,
		maxGroups:  DefaultMaxGroups,
		defaultFee: DefaultCreationFee,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// observe logs and counts a failed operation.
func (r *Registry) observe(operation string, err error, args ...any) {
	if err == nil {
		return
	}
	args = append(args, "error", err)
	if e, ok := AsError(err); ok {
		r.metrics.Rejected(operation, codeLabel(e.Code))
		r.logger.Warn(operation+" rejected", append(args, "code", e.Code, "kind", e.Kind)...)
		return
	}
	r.metrics.Rejected(operation, "internal")
	r.logger.Error(operation+" failed", args...)
}
