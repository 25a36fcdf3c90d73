// Package service hosts the registry behind the Connect RegistryService. It is the
// adapter that supplies each call's caller identity and logical time.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"connectrpc.com/connect"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/middleware"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/observability"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/registry"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/pkg/api"
)

var errNoCaller = errors.New("caller identity required")

// TransferLister exposes the recorded fee transfers.
type TransferLister interface {
	Transfers() []models.Transfer
}

// HeightFunc returns the logical time of the current call.
type HeightFunc func() uint64

// UnixHeight uses wall-clock Unix seconds as the logical time.
func UnixHeight() uint64 {
	return uint64(time.Now().Unix())
}

// RegistryService implements api.RegistryServiceHandler.
type RegistryService struct {
	registry  *registry.Registry
	transfers TransferLister
	height    HeightFunc
	logger    *slog.Logger
}

var _ api.RegistryServiceHandler = (*RegistryService)(nil)

// NewRegistryService creates a RegistryService. height defaults to UnixHeight and
// logger to slog.Default().
func NewRegistryService(reg *registry.Registry, transfers TransferLister, height HeightFunc, logger *slog.Logger) *RegistryService {
	if height == nil {
		height = UnixHeight
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistryService{
		registry:  reg,
		transfers: transfers,
		height:    height,
		logger:    logger,
	}
}

// call builds the registry call context from the authenticated caller.
func (s *RegistryService) call(ctx context.Context) (registry.Call, error) {
	caller := middleware.GetPrincipal(ctx)
	if caller.IsZero() {
		return registry.Call{}, connect.NewError(connect.CodeUnauthenticated, errNoCaller)
	}
	return registry.Call{Caller: caller, Height: s.height()}, nil
}

// toConnectError maps registry error kinds to Connect codes and attaches the
// registry error code as metadata.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	regErr, ok := registry.AsError(err)
	if !ok {
		return connect.NewError(connect.CodeInternal, err)
	}

	code := connect.CodeInternal
	switch regErr.Kind {
	case registry.KindValidation:
		code = connect.CodeInvalidArgument
	case registry.KindAuthorization:
		code = connect.CodePermissionDenied
	case registry.KindConflict:
		code = connect.CodeAlreadyExists
	case registry.KindCapacity:
		code = connect.CodeResourceExhausted
	case registry.KindNotFound:
		code = connect.CodeNotFound
	case registry.KindConfiguration:
		code = connect.CodeFailedPrecondition
	}

	connectErr = connect.NewError(code, regErr)
	connectErr.Meta().Set(api.ErrorCodeHeader, strconv.FormatUint(uint64(regErr.Code), 10))
	return connectErr
}

// fail logs err and returns the Connect error for the client.
func (s *RegistryService) fail(operation string, err error, args ...any) error {
	if _, ok := registry.AsError(err); ok {
		s.logger.Warn(operation+" failed", append(args, "error", err)...)
	} else {
		s.logger.Error(operation+" failed", append(args, "error", err)...)
	}
	return toConnectError(err)
}

// SetAuthorityContract configures the fee recipient.
func (s *RegistryService) SetAuthorityContract(ctx context.Context, req *connect.Request[api.SetAuthorityContractRequest]) (resp *connect.Response[api.SetAuthorityContractResponse], err error) {
	ctx, span := observability.StartSpan(ctx, "SetAuthorityContract", attribute.String("principal", req.Msg.Principal.String()))
	defer func() { observability.EndSpan(span, err) }()

	s.logger.Info("SetAuthorityContract request received", "principal", req.Msg.Principal)

	call, err := s.call(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.registry.SetAuthorityContract(ctx, call, req.Msg.Principal); err != nil {
		return nil, s.fail("SetAuthorityContract", err, "principal", req.Msg.Principal)
	}
	return connect.NewResponse(&api.SetAuthorityContractResponse{}), nil
}

// SetCreationFee replaces the creation fee for later creates.
func (s *RegistryService) SetCreationFee(ctx context.Context, req *connect.Request[api.SetCreationFeeRequest]) (resp *connect.Response[api.SetCreationFeeResponse], err error) {
	ctx, span := observability.StartSpan(ctx, "SetCreationFee", attribute.Int64("fee", int64(req.Msg.Fee)))
	defer func() { observability.EndSpan(span, err) }()

	s.logger.Info("SetCreationFee request received", "fee", req.Msg.Fee)

	call, err := s.call(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.registry.SetCreationFee(ctx, call, req.Msg.Fee); err != nil {
		return nil, s.fail("SetCreationFee", err, "fee", req.Msg.Fee)
	}
	return connect.NewResponse(&api.SetCreationFeeResponse{}), nil
}

// CreateGroup registers a new group for the caller.
func (s *RegistryService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (resp *connect.Response[api.CreateGroupResponse], err error) {
	ctx, span := observability.StartSpan(ctx, "CreateGroup", attribute.String("name", req.Msg.Name))
	defer func() { observability.EndSpan(span, err) }()

	s.logger.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"group_type", req.Msg.GroupType,
		"currency", req.Msg.Currency,
	)

	call, err := s.call(ctx)
	if err != nil {
		return nil, err
	}

	m := req.Msg
	id, err := s.registry.CreateGroup(ctx, call, registry.CreateGroupParams{
		Name:            m.Name,
		MaxMembers:      m.MaxMembers,
		ContribAmount:   m.ContribAmount,
		CycleDuration:   m.CycleDuration,
		PenaltyRate:     m.PenaltyRate,
		VotingThreshold: m.VotingThreshold,
		GroupType:       m.GroupType,
		InterestRate:    m.InterestRate,
		GracePeriod:     m.GracePeriod,
		Location:        m.Location,
		Currency:        m.Currency,
		MinContrib:      m.MinContrib,
		MaxLoan:         m.MaxLoan,
	})
	if err != nil {
		return nil, s.fail("CreateGroup", err, "name", m.Name, "caller", call.Caller)
	}

	span.SetAttributes(attribute.Int64("group_id", int64(id)))
	return connect.NewResponse(&api.CreateGroupResponse{GroupID: id}), nil
}

// UpdateGroup changes the mutable fields of a group owned by the caller.
func (s *RegistryService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (resp *connect.Response[api.UpdateGroupResponse], err error) {
	ctx, span := observability.StartSpan(ctx, "UpdateGroup", attribute.Int64("group_id", int64(req.Msg.GroupID)))
	defer func() { observability.EndSpan(span, err) }()

	s.logger.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupID,
		"name", req.Msg.Name,
	)

	call, err := s.call(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.registry.UpdateGroup(ctx, call, req.Msg.GroupID, registry.UpdateGroupParams{
		Name:          req.Msg.Name,
		MaxMembers:    req.Msg.MaxMembers,
		ContribAmount: req.Msg.ContribAmount,
	})
	if err != nil {
		return nil, s.fail("UpdateGroup", err, "group_id", req.Msg.GroupID, "caller", call.Caller)
	}
	return connect.NewResponse(&api.UpdateGroupResponse{Group: group}), nil
}

// GetGroup retrieves a group by id.
func (s *RegistryService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (resp *connect.Response[api.GetGroupResponse], err error) {
	ctx, span := observability.StartSpan(ctx, "GetGroup", attribute.Int64("group_id", int64(req.Msg.GroupID)))
	defer func() { observability.EndSpan(span, err) }()

	group, err := s.registry.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.fail("GetGroup", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: group}), nil
}

// GetGroupUpdate retrieves the last update applied to a group.
func (s *RegistryService) GetGroupUpdate(ctx context.Context, req *connect.Request[api.GetGroupUpdateRequest]) (resp *connect.Response[api.GetGroupUpdateResponse], err error) {
	ctx, span := observability.StartSpan(ctx, "GetGroupUpdate", attribute.Int64("group_id", int64(req.Msg.GroupID)))
	defer func() { observability.EndSpan(span, err) }()

	update, err := s.registry.GetGroupUpdate(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, s.fail("GetGroupUpdate", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.GetGroupUpdateResponse{Update: update}), nil
}

// GetGroupCount returns the number of ids ever issued.
func (s *RegistryService) GetGroupCount(ctx context.Context, _ *connect.Request[api.GetGroupCountRequest]) (resp *connect.Response[api.GetGroupCountResponse], err error) {
	ctx, span := observability.StartSpan(ctx, "GetGroupCount")
	defer func() { observability.EndSpan(span, err) }()

	count, err := s.registry.GetGroupCount(ctx)
	if err != nil {
		return nil, s.fail("GetGroupCount", err)
	}
	return connect.NewResponse(&api.GetGroupCountResponse{Count: count}), nil
}

// CheckGroupExistence reports whether a live group holds the name.
func (s *RegistryService) CheckGroupExistence(ctx context.Context, req *connect.Request[api.CheckGroupExistenceRequest]) (resp *connect.Response[api.CheckGroupExistenceResponse], err error) {
	ctx, span := observability.StartSpan(ctx, "CheckGroupExistence", attribute.String("name", req.Msg.Name))
	defer func() { observability.EndSpan(span, err) }()

	exists, err := s.registry.CheckGroupExistence(ctx, req.Msg.Name)
	if err != nil {
		return nil, s.fail("CheckGroupExistence", err, "name", req.Msg.Name)
	}
	return connect.NewResponse(&api.CheckGroupExistenceResponse{Exists: exists}), nil
}

// GetGroupIDByName resolves a name to its group id.
func (s *RegistryService) GetGroupIDByName(ctx context.Context, req *connect.Request[api.GetGroupIDByNameRequest]) (resp *connect.Response[api.GetGroupIDByNameResponse], err error) {
	ctx, span := observability.StartSpan(ctx, "GetGroupIdByName", attribute.String("name", req.Msg.Name))
	defer func() { observability.EndSpan(span, err) }()

	id, err := s.registry.GetGroupIDByName(ctx, req.Msg.Name)
	if err != nil {
		return nil, s.fail("GetGroupIdByName", err, "name", req.Msg.Name)
	}
	return connect.NewResponse(&api.GetGroupIDByNameResponse{GroupID: id}), nil
}

// GetSettings returns the registry-wide configuration.
func (s *RegistryService) GetSettings(ctx context.Context, _ *connect.Request[api.GetSettingsRequest]) (resp *connect.Response[api.GetSettingsResponse], err error) {
	ctx, span := observability.StartSpan(ctx, "GetSettings")
	defer func() { observability.EndSpan(span, err) }()

	settings, err := s.registry.Settings(ctx)
	if err != nil {
		return nil, s.fail("GetSettings", err)
	}
	return connect.NewResponse(&api.GetSettingsResponse{Settings: settings}), nil
}

// ListTransfers returns every recorded fee transfer.
func (s *RegistryService) ListTransfers(ctx context.Context, _ *connect.Request[api.ListTransfersRequest]) (resp *connect.Response[api.ListTransfersResponse], err error) {
	_, span := observability.StartSpan(ctx, "ListTransfers")
	defer func() { observability.EndSpan(span, err) }()

	transfers := s.transfers.Transfers()
	if transfers == nil {
		transfers = []models.Transfer{}
	}
	return connect.NewResponse(&api.ListTransfersResponse{Transfers: transfers}), nil
}
