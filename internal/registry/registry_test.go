package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/metrics"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage"
	"github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/storage/memory"
)

const (
	alice     models.Principal = "ST1ALICE"
	bob       models.Principal = "ST2BOB"
	mallory   models.Principal = "ST3MALLORY"
	authority models.Principal = "ST9AUTH"
)

type staticOracle map[models.Principal]bool

func (o staticOracle) IsVerifiedAuthority(_ context.Context, p models.Principal) bool {
	return o[p]
}

type transfer struct {
	amount   uint64
	from, to models.Principal
}

type recordingSink struct {
	transfers []transfer
	refunds   []string
	err       error
}

func (s *recordingSink) Transfer(_ context.Context, amount uint64, from, to models.Principal) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.transfers = append(s.transfers, transfer{amount, from, to})
	return fmt.Sprintf("tx-%d", len(s.transfers)), nil
}

func (s *recordingSink) Refund(_ context.Context, receipt string) error {
	s.refunds = append(s.refunds, receipt)
	return nil
}

var errCommit = errors.New("commit failed")

// commitFailingStore stages a transaction's writes and then discards them as if
// the commit had failed.
type commitFailingStore struct {
	*memory.Store
}

func (s commitFailingStore) Update(ctx context.Context, fn func(storage.Txn) error) error {
	return s.Store.Update(ctx, func(tx storage.Txn) error {
		if err := fn(tx); err != nil {
			return err
		}
		return errCommit
	})
}

func validParams(name string) CreateGroupParams {
	return CreateGroupParams{
		Name:            name,
		MaxMembers:      10,
		ContribAmount:   100,
		CycleDuration:   30,
		PenaltyRate:     5,
		VotingThreshold: 50,
		GroupType:       models.GroupTypeRural,
		InterestRate:    10,
		GracePeriod:     7,
		Location:        "VillageX",
		Currency:        models.CurrencySTX,
		MinContrib:      50,
		MaxLoan:         1000,
	}
}

type RegistrySuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	sink     *recordingSink
	metrics  *metrics.Metrics
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.sink = &recordingSink{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.registry = New(s.store, staticOracle{alice: true, bob: true}, s.sink,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
}

func (s *RegistrySuite) call(p models.Principal) Call {
	return Call{Caller: p, Height: 42}
}

func (s *RegistrySuite) configure() {
	s.Require().NoError(s.registry.SetAuthorityContract(s.ctx, s.call(alice), authority))
}

func (s *RegistrySuite) create(caller models.Principal, name string) uint64 {
	id, err := s.registry.CreateGroup(s.ctx, s.call(caller), validParams(name))
	s.Require().NoError(err)
	return id
}

func (s *RegistrySuite) count() uint64 {
	n, err := s.registry.GetGroupCount(s.ctx)
	s.Require().NoError(err)
	return n
}

func (s *RegistrySuite) exists(name string) bool {
	ok, err := s.registry.CheckGroupExistence(s.ctx, name)
	s.Require().NoError(err)
	return ok
}

func (s *RegistrySuite) TestCreateGroupExample() {
	s.configure()

	id, err := s.registry.CreateGroup(s.ctx, s.call(alice), validParams("Alpha"))
	s.Require().NoError(err)
	s.Equal(uint64(0), id)

	s.Equal([]transfer{{DefaultCreationFee, alice, authority}}, s.sink.transfers)

	group, err := s.registry.GetGroup(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Alpha", group.Name)
	s.Equal(uint64(10), group.MaxMembers)
	s.Equal(models.GroupTypeRural, group.GroupType)
	s.Equal(models.CurrencySTX, group.Currency)
	s.True(group.Status)
	s.Equal(alice, group.Creator)
	s.Equal(uint64(42), group.CreatedAt)
	s.Equal(uint64(42), group.LastUpdatedAt)

	s.True(s.exists("Alpha"))
	s.Equal(uint64(1), s.count())
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.GroupsCreated))
	s.Equal(float64(DefaultCreationFee), testutil.ToFloat64(s.metrics.CreationFees))
}

func (s *RegistrySuite) TestCreateGroupAssignsSequentialIDs() {
	s.configure()

	for i, name := range []string{"Alpha", "Beta", "Gamma"} {
		s.Equal(uint64(i), s.create(alice, name))
	}
	s.Equal(uint64(3), s.count())
}

func (s *RegistrySuite) TestCreateGroupValidationOrder() {
	s.configure()

	long := strings.Repeat("x", 101)
	tests := []struct {
		name   string
		mutate func(p *CreateGroupParams)
		want   *Error
	}{
		{"empty name", func(p *CreateGroupParams) { p.Name = "" }, ErrInvalidNameParam},
		{"long name", func(p *CreateGroupParams) { p.Name = long }, ErrInvalidNameParam},
		{"zero members", func(p *CreateGroupParams) { p.MaxMembers = 0 }, ErrInvalidMaxMembers},
		{"too many members", func(p *CreateGroupParams) { p.MaxMembers = 51 }, ErrInvalidMaxMembers},
		{"zero contribution", func(p *CreateGroupParams) { p.ContribAmount = 0 }, ErrInvalidContribAmount},
		{"zero cycle", func(p *CreateGroupParams) { p.CycleDuration = 0 }, ErrInvalidCycleDuration},
		{"penalty over 100", func(p *CreateGroupParams) { p.PenaltyRate = 101 }, ErrInvalidPenaltyRate},
		{"zero threshold", func(p *CreateGroupParams) { p.VotingThreshold = 0 }, ErrInvalidVotingThreshold},
		{"threshold over 100", func(p *CreateGroupParams) { p.VotingThreshold = 101 }, ErrInvalidVotingThreshold},
		{"unknown type", func(p *CreateGroupParams) { p.GroupType = "suburban" }, ErrInvalidGroupType},
		{"interest over 20", func(p *CreateGroupParams) { p.InterestRate = 21 }, ErrInvalidInterestRate},
		{"grace over 30", func(p *CreateGroupParams) { p.GracePeriod = 31 }, ErrInvalidGracePeriod},
		{"empty location", func(p *CreateGroupParams) { p.Location = "" }, ErrInvalidLocation},
		{"long location", func(p *CreateGroupParams) { p.Location = long }, ErrInvalidLocation},
		{"unknown currency", func(p *CreateGroupParams) { p.Currency = "EUR" }, ErrInvalidCurrency},
		{"zero min contribution", func(p *CreateGroupParams) { p.MinContrib = 0 }, ErrInvalidMinContrib},
		{"zero max loan", func(p *CreateGroupParams) { p.MaxLoan = 0 }, ErrInvalidMaxLoan},
		{"earliest failure wins", func(p *CreateGroupParams) {
			p.MaxMembers = 0
			p.Currency = "EUR"
			p.MaxLoan = 0
		}, ErrInvalidMaxMembers},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			p := validParams("Alpha")
			tt.mutate(&p)

			_, err := s.registry.CreateGroup(s.ctx, s.call(alice), p)
			s.ErrorIs(err, tt.want)
			s.Equal(uint64(0), s.count())
			s.Empty(s.sink.transfers)
		})
	}
}

func (s *RegistrySuite) TestCreateGroupBoundaries() {
	s.configure()

	p := validParams(strings.Repeat("é", 100))
	p.MaxMembers = 50
	p.PenaltyRate = 0
	p.VotingThreshold = 100
	p.InterestRate = 20
	p.GracePeriod = 30
	p.Location = strings.Repeat("y", 100)
	p.GroupType = models.GroupTypeCommunity
	p.Currency = models.CurrencyBTC

	_, err := s.registry.CreateGroup(s.ctx, s.call(alice), p)
	s.NoError(err)
}

func (s *RegistrySuite) TestCreateGroupRequiresVerifiedCaller() {
	s.configure()

	_, err := s.registry.CreateGroup(s.ctx, s.call(mallory), validParams("Alpha"))
	s.ErrorIs(err, ErrNotAuthorized)
	s.False(s.exists("Alpha"))
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Rejections.WithLabelValues("CreateGroup", "100")))
}

func (s *RegistrySuite) TestCreateGroupRejectsDuplicateName() {
	s.configure()
	s.create(alice, "Alpha")

	p := validParams("Alpha")
	p.MaxMembers = 20
	p.Currency = models.CurrencyUSD
	_, err := s.registry.CreateGroup(s.ctx, s.call(bob), p)
	s.ErrorIs(err, ErrGroupAlreadyExists)
	s.Equal(uint64(1), s.count())
}

func (s *RegistrySuite) TestCreateGroupRequiresAuthorityContract() {
	_, err := s.registry.CreateGroup(s.ctx, s.call(alice), validParams("Alpha"))
	s.ErrorIs(err, ErrAuthorityNotVerified)
	s.Empty(s.sink.transfers)
}

func (s *RegistrySuite) TestCreateGroupUnverifiedCallerBeforeAuthorityContract() {
	_, err := s.registry.CreateGroup(s.ctx, s.call(mallory), validParams("Alpha"))
	s.ErrorIs(err, ErrNotAuthorized)
	s.Equal(uint64(0), s.count())
	s.Empty(s.sink.transfers)
}

func (s *RegistrySuite) TestCreateGroupUnverifiedCallerBeforeDuplicateName() {
	s.configure()
	s.create(alice, "Alpha")

	_, err := s.registry.CreateGroup(s.ctx, s.call(mallory), validParams("Alpha"))
	s.ErrorIs(err, ErrNotAuthorized)
	s.Equal(uint64(1), s.count())
	s.Len(s.sink.transfers, 1)
}

func (s *RegistrySuite) TestCreateGroupCapacity() {
	s.registry = New(s.store, staticOracle{alice: true}, s.sink, WithMaxGroups(2))
	s.configure()
	s.create(alice, "Alpha")
	s.create(alice, "Beta")

	// Capacity is checked before anything else.
	_, err := s.registry.CreateGroup(s.ctx, s.call(mallory), CreateGroupParams{})
	s.ErrorIs(err, ErrMaxGroupsExceeded)
	s.Equal(uint64(2), s.count())
}

func (s *RegistrySuite) TestCreationFeeAppliesToLaterCreates() {
	s.configure()
	s.create(alice, "Alpha")

	s.Require().NoError(s.registry.SetCreationFee(s.ctx, s.call(mallory), 250))
	s.create(bob, "Beta")

	s.Equal([]transfer{
		{DefaultCreationFee, alice, authority},
		{250, bob, authority},
	}, s.sink.transfers)

	settings, err := s.registry.Settings(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.Settings{
		AuthorityContract: authority,
		CreationFee:       250,
		MaxGroups:         DefaultMaxGroups,
		NextGroupID:       2,
	}, settings)
}

func (s *RegistrySuite) TestFailedTransferAbortsCreate() {
	s.configure()
	s.sink.err = errors.New("insufficient balance")

	_, err := s.registry.CreateGroup(s.ctx, s.call(alice), validParams("Alpha"))
	s.Require().Error(err)
	s.ErrorIs(err, s.sink.err)

	s.Equal(uint64(0), s.count())
	s.False(s.exists("Alpha"))
	_, err = s.registry.GetGroup(s.ctx, 0)
	s.ErrorIs(err, ErrNotFound)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Rejections.WithLabelValues("CreateGroup", "internal")))
	s.Empty(s.sink.refunds)
}

func (s *RegistrySuite) TestFailedCommitRefundsCreationFee() {
	s.configure()
	s.registry = New(commitFailingStore{s.store}, staticOracle{alice: true}, s.sink,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	_, err := s.registry.CreateGroup(s.ctx, s.call(alice), validParams("Alpha"))
	s.ErrorIs(err, errCommit)

	s.Equal(uint64(0), s.count())
	s.False(s.exists("Alpha"))
	s.Equal([]transfer{{DefaultCreationFee, alice, authority}}, s.sink.transfers)
	s.Equal([]string{"tx-1"}, s.sink.refunds)
}

func (s *RegistrySuite) TestSetAuthorityContract() {
	s.ErrorIs(s.registry.SetAuthorityContract(s.ctx, s.call(alice), models.PlaceholderPrincipal), ErrInvalidAuthority)
	s.ErrorIs(s.registry.SetAuthorityContract(s.ctx, s.call(alice), ""), ErrInvalidAuthority)

	settings, err := s.registry.Settings(s.ctx)
	s.Require().NoError(err)
	s.True(settings.AuthorityContract.IsZero())

	s.configure()
	s.ErrorIs(s.registry.SetAuthorityContract(s.ctx, s.call(alice), bob), ErrAlreadyConfigured)

	settings, err = s.registry.Settings(s.ctx)
	s.Require().NoError(err)
	s.Equal(authority, settings.AuthorityContract)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.AuthorityConfigured))
}

func (s *RegistrySuite) TestSetCreationFeeRequiresAuthority() {
	s.ErrorIs(s.registry.SetCreationFee(s.ctx, s.call(alice), 5), ErrNotConfigured)

	settings, err := s.registry.Settings(s.ctx)
	s.Require().NoError(err)
	s.Equal(DefaultCreationFee, settings.CreationFee)
}

func (s *RegistrySuite) TestUpdateGroupExample() {
	s.configure()
	id := s.create(alice, "Alpha")

	call := Call{Caller: alice, Height: 99}
	group, err := s.registry.UpdateGroup(s.ctx, call, id, UpdateGroupParams{Name: "NewName", MaxMembers: 15, ContribAmount: 200})
	s.Require().NoError(err)
	s.Equal("NewName", group.Name)
	s.Equal(uint64(15), group.MaxMembers)
	s.Equal(uint64(200), group.ContribAmount)
	s.Equal(uint64(99), group.LastUpdatedAt)
	s.Equal(uint64(42), group.CreatedAt)
	s.Equal(uint64(30), group.CycleDuration)

	s.False(s.exists("Alpha"))
	s.True(s.exists("NewName"))

	update, err := s.registry.GetGroupUpdate(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(models.GroupUpdate{
		GroupID:       id,
		Name:          "NewName",
		MaxMembers:    15,
		ContribAmount: 200,
		UpdatedAt:     99,
		Updater:       alice,
	}, *update)

	stored, err := s.registry.GetGroup(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(group, stored)
}

func (s *RegistrySuite) TestUpdateGroupOverwritesLastUpdate() {
	s.configure()
	id := s.create(alice, "Alpha")

	_, err := s.registry.UpdateGroup(s.ctx, s.call(alice), id, UpdateGroupParams{Name: "Beta", MaxMembers: 5, ContribAmount: 10})
	s.Require().NoError(err)
	_, err = s.registry.UpdateGroup(s.ctx, Call{Caller: alice, Height: 50}, id, UpdateGroupParams{Name: "Gamma", MaxMembers: 6, ContribAmount: 11})
	s.Require().NoError(err)

	update, err := s.registry.GetGroupUpdate(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Gamma", update.Name)
	s.Equal(uint64(50), update.UpdatedAt)
}

func (s *RegistrySuite) TestUpdateGroupKeepsOwnName() {
	s.configure()
	id := s.create(alice, "Alpha")

	_, err := s.registry.UpdateGroup(s.ctx, s.call(alice), id, UpdateGroupParams{Name: "Alpha", MaxMembers: 20, ContribAmount: 300})
	s.Require().NoError(err)
	s.True(s.exists("Alpha"))

	got, err := s.registry.GetGroupIDByName(s.ctx, "Alpha")
	s.Require().NoError(err)
	s.Equal(id, got)
}

func (s *RegistrySuite) TestUpdateGroupFailures() {
	s.configure()
	alpha := s.create(alice, "Alpha")
	s.create(bob, "Beta")

	valid := UpdateGroupParams{Name: "Renamed", MaxMembers: 10, ContribAmount: 100}
	tests := []struct {
		name   string
		caller models.Principal
		id     uint64
		params UpdateGroupParams
		want   *Error
	}{
		{"unknown group", alice, 7, valid, ErrNotFound},
		{"not the creator", bob, alpha, valid, ErrNotAuthorized},
		{"creator check before params", mallory, alpha, UpdateGroupParams{}, ErrNotAuthorized},
		{"empty name", alice, alpha, UpdateGroupParams{Name: "", MaxMembers: 10, ContribAmount: 100}, ErrInvalidParam},
		{"members out of range", alice, alpha, UpdateGroupParams{Name: "X", MaxMembers: 51, ContribAmount: 100}, ErrInvalidParam},
		{"zero contribution", alice, alpha, UpdateGroupParams{Name: "X", MaxMembers: 10, ContribAmount: 0}, ErrInvalidParam},
		{"name held by another group", alice, alpha, UpdateGroupParams{Name: "Beta", MaxMembers: 10, ContribAmount: 100}, ErrNameCollision},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.registry.UpdateGroup(s.ctx, s.call(tt.caller), tt.id, tt.params)
			s.ErrorIs(err, tt.want)

			group, err := s.registry.GetGroup(s.ctx, alpha)
			s.Require().NoError(err)
			s.Equal("Alpha", group.Name)
			s.Equal(uint64(10), group.MaxMembers)
			s.True(s.exists("Alpha"))
			s.True(s.exists("Beta"))

			_, err = s.registry.GetGroupUpdate(s.ctx, alpha)
			s.ErrorIs(err, ErrNotFound)
		})
	}
}

func (s *RegistrySuite) TestRenameFreesNameButNotID() {
	s.configure()
	id := s.create(alice, "Alpha")

	_, err := s.registry.UpdateGroup(s.ctx, s.call(alice), id, UpdateGroupParams{Name: "Omega", MaxMembers: 10, ContribAmount: 100})
	s.Require().NoError(err)

	s.Equal(uint64(1), s.create(bob, "Alpha"))
	s.Equal(uint64(2), s.count())
}

func (s *RegistrySuite) TestReadsOfUnknownGroups() {
	_, err := s.registry.GetGroup(s.ctx, 0)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.registry.GetGroupUpdate(s.ctx, 0)
	s.ErrorIs(err, ErrNotFound)

	_, err = s.registry.GetGroupIDByName(s.ctx, "nobody")
	s.ErrorIs(err, ErrNotFound)

	s.False(s.exists("nobody"))
	s.Equal(uint64(0), s.count())
}

func (s *RegistrySuite) TestStateSurvivesNewRegistry() {
	s.configure()
	s.create(alice, "Alpha")

	reopened := New(s.store, staticOracle{alice: true}, s.sink)
	n, err := reopened.GetGroupCount(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(1), n)

	id, err := reopened.CreateGroup(s.ctx, s.call(alice), validParams("Beta"))
	s.Require().NoError(err)
	s.Equal(uint64(1), id)
}

func TestErrorIs(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), ErrNameCollision)
	assert.ErrorIs(t, wrapped, ErrNameCollision)
	assert.NotErrorIs(t, wrapped, ErrGroupAlreadyExists)

	e, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, uint32(123), e.Code)
	assert.Equal(t, KindConflict, e.Kind)
	assert.Equal(t, "group name already in use (u123)", e.Error())

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
}
