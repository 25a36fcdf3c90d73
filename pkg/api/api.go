// Package api defines the RegistryService wire contract: procedure names, request
// and response messages, the JSON codec, the handler mux and a typed client.
package api

import "github.com/sammyfonte1/Decentralized-Governance-for-Hybrid-Event-Platforms/internal/models"

const (
	// ServiceName is the fully-qualified name of the RegistryService.
	ServiceName = "savings.registry.v1.RegistryService"

	// ErrorCodeHeader carries the numeric registry error code on failed calls.
	ErrorCodeHeader = "Registry-Error-Code"
)

// Procedure paths of the RegistryService.
const (
	SetAuthorityContractProcedure = "/" + ServiceName + "/SetAuthorityContract"
	SetCreationFeeProcedure       = "/" + ServiceName + "/SetCreationFee"
	CreateGroupProcedure          = "/" + ServiceName + "/CreateGroup"
	UpdateGroupProcedure          = "/" + ServiceName + "/UpdateGroup"
	GetGroupProcedure             = "/" + ServiceName + "/GetGroup"
	GetGroupUpdateProcedure       = "/" + ServiceName + "/GetGroupUpdate"
	GetGroupCountProcedure        = "/" + ServiceName + "/GetGroupCount"
	CheckGroupExistenceProcedure  = "/" + ServiceName + "/CheckGroupExistence"
	GetGroupIDByNameProcedure     = "/" + ServiceName + "/GetGroupIdByName"
	GetSettingsProcedure          = "/" + ServiceName + "/GetSettings"
	ListTransfersProcedure        = "/" + ServiceName + "/ListTransfers"
)

// ReadProcedures lists the procedures that do not mutate state and may be called
// without a caller identity.
var ReadProcedures = []string{
	GetGroupProcedure,
	GetGroupUpdateProcedure,
	GetGroupCountProcedure,
	CheckGroupExistenceProcedure,
	GetGroupIDByNameProcedure,
	GetSettingsProcedure,
	ListTransfersProcedure,
}

type SetAuthorityContractRequest struct {
	Principal models.Principal `json:"principal"`
}

type SetAuthorityContractResponse struct{}

type SetCreationFeeRequest struct {
	Fee uint64 `json:"fee"`
}

type SetCreationFeeResponse struct{}

type CreateGroupRequest struct {
	Name            string           `json:"name"`
	MaxMembers      uint64           `json:"max_members"`
	ContribAmount   uint64           `json:"contrib_amount"`
	CycleDuration   uint64           `json:"cycle_duration"`
	PenaltyRate     uint64           `json:"penalty_rate"`
	VotingThreshold uint64           `json:"voting_threshold"`
	GroupType       models.GroupType `json:"group_type"`
	InterestRate    uint64           `json:"interest_rate"`
	GracePeriod     uint64           `json:"grace_period"`
	Location        string           `json:"location"`
	Currency        models.Currency  `json:"currency"`
	MinContrib      uint64           `json:"min_contrib"`
	MaxLoan         uint64           `json:"max_loan"`
}

type CreateGroupResponse struct {
	GroupID uint64 `json:"group_id"`
}

type UpdateGroupRequest struct {
	GroupID       uint64 `json:"group_id"`
	Name          string `json:"name"`
	MaxMembers    uint64 `json:"max_members"`
	ContribAmount uint64 `json:"contrib_amount"`
}

type UpdateGroupResponse struct {
	Group *models.Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID uint64 `json:"group_id"`
}

type GetGroupResponse struct {
	Group *models.Group `json:"group"`
}

type GetGroupUpdateRequest struct {
	GroupID uint64 `json:"group_id"`
}

type GetGroupUpdateResponse struct {
	Update *models.GroupUpdate `json:"update"`
}

type GetGroupCountRequest struct{}

type GetGroupCountResponse struct {
	Count uint64 `json:"count"`
}

type CheckGroupExistenceRequest struct {
	Name string `json:"name"`
}

type CheckGroupExistenceResponse struct {
	Exists bool `json:"exists"`
}

type GetGroupIDByNameRequest struct {
	Name string `json:"name"`
}

type GetGroupIDByNameResponse struct {
	GroupID uint64 `json:"group_id"`
}

type GetSettingsRequest struct{}

type GetSettingsResponse struct {
	Settings models.Settings `json:"settings"`
}

type ListTransfersRequest struct{}

type ListTransfersResponse struct {
	Transfers []models.Transfer `json:"transfers"`
}
