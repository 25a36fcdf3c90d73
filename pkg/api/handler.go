package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// RegistryServiceHandler is implemented by the server side of the RegistryService.
type RegistryServiceHandler interface {
	SetAuthorityContract(context.Context, *connect.Request[SetAuthorityContractRequest]) (*connect.Response[SetAuthorityContractResponse], error)
	SetCreationFee(context.Context, *connect.Request[SetCreationFeeRequest]) (*connect.Response[SetCreationFeeResponse], error)
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	UpdateGroup(context.Context, *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	GetGroupUpdate(context.Context, *connect.Request[GetGroupUpdateRequest]) (*connect.Response[GetGroupUpdateResponse], error)
	GetGroupCount(context.Context, *connect.Request[GetGroupCountRequest]) (*connect.Response[GetGroupCountResponse], error)
	CheckGroupExistence(context.Context, *connect.Request[CheckGroupExistenceRequest]) (*connect.Response[CheckGroupExistenceResponse], error)
	GetGroupIDByName(context.Context, *connect.Request[GetGroupIDByNameRequest]) (*connect.Response[GetGroupIDByNameResponse], error)
	GetSettings(context.Context, *connect.Request[GetSettingsRequest]) (*connect.Response[GetSettingsResponse], error)
	ListTransfers(context.Context, *connect.Request[ListTransfersRequest]) (*connect.Response[ListTransfersResponse], error)
}

// NewRegistryServiceHandler builds an HTTP handler for svc. It returns the path to
// mount the handler on.
func NewRegistryServiceHandler(svc RegistryServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	routes := map[string]http.Handler{
		SetAuthorityContractProcedure: connect.NewUnaryHandler(SetAuthorityContractProcedure, svc.SetAuthorityContract, opts...),
		SetCreationFeeProcedure:       connect.NewUnaryHandler(SetCreationFeeProcedure, svc.SetCreationFee, opts...),
		CreateGroupProcedure:          connect.NewUnaryHandler(CreateGroupProcedure, svc.CreateGroup, opts...),
		UpdateGroupProcedure:          connect.NewUnaryHandler(UpdateGroupProcedure, svc.UpdateGroup, opts...),
		GetGroupProcedure:             connect.NewUnaryHandler(GetGroupProcedure, svc.GetGroup, opts...),
		GetGroupUpdateProcedure:       connect.NewUnaryHandler(GetGroupUpdateProcedure, svc.GetGroupUpdate, opts...),
		GetGroupCountProcedure:        connect.NewUnaryHandler(GetGroupCountProcedure, svc.GetGroupCount, opts...),
		CheckGroupExistenceProcedure:  connect.NewUnaryHandler(CheckGroupExistenceProcedure, svc.CheckGroupExistence, opts...),
		GetGroupIDByNameProcedure:     connect.NewUnaryHandler(GetGroupIDByNameProcedure, svc.GetGroupIDByName, opts...),
		GetSettingsProcedure:          connect.NewUnaryHandler(GetSettingsProcedure, svc.GetSettings, opts...),
		ListTransfersProcedure:        connect.NewUnaryHandler(ListTransfersProcedure, svc.ListTransfers, opts...),
	}

	return "/" + ServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
