package api

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"connectrpc.com/connect"
)

// Client calls a RegistryService over Connect.
type Client struct {
	setAuthorityContract *connect.Client[SetAuthorityContractRequest, SetAuthorityContractResponse]
	setCreationFee       *connect.Client[SetCreationFeeRequest, SetCreationFeeResponse]
	createGroup          *connect.Client[CreateGroupRequest, CreateGroupResponse]
	updateGroup          *connect.Client[UpdateGroupRequest, UpdateGroupResponse]
	getGroup             *connect.Client[GetGroupRequest, GetGroupResponse]
	getGroupUpdate       *connect.Client[GetGroupUpdateRequest, GetGroupUpdateResponse]
	getGroupCount        *connect.Client[GetGroupCountRequest, GetGroupCountResponse]
	checkGroupExistence  *connect.Client[CheckGroupExistenceRequest, CheckGroupExistenceResponse]
	getGroupIDByName     *connect.Client[GetGroupIDByNameRequest, GetGroupIDByNameResponse]
	getSettings          *connect.Client[GetSettingsRequest, GetSettingsResponse]
	listTransfers        *connect.Client[ListTransfersRequest, ListTransfersResponse]
}

// NewClient creates a client for the service at baseURL (for example
// http://localhost:8080). Use connect.WithInterceptors to attach credentials.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &Client{
		setAuthorityContract: connect.NewClient[SetAuthorityContractRequest, SetAuthorityContractResponse](httpClient, baseURL+SetAuthorityContractProcedure, opts...),
		setCreationFee:       connect.NewClient[SetCreationFeeRequest, SetCreationFeeResponse](httpClient, baseURL+SetCreationFeeProcedure, opts...),
		createGroup:          connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+CreateGroupProcedure, opts...),
		updateGroup:          connect.NewClient[UpdateGroupRequest, UpdateGroupResponse](httpClient, baseURL+UpdateGroupProcedure, opts...),
		getGroup:             connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GetGroupProcedure, opts...),
		getGroupUpdate:       connect.NewClient[GetGroupUpdateRequest, GetGroupUpdateResponse](httpClient, baseURL+GetGroupUpdateProcedure, opts...),
		getGroupCount:        connect.NewClient[GetGroupCountRequest, GetGroupCountResponse](httpClient, baseURL+GetGroupCountProcedure, opts...),
		checkGroupExistence:  connect.NewClient[CheckGroupExistenceRequest, CheckGroupExistenceResponse](httpClient, baseURL+CheckGroupExistenceProcedure, opts...),
		getGroupIDByName:     connect.NewClient[GetGroupIDByNameRequest, GetGroupIDByNameResponse](httpClient, baseURL+GetGroupIDByNameProcedure, opts...),
		getSettings:          connect.NewClient[GetSettingsRequest, GetSettingsResponse](httpClient, baseURL+GetSettingsProcedure, opts...),
		listTransfers:        connect.NewClient[ListTransfersRequest, ListTransfersResponse](httpClient, baseURL+ListTransfersProcedure, opts...),
	}
}

func (c *Client) SetAuthorityContract(ctx context.Context, req *connect.Request[SetAuthorityContractRequest]) (*connect.Response[SetAuthorityContractResponse], error) {
	return c.setAuthorityContract.CallUnary(ctx, req)
}

func (c *Client) SetCreationFee(ctx context.Context, req *connect.Request[SetCreationFeeRequest]) (*connect.Response[SetCreationFeeResponse], error) {
	return c.setCreationFee.CallUnary(ctx, req)
}

func (c *Client) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *Client) UpdateGroup(ctx context.Context, req *connect.Request[UpdateGroupRequest]) (*connect.Response[UpdateGroupResponse], error) {
	return c.updateGroup.CallUnary(ctx, req)
}

func (c *Client) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *Client) GetGroupUpdate(ctx context.Context, req *connect.Request[GetGroupUpdateRequest]) (*connect.Response[GetGroupUpdateResponse], error) {
	return c.getGroupUpdate.CallUnary(ctx, req)
}

func (c *Client) GetGroupCount(ctx context.Context, req *connect.Request[GetGroupCountRequest]) (*connect.Response[GetGroupCountResponse], error) {
	return c.getGroupCount.CallUnary(ctx, req)
}

func (c *Client) CheckGroupExistence(ctx context.Context, req *connect.Request[CheckGroupExistenceRequest]) (*connect.Response[CheckGroupExistenceResponse], error) {
	return c.checkGroupExistence.CallUnary(ctx, req)
}

func (c *Client) GetGroupIDByName(ctx context.Context, req *connect.Request[GetGroupIDByNameRequest]) (*connect.Response[GetGroupIDByNameResponse], error) {
	return c.getGroupIDByName.CallUnary(ctx, req)
}

func (c *Client) GetSettings(ctx context.Context, req *connect.Request[GetSettingsRequest]) (*connect.Response[GetSettingsResponse], error) {
	return c.getSettings.CallUnary(ctx, req)
}

func (c *Client) ListTransfers(ctx context.Context, req *connect.Request[ListTransfersRequest]) (*connect.Response[ListTransfersResponse], error) {
	return c.listTransfers.CallUnary(ctx, req)
}

var _ RegistryServiceHandler = (*Client)(nil)

// ErrorCode returns the registry error code attached to a failed call.
func ErrorCode(err error) (uint32, bool) {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return 0, false
	}
	raw := connectErr.Meta().Get(ErrorCodeHeader)
	if raw == "" {
		return 0, false
	}
	code, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(code), true
}

// BearerToken returns an interceptor that sends token in the Authorization header.
func BearerToken(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token != "" && req.Spec().IsClient {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}
