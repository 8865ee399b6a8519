package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/aspen-cloud/fly-admin/internal/constants"
	"github.com/aspen-cloud/fly-admin/internal/http"
	"github.com/aspen-cloud/fly-admin/pkg/fly"
)

// MachinesClient implements fly.MachinesClient.
type MachinesClient struct {
	httpClient *http.Client
}

// NewMachinesClient creates a new machines client.
func NewMachinesClient(httpClient *http.Client) *MachinesClient {
	return &MachinesClient{
		httpClient: httpClient,
	}
}

func machinePath(appName, machineID string, action ...string) string {
	return resourcePath(append([]string{"apps", appName, "machines", machineID}, action...)...)
}

// ListMachines implements fly.MachinesClient.ListMachines.
func (c *MachinesClient) ListMachines(ctx context.Context, request fly.ListMachinesRequest) fly.Result[[]fly.Machine] {
	query := url.Values{}
	if request.IncludeDeleted {
		query.Set("include_deleted", "true")
	}

	if request.Region != "" {
		query.Set("region", request.Region)
	}

	return restCall[[]fly.Machine](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   resourcePath("apps", request.AppName, "machines"),
		Query:  query,
	})
}

// GetMachine implements fly.MachinesClient.GetMachine.
func (c *MachinesClient) GetMachine(ctx context.Context, request fly.GetMachineRequest) fly.Result[fly.Machine] {
	return restCall[fly.Machine](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   machinePath(request.AppName, request.MachineID),
	})
}

// CreateMachine implements fly.MachinesClient.CreateMachine.
func (c *MachinesClient) CreateMachine(ctx context.Context, request *fly.CreateMachineRequest) fly.Result[fly.Machine] {
	return fly.Safe(func() (*fly.Machine, error) {
		if request == nil {
			return nil, fly.ErrNilRequest
		}

		resp, err := c.httpClient.Post(ctx, resourcePath("apps", request.AppName, "machines"), request)
		if err != nil {
			return nil, err
		}

		return http.DecodeJSON[fly.Machine](resp)
	})
}

// UpdateMachine implements fly.MachinesClient.UpdateMachine.
func (c *MachinesClient) UpdateMachine(ctx context.Context, request *fly.UpdateMachineRequest) fly.Result[fly.Machine] {
	return fly.Safe(func() (*fly.Machine, error) {
		if request == nil {
			return nil, fly.ErrNilRequest
		}

		resp, err := c.httpClient.Do(ctx, &http.Request{
			Method:  "POST",
			Path:    machinePath(request.AppName, request.MachineID),
			Body:    request,
			Headers: leaseHeaders(request.LeaseNonce),
		})
		if err != nil {
			return nil, err
		}

		return http.DecodeJSON[fly.Machine](resp)
	})
}

// DeleteMachine implements fly.MachinesClient.DeleteMachine.
func (c *MachinesClient) DeleteMachine(ctx context.Context, request fly.DeleteMachineRequest) fly.Result[fly.OkResponse] {
	var query url.Values
	if request.Force {
		query = url.Values{"force": []string{"true"}}
	}

	return restCall[fly.OkResponse](ctx, c.httpClient, &http.Request{
		Method: "DELETE",
		Path:   machinePath(request.AppName, request.MachineID),
		Query:  query,
	})
}

// StartMachine implements fly.MachinesClient.StartMachine.
func (c *MachinesClient) StartMachine(ctx context.Context, request fly.StartMachineRequest) fly.Result[fly.StartMachineResponse] {
	return restCall[fly.StartMachineResponse](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   machinePath(request.AppName, request.MachineID, "start"),
	})
}

// StopMachine implements fly.MachinesClient.StopMachine.
func (c *MachinesClient) StopMachine(ctx context.Context, request *fly.StopMachineRequest) fly.Result[fly.OkResponse] {
	return fly.Safe(func() (*fly.OkResponse, error) {
		if request == nil {
			return nil, fly.ErrNilRequest
		}

		resp, err := c.httpClient.Post(ctx, machinePath(request.AppName, request.MachineID, "stop"), request)
		if err != nil {
			return nil, err
		}

		return http.DecodeJSON[fly.OkResponse](resp)
	})
}

// RestartMachine implements fly.MachinesClient.RestartMachine.
func (c *MachinesClient) RestartMachine(ctx context.Context, request fly.RestartMachineRequest) fly.Result[fly.OkResponse] {
	query := url.Values{}
	if request.Timeout != "" {
		query.Set("timeout", request.Timeout)
	}

	if request.Signal != "" {
		query.Set("signal", request.Signal)
	}

	return restCall[fly.OkResponse](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   machinePath(request.AppName, request.MachineID, "restart"),
		Query:  query,
	})
}

// SignalMachine implements fly.MachinesClient.SignalMachine.
func (c *MachinesClient) SignalMachine(ctx context.Context, request *fly.SignalMachineRequest) fly.Result[fly.OkResponse] {
	return fly.Safe(func() (*fly.OkResponse, error) {
		if request == nil {
			return nil, fly.ErrNilRequest
		}

		resp, err := c.httpClient.Post(ctx, machinePath(request.AppName, request.MachineID, "signal"), request)
		if err != nil {
			return nil, err
		}

		return http.DecodeJSON[fly.OkResponse](resp)
	})
}

// WaitMachine implements fly.MachinesClient.WaitMachine. The call blocks on
// the server until the state is reached or the timeout elapses.
func (c *MachinesClient) WaitMachine(ctx context.Context, request fly.WaitMachineRequest) fly.Result[fly.OkResponse] {
	query := url.Values{}
	if request.InstanceID != "" {
		query.Set("instance_id", request.InstanceID)
	}

	if request.State != "" {
		query.Set("state", string(request.State))
	}

	if request.Timeout > 0 {
		query.Set("timeout", strconv.Itoa(request.Timeout))
	}

	return restCall[fly.OkResponse](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   machinePath(request.AppName, request.MachineID, "wait"),
		Query:  query,
	})
}

// CordonMachine implements fly.MachinesClient.CordonMachine.
func (c *MachinesClient) CordonMachine(ctx context.Context, request fly.CordonMachineRequest) fly.Result[fly.OkResponse] {
	return restCall[fly.OkResponse](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   machinePath(request.AppName, request.MachineID, "cordon"),
	})
}

// UncordonMachine implements fly.MachinesClient.UncordonMachine.
func (c *MachinesClient) UncordonMachine(ctx context.Context, request fly.CordonMachineRequest) fly.Result[fly.OkResponse] {
	return restCall[fly.OkResponse](ctx, c.httpClient, &http.Request{
		Method: "POST",
		Path:   machinePath(request.AppName, request.MachineID, "uncordon"),
	})
}

// ListEvents implements fly.MachinesClient.ListEvents.
func (c *MachinesClient) ListEvents(ctx context.Context, request fly.GetMachineRequest) fly.Result[[]fly.MachineEvent] {
	return restCall[[]fly.MachineEvent](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   machinePath(request.AppName, request.MachineID, "events"),
	})
}

// ListVersions implements fly.MachinesClient.ListVersions.
func (c *MachinesClient) ListVersions(ctx context.Context, request fly.GetMachineRequest) fly.Result[[]fly.MachineVersion] {
	return restCall[[]fly.MachineVersion](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   machinePath(request.AppName, request.MachineID, "versions"),
	})
}

// ListProcesses implements fly.MachinesClient.ListProcesses.
func (c *MachinesClient) ListProcesses(ctx context.Context, request fly.ListProcessesRequest) fly.Result[[]fly.ProcessStat] {
	query := url.Values{}
	if request.SortBy != "" {
		query.Set("sort_by", request.SortBy)
	}

	if request.Order != "" {
		query.Set("order", request.Order)
	}

	return restCall[[]fly.ProcessStat](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   machinePath(request.AppName, request.MachineID, "ps"),
		Query:  query,
	})
}

// GetLease implements fly.MachinesClient.GetLease.
func (c *MachinesClient) GetLease(ctx context.Context, request fly.GetMachineRequest) fly.Result[fly.MachineLease] {
	return restCall[fly.MachineLease](ctx, c.httpClient, &http.Request{
		Method: "GET",
		Path:   machinePath(request.AppName, request.MachineID, "lease"),
	})
}

// AcquireLease implements fly.MachinesClient.AcquireLease.
func (c *MachinesClient) AcquireLease(ctx context.Context, request *fly.AcquireLeaseRequest) fly.Result[fly.MachineLease] {
	return fly.Safe(func() (*fly.MachineLease, error) {
		if request == nil {
			return nil, fly.ErrNilRequest
		}

		resp, err := c.httpClient.Post(ctx, machinePath(request.AppName, request.MachineID, "lease"), request)
		if err != nil {
			return nil, err
		}

		return http.DecodeJSON[fly.MachineLease](resp)
	})
}

// ReleaseLease implements fly.MachinesClient.ReleaseLease.
func (c *MachinesClient) ReleaseLease(ctx context.Context, request fly.ReleaseLeaseRequest) fly.Result[fly.OkResponse] {
	return restCall[fly.OkResponse](ctx, c.httpClient, &http.Request{
		Method:  "DELETE",
		Path:    machinePath(request.AppName, request.MachineID, "lease"),
		Headers: leaseHeaders(request.Nonce),
	})
}

func leaseHeaders(nonce string) map[string]string {
	if nonce == "" {
		return nil
	}

	return map[string]string{constants.LeaseNonceHeader: nonce}
}
