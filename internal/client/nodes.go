package client

import "github.com/aspen-cloud/fly-admin/pkg/fly"

// connection is the GraphQL node wrapper {nodes: [...]}. It only appears in
// wire types; exported types carry the bare slice.
type connection[T any] struct {
	Nodes []T `json:"nodes"`
}

// unwrapNodes converts a wrapped collection, preserving order and count. A
// missing wrapper passes through as a nil slice.
func unwrapNodes[T, U any](wrapped *connection[T], convert func(T) U) []U {
	if wrapped == nil || wrapped.Nodes == nil {
		return nil
	}

	items := make([]U, 0, len(wrapped.Nodes))
	for _, node := range wrapped.Nodes {
		items = append(items, convert(node))
	}

	return items
}

func identity[T any](value T) T {
	return value
}

// wireApp is an app as selected by the app and organization documents.
type wireApp struct {
	Name         string                      `json:"name"`
	Status       fly.AppStatus               `json:"status"`
	Organization fly.OrganizationRef         `json:"organization"`
	IPAddresses  *connection[fly.IPAddress]  `json:"ipAddresses"`
	Machines     *connection[fly.AppMachine] `json:"machines"`
}

func (w wireApp) toDomain() fly.AppDetailed {
	return fly.AppDetailed{
		App: fly.App{
			Name:         w.Name,
			Status:       w.Status,
			Organization: w.Organization,
		},
		IPAddresses: unwrapNodes(w.IPAddresses, identity[fly.IPAddress]),
		Machines:    unwrapNodes(w.Machines, identity[fly.AppMachine]),
	}
}

// wireOrganizationApps is an organization with its apps.
type wireOrganizationApps struct {
	Apps *connection[wireApp] `json:"apps"`
}

func (w wireOrganizationApps) toDomain() fly.ListAppsDetailedResponse {
	return fly.ListAppsDetailedResponse{
		Apps: unwrapNodes(w.Apps, wireApp.toDomain),
	}
}
