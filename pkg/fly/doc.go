// Package fly provides types, interfaces, and helpers for working with the
// Fly.io platform APIs: the GraphQL API and the Machines REST API.
//
// # Overview
//
// The fly package defines the domain types (App, Machine, Volume, Organization,
// Release, Region, ...) and the interfaces of the resource-oriented clients
// (AppsClient, MachinesClient, VolumesClient, ...). A concrete implementation
// is provided by the flyclient package, which wires configuration, transport,
// and authentication.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/aspen-cloud/fly-admin/pkg/fly"
//	  "github.com/aspen-cloud/fly-admin/pkg/flyclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := flyclient.New(ctx, &fly.Config{APIKey: os.Getenv("FLY_API_TOKEN")})
//	  if err != nil { log.Fatal(err) }
//
//	  res := cli.Apps().GetAppDetailed(ctx, "my-app")
//	  if res.Error != nil { log.Fatal(res.Error) }
//	  for _, m := range res.Data.Machines { log.Println(m.ID, m.State) }
//	}
//
// # Results
//
// Every resource operation returns a Result. Exactly one of Data and Error is
// set; check Error before touching Data, or call Unwrap to get the usual
// (value, error) pair. Failures are normalized whatever the transport:
//
//   - a non-2xx response reports its status code and raw body text;
//   - a GraphQL response with an "errors" array reports 500 and the JSON of
//     that array, even when data was also returned;
//   - any other failure (network, decoding) reports 500 and the error text.
//
// GraphQL collections wrapped as {nodes: [...]} are always returned as plain
// slices.
//
// # Strict calls
//
// Client.GraphQL and Client.REST issue arbitrary documents and paths and
// return ordinary Go errors (*HTTPError, *GraphQLError, or a wrapped transport
// error) instead of a Result.
package fly
