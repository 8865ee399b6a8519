// Package flyclient provides the primary entry point for constructing a
// Fly.io API client that implements the fly.Client interface.
//
// It layers configuration, HTTP transport, and bearer authentication on top of
// the resource interfaces and types defined in the fly package. Most
// applications should import flyclient to build a client, then use the
// returned fly.Client to access resource-specific clients, for example Apps(),
// Machines(), Volumes(), etc.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//	  "os"
//
//	  "github.com/aspen-cloud/fly-admin/pkg/fly"
//	  "github.com/aspen-cloud/fly-admin/pkg/flyclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Production endpoints with a token from the environment.
//	  cli, err := flyclient.NewWithToken(ctx, os.Getenv("FLY_API_TOKEN"))
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with overrides and debug logging:
//	  cli, err = flyclient.New(ctx, &fly.Config{
//	    APIKey: os.Getenv("FLY_API_TOKEN"),
//	    APIURL: "http://_api.internal:4280",
//	    Debug:  true,
//	    Logger: myLogger,
//	  })
//
//	  volumes := cli.Volumes().ListVolumes(ctx, "my-app")
//	  if volumes.Error != nil {
//	    log.Fatalf("status %d: %s", volumes.Error.Status, volumes.Error.Message)
//	  }
//	  for _, v := range *volumes.Data { log.Println(v.ID, v.SizeGB) }
//	}
//
// Construction fails immediately, without any network I/O, when the API key is
// empty or an endpoint is malformed. No call is retried and no timeout is
// imposed; pass a context with a deadline or supply Config.HTTPClient.
package flyclient
