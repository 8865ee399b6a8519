package constants

import "errors"

// Configuration errors.
var (
	ErrNotAuthenticated  = errors.New("not authenticated: run 'flyadmin auth login' or set FLY_API_TOKEN")
	ErrUnknownConfigKey  = errors.New("unknown configuration key")
	ErrUnsupportedOutput = errors.New("unsupported output format")
	ErrTokenRequired     = errors.New("token is required")
)

// Argument errors.
var (
	ErrOrganizationRequired = errors.New("organization is required (use --org or 'flyadmin config set org SLUG')")
	ErrInvalidKeyValue      = errors.New("expected KEY=VALUE")
	ErrIPAddressRequired    = errors.New("either --id or --ip is required")
	ErrInvalidIPType        = errors.New("type must be one of v4, v6, shared_v4, private_v6")
)
