package interfaces

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/payme/sdk-go/pkg/transport"
)

//go:generate mockgen -source=api_client_interface.go -destination=mocks/mock_api_client.go

// IApiClient abstracts the authenticated HTTP layer the gateway talks
// through. transport.Client is the production implementation.
type IApiClient interface {
	Get(ctx context.Context, scope transport.Scope, path string, query url.Values) (json.RawMessage, error)
	Post(ctx context.Context, scope transport.Scope, path string, body any) (json.RawMessage, error)
	SetToken(token string)
	Token() string
}
