package bootstrap

import (
	"log/slog"
	"net/http"

	"github.com/interview-ai/datasheet-ui/config"
	"github.com/interview-ai/datasheet-ui/internal/api"
	"github.com/interview-ai/datasheet-ui/internal/apiclient"
	"github.com/interview-ai/datasheet-ui/internal/domain/model"
	"github.com/interview-ai/datasheet-ui/internal/ports"
)

// APIDefaults maps the API configuration onto table-data defaults.
func APIDefaults(cfg config.APIConfig) api.Defaults {
	order, ok := model.ParseSortOrder(cfg.DefaultSortOrder)
	if !ok {
		order = model.SortAsc
	}
	return api.Defaults{Page: 1, PageSize: cfg.DefaultPageSize, SortOrder: order}
}

// APIServiceConfig contains dependencies for NewAPIService.
type APIServiceConfig struct {
	API        config.APIConfig
	HTTPClient *http.Client // Optional: defaults to NewBackendHTTPClient without metrics
	Store      ports.TokenStore
	Navigator  ports.Navigator
	Logger     *slog.Logger
}

// NewAPIService wires the configured client and the service on top of it.
func NewAPIService(cfg APIServiceConfig) (*api.Service, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = NewBackendHTTPClient(cfg.API, nil, nil)
	}

	client, err := apiclient.New(apiclient.Options{
		BaseURL:    cfg.API.ResolvedBaseURL(),
		HTTPClient: httpClient,
		Logger:     cfg.Logger,
		Store:      cfg.Store,
		Navigator:  cfg.Navigator,
	})
	if err != nil {
		return nil, err
	}

	return api.NewService(api.ServiceOptions{
		Client:    client,
		Navigator: cfg.Navigator,
		Defaults:  APIDefaults(cfg.API),
		Logger:    cfg.Logger,
	})
}
