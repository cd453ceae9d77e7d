package api

// Package api exposes the datasheet backend operations on top of the
// configured apiclient: tables, spreadsheet upload, natural-language query
// and authentication.

import (
	"errors"
	"log/slog"

	"github.com/interview-ai/datasheet-ui/internal/apiclient"
	"github.com/interview-ai/datasheet-ui/internal/domain/model"
	"github.com/interview-ai/datasheet-ui/internal/ports"
)

// Defaults holds the values applied to omitted table-data parameters.
type Defaults struct {
	Page      int
	PageSize  int
	SortOrder model.SortOrder
}

// StandardDefaults returns page 1, 50 rows per page, ascending order.
func StandardDefaults() Defaults {
	return Defaults{Page: 1, PageSize: 50, SortOrder: model.SortAsc}
}

func (d Defaults) sanitized() Defaults {
	std := StandardDefaults()
	if d.Page < 1 {
		d.Page = std.Page
	}
	if d.PageSize < 1 {
		d.PageSize = std.PageSize
	}
	if !d.SortOrder.Valid() {
		d.SortOrder = std.SortOrder
	}
	return d
}

// ServiceOptions groups dependencies for Service.
type ServiceOptions struct {
	Client    *apiclient.Client // Required: configured backend client
	Navigator ports.Navigator   // Optional: target of Logout; nil skips navigation
	Defaults  Defaults          // Optional: zero fields fall back to StandardDefaults
	Logger    *slog.Logger      // Optional: structured logger
}

// Service performs backend operations. It holds no state of its own; the
// session token lives in the client's token store.
type Service struct {
	client   *apiclient.Client
	nav      ports.Navigator
	defaults Defaults
	logger   *slog.Logger
}

// NewService constructs a Service. Returns an error if Client is nil.
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Client == nil {
		return nil, errors.New("api client is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:   opts.Client,
		nav:      opts.Navigator,
		defaults: opts.Defaults.sanitized(),
		logger:   logger,
	}, nil
}

// MustNewService constructs a Service and panics on error.
func MustNewService(opts ServiceOptions) *Service {
	svc, err := NewService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// Defaults returns the defaults applied by GetTableData.
func (s *Service) Defaults() Defaults { return s.defaults }
