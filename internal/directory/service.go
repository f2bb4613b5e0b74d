// Package directory orchestrates SCIM operations against the upstream
// directory API: payload translation, create-time validation and defaults,
// and the pagination bridge around list calls.
package directory

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/openkcm/scim-gateway/internal/filter"
	"github.com/openkcm/scim-gateway/internal/mapper"
	"github.com/openkcm/scim-gateway/internal/paging"
	"github.com/openkcm/scim-gateway/pkg/clients/graph"
)

// ValidationError reports a required field missing from a create payload.
// It is raised before any upstream call is attempted.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// Service translates SCIM operations into directory API calls. All state is
// request-scoped; the service itself is safe for concurrent use.
type Service struct {
	logger hclog.Logger
	client *graph.Client
	mode   paging.Mode
}

func NewService(client *graph.Client, mode paging.Mode, logger hclog.Logger) *Service {
	return &Service{
		logger: logger,
		client: client,
		mode:   mode,
	}
}

// list runs the shared list pipeline: filter translation, pagination
// bridging, the upstream call, and per-resource mapping. An untranslatable
// filter degrades to an unfiltered query; the drop is logged, never silent.
func (s *Service) list(
	ctx context.Context,
	token string,
	basePath string,
	m mapper.Mapping,
	scimFilter string,
	startIndex int,
	count int,
) (*paging.ListResponse, error) {
	fragment, err := filter.Translate(scimFilter)
	if err != nil {
		s.logger.Warn("ignoring unsupported SCIM filter", "filter", scimFilter)

		fragment = ""
	}

	query, err := s.mode.BuildPage(startIndex, count, fragment)
	if err != nil {
		return nil, err
	}

	page, err := s.client.List(ctx, token, basePath, query)
	if err != nil {
		return nil, err
	}

	resources := make([]map[string]any, 0, len(page.Value))
	for _, native := range page.Value {
		resources = append(resources, m.ToSCIM(native))
	}

	envelope := paging.Assemble(resources, page.Count, startIndex, count)

	return &envelope, nil
}

func (s *Service) get(
	ctx context.Context,
	token string,
	basePath string,
	id string,
	m mapper.Mapping,
) (map[string]any, error) {
	native, err := s.client.Get(ctx, token, basePath, id)
	if err != nil {
		return nil, err
	}

	return m.ToSCIM(native), nil
}

func (s *Service) create(
	ctx context.Context,
	token string,
	basePath string,
	payload graph.Resource,
	m mapper.Mapping,
) (map[string]any, error) {
	created, err := s.client.Create(ctx, token, basePath, payload)
	if err != nil {
		return nil, err
	}

	return m.ToSCIM(created), nil
}

// update patches the object, then re-reads it for the canonical updated
// representation. Two sequential round trips; a concurrent mutation between
// them is not guarded against.
func (s *Service) update(
	ctx context.Context,
	token string,
	basePath string,
	id string,
	scimPayload map[string]any,
	m mapper.Mapping,
) (map[string]any, error) {
	err := s.client.Update(ctx, token, basePath, id, m.FromSCIM(scimPayload))
	if err != nil {
		return nil, err
	}

	return s.get(ctx, token, basePath, id, m)
}

func (s *Service) delete(ctx context.Context, token, basePath, id string) error {
	return s.client.Delete(ctx, token, basePath, id)
}
