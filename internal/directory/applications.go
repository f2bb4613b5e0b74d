package directory

import (
	"context"
	"errors"

	"github.com/openkcm/scim-gateway/internal/mapper"
	"github.com/openkcm/scim-gateway/internal/paging"
	"github.com/openkcm/scim-gateway/pkg/clients/graph"
	"github.com/openkcm/scim-gateway/pkg/utils/errs"
)

var (
	ErrListApplications  = errors.New("error listing applications")
	ErrGetApplication    = errors.New("error getting application")
	ErrCreateApplication = errors.New("error creating application")
	ErrUpdateApplication = errors.New("error updating application")
	ErrDeleteApplication = errors.New("error deleting application")
)

func (s *Service) ListApplications(
	ctx context.Context,
	token string,
	scimFilter string,
	startIndex int,
	count int,
) (*paging.ListResponse, error) {
	result, err := s.list(ctx, token, graph.BasePathApplications, mapper.Application, scimFilter, startIndex, count)
	if err != nil {
		return nil, errs.Wrap(ErrListApplications, err)
	}

	return result, nil
}

func (s *Service) GetApplication(ctx context.Context, token, id string) (map[string]any, error) {
	app, err := s.get(ctx, token, graph.BasePathApplications, id, mapper.Application)
	if err != nil {
		return nil, errs.Wrap(ErrGetApplication, err)
	}

	return app, nil
}

func (s *Service) CreateApplication(
	ctx context.Context,
	token string,
	scimApp map[string]any,
) (map[string]any, error) {
	payload := mapper.Application.FromSCIM(scimApp)

	if _, ok := payload["displayName"]; !ok {
		return nil, &ValidationError{
			Field:  "displayName",
			Detail: "Display name is required",
		}
	}

	created, err := s.create(ctx, token, graph.BasePathApplications, payload, mapper.Application)
	if err != nil {
		return nil, errs.Wrap(ErrCreateApplication, err)
	}

	return created, nil
}

func (s *Service) UpdateApplication(
	ctx context.Context,
	token string,
	id string,
	scimApp map[string]any,
) (map[string]any, error) {
	updated, err := s.update(ctx, token, graph.BasePathApplications, id, scimApp, mapper.Application)
	if err != nil {
		return nil, errs.Wrap(ErrUpdateApplication, err)
	}

	return updated, nil
}

func (s *Service) DeleteApplication(ctx context.Context, token, id string) error {
	err := s.delete(ctx, token, graph.BasePathApplications, id)
	if err != nil {
		return errs.Wrap(ErrDeleteApplication, err)
	}

	return nil
}
