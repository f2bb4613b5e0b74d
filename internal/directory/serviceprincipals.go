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
	ErrListServicePrincipals  = errors.New("error listing service principals")
	ErrGetServicePrincipal    = errors.New("error getting service principal")
	ErrCreateServicePrincipal = errors.New("error creating service principal")
	ErrUpdateServicePrincipal = errors.New("error updating service principal")
	ErrDeleteServicePrincipal = errors.New("error deleting service principal")
)

func (s *Service) ListServicePrincipals(
	ctx context.Context,
	token string,
	scimFilter string,
	startIndex int,
	count int,
) (*paging.ListResponse, error) {
	result, err := s.list(
		ctx, token, graph.BasePathServicePrincipals, mapper.ServicePrincipal, scimFilter, startIndex, count,
	)
	if err != nil {
		return nil, errs.Wrap(ErrListServicePrincipals, err)
	}

	return result, nil
}

func (s *Service) GetServicePrincipal(ctx context.Context, token, id string) (map[string]any, error) {
	sp, err := s.get(ctx, token, graph.BasePathServicePrincipals, id, mapper.ServicePrincipal)
	if err != nil {
		return nil, errs.Wrap(ErrGetServicePrincipal, err)
	}

	return sp, nil
}

func (s *Service) CreateServicePrincipal(
	ctx context.Context,
	token string,
	scimSP map[string]any,
) (map[string]any, error) {
	payload := mapper.ServicePrincipal.FromSCIM(scimSP)

	if _, ok := payload["appId"]; !ok {
		return nil, &ValidationError{
			Field:  "appId",
			Detail: "Application ID (appId) is required",
		}
	}

	created, err := s.create(ctx, token, graph.BasePathServicePrincipals, payload, mapper.ServicePrincipal)
	if err != nil {
		return nil, errs.Wrap(ErrCreateServicePrincipal, err)
	}

	return created, nil
}

func (s *Service) UpdateServicePrincipal(
	ctx context.Context,
	token string,
	id string,
	scimSP map[string]any,
) (map[string]any, error) {
	updated, err := s.update(ctx, token, graph.BasePathServicePrincipals, id, scimSP, mapper.ServicePrincipal)
	if err != nil {
		return nil, errs.Wrap(ErrUpdateServicePrincipal, err)
	}

	return updated, nil
}

func (s *Service) DeleteServicePrincipal(ctx context.Context, token, id string) error {
	err := s.delete(ctx, token, graph.BasePathServicePrincipals, id)
	if err != nil {
		return errs.Wrap(ErrDeleteServicePrincipal, err)
	}

	return nil
}

// CreateApplicationWithServicePrincipal creates an application and then a
// service principal bound to it. If the second step fails, the application
// is deleted so no orphaned state remains, and the original failure is
// returned.
func (s *Service) CreateApplicationWithServicePrincipal(
	ctx context.Context,
	token string,
	scimApp map[string]any,
) (map[string]any, error) {
	app, err := s.CreateApplication(ctx, token, scimApp)
	if err != nil {
		return nil, err
	}

	spInput := map[string]any{
		"appId":       app["appId"],
		"displayName": app["displayName"],
	}

	sp, err := s.CreateServicePrincipal(ctx, token, spInput)
	if err != nil {
		appID, _ := app["id"].(string)

		cleanupErr := s.DeleteApplication(ctx, token, appID)
		if cleanupErr != nil {
			s.logger.Error("failed to delete application after service principal creation failed",
				"applicationId", appID, "error", cleanupErr)
		}

		return nil, err
	}

	return map[string]any{
		"application":      app,
		"servicePrincipal": sp,
	}, nil
}
