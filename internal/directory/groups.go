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
	ErrListGroups  = errors.New("error listing groups")
	ErrGetGroup    = errors.New("error getting group")
	ErrCreateGroup = errors.New("error creating group")
	ErrUpdateGroup = errors.New("error updating group")
	ErrDeleteGroup = errors.New("error deleting group")
)

func (s *Service) ListGroups(
	ctx context.Context,
	token string,
	scimFilter string,
	startIndex int,
	count int,
) (*paging.ListResponse, error) {
	result, err := s.list(ctx, token, graph.BasePathGroups, mapper.Group, scimFilter, startIndex, count)
	if err != nil {
		return nil, errs.Wrap(ErrListGroups, err)
	}

	return result, nil
}

func (s *Service) GetGroup(ctx context.Context, token, id string) (map[string]any, error) {
	group, err := s.get(ctx, token, graph.BasePathGroups, id, mapper.Group)
	if err != nil {
		return nil, errs.Wrap(ErrGetGroup, err)
	}

	return group, nil
}

// CreateGroup validates the payload and applies the directory's required
// group flags when the caller did not set them.
func (s *Service) CreateGroup(ctx context.Context, token string, scimGroup map[string]any) (map[string]any, error) {
	payload := mapper.Group.FromSCIM(scimGroup)

	if _, ok := payload["displayName"]; !ok {
		return nil, &ValidationError{
			Field:  "displayName",
			Detail: "Display name is required",
		}
	}

	if _, ok := payload["securityEnabled"]; !ok {
		payload["securityEnabled"] = true
	}

	if _, ok := payload["mailEnabled"]; !ok {
		payload["mailEnabled"] = false
	}

	created, err := s.create(ctx, token, graph.BasePathGroups, payload, mapper.Group)
	if err != nil {
		return nil, errs.Wrap(ErrCreateGroup, err)
	}

	return created, nil
}

func (s *Service) UpdateGroup(
	ctx context.Context,
	token string,
	id string,
	scimGroup map[string]any,
) (map[string]any, error) {
	updated, err := s.update(ctx, token, graph.BasePathGroups, id, scimGroup, mapper.Group)
	if err != nil {
		return nil, errs.Wrap(ErrUpdateGroup, err)
	}

	return updated, nil
}

func (s *Service) DeleteGroup(ctx context.Context, token, id string) error {
	err := s.delete(ctx, token, graph.BasePathGroups, id)
	if err != nil {
		return errs.Wrap(ErrDeleteGroup, err)
	}

	return nil
}
