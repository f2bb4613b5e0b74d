package directory

import (
	"context"
	"errors"

	"github.com/openkcm/scim-gateway/internal/mapper"
	"github.com/openkcm/scim-gateway/internal/paging"
	"github.com/openkcm/scim-gateway/pkg/clients/graph"
	"github.com/openkcm/scim-gateway/pkg/utils/errs"
	"github.com/openkcm/scim-gateway/pkg/utils/secrets"
)

var (
	ErrListUsers  = errors.New("error listing users")
	ErrGetUser    = errors.New("error getting user")
	ErrCreateUser = errors.New("error creating user")
	ErrUpdateUser = errors.New("error updating user")
	ErrDeleteUser = errors.New("error deleting user")
)

func (s *Service) ListUsers(
	ctx context.Context,
	token string,
	scimFilter string,
	startIndex int,
	count int,
) (*paging.ListResponse, error) {
	result, err := s.list(ctx, token, graph.BasePathUsers, mapper.User, scimFilter, startIndex, count)
	if err != nil {
		return nil, errs.Wrap(ErrListUsers, err)
	}

	return result, nil
}

func (s *Service) GetUser(ctx context.Context, token, id string) (map[string]any, error) {
	user, err := s.get(ctx, token, graph.BasePathUsers, id, mapper.User)
	if err != nil {
		return nil, errs.Wrap(ErrGetUser, err)
	}

	return user, nil
}

// CreateUser validates the payload and synthesizes a one-time password
// profile before the upstream call. The user must change the generated
// password on first sign-in.
func (s *Service) CreateUser(ctx context.Context, token string, scimUser map[string]any) (map[string]any, error) {
	payload := mapper.User.FromSCIM(scimUser)

	if _, ok := payload["userPrincipalName"]; !ok {
		return nil, &ValidationError{
			Field:  "userName",
			Detail: "Username (userPrincipalName) is required",
		}
	}

	if _, ok := payload["passwordProfile"]; !ok {
		password, err := secrets.TemporaryPassword()
		if err != nil {
			return nil, errs.Wrap(ErrCreateUser, err)
		}

		payload["passwordProfile"] = map[string]any{
			"forceChangePasswordNextSignIn": true,
			"password":                      password,
		}
	}

	created, err := s.create(ctx, token, graph.BasePathUsers, payload, mapper.User)
	if err != nil {
		return nil, errs.Wrap(ErrCreateUser, err)
	}

	return created, nil
}

func (s *Service) UpdateUser(
	ctx context.Context,
	token string,
	id string,
	scimUser map[string]any,
) (map[string]any, error) {
	updated, err := s.update(ctx, token, graph.BasePathUsers, id, scimUser, mapper.User)
	if err != nil {
		return nil, errs.Wrap(ErrUpdateUser, err)
	}

	return updated, nil
}

func (s *Service) DeleteUser(ctx context.Context, token, id string) error {
	err := s.delete(ctx, token, graph.BasePathUsers, id)
	if err != nil {
		return errs.Wrap(ErrDeleteUser, err)
	}

	return nil
}
