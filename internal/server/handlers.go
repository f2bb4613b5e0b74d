package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/openkcm/scim-gateway/internal/paging"
)

var ErrInvalidBody = errors.New("request body is not a valid SCIM resource")

const (
	defaultStartIndex = 1
	defaultCount      = 100
)

// resource binds one SCIM resource type to the directory operations serving
// it. Users, Groups, Applications and ServicePrincipals all share the same
// route shape.
type resource struct {
	name   string
	list   func(ctx context.Context, token, filter string, startIndex, count int) (*paging.ListResponse, error)
	get    func(ctx context.Context, token, id string) (map[string]any, error)
	create func(ctx context.Context, token string, attrs map[string]any) (map[string]any, error)
	update func(ctx context.Context, token, id string, attrs map[string]any) (map[string]any, error)
	delete func(ctx context.Context, token, id string) error
}

func (s *Server) resources() []resource {
	return []resource{
		{
			name:   "Users",
			list:   s.directory.ListUsers,
			get:    s.directory.GetUser,
			create: s.directory.CreateUser,
			update: s.directory.UpdateUser,
			delete: s.directory.DeleteUser,
		},
		{
			name:   "Groups",
			list:   s.directory.ListGroups,
			get:    s.directory.GetGroup,
			create: s.directory.CreateGroup,
			update: s.directory.UpdateGroup,
			delete: s.directory.DeleteGroup,
		},
		{
			name:   "Applications",
			list:   s.directory.ListApplications,
			get:    s.directory.GetApplication,
			create: s.createApplication,
			update: s.directory.UpdateApplication,
			delete: s.directory.DeleteApplication,
		},
		{
			name:   "ServicePrincipals",
			list:   s.directory.ListServicePrincipals,
			get:    s.directory.GetServicePrincipal,
			create: s.directory.CreateServicePrincipal,
			update: s.directory.UpdateServicePrincipal,
			delete: s.directory.DeleteServicePrincipal,
		},
	}
}

func (s *Server) register(router *mux.Router, res resource) {
	collection := "/" + res.name
	item := collection + "/{id}"

	router.HandleFunc(collection, s.handleList(res)).Methods(http.MethodGet)
	router.HandleFunc(collection, s.handleCreate(res)).Methods(http.MethodPost)
	router.HandleFunc(item, s.handleGet(res)).Methods(http.MethodGet)
	router.HandleFunc(item, s.handleUpdate(res)).Methods(http.MethodPut, http.MethodPatch)
	router.HandleFunc(item, s.handleDelete(res)).Methods(http.MethodDelete)
}

func (s *Server) handleList(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := s.token(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		query := r.URL.Query()
		startIndex := intParam(query.Get("startIndex"), defaultStartIndex)
		count := intParam(query.Get("count"), defaultCount)

		result, err := res.list(r.Context(), token, query.Get("filter"), startIndex, count)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(s.logger, w, http.StatusOK, result)
	}
}

func (s *Server) handleGet(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := s.token(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		result, err := res.get(r.Context(), token, mux.Vars(r)["id"])
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(s.logger, w, http.StatusOK, result)
	}
}

func (s *Server) handleCreate(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := s.token(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		attrs, err := decodeBody(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		result, err := res.create(r.Context(), token, attrs)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(s.logger, w, http.StatusCreated, result)
	}
}

func (s *Server) handleUpdate(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := s.token(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		attrs, err := decodeBody(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		result, err := res.update(r.Context(), token, mux.Vars(r)["id"], attrs)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		writeJSON(s.logger, w, http.StatusOK, result)
	}
}

func (s *Server) handleDelete(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := s.token(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		err = res.delete(r.Context(), token, mux.Vars(r)["id"])
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// createApplication also provisions a service principal when the request asks
// for it via ?withServicePrincipal=true. The directory service compensates by
// deleting the application if the second step fails.
func (s *Server) createApplication(ctx context.Context, token string, attrs map[string]any) (map[string]any, error) {
	withSP, ok := attrs["withServicePrincipal"].(bool)
	if ok {
		delete(attrs, "withServicePrincipal")
	}

	if withSP {
		return s.directory.CreateApplicationWithServicePrincipal(ctx, token, attrs)
	}

	return s.directory.CreateApplication(ctx, token, attrs)
}

func decodeBody(r *http.Request) (map[string]any, error) {
	var attrs map[string]any

	err := json.NewDecoder(r.Body).Decode(&attrs)
	if err != nil {
		return nil, ErrInvalidBody
	}

	return attrs, nil
}

func intParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}
