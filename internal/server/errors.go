package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/openkcm/scim-gateway/internal/auth"
	"github.com/openkcm/scim-gateway/internal/directory"
	"github.com/openkcm/scim-gateway/internal/paging"
	"github.com/openkcm/scim-gateway/pkg/clients/graph"
)

const SchemaError = "urn:ietf:params:scim:api:messages:2.0:Error"

// errorResponse is the SCIM error envelope. Status is a string per RFC 7644.
type errorResponse struct {
	Schemas []string `json:"schemas"`
	Status  string   `json:"status"`
	Detail  string   `json:"detail"`
}

// classify maps an error from the gateway core to an HTTP status and the
// detail message to expose to the SCIM client.
func classify(err error) (int, string) {
	var validationErr *directory.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Detail
	}

	if errors.Is(err, paging.ErrUnsupported) {
		return http.StatusBadRequest, paging.ErrUnsupported.Error()
	}

	if errors.Is(err, ErrInvalidBody) {
		return http.StatusBadRequest, ErrInvalidBody.Error()
	}

	if errors.Is(err, auth.ErrNoBearerToken) {
		return http.StatusUnauthorized, "Not authenticated"
	}

	if errors.Is(err, ErrAcquireToken) {
		return http.StatusServiceUnavailable, ErrAcquireToken.Error()
	}

	var graphErr *graph.Error
	if errors.As(err, &graphErr) {
		return graphErr.StatusCode, graphErr.Error()
	}

	if errors.Is(err, graph.ErrUnavailable) {
		return http.StatusServiceUnavailable, graph.ErrUnavailable.Error()
	}

	return http.StatusInternalServerError, err.Error()
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := classify(err)

	s.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"error", ErrID.Wrap(err),
	)

	writeJSON(s.logger, w, status, errorResponse{
		Schemas: []string{SchemaError},
		Status:  strconv.Itoa(status),
		Detail:  detail,
	})
}

func writeJSON(logger hclog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", ApplicationSCIMJSON)
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
