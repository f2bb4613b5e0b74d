// Package server is the inbound SCIM 2.0 REST surface. It parses requests,
// resolves the upstream token, delegates to the directory service and renders
// SCIM envelopes. All translation logic lives below it.
package server

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/samber/oops"
	"golang.org/x/oauth2"

	"github.com/openkcm/scim-gateway/internal/auth"
	"github.com/openkcm/scim-gateway/internal/directory"
	"github.com/openkcm/scim-gateway/pkg/config"
	"github.com/openkcm/scim-gateway/pkg/utils/errs"
)

var (
	ErrID           = oops.In("SCIM Gateway")
	ErrAcquireToken = errors.New("failed to acquire upstream token")
)

const (
	ApplicationSCIMJSON = "application/scim+json"
	HeaderRequestID     = "X-Request-Id"

	basePath = "/scim/v2"
)

type Server struct {
	logger      hclog.Logger
	directory   *directory.Service
	tokens      oauth2.TokenSource
	corsOrigins []string
}

// New builds the REST layer on top of a directory service. tokens may be nil,
// in which case every request must carry its own bearer token.
func New(svc *directory.Service, tokens oauth2.TokenSource, cfg *config.Config, logger hclog.Logger) *Server {
	return &Server{
		logger:      logger,
		directory:   svc,
		tokens:      tokens,
		corsOrigins: cfg.CORSOrigins,
	}
}

// Handler assembles the full router with CORS, request-ID and access-log
// middleware applied.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestIDMiddleware, s.accessLogMiddleware)

	scim := router.PathPrefix(basePath).Subrouter()

	for _, res := range s.resources() {
		s.register(scim, res)
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.corsOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
		}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	return cors(router)
}

// token resolves the upstream bearer token for a request: the inbound
// Authorization header wins, the configured client-credentials source is the
// fallback.
func (s *Server) token(r *http.Request) (string, error) {
	token, err := auth.BearerFromRequest(r)
	if err == nil {
		return token, nil
	}

	if s.tokens == nil {
		return "", err
	}

	upstream, err := s.tokens.Token()
	if err != nil {
		return "", errs.Wrap(ErrAcquireToken, err)
	}

	return upstream.AccessToken, nil
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"requestId", w.Header().Get(HeaderRequestID),
		}

		if token, err := auth.BearerFromRequest(r); err == nil {
			if subject := auth.ClaimsSubject(token); subject != "" {
				fields = append(fields, "subject", subject)
			}
		}

		s.logger.Info("handling request", fields...)
		next.ServeHTTP(w, r)
	})
}
