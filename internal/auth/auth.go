// Package auth covers the token plumbing around the gateway core: inbound
// bearer extraction and outbound client-credentials acquisition. The core
// itself only ever sees an opaque token string.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/openkcm/scim-gateway/pkg/config"
	"github.com/openkcm/scim-gateway/pkg/utils/errs"
)

var (
	ErrNoBearerToken = errors.New("request does not carry a bearer token")
	ErrNoCredentials = errors.New("no client credentials configured")
	ErrClientID      = errors.New("failed to load the client id")
	ErrClientSecret  = errors.New("failed to load the client secret")
	ErrTenantID      = errors.New("failed to load the tenant id")
)

const bearerPrefix = "Bearer "

// BearerFromRequest extracts the opaque bearer token from the Authorization
// header.
func BearerFromRequest(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")

	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrNoBearerToken
	}

	return header[len(bearerPrefix):], nil
}

// ClaimsSubject returns the subject claim of a JWT bearer token without
// verifying its signature. Used for request logging only; the gateway never
// makes authorization decisions from it.
func ClaimsSubject(token string) string {
	claims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return ""
	}

	subject, _ := claims["sub"].(string)

	return subject
}

// NewTokenSource builds a client-credentials token source against the
// directory's authority. It is used when requests do not carry their own
// upstream token. Token refresh is handled by the oauth2 transport.
func NewTokenSource(ctx context.Context, cfg *config.Config) (oauth2.TokenSource, error) {
	if cfg.Auth.Credentials.Type != commoncfg.BasicSecretType {
		return nil, ErrNoCredentials
	}

	clientID, err := commoncfg.LoadValueFromSourceRef(cfg.Auth.Credentials.Basic.Username)
	if err != nil {
		return nil, errs.Wrap(ErrClientID, err)
	}

	clientSecret, err := commoncfg.LoadValueFromSourceRef(cfg.Auth.Credentials.Basic.Password)
	if err != nil {
		return nil, errs.Wrap(ErrClientSecret, err)
	}

	tenantID, err := commoncfg.LoadValueFromSourceRef(cfg.Auth.TenantID)
	if err != nil {
		return nil, errs.Wrap(ErrTenantID, err)
	}

	credentials := clientcredentials.Config{
		ClientID:     string(clientID),
		ClientSecret: string(clientSecret),
		TokenURL:     "https://login.microsoftonline.com/" + string(tenantID) + "/oauth2/v2.0/token",
		Scopes:       cfg.Auth.Scopes,
	}

	return credentials.TokenSource(ctx), nil
}
