package graph

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/openkcm/scim-gateway/pkg/config"
	"github.com/openkcm/scim-gateway/pkg/utils/errs"
	"github.com/openkcm/scim-gateway/pkg/utils/httpclient"
	"github.com/openkcm/scim-gateway/pkg/utils/tlsconfig"
)

const (
	ApplicationJSON = "application/json"

	BasePathUsers             = "/users"
	BasePathGroups            = "/groups"
	BasePathApplications      = "/applications"
	BasePathServicePrincipals = "/servicePrincipals"

	HeaderAuthorization = "Authorization"
)

// Resource is one upstream directory object in its native JSON shape.
type Resource = map[string]any

// Client issues authenticated calls against the directory API. One HTTP call
// per invocation, no retries; failures are normalized into *Error and
// ErrUnavailable.
type Client struct {
	logger     hclog.Logger
	httpClient *http.Client
	baseURL    string
}

func NewClient(cfg *config.Config, logger hclog.Logger) (*Client, error) {
	var (
		tlsCfg *tls.Config
		err    error
	)

	if cfg.Upstream.TLS != nil {
		opts := []tlsconfig.Option{}

		if cfg.Upstream.TLS.CAFile != "" {
			opts = append(opts, tlsconfig.WithCA(cfg.Upstream.TLS.CAFile))
		}

		if cfg.Upstream.TLS.CertFile != "" && cfg.Upstream.TLS.KeyFile != "" {
			opts = append(opts, tlsconfig.WithCertAndKey(cfg.Upstream.TLS.CertFile, cfg.Upstream.TLS.KeyFile))
		}

		tlsCfg, err = tlsconfig.NewTLSConfig(opts...)
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		logger:     logger,
		httpClient: httpclient.New(cfg.Upstream.Timeout, tlsCfg),
		baseURL:    cfg.Upstream.Host,
	}, nil
}

// Get retrieves a single directory object.
func (c *Client) Get(ctx context.Context, token, basePath, id string) (Resource, error) {
	resp, err := c.do(ctx, http.MethodGet, basePath+"/"+id, token, "", nil)
	if err != nil {
		return nil, err
	}

	defer httpclient.CloseQuietly(c.logger, resp)

	err = c.checkStatus(resp)
	if err != nil {
		return nil, err
	}

	result, err := httpclient.DecodeJSON[Resource](ctx, "Graph", resp)
	if err != nil {
		return nil, err
	}

	return *result, nil
}

// List retrieves one page of directory objects plus the upstream total count
// when available.
func (c *Client) List(ctx context.Context, token, basePath string, query PageQuery) (*Page, error) {
	resp, err := c.do(ctx, http.MethodGet, basePath, token, query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	defer httpclient.CloseQuietly(c.logger, resp)

	err = c.checkStatus(resp)
	if err != nil {
		return nil, err
	}

	return httpclient.DecodeJSON[Page](ctx, "Graph", resp)
}

// Create posts a new directory object and returns the created representation.
func (c *Client) Create(ctx context.Context, token, basePath string, payload Resource) (Resource, error) {
	resp, err := c.do(ctx, http.MethodPost, basePath, token, "", payload)
	if err != nil {
		return nil, err
	}

	defer httpclient.CloseQuietly(c.logger, resp)

	err = c.checkStatus(resp)
	if err != nil {
		return nil, err
	}

	result, err := httpclient.DecodeJSON[Resource](ctx, "Graph", resp)
	if err != nil {
		return nil, err
	}

	return *result, nil
}

// Update patches a directory object. The upstream responds with no content;
// callers re-read for the canonical representation.
func (c *Client) Update(ctx context.Context, token, basePath, id string, payload Resource) error {
	resp, err := c.do(ctx, http.MethodPatch, basePath+"/"+id, token, "", payload)
	if err != nil {
		return err
	}

	defer httpclient.CloseQuietly(c.logger, resp)

	return c.checkStatus(resp)
}

// Delete removes a directory object.
func (c *Client) Delete(ctx context.Context, token, basePath, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, basePath+"/"+id, token, "", nil)
	if err != nil {
		return err
	}

	defer httpclient.CloseQuietly(c.logger, resp)

	return c.checkStatus(resp)
}

func (c *Client) do(
	ctx context.Context,
	method string,
	resourcePath string,
	token string,
	queryString string,
	payload Resource,
) (*http.Response, error) {
	var body io.Reader

	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, errs.Wrap(ErrEncodeBody, err)
		}

		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+resourcePath, body)
	if err != nil {
		return nil, errs.Wrap(ErrBuildRequest, err)
	}

	if queryString != "" {
		req.URL.RawQuery = queryString
	}

	if payload != nil {
		req.Header.Set("Content-Type", ApplicationJSON)
	}

	req.Header.Set("Accept", ApplicationJSON)
	req.Header.Set(HeaderAuthorization, "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(ErrUnavailable, err)
	}

	return resp, nil
}

// checkStatus converts a non-2xx response into a typed *Error carrying the
// upstream status code and extracted message.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		raw = nil
	}

	return &Error{
		StatusCode: resp.StatusCode,
		Message:    extractMessage(raw),
	}
}
