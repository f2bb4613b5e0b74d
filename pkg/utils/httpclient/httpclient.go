package httpclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
)

var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
)

// New builds an HTTP client with the given timeout and an optional TLS
// configuration for the transport.
func New(timeout time.Duration, tlsConfig *tls.Config) *http.Client {
	client := &http.Client{Timeout: timeout}

	if tlsConfig != nil {
		client.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
	}

	return client
}

// DecodeJSON decodes the body of a successful (2xx) HTTP response into the
// provided type T. Any other status code is reported as an error carrying the
// response status line.
func DecodeJSON[T any](
	ctx context.Context,
	apiName string,
	resp *http.Response,
) (*T, error) {
	var (
		respErr error
		result  T
	)

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		respErr = json.NewDecoder(resp.Body).Decode(&result)
	} else {
		respErr = fmt.Errorf("%w %s", ErrUnexpectedStatusCode, resp.Status)
	}

	if respErr != nil {
		return nil, fmt.Errorf("invalid response from %s: %w", apiName, respErr)
	}

	return &result, nil
}

// CloseQuietly closes a response body, logging instead of returning the error.
func CloseQuietly(logger hclog.Logger, resp *http.Response) {
	if resp == nil {
		return
	}

	err := resp.Body.Close()
	if err != nil {
		logger.Error("failed to close response body", "error", err)
	}
}
