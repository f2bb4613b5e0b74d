package config

import (
	"errors"
	"os"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"gopkg.in/yaml.v3"

	"github.com/openkcm/scim-gateway/pkg/utils/errs"
)

// PaginationMode selects how list requests bridge SCIM startIndex/count onto
// the upstream skip/top parameters.
const (
	PaginationFull          = "full"
	PaginationFirstPageOnly = "first-page-only"
)

const (
	defaultListenAddress = ":8080"
	defaultUpstreamHost  = "https://graph.microsoft.com/v1.0"
	defaultTimeout       = 30 * time.Second
	defaultScope         = "https://graph.microsoft.com/.default"
)

var (
	ErrReadConfigFile    = errors.New("failed to read config file")
	ErrParseConfigFile   = errors.New("failed to parse config file")
	ErrNoTenantID        = errors.New("auth tenant id is required")
	ErrUnsupportedAuth   = errors.New("only basic client credentials are supported")
	ErrInvalidPagination = errors.New("pagination mode must be full or first-page-only")
)

// TLS references PEM files used for the upstream transport. All fields are
// optional.
type TLS struct {
	CAFile   string `yaml:"caFile"`
	CertFile string `yaml:"certFile"`
	KeyFile  string `yaml:"keyFile"`
}

// Upstream describes the directory API the gateway translates into.
type Upstream struct {
	Host    string        `yaml:"host"`
	Timeout time.Duration `yaml:"timeout"`
	TLS     *TLS          `yaml:"tls"`
}

// Auth holds the client-credentials material used to acquire upstream tokens
// when the inbound request does not carry its own bearer token.
type Auth struct {
	TenantID    commoncfg.SourceRef `yaml:"tenantId"`
	Credentials commoncfg.SecretRef `yaml:"credentials"`
	Scopes      []string            `yaml:"scopes"`
}

type Config struct {
	AppName       string   `yaml:"appName"`
	ListenAddress string   `yaml:"listenAddress"`
	CORSOrigins   []string `yaml:"corsOrigins"`
	Pagination    string   `yaml:"pagination"`
	Upstream      Upstream `yaml:"upstream"`
	Auth          Auth     `yaml:"auth"`
}

// LoadFromFile reads and validates the gateway configuration. The result is
// built once at process start and passed by reference to every collaborator.
func LoadFromFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(ErrReadConfigFile, err)
	}

	cfg := &Config{}

	err = yaml.Unmarshal(raw, cfg)
	if err != nil {
		return nil, errs.Wrap(ErrParseConfigFile, err)
	}

	cfg.applyDefaults()

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "scim-gateway"
	}

	if c.ListenAddress == "" {
		c.ListenAddress = defaultListenAddress
	}

	if c.Upstream.Host == "" {
		c.Upstream.Host = defaultUpstreamHost
	}

	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = defaultTimeout
	}

	if c.Pagination == "" {
		c.Pagination = PaginationFull
	}

	if len(c.Auth.Scopes) == 0 {
		c.Auth.Scopes = []string{defaultScope}
	}

	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
}

func (c *Config) Validate() error {
	if c.Pagination != PaginationFull && c.Pagination != PaginationFirstPageOnly {
		return ErrInvalidPagination
	}

	if c.Auth.Credentials.Type != "" && c.Auth.Credentials.Type != commoncfg.BasicSecretType {
		return ErrUnsupportedAuth
	}

	if c.Auth.Credentials.Type == commoncfg.BasicSecretType && c.Auth.TenantID.Source == "" {
		return ErrNoTenantID
	}

	return nil
}
