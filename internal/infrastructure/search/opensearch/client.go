package opensearch

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/ChemReg-Ledger/internal/config"
	"github.com/turtacn/ChemReg-Ledger/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemReg-Ledger/pkg/errors"
)

var (
	ErrInvalidConfig    = errors.New(errors.ErrCodeValidation, "invalid opensearch configuration")
	ErrConnectionFailed = errors.New(errors.ErrCodeServiceUnavailable, "opensearch cluster unreachable")
)

const defaultIndexPrefix = "chemreg-"

// Client wraps the OpenSearch connection used for inventory name search.
type Client struct {
	client  *opensearch.Client
	prefix  string
	logger  logging.Logger
	healthy atomic.Bool
}

// NewClient connects to the cluster described by cfg and verifies it
// answers a ping before handing the client out.
func NewClient(cfg config.OpenSearchConfig, log logging.Logger) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, ErrInvalidConfig
	}

	transport := &http.Transport{MaxIdleConnsPerHost: 10}
	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses:     cfg.Addresses,
		Username:      cfg.User,
		Password:      cfg.Password,
		Transport:     transport,
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504, 429},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create opensearch client")
	}

	c := newClient(osClient, cfg.IndexPrefix, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		return nil, ErrConnectionFailed
	}

	return c, nil
}

// NewClientFromOS wraps an already constructed opensearch-go client.
// Used by tests that point the client at an httptest server.
func NewClientFromOS(osClient *opensearch.Client, indexPrefix string, log logging.Logger) *Client {
	return newClient(osClient, indexPrefix, log)
}

func newClient(osClient *opensearch.Client, indexPrefix string, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	prefix := strings.TrimSpace(indexPrefix)
	if prefix == "" {
		prefix = defaultIndexPrefix
	}
	if !strings.HasSuffix(prefix, "-") {
		prefix += "-"
	}
	return &Client{client: osClient, prefix: prefix, logger: log}
}

// IndexName prepends the configured index prefix to suffix.
func (c *Client) IndexName(suffix string) string {
	return c.prefix + suffix
}

// Ping checks cluster reachability and updates the health flag.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.client.Ping(c.client.Ping.WithContext(ctx))
	if err != nil {
		c.healthy.Store(false)
		c.logger.Warn("opensearch ping failed", logging.Err(err))
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		c.healthy.Store(false)
		c.logger.Warn("opensearch ping returned error status", logging.Int("status", resp.StatusCode))
		return errors.Newf(errors.ErrCodeServiceUnavailable, "ping returned status %d", resp.StatusCode)
	}

	c.healthy.Store(true)
	return nil
}

// IsHealthy reports the result of the most recent ping.
func (c *Client) IsHealthy() bool {
	return c.healthy.Load()
}

// GetClient exposes the underlying opensearch-go client.
func (c *Client) GetClient() *opensearch.Client {
	return c.client
}

// decodeError extracts the reason string from an OpenSearch error body.
func decodeError(resp *opensearchapi.Response, msg string) error {
	var errResp struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	body, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Reason != "" {
		return errors.Newf(errors.ErrCodeInternal, "%s: %s - %s", msg, errResp.Error.Type, errResp.Error.Reason)
	}
	return errors.Newf(errors.ErrCodeInternal, "%s: status %d", msg, resp.StatusCode)
}
