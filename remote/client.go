package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/danisworo/pos-station/models"
)

// Store is everything the station needs from the backend. Errors coming
// out of it are opaque failures with a message; callers degrade, they do
// not inspect.
type Store interface {
	FetchCatalog() ([]models.Product, error)
	CreateInvoice(inv *models.Invoice) error
	LookupRole(principalID string) (*models.RoleRecord, error)
}

// Config holds backend connection settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks JSON over HTTP to the backend.
type Client struct {
	config     *Config
	httpClient *http.Client
	mu         sync.RWMutex
	token      string
}

var (
	remoteClient *Client
	remoteOnce   sync.Once
)

// GetClient returns the singleton client configured from the environment.
func GetClient() *Client {
	remoteOnce.Do(func() {
		baseURL := os.Getenv("POS_BACKEND_URL")
		if baseURL == "" {
			baseURL = "http://localhost:8080"
		}
		remoteClient = NewClient(&Config{
			BaseURL: baseURL,
			Token:   os.Getenv("POS_BACKEND_TOKEN"),
			Timeout: 15 * time.Second,
		})
	})
	return remoteClient
}

func NewClient(config *Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	return &Client{
		config:     config,
		token:      config.Token,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// SetToken swaps the bearer token after sign-in or token refresh. Safe to
// call while requests are in flight.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequest(method, c.config.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.bearer(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read backend response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, string(raw))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		return fmt.Errorf("backend rejected %s %s: %s", method, path, env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode backend data: %w", err)
		}
	}
	return nil
}

func (c *Client) FetchCatalog() ([]models.Product, error) {
	var products []models.Product
	if err := c.do(http.MethodGet, "/api/v1/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateInvoice(inv *models.Invoice) error {
	// The backend dedupes on invoice id, so replaying after a lost
	// acknowledgment is safe.
	return c.do(http.MethodPost, "/api/v1/invoices", inv, nil)
}

func (c *Client) LookupRole(principalID string) (*models.RoleRecord, error) {
	var record models.RoleRecord
	err := c.do(http.MethodGet, "/api/v1/roles/"+principalID, nil, &record)
	if err != nil {
		return nil, err
	}
	if record.Role == "" {
		return nil, nil
	}
	return &record, nil
}
