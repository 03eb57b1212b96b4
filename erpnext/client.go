package erpnext

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client defines the ERPNext REST operations the importer uses. All
// document payloads are generic maps because the field set varies with the
// site's custom fields.
type Client interface {
	TestConnection(ctx context.Context) (string, error)
	ItemExists(ctx context.Context, code string) (bool, error)
	GetItem(ctx context.Context, code string) (map[string]any, error)
	CreateItem(ctx context.Context, record map[string]any) error
	UpdateItem(ctx context.Context, code string, record map[string]any) error
	DeleteItem(ctx context.Context, code string) error
	CreateItemPrice(ctx context.Context, code string, rate float64) error
	ItemGroupExists(ctx context.Context, name string) (bool, error)
	CreateItemGroup(ctx context.Context, name, parent string) error
	EnsureAttribute(ctx context.Context, attribute Attribute) error
	CreateVariant(ctx context.Context, variant Variant) error
	ListItems(ctx context.Context, fields []string, filters map[string]any) ([]map[string]any, error)
	CustomFields(ctx context.Context, doctype string) ([]CustomField, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig carries the connection settings for one ERPNext site. API
// key and secret form the static token pair of an ERPNext API user.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	APISecret  string
	UserAgent  string
	PriceList  string
	Timeout    time.Duration
	HTTPClient httpDoer
}

// HTTPClient talks to one ERPNext site. It keeps process-local existence
// caches for items, item groups and attributes, so it is meant for one
// sequential import run and is not safe for concurrent use.
type HTTPClient struct {
	baseURL    string
	authToken  string
	userAgent  string
	priceList  string
	httpClient httpDoer

	itemCache      map[string]bool
	groupCache     map[string]bool
	attributeCache map[string]bool
}

const defaultPriceList = "Standard Selling"

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.APISecret) == "" {
		return nil, errors.New("API key and secret are required")
	}

	doer := cfg.HTTPClient
	if doer == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		doer = &http.Client{Timeout: timeout}
	}

	priceList := strings.TrimSpace(cfg.PriceList)
	if priceList == "" {
		priceList = defaultPriceList
	}

	return &HTTPClient{
		baseURL:        baseURL,
		authToken:      fmt.Sprintf("token %s:%s", strings.TrimSpace(cfg.APIKey), strings.TrimSpace(cfg.APISecret)),
		userAgent:      strings.TrimSpace(cfg.UserAgent),
		priceList:      priceList,
		httpClient:     doer,
		itemCache:      make(map[string]bool),
		groupCache:     make(map[string]bool),
		attributeCache: make(map[string]bool),
	}, nil
}

// APIError is a decoded ERPNext error response.
type APIError struct {
	StatusCode int
	ExcType    string
	Message    string
}

func (e *APIError) Error() string {
	if e.ExcType != "" {
		return fmt.Sprintf("erpnext: %s (%d): %s", e.ExcType, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("erpnext: status %d: %s", e.StatusCode, e.Message)
}

// IsDuplicate reports whether err is the duplicate-entry rejection ERPNext
// raises when a document name already exists.
func IsDuplicate(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ExcType == "DuplicateEntryError"
}

// IsNotFound reports whether err is a missing-document response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusNotFound || apiErr.ExcType == "DoesNotExistError")
}

// TestConnection resolves the authenticated user, verifying URL and token
// in one round trip.
func (c *HTTPClient) TestConnection(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/method/frappe.auth.get_logged_user", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

type docResponse struct {
	Data map[string]any `json:"data"`
}

type listResponse struct {
	Data []map[string]any `json:"data"`
}

func (c *HTTPClient) docExists(ctx context.Context, cache map[string]bool, doctype, name string) (bool, error) {
	if exists, ok := cache[name]; ok {
		return exists, nil
	}
	err := c.doJSON(ctx, http.MethodGet, resourcePath(doctype, name)+"?fields=[\"name\"]", nil, nil)
	if err != nil {
		if IsNotFound(err) {
			cache[name] = false
			return false, nil
		}
		return false, err
	}
	cache[name] = true
	return true, nil
}

func resourcePath(doctype, name string) string {
	path := "/api/resource/" + url.PathEscape(doctype)
	if name != "" {
		path += "/" + url.PathEscape(name)
	}
	return path
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpointPath string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpointPath, bodyReader)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, endpointPath, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.authToken)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, endpointPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response %s %s: %w", method, endpointPath, err)
	}
	return nil
}

// decodeAPIError extracts the human part of an ERPNext error body. Server
// messages arrive double encoded: a JSON list of JSON strings, each
// usually holding a {"message": ...} object.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 16384))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var envelope struct {
		ExcType        string          `json:"exc_type"`
		Exception      string          `json:"exception"`
		Message        json.RawMessage `json:"message"`
		ServerMessages string          `json:"_server_messages"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		apiErr.Message = strings.TrimSpace(string(raw))
		return apiErr
	}

	apiErr.ExcType = envelope.ExcType
	if apiErr.ExcType == "" && envelope.Exception != "" {
		if name, _, found := strings.Cut(envelope.Exception, ":"); found {
			parts := strings.Split(strings.TrimSpace(name), ".")
			apiErr.ExcType = parts[len(parts)-1]
		}
	}

	if message := serverMessage(envelope.ServerMessages); message != "" {
		apiErr.Message = message
	} else if len(envelope.Message) > 0 {
		var asString string
		if json.Unmarshal(envelope.Message, &asString) == nil {
			apiErr.Message = asString
		} else {
			apiErr.Message = string(envelope.Message)
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}

func serverMessage(encoded string) string {
	if encoded == "" {
		return ""
	}
	var entries []string
	if err := json.Unmarshal([]byte(encoded), &entries); err != nil || len(entries) == 0 {
		return ""
	}

	messages := make([]string, 0, len(entries))
	for _, entry := range entries {
		var inner struct {
			Message string `json:"message"`
		}
		if json.Unmarshal([]byte(entry), &inner) == nil && inner.Message != "" {
			messages = append(messages, inner.Message)
			continue
		}
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			messages = append(messages, trimmed)
		}
	}
	return strings.Join(messages, "; ")
}
