// Package remote is the HTTP client of the remote table service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/offlinesync/internal/models"
	"github.com/iudanet/offlinesync/pkg/api"
)

// DefaultTimeout используется, если таймаут не задан
const DefaultTimeout = 30 * time.Second

// Page is one page of a table read.
type Page struct {
	Link  *Link
	Count *int64
	Items []models.Item
}

// Client представляет HTTP клиент сервера таблиц
type Client struct {
	httpClient  *http.Client
	logger      *slog.Logger
	now         func() time.Time
	baseURL     string
	accessToken string
}

// Option configures a Client
type Option func(*Client)

// WithAccessToken sets the bearer token sent with every request
func WithAccessToken(token string) Option {
	return func(c *Client) { c.accessToken = token }
}

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithLogger enables request logging
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTransport replaces the underlying transport
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = rt }
}

// NewClient создает новый клиент сервера таблиц
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger != nil {
		c.httpClient.Transport = newLoggingTransport(c.httpClient.Transport, c.logger)
	}
	return c
}

func (c *Client) tableURL(table string, id string) string {
	u := c.baseURL + "/tables/" + url.PathEscape(table)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

// Insert creates the item on the server and returns the stored server version
func (c *Client) Insert(ctx context.Context, table string, item models.Item) (models.Item, error) {
	body, _, err := c.doRequest(ctx, http.MethodPost, c.tableURL(table, ""), api.FeatureOffline, "", item)
	if err != nil {
		return nil, fmt.Errorf("insert into %s failed: %w", table, err)
	}
	return decodeItem(body)
}

// Update replaces the item on the server. The item version, when present,
// is sent as If-Match so the server can detect conflicting writes.
func (c *Client) Update(ctx context.Context, table string, item models.Item) (models.Item, error) {
	body, _, err := c.doRequest(ctx, http.MethodPatch, c.tableURL(table, item.ID()), api.FeatureOffline, item.Version(), item)
	if err != nil {
		return nil, fmt.Errorf("update %s/%s failed: %w", table, item.ID(), err)
	}
	return decodeItem(body)
}

// Delete removes the item on the server, guarded by If-Match like Update
func (c *Client) Delete(ctx context.Context, table string, item models.Item) error {
	_, _, err := c.doRequest(ctx, http.MethodDelete, c.tableURL(table, item.ID()), api.FeatureOffline, item.Version(), nil)
	if err != nil {
		return fmt.Errorf("delete %s/%s failed: %w", table, item.ID(), err)
	}
	return nil
}

// Read requests one page of table with the given query parameters
func (c *Client) Read(ctx context.Context, table string, params url.Values, features api.Features) (*Page, error) {
	u := c.tableURL(table, "")
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return c.readPage(ctx, u, features)
}

// ReadLink requests the page a server supplied link points at, verbatim
func (c *Client) ReadLink(ctx context.Context, link string, features api.Features) (*Page, error) {
	target, err := c.resolve(link)
	if err != nil {
		return nil, err
	}
	return c.readPage(ctx, target, features)
}

func (c *Client) resolve(link string) (string, error) {
	ref, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid next link %q: %w", link, err)
	}
	if ref.IsAbs() {
		return link, nil
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (c *Client) readPage(ctx context.Context, u string, features api.Features) (*Page, error) {
	body, header, err := c.doRequest(ctx, http.MethodGet, u, features, "", nil)
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}

	page := &Page{Link: ParseLink(header.Get(api.HeaderLink))}

	// Ответ: либо массив, либо {"results": [...], "count": n}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &page.Items); err != nil {
			return nil, fmt.Errorf("failed to decode page: %w", err)
		}
		return page, nil
	}

	var resp api.PageResponse
	if len(trimmed) > 0 {
		if err := json.Unmarshal(trimmed, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode page: %w", err)
		}
	}
	page.Count = resp.Count
	page.Items = make([]models.Item, 0, len(resp.Results))
	for _, r := range resp.Results {
		page.Items = append(page.Items, models.Item(r))
	}
	return page, nil
}

// doRequest выполняет HTTP запрос и возвращает тело ответа
func (c *Client) doRequest(ctx context.Context, method, u string, features api.Features, ifMatch string, body any) ([]byte, http.Header, error) {
	if err := checkAccessToken(c.accessToken, c.now()); err != nil {
		return nil, nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(api.HeaderAPIVersion, api.APIVersion)
	req.Header.Set("Accept", "application/json")
	if codes := features.String(); codes != "" {
		req.Header.Set(api.HeaderFeatures, codes)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ifMatch != "" {
		req.Header.Set(api.HeaderIfMatch, `"`+ifMatch+`"`)
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Отмена контекста не считается сетевой ошибкой
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, ctxErr
		}
		return nil, nil, fmt.Errorf("%w: failed to read response body: %w", ErrNetwork, err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, newHTTPError(resp.StatusCode, respBody)
	}

	return respBody, resp.Header, nil
}

func newHTTPError(status int, body []byte) *HTTPError {
	httpErr := &HTTPError{StatusCode: status, Body: string(bytes.TrimSpace(body))}

	var item models.Item
	if err := json.Unmarshal(body, &item); err == nil && item != nil {
		// Ответ с описанием ошибки, а не записью
		var errResp api.ErrorResponse
		if item.ID() == "" && json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return httpErr
		}
		httpErr.Item = item
	}
	return httpErr
}

func decodeItem(body []byte) (models.Item, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var item models.Item
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return item, nil
}

// IsNotFound reports whether err is a 404 response
func IsNotFound(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}
