package adminapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"github.com/goccy/go-json"

	"github.com/studiowebux/adminctl/internal/types"
)

// HeaderAdminKey carries the administrator credential on every call
const HeaderAdminKey = "X-Admin-Key"

// maxErrorBody bounds how much of a failed response is read for its message
const maxErrorBody = 64 << 10

// CredentialSource yields the current admin key, or ErrMissingCredential
type CredentialSource interface {
	Credential() (string, error)
}

// Options configures a Client
type Options struct {
	BaseURL   string
	Timeout   time.Duration // 0 means no client-side timeout
	UserAgent string
	Logger    *slog.Logger
	// HTTPClient overrides the default client (tests)
	HTTPClient *http.Client
}

// Client talks to the /admin endpoints of the API
type Client struct {
	baseURL   string
	userAgent string
	creds     CredentialSource
	http      *http.Client
	logger    *slog.Logger
}

// New creates a Client. Redirects are not followed: a 3xx answer to a
// mutating call already means the server accepted it.
func New(opts Options, creds CredentialSource) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "adminctl"
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: ua,
		creds:     creds,
		http:      hc,
		logger:    logger,
	}
}

// BaseURL returns the API root the client targets
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) endpoint(format string, args ...any) string {
	return c.baseURL + fmt.Sprintf(format, args...)
}

// do attaches the credential and shared settings, runs the request and
// maps the outcome onto the error taxonomy.
func (c *Client) do(ctx context.Context, op string, rb *requests.Builder) error {
	cred, err := c.creds.Credential()
	if err != nil {
		return err
	}

	start := time.Now()
	err = rb.
		Client(c.http).
		UserAgent(c.userAgent).
		Header(HeaderAdminKey, cred).
		AddValidator(checkResponse).
		Fetch(ctx)
	err = classify(op, err)

	if err != nil {
		c.logger.Debug("admin api call failed", "op", op, "duration", time.Since(start), "error", err)
	} else {
		c.logger.Debug("admin api call", "op", op, "duration", time.Since(start))
	}
	return err
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ue *UnauthorizedError
		re *RemoteError
	)
	if errors.As(err, &ue) {
		return ue
	}
	if errors.As(err, &re) {
		return re
	}
	return &TransportError{Op: op, Err: err}
}

// errorBody is the shape of failure payloads; either field may be set
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// checkResponse accepts 2xx and 3xx, and turns anything else into a typed error
func checkResponse(res *http.Response) error {
	if res.StatusCode >= 200 && res.StatusCode < 400 {
		return nil
	}

	var body errorBody
	_ = json.NewDecoder(io.LimitReader(res.Body, maxErrorBody)).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = body.Message
	}

	if res.StatusCode == http.StatusForbidden {
		return &UnauthorizedError{Message: msg}
	}
	return &RemoteError{Status: res.StatusCode, Message: msg}
}

// decodeJSON decodes a success body with go-json
func decodeJSON(v any) func(*http.Response) error {
	return func(res *http.Response) error {
		if err := json.NewDecoder(res.Body).Decode(v); err != nil {
			return &RemoteError{Status: res.StatusCode, Message: "malformed response from admin API", Err: err}
		}
		return nil
	}
}

// decodeAction decodes an ActionResult and requires success: true
func decodeAction(out *types.ActionResult, fallback string) func(*http.Response) error {
	return func(res *http.Response) error {
		if err := decodeJSON(out)(res); err != nil {
			return err
		}
		if !out.Succeeded() {
			msg := out.Error
			if msg == "" {
				msg = out.Message
			}
			if msg == "" {
				msg = fallback
			}
			return &RemoteError{Status: res.StatusCode, Message: msg}
		}
		return nil
	}
}

// Stats fetches the aggregate counters
func (c *Client) Stats(ctx context.Context) (*types.Stats, error) {
	var stats types.Stats
	rb := requests.URL(c.endpoint("/admin/stats")).Handle(decodeJSON(&stats))
	if err := c.do(ctx, "stats", rb); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Payments fetches the pending payment queue
func (c *Client) Payments(ctx context.Context) ([]types.Payment, error) {
	var resp types.PaymentsResponse
	rb := requests.URL(c.endpoint("/admin/payments")).Handle(decodeJSON(&resp))
	if err := c.do(ctx, "payments", rb); err != nil {
		return nil, err
	}
	return resp.Payments, nil
}

// ApprovePayment settles a pending payment
func (c *Client) ApprovePayment(ctx context.Context, id int) error {
	rb := requests.URL(c.endpoint("/admin/payments/%d/approve", id)).Method(http.MethodPost)
	return c.do(ctx, "approve payment", rb)
}

// RejectPayment voids a pending payment
func (c *Client) RejectPayment(ctx context.Context, id int) error {
	rb := requests.URL(c.endpoint("/admin/payments/%d/reject", id)).Method(http.MethodPost)
	return c.do(ctx, "reject payment", rb)
}

// Users fetches one page of users, optionally filtered by search
func (c *Client) Users(ctx context.Context, page, perPage int, search string) (*types.UsersPage, error) {
	var resp types.UsersPage
	rb := requests.URL(c.endpoint("/admin/users")).
		Param("page", strconv.Itoa(page)).
		Param("per_page", strconv.Itoa(perPage)).
		Handle(decodeJSON(&resp))
	if search != "" {
		rb.Param("search", search)
	}
	if err := c.do(ctx, "users", rb); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteUser removes an account and returns the server message
func (c *Client) DeleteUser(ctx context.Context, id int) (string, error) {
	var res types.ActionResult
	rb := requests.URL(c.endpoint("/admin/users/%d/delete", id)).
		Method(http.MethodPost).
		Header("X-Requested-With", "XMLHttpRequest").
		Handle(decodeAction(&res, "Failed to delete user"))
	if err := c.do(ctx, "delete user", rb); err != nil {
		return "", err
	}
	return res.Text(), nil
}

// ChangeTier sets a user's tier with optional admin notes
func (c *Client) ChangeTier(ctx context.Context, id int, tier types.Tier, notes string) (string, error) {
	form := url.Values{}
	form.Set("user_id", strconv.Itoa(id))
	form.Set("tier", string(tier))
	form.Set("notes", notes)

	var res types.ActionResult
	rb := requests.URL(c.endpoint("/admin/users/change-tier")).
		Method(http.MethodPost).
		BodyForm(form).
		Handle(decodeAction(&res, "Failed to change tier"))
	if err := c.do(ctx, "change tier", rb); err != nil {
		return "", err
	}
	return res.Text(), nil
}

// CreateKey issues a new API key; the plaintext key is only returned here
func (c *Client) CreateKey(ctx context.Context, req types.CreateKeyRequest) (*types.CreatedKey, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode key request: %w", err)
	}

	var key types.CreatedKey
	rb := requests.URL(c.endpoint("/admin/keys/create")).
		Method(http.MethodPost).
		BodyBytes(body).
		ContentType("application/json").
		Handle(decodeJSON(&key))
	if err := c.do(ctx, "create key", rb); err != nil {
		return nil, err
	}
	if key.APIKey == "" {
		return nil, &RemoteError{Status: http.StatusOK, Message: "admin API returned no api_key"}
	}
	return &key, nil
}

// KeyInfo lists keys whose prefix matches
func (c *Client) KeyInfo(ctx context.Context, prefix string) (*types.KeyInfo, error) {
	var info types.KeyInfo
	rb := requests.URL(c.endpoint("/admin/keys/%s/info", url.PathEscape(prefix))).Handle(decodeJSON(&info))
	if err := c.do(ctx, "key info", rb); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeactivateKey disables every key matching prefix
func (c *Client) DeactivateKey(ctx context.Context, prefix string) (string, error) {
	var res types.ActionResult
	rb := requests.URL(c.endpoint("/admin/keys/%s/deactivate", url.PathEscape(prefix))).
		Method(http.MethodPost).
		Handle(decodeAction(&res, "Failed to deactivate key"))
	if err := c.do(ctx, "deactivate key", rb); err != nil {
		return "", err
	}
	return res.Text(), nil
}

// KeyUsage returns request counts for a key
func (c *Client) KeyUsage(ctx context.Context, prefix string) (*types.KeyUsage, error) {
	var usage types.KeyUsage
	rb := requests.URL(c.endpoint("/admin/keys/%s/usage", url.PathEscape(prefix))).Handle(decodeJSON(&usage))
	if err := c.do(ctx, "key usage", rb); err != nil {
		return nil, err
	}
	return &usage, nil
}

// StaticKey is a fixed credential, e.g. read once from the environment
type StaticKey string

// Credential returns the key, or ErrMissingCredential when blank
func (k StaticKey) Credential() (string, error) {
	key := strings.TrimSpace(string(k))
	if key == "" {
		return "", ErrMissingCredential
	}
	return key, nil
}
