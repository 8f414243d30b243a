package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/handler"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/linking"
)

// APIError is a non-2xx answer from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return ErrMsgAPIPrefix + e.Message
}

// Client talks to the bee name REST API on behalf of the chat bots
type Client struct {
	BaseURL string
	APIKey  string
	http    *resty.Client
}

// New creates a client for the API at baseURL. apiKey may be empty when only
// public routes are used.
func New(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")

	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetRetryCount(DefaultRetryCount).
		SetRetryWaitTime(DefaultRetryWait).
		SetRetryMaxWaitTime(DefaultRetryMaxWait).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			// only reads are replayed on 5xx; writes and link verdicts are final
			if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
				return false
			}
			return resp.StatusCode() >= 500
		})
	if apiKey != "" {
		c.SetHeader(HeaderAPIKey, apiKey)
	}

	return &Client{BaseURL: baseURL, APIKey: apiKey, http: c}
}

// SetTimeout overrides the per-request timeout
func (c *Client) SetTimeout(d time.Duration) *Client {
	c.http.SetTimeout(d)
	return c
}

// SetRetryCount overrides how often failed reads are retried
func (c *Client) SetRetryCount(n int) *Client {
	c.http.SetRetryCount(n)
	return c
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&handler.ErrorResponse{})
}

func check(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	msg := fmt.Sprintf(ErrMsgUnexpected, resp.StatusCode())
	if e, ok := resp.Error().(*handler.ErrorResponse); ok && e.Error != "" {
		msg = e.Error
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: msg}
}

func (c *Client) nameCall(ctx context.Context, method, path, name string) (string, error) {
	var out handler.NameResponse
	req := c.request(ctx).SetResult(&out)
	if name != "" {
		req.SetPathParam("name", name)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return "", fmt.Errorf(ErrMsgRequestFailed, path, err)
	}
	if err := check(resp); err != nil {
		return "", err
	}
	return out.Name, nil
}

// Health returns nil when the API answers its liveness check
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.request(ctx).Get(PathHealth)
	if err != nil {
		return fmt.Errorf(ErrMsgRequestFailed, PathHealth, err)
	}
	return check(resp)
}

// RandomName returns a random bee name
func (c *Client) RandomName(ctx context.Context) (string, error) {
	return c.nameCall(ctx, http.MethodGet, PathName, "")
}

// UploadName adds a bee name
func (c *Client) UploadName(ctx context.Context, name string) (string, error) {
	return c.nameCall(ctx, http.MethodPost, PathNameParam, name)
}

// DeleteName removes a bee name
func (c *Client) DeleteName(ctx context.Context, name string) (string, error) {
	return c.nameCall(ctx, http.MethodDelete, PathNameParam, name)
}

// SubmitSuggestion queues a bee name for moderation
func (c *Client) SubmitSuggestion(ctx context.Context, name string) (string, error) {
	return c.nameCall(ctx, http.MethodPost, PathSuggestionParam, name)
}

// AcceptSuggestion promotes a suggestion to the name list
func (c *Client) AcceptSuggestion(ctx context.Context, name string) (string, error) {
	return c.nameCall(ctx, http.MethodPut, PathSuggestionParam, name)
}

// RejectSuggestion discards a suggestion
func (c *Client) RejectSuggestion(ctx context.Context, name string) (string, error) {
	return c.nameCall(ctx, http.MethodDelete, PathSuggestionParam, name)
}

// Suggestions returns up to amount pending suggestions, oldest first
func (c *Client) Suggestions(ctx context.Context, amount int) ([]string, error) {
	var out handler.NamesResponse
	resp, err := c.request(ctx).
		SetResult(&out).
		SetPathParam("amount", strconv.Itoa(amount)).
		Get(PathSuggestionAmount)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRequestFailed, PathSuggestionAmount, err)
	}
	if err := check(resp); err != nil {
		return nil, err
	}
	return out.Names, nil
}

// Link runs one link attempt. Failed links are reported in the result, the
// error is only set when the API could not be reached or answered garbage.
func (c *Client) Link(ctx context.Context, req handler.LinkRequest) (linking.LinkResult, error) {
	var result linking.LinkResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&result).
		Post(PathLink)
	if err != nil {
		return linking.LinkResult{}, fmt.Errorf(ErrMsgRequestFailed, PathLink, err)
	}
	if !resp.IsSuccess() && result.Error == "" {
		return linking.LinkResult{}, &APIError{
			StatusCode: resp.StatusCode(),
			Message:    fmt.Sprintf(ErrMsgUnexpected, resp.StatusCode()),
		}
	}
	return result, nil
}

// LinkStatus returns the platforms linked to the identity's record
func (c *Client) LinkStatus(ctx context.Context, platform, platformID string) (*linking.LinkStatus, error) {
	var out linking.LinkStatus
	resp, err := c.request(ctx).
		SetResult(&out).
		SetQueryParams(map[string]string{
			"platform":    platform,
			"platform_id": platformID,
		}).
		Get(PathLinkStatus)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgRequestFailed, PathLinkStatus, err)
	}
	if err := check(resp); err != nil {
		return nil, err
	}
	return &out, nil
}
