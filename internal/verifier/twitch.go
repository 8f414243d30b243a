package verifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/logger"
)

type twitchTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

type twitchUsersResponse struct {
	Data []domain.TwitchAccount `json:"data"`
}

type twitchError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// TwitchVerifier resolves logins through the Helix users endpoint using an
// app access token from the client-credentials flow
type TwitchVerifier struct {
	http         *resty.Client
	clientID     string
	clientSecret string
	tokenURL     string
	helixURL     string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTwitchVerifier creates a Twitch verifier
func NewTwitchVerifier(client *resty.Client, clientID, clientSecret string) *TwitchVerifier {
	return &TwitchVerifier{
		http:         client,
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     TwitchTokenURL,
		helixURL:     TwitchHelixURL,
	}
}

// WithBaseURLs points the verifier at other endpoints, used by tests
func (v *TwitchVerifier) WithBaseURLs(tokenURL, helixURL string) *TwitchVerifier {
	v.tokenURL = tokenURL
	v.helixURL = helixURL
	return v
}

// Verify returns a *domain.TwitchAccount for login
func (v *TwitchVerifier) Verify(ctx context.Context, login string) (domain.Account, error) {
	login = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(login), "@"))
	if login == "" {
		return nil, domain.ErrAccountNotFound
	}

	account, status, err := v.lookup(ctx, login)
	if status == http.StatusUnauthorized {
		// token revoked or expired early, retry once with a fresh one
		v.invalidateToken()
		account, _, err = v.lookup(ctx, login)
	}
	return account, err
}

func (v *TwitchVerifier) lookup(ctx context.Context, login string) (domain.Account, int, error) {
	token, err := v.appToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	result := &twitchUsersResponse{}
	apiErr := &twitchError{}
	resp, err := v.http.R().
		SetContext(ctx).
		SetHeader("Client-Id", v.clientID).
		SetAuthToken(token).
		SetQueryParam("login", login).
		SetResult(result).
		SetError(apiErr).
		Get(v.helixURL + "/users")
	if err != nil {
		return nil, 0, fmt.Errorf(ErrContextLookup, domain.PlatformTwitch, err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusBadRequest {
			// Helix rejects logins with invalid characters
			return nil, resp.StatusCode(), domain.ErrAccountNotFound
		}
		return nil, resp.StatusCode(), fmt.Errorf(ErrContextStatusCode, domain.PlatformTwitch, resp.StatusCode())
	}
	if len(result.Data) == 0 {
		return nil, resp.StatusCode(), domain.ErrAccountNotFound
	}

	account := result.Data[0]
	return &account, resp.StatusCode(), nil
}

func (v *TwitchVerifier) appToken(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.token != "" && time.Now().Before(v.expiresAt) {
		return v.token, nil
	}

	result := &twitchTokenResponse{}
	apiErr := &twitchError{}
	resp, err := v.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     v.clientID,
			"client_secret": v.clientSecret,
			"grant_type":    "client_credentials",
		}).
		SetResult(result).
		SetError(apiErr).
		Post(v.tokenURL)
	if err != nil {
		logger.FromContext(ctx).Error(LogMsgTwitchTokenFailed, "error", err)
		return "", fmt.Errorf(ErrContextLookup, domain.PlatformTwitch, err)
	}
	if resp.IsError() || result.AccessToken == "" {
		logger.FromContext(ctx).Error(LogMsgTwitchTokenFailed, "status", resp.StatusCode(), "message", apiErr.Message)
		return "", fmt.Errorf(ErrContextStatusCode, "twitch token", resp.StatusCode())
	}

	v.token = result.AccessToken
	v.expiresAt = time.Now().Add(time.Duration(result.ExpiresIn)*time.Second - TokenExpiryMargin)
	return v.token, nil
}

func (v *TwitchVerifier) invalidateToken() {
	v.mu.Lock()
	v.token = ""
	v.mu.Unlock()
}
