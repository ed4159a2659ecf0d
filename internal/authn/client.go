package authn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"modelfang-console/internal/dto"
	"modelfang-console/internal/loginform"
)

// LoginPath is the JSON sign-in endpoint.
const LoginPath = "/api/auth/login"

// Client signs in against a running console over HTTP. It never retries:
// a failed attempt is reported once and the caller decides what to do.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SignIn implements loginform.Authenticator. Redirect is always sent as false.
// A 401 answer becomes a Result carrying the server's error code; other
// non-2xx answers are returned as errors.
func (c *Client) SignIn(ctx context.Context, creds loginform.Credentials, _ loginform.Options) (loginform.Result, error) {
	body, err := json.Marshal(dto.LoginRequest{
		Username: creds.Username,
		Password: creds.Password,
		Redirect: false,
	})
	if err != nil {
		return loginform.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+LoginPath, bytes.NewReader(body))
	if err != nil {
		return loginform.Result{}, fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return loginform.Result{}, fmt.Errorf("sign-in request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return loginform.Result{}, fmt.Errorf("read sign-in response: %w", err)
	}

	var out dto.SignInResponse
	switch {
	case resp.StatusCode == http.StatusOK, resp.StatusCode == http.StatusUnauthorized:
		if err := json.Unmarshal(raw, &out); err != nil {
			return loginform.Result{}, fmt.Errorf("decode sign-in response: %w", err)
		}
	default:
		var he dto.HTTPError
		if json.Unmarshal(raw, &he) == nil && he.Message != "" {
			return loginform.Result{}, fmt.Errorf("sign-in failed: %s: %s", resp.Status, he.Message)
		}
		return loginform.Result{}, fmt.Errorf("sign-in failed: %s", resp.Status)
	}

	if resp.StatusCode == http.StatusUnauthorized && out.Error == "" {
		out.Error = loginform.CodeCredentialsSignin
	}
	return loginform.Result{
		OK:     out.OK && out.Error == "",
		Status: resp.StatusCode,
		Error:  out.Error,
		URL:    out.URL,
		Token:  out.AccessToken,
	}, nil
}
