package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"secure_chat/internal/model"

	"github.com/gorilla/websocket"
)

// ErrUserExists is returned by Register when the name is already taken,
// so callers can treat re-registration as a no-op.
var ErrUserExists = errors.New("username already exists")

type (
	// Client wraps the server's JSON API. The bearer token captured by
	// Login is attached to every later request.
	Client struct {
		host  string
		http  *http.Client
		token string
	}
)

func NewClient(host string) *Client {
	return &Client{
		host: host,
		http: http.DefaultClient,
	}
}

func (c *Client) Register(ctx context.Context, username, password string, identityPublicKey []byte) error {
	req := &model.RegisterRequest{
		Username:          username,
		Password:          password,
		IdentityPublicKey: identityPublicKey,
	}

	err := c.post(ctx, "/register", req, nil)
	if err != nil && err.Error() == "Username already exists" {
		return ErrUserExists
	}
	return err
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	req := &model.LoginRequest{
		Username: username,
		Password: password,
	}

	var resp model.LoginResponse
	if err := c.post(ctx, "/login", req, &resp); err != nil {
		return err
	}

	c.token = resp.Token
	return nil
}

func (c *Client) GetPublicKey(ctx context.Context, username string) ([]byte, error) {
	var resp model.PublicKeyResponse
	path := fmt.Sprintf("/users/%s/public-key", url.PathEscape(username))
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.IdentityPublicKey, nil
}

func (c *Client) SendMessage(ctx context.Context, to string, ciphertext, nonce []byte) (int64, error) {
	req := &model.SendMessageRequest{
		To:         to,
		Ciphertext: ciphertext,
		Nonce:      nonce,
	}

	var resp model.SendMessageResponse
	if err := c.post(ctx, "/messages", req, &resp); err != nil {
		return 0, err
	}
	return resp.MessageID, nil
}

func (c *Client) FetchMessages(ctx context.Context, sinceID int64) ([]*model.Envelope, error) {
	var resp model.GetMessagesResponse
	path := fmt.Sprintf("/messages?since_id=%d", sinceID)
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// DialStream opens the live-delivery websocket. The token rides in the
// query string, which is what the server accepts for websocket dials.
func (c *Client) DialStream() (*websocket.Conn, error) {
	params := url.Values{
		"token": []string{c.token},
	}

	u := url.URL{
		Scheme:   "ws",
		Host:     c.host,
		Path:     "/ws",
		RawQuery: params.Encode(),
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()
	defer io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		var apiErr model.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Detail != "" {
			return errors.New(apiErr.Detail)
		}
		return fmt.Errorf("%s %s: %s", req.Method, req.URL.Path, resp.Status)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) baseURL() string {
	return fmt.Sprintf("http://%s", c.host)
}
