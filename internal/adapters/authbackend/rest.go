package authbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	domainauth "github.com/target/clubdesk/internal/domain/auth"
	"github.com/target/clubdesk/internal/ports"
	"golang.org/x/oauth2"
)

// BackendError carries the message the auth backend returned. Error returns it unchanged
// so the UI can show it verbatim.
type BackendError struct {
	Status  int
	Code    string
	Message string
}

func (e *BackendError) Error() string { return e.Message }

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error_code"`
}

func (b errorBody) message() string {
	for _, s := range []string{b.ErrorDescription, b.Msg, b.Message, b.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

type signUpRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data,omitempty"`
}

type userResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// SignUp registers a new account. The backend may require email confirmation,
// so no session is started.
func (c *Client) SignUp(ctx context.Context, in ports.SignUpInput) (*domainauth.Identity, error) {
	req := signUpRequest{Email: in.Email, Password: in.Password}
	if name := strings.TrimSpace(in.FullName); name != "" {
		req.Data = map[string]string{"full_name": name}
	}

	var out userResponse
	if err := c.postJSON(ctx, "/signup", "", req, &out); err != nil {
		return nil, err
	}
	claims := map[string]any{"sub": out.ID, "email": out.Email}
	if out.AppMetadata != nil {
		claims["app_metadata"] = out.AppMetadata
	}
	return &domainauth.Identity{
		ID:        out.ID,
		Email:     out.Email,
		RoleClaim: c.roles.Claim(claims),
		Claims:    claims,
	}, nil
}

// ResetPassword asks the backend to send a recovery email.
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/recover", "", map[string]string{"email": email}, nil)
}

func (c *Client) postJSON(ctx context.Context, path, bearer string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeBackendError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeBackendError(status int, data []byte) *BackendError {
	var b errorBody
	_ = json.Unmarshal(data, &b)
	msg := b.message()
	if msg == "" {
		msg = http.StatusText(status)
	}
	code := b.ErrorCode
	if code == "" {
		code = b.Error
	}
	return &BackendError{Status: status, Code: code, Message: msg}
}

// asBackendError converts token endpoint failures into BackendError when the backend sent a message.
func asBackendError(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return fmt.Errorf("token request: %w", err)
	}
	status := 0
	if re.Response != nil {
		status = re.Response.StatusCode
	}
	be := decodeBackendError(status, re.Body)
	if re.ErrorDescription != "" {
		be.Message = re.ErrorDescription
	}
	if re.ErrorCode != "" {
		be.Code = re.ErrorCode
	}
	return be
}
