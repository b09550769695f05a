// Package client is the Go access layer the admin console builds on. It
// wraps the HTTP API with three pieces: the action catalog resolver (which
// fails closed to an empty catalog), the action dispatcher (which validates
// payloads locally before any network call), and the query cache the two
// share. Every successful mutation invalidates exactly the cache entries it
// staled: the submission's detail and its action catalog.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"publication-management-api/models"
	"publication-management-api/workflow"
)

// MaxUploadSize caps manuscript uploads at 2 MiB, checked before any bytes
// leave the client.
const MaxUploadSize = 2 << 20

var ErrFileTooBig = errors.New("file too big")

// SubmissionDetail mirrors the detail payload of /api/submission/get/.
type SubmissionDetail struct {
	Submission  models.Submission   `json:"submission"`
	Manuscripts []models.Manuscript `json:"manuscripts"`
	Author      models.Author       `json:"author"`
	Coauthors   []models.Coauthor   `json:"coauthors"`
}

// Client talks to the publication management API on behalf of one signed-in
// user. It is safe for concurrent use once the token is set.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   string
	cache   *queryCache
	now     func() time.Time
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		cache:   newQueryCache(),
		now:     time.Now,
	}
}

// SetToken installs the session token used on every authenticated request.
func (c *Client) SetToken(token string) {
	c.token = token
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError is a non-2xx response, carrying the server's message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (c *Client) request(ctx context.Context, method, path string, body io.Reader, contentType string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return &env, nil
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	env, err := c.request(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	env, err := c.request(ctx, http.MethodPost, path, bytes.NewReader(encoded), "application/json")
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// RequestOTP asks for a one-time login code for a staff mobile number.
func (c *Client) RequestOTP(ctx context.Context, mobile string) error {
	_, err := c.post(ctx, "/api/auth/send-otp/", map[string]string{"mobile": mobile})
	return err
}

// VerifyOTP exchanges a one-time code for a session token and installs it.
func (c *Client) VerifyOTP(ctx context.Context, mobile, otp string) error {
	data, err := c.post(ctx, "/api/auth/verify-otp/", map[string]string{"mobile": mobile, "otp": otp})
	if err != nil {
		return err
	}
	return c.installToken(data)
}

// AuthorLogin signs in an author with their submission reference number and
// password and installs the scoped session token.
func (c *Client) AuthorLogin(ctx context.Context, referenceNumber, password string) error {
	data, err := c.post(ctx, "/api/auth/login/", map[string]string{
		"reference_number": referenceNumber,
		"password":         password,
	})
	if err != nil {
		return err
	}
	return c.installToken(data)
}

func (c *Client) installToken(data json.RawMessage) error {
	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("decode token: %w", err)
	}
	if payload.Token == "" {
		return errors.New("no token in response")
	}
	c.token = payload.Token
	return nil
}

func submissionKey(submissionID int) string {
	return fmt.Sprintf("submission/%d", submissionID)
}

func actionsKey(submissionID int) string {
	return fmt.Sprintf("submission-actions/%d", submissionID)
}

// Submission returns one submission's detail, cached until the next
// mutation on it.
func (c *Client) Submission(ctx context.Context, submissionID int) (*SubmissionDetail, error) {
	value, err := c.cache.do(submissionKey(submissionID), func() (any, error) {
		data, err := c.get(ctx, fmt.Sprintf("/api/submission/get/?submission_id=%d", submissionID))
		if err != nil {
			return nil, err
		}
		var detail SubmissionDetail
		if err := json.Unmarshal(data, &detail); err != nil {
			return nil, fmt.Errorf("decode submission: %w", err)
		}
		return &detail, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*SubmissionDetail), nil
}

type catalogResult struct {
	actions []workflow.Descriptor
	message string
}

// ActionCatalog returns the actions the signed-in user may currently take
// on a submission, plus the server's message verbatim. The UI renders
// exactly this list. Resolution fails closed: any transport, status or
// decode error yields an empty catalog, never a guessed one.
func (c *Client) ActionCatalog(ctx context.Context, submissionID int) ([]workflow.Descriptor, string) {
	value, err := c.cache.do(actionsKey(submissionID), func() (any, error) {
		env, err := c.request(ctx, http.MethodGet,
			fmt.Sprintf("/api/submission-status/get?submission_id=%d", submissionID), nil, "")
		if err != nil {
			return nil, err
		}
		var payload struct {
			Actions []workflow.Descriptor `json:"actions"`
		}
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			return nil, fmt.Errorf("decode actions: %w", err)
		}
		return catalogResult{actions: payload.Actions, message: env.Message}, nil
	})
	if err != nil {
		return nil, ""
	}
	result := value.(catalogResult)
	return result.actions, result.message
}

// InvokeAction dispatches one workflow action. The payload is parsed and
// validated locally first; invalid payloads never reach the network. On
// success the submission's detail and action catalog cache entries are
// invalidated, once, so the next reads refetch the server's new state.
func (c *Client) InvokeAction(ctx context.Context, payload workflow.Payload) error {
	if payload.SubmissionID <= 0 {
		return errors.New("submission_id is required")
	}
	if _, err := workflow.ParseAndValidate(payload, c.now()); err != nil {
		return err
	}

	if _, err := c.post(ctx, "/api/submission-status/create/", payload); err != nil {
		return err
	}

	c.cache.invalidate(submissionKey(payload.SubmissionID), actionsKey(payload.SubmissionID))
	return nil
}

// UploadFile uploads a manuscript file and returns the stored reference.
// Files over MaxUploadSize are rejected before any request is made.
func (c *Client) UploadFile(ctx context.Context, name string, r io.Reader) (workflow.FileRef, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return workflow.FileRef{}, err
	}
	if n > MaxUploadSize {
		return workflow.FileRef{}, ErrFileTooBig
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return workflow.FileRef{}, err
	}
	if _, err := part.Write(buf.Bytes()); err != nil {
		return workflow.FileRef{}, err
	}
	if err := writer.Close(); err != nil {
		return workflow.FileRef{}, err
	}

	env, err := c.request(ctx, http.MethodPost, "/api/core/upload-file/", &body, writer.FormDataContentType())
	if err != nil {
		return workflow.FileRef{}, err
	}

	var payload struct {
		File workflow.FileRef `json:"file"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return workflow.FileRef{}, fmt.Errorf("decode upload response: %w", err)
	}
	return payload.File, nil
}
