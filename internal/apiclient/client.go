package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/exstem-console/internal/model"
)

// Collection names as they appear in the data service paths.
const (
	CollectionExams     = "exams"
	CollectionQuestions = "questions"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 1 << 20

// Client talks to the exam data service. It holds only immutable
// configuration and is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets a whole-request timeout; zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			clone := *c.http
			clone.Timeout = d
			c.http = &clone
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log.With().Str("component", "api_client").Logger()
	}
}

// NewClient creates a client for the service rooted at baseURL
// (for example "http://localhost:8080/api").
func NewClient(baseURL string, opts ...Option) *Client {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ────────────────────────────────────────────────────────────────────────────
// Exams
// ────────────────────────────────────────────────────────────────────────────

// ListExams fetches one page of exams matching filter.
func (c *Client) ListExams(ctx context.Context, pageIndex, pageSize int, filter model.ExamFilter) (*model.PagedResponse[model.Exam], error) {
	q := pageQuery(pageIndex, pageSize)
	filter.Apply(q)
	return list[model.Exam](ctx, c, CollectionExams, q)
}

// GetExam fetches a single exam; a missing exam yields ErrNotFound.
func (c *Client) GetExam(ctx context.Context, id int) (*model.Exam, error) {
	return getByID[model.Exam](ctx, c, CollectionExams, id)
}

// CreateExam issues a creation request. The response body is ignored.
func (c *Client) CreateExam(ctx context.Context, payload model.ExamCreate) error {
	return c.create(ctx, CollectionExams, payload)
}

// UpdateExam issues a partial update for exam id.
func (c *Client) UpdateExam(ctx context.Context, id int, payload model.ExamUpdate) error {
	return c.update(ctx, CollectionExams, id, payload)
}

// DeleteExam removes exam id. A 204 response is a success.
func (c *Client) DeleteExam(ctx context.Context, id int) error {
	return c.delete(ctx, CollectionExams, id)
}

// ────────────────────────────────────────────────────────────────────────────
// Questions
// ────────────────────────────────────────────────────────────────────────────

// ListQuestions fetches one page of questions.
func (c *Client) ListQuestions(ctx context.Context, pageIndex, pageSize int) (*model.PagedResponse[model.Question], error) {
	return list[model.Question](ctx, c, CollectionQuestions, pageQuery(pageIndex, pageSize))
}

// GetQuestion fetches a single question; a missing question yields ErrNotFound.
func (c *Client) GetQuestion(ctx context.Context, id int) (*model.Question, error) {
	return getByID[model.Question](ctx, c, CollectionQuestions, id)
}

// CreateQuestion issues a creation request. The response body is ignored.
func (c *Client) CreateQuestion(ctx context.Context, payload model.QuestionCreate) error {
	return c.create(ctx, CollectionQuestions, payload)
}

// UpdateQuestion issues a partial update for question id.
func (c *Client) UpdateQuestion(ctx context.Context, id int, payload model.QuestionUpdate) error {
	return c.update(ctx, CollectionQuestions, id, payload)
}

// DeleteQuestion removes question id. A 204 response is a success.
func (c *Client) DeleteQuestion(ctx context.Context, id int) error {
	return c.delete(ctx, CollectionQuestions, id)
}

// ────────────────────────────────────────────────────────────────────────────
// Collection-generic operations
// ────────────────────────────────────────────────────────────────────────────

func list[T any](ctx context.Context, c *Client, collection string, q url.Values) (*model.PagedResponse[T], error) {
	page := &model.PagedResponse[T]{}
	if err := c.request(ctx, http.MethodGet, "/"+collection+"?"+q.Encode(), nil, page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}

func getByID[T any](ctx context.Context, c *Client, collection string, id int) (*T, error) {
	var out T
	if err := c.request(ctx, http.MethodGet, itemPath(collection, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) create(ctx context.Context, collection string, payload any) error {
	return c.request(ctx, http.MethodPost, "/"+collection, payload, nil)
}

func (c *Client) update(ctx context.Context, collection string, id int, payload any) error {
	return c.request(ctx, http.MethodPut, itemPath(collection, id), payload, nil)
}

func (c *Client) delete(ctx context.Context, collection string, id int) error {
	return c.request(ctx, http.MethodDelete, itemPath(collection, id), nil, nil)
}

// request performs one HTTP exchange. out may be nil when the caller does
// not need the response body; a 204 or empty body leaves out untouched.
func (c *Client) request(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Message: fmt.Sprintf("encode request: %v", err), Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return &RequestError{Message: fmt.Sprintf("build request: %v", err), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("endpoint", endpoint).Msg("API request failed")
		return &RequestError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := decodeError(resp)
		c.log.Error().
			Int("status", reqErr.Status).
			Str("code", reqErr.Code).
			Str("method", method).
			Str("endpoint", endpoint).
			Str("error", reqErr.Message).
			Msg("API request failed")
		return reqErr
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Status: resp.StatusCode, Message: fmt.Sprintf("read response: %v", err), Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.Error().Err(err).Str("endpoint", endpoint).Msg("API response decode failed")
		return &RequestError{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err), Err: err}
	}
	return nil
}

// decodeError converts a non-2xx response into a RequestError, using the
// body's message verbatim when there is one.
func decodeError(resp *http.Response) *RequestError {
	reqErr := &RequestError{Status: resp.StatusCode, Message: genericMessage}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return reqErr
	}

	var body model.APIError
	if err := json.Unmarshal(raw, &body); err != nil {
		return reqErr
	}
	if body.Message != "" {
		reqErr.Message = body.Message
	}
	reqErr.Code = body.Code
	reqErr.Fields = body.Fields
	return reqErr
}

func pageQuery(pageIndex, pageSize int) url.Values {
	q := url.Values{}
	q.Set("pageIndex", strconv.Itoa(pageIndex))
	q.Set("pageSize", strconv.Itoa(pageSize))
	return q
}

func itemPath(collection string, id int) string {
	return "/" + collection + "/" + strconv.Itoa(id)
}

// AsRequestError unwraps err into a *RequestError when possible.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}
