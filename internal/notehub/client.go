package notehub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"notehub/internal/note"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// ListParams are the query parameters of a list call. Empty Search and
// an empty or "all" Tag are left out of the request.
type ListParams struct {
	Page    int
	PerPage int
	Search  string
	Tag     string
}

type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// Rate and Burst throttle outbound calls. Zero Rate disables it.
	Rate  float64
	Burst int
	HTTP  *http.Client
}

// Client talks to the remote notes service. It never retries.
type Client struct {
	base    string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

func New(opts Options) *Client {
	hc := opts.HTTP
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	c := &Client{
		base:  strings.TrimRight(opts.BaseURL, "/"),
		token: opts.Token,
		http:  hc,
	}
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.Rate), burst)
	}
	return c
}

// ListParamsFor converts a cache key into request parameters.
func ListParamsFor(k note.ListKey) ListParams {
	return ListParams{Page: k.Page, PerPage: k.PerPage, Search: k.Search, Tag: k.TagParam()}
}

func (c *Client) ListNotes(ctx context.Context, p ListParams) (note.PageResult, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(p.Page, 1)))
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = note.PageSize
	}
	q.Set("perPage", strconv.Itoa(perPage))
	if s := strings.TrimSpace(p.Search); s != "" {
		q.Set("search", s)
	}
	if p.Tag != "" && p.Tag != note.TagAll {
		q.Set("tag", p.Tag)
	}

	var out note.PageResult
	if err := c.do(ctx, "list notes", http.MethodGet, "/notes?"+q.Encode(), nil, nil, &out); err != nil {
		return note.PageResult{}, err
	}
	if out.Notes == nil {
		out.Notes = []note.Note{}
	}
	return out, nil
}

func (c *Client) GetNote(ctx context.Context, id note.ID) (note.Note, error) {
	var out note.Note
	err := c.do(ctx, "get note", http.MethodGet, "/notes/"+url.PathEscape(id.String()), nil, nil, &out)
	return out, err
}

func (c *Client) CreateNote(ctx context.Context, d note.Draft) (note.Note, error) {
	body, err := json.Marshal(d)
	if err != nil {
		return note.Note{}, err
	}
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	hdr.Set("Idempotency-Key", uuid.NewString())

	var out note.Note
	err = c.do(ctx, "create note", http.MethodPost, "/notes", hdr, body, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, op, method, path string, hdr http.Header, body []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &NetworkError{Op: op, Err: err}
		}
	}

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServiceError{Op: op, Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// errorMessage pulls a human readable message out of an error body.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
