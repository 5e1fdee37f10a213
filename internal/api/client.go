// Package api is the single HTTP gateway to the catalog backend. Domain repositories build on Do;
// cross-cutting concerns (bearer token, request ids, telemetry) are RoundTripper interceptors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path"
	"strings"
	"time"
)

// maxErrorBody caps how much of an error response is read for its detail.
const maxErrorBody = 1 << 20

// Client calls the backend API rooted at BaseURL.
type Client struct {
	// BaseURL includes the version prefix, e.g. http://localhost:8000/api/v1.
	BaseURL string
	// RootURL is the server root used for the health check, e.g. http://localhost:8000.
	RootURL    string
	HTTPClient *http.Client
}

// NewClient returns a client whose requests go through transport (nil means http.DefaultTransport).
// timeout 0 means no client-side timeout.
func NewClient(baseURL, rootURL string, transport http.RoundTripper, timeout time.Duration) *Client {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		RootURL:    strings.TrimRight(rootURL, "/"),
		HTTPClient: &http.Client{Transport: transport, Timeout: timeout},
	}
}

// FilePart is one file of a multipart upload.
type FilePart struct {
	Field    string
	Filename string
	// ContentType defaults to the type registered for the filename's extension.
	ContentType string
	Content     io.Reader
}

// Request describes one call. At most one of JSON, Form and Files is used as the body.
type Request struct {
	Method string
	// Path is relative to BaseURL unless it is an absolute URL.
	Path  string
	Query url.Values
	JSON  any
	Form  url.Values
	Files []FilePart
}

// RawResponse is an undecoded successful response.
type RawResponse struct {
	Body        []byte
	ContentType string
	// Filename comes from Content-Disposition when the server suggests one.
	Filename string
}

// Do sends r and decodes a JSON response into out (which may be nil).
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", r.Method, r.Path, err)
	}
	return nil
}

// Raw sends r and returns the body as is.
func (c *Client) Raw(ctx context.Context, r Request) (*RawResponse, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportErr(ctx, r, err)
	}
	raw := &RawResponse{Body: body, ContentType: resp.Header.Get("Content-Type")}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		raw.Filename = params["filename"]
	}
	return raw, nil
}

// Get decodes GET path?query into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post sends in as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, JSON: in}, out)
}

// Patch sends in as JSON and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Path: path, JSON: in}, out)
}

// Delete sends DELETE path and discards the body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, nil)
}

func (c *Client) send(ctx context.Context, r Request) (*http.Response, error) {
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	u, err := c.resolve(r.Path, r.Query)
	if err != nil {
		return nil, err
	}
	body, contentType, err := encodeBody(r)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, c.transportErr(ctx, r, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(b),
			Method:     r.Method,
			Path:       r.Path,
		}
	}
	return resp, nil
}

// transportErr separates cancellation by the caller from a request that never got an answer.
func (c *Client) transportErr(ctx context.Context, r Request, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return &NetworkError{Op: r.Method + " " + r.Path, Err: err}
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	var raw string
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		raw = path
	} else {
		raw = c.BaseURL + "/" + strings.TrimLeft(path, "/")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("api: bad path %q: %w", path, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(r Request) (io.Reader, string, error) {
	switch {
	case len(r.Files) > 0:
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		for _, f := range r.Files {
			part, err := w.CreatePart(partHeader(f))
			if err != nil {
				return nil, "", err
			}
			if _, err := io.Copy(part, f.Content); err != nil {
				return nil, "", fmt.Errorf("api: read %s: %w", f.Filename, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	case r.Form != nil:
		return strings.NewReader(r.Form.Encode()), "application/x-www-form-urlencoded", nil
	case r.JSON != nil:
		b, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("api: encode %s %s: %w", r.Method, r.Path, err)
		}
		return bytes.NewReader(b), "application/json", nil
	default:
		return nil, "", nil
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func partHeader(f FilePart) textproto.MIMEHeader {
	ct := f.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(strings.ToLower(path.Ext(f.Filename)))
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Filename)))
	h.Set("Content-Type", ct)
	return h
}
