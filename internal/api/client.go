// Package api is the single point of contact with the AutoRevise
// backend. Every backend endpoint has one typed wrapper method; no
// client-side validation happens beyond what the backend requires.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client talks to the backend at a configured base URL. It holds no
// per-user state; request-scoped state lives on Session.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Session binds the client to one browser request: the visitor's
// backend cookies are forwarded on every call, and Set-Cookie headers
// from the backend are collected so the handler can relay them.
// Safe for use from the parallel fetches a page handler spawns.
type Session struct {
	c       *Client
	cookies []*http.Cookie

	mu         sync.Mutex
	setCookies []*http.Cookie
}

// Session returns a request-scoped session carrying the cookies from
// the given browser request.
func (c *Client) Session(r *http.Request) *Session {
	var cookies []*http.Cookie
	if r != nil {
		cookies = r.Cookies()
	}
	return &Session{c: c, cookies: cookies}
}

// ApplySetCookies relays any cookies the backend set during this
// session to the browser response. Auth operations establish the
// backend session cookie this way.
func (s *Session) ApplySetCookies(w http.ResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ck := range s.setCookies {
		http.SetCookie(w, ck)
	}
}

// do issues one JSON request against the backend and decodes the
// response into out. Non-2xx responses become *Error, transport
// failures *NetworkError, and undecodable bodies *DecodeError.
func (s *Session) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.c.baseURL+path, reader)
	if err != nil {
		return &NetworkError{Endpoint: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range s.cookies {
		req.AddCookie(ck)
	}

	resp, err := s.c.http.Do(req)
	if err != nil {
		return &NetworkError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if cookies := resp.Cookies(); len(cookies) > 0 {
		s.mu.Lock()
		s.setCookies = append(s.setCookies, cookies...)
		s.mu.Unlock()
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Endpoint: path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Endpoint: path, Reason: err.Error()}
	}
	return nil
}

func (s *Session) get(ctx context.Context, path string, out interface{}) error {
	return s.do(ctx, http.MethodGet, path, nil, out)
}

func (s *Session) post(ctx context.Context, path string, body, out interface{}) error {
	return s.do(ctx, http.MethodPost, path, body, out)
}

func (s *Session) put(ctx context.Context, path string, body, out interface{}) error {
	return s.do(ctx, http.MethodPut, path, body, out)
}

func (s *Session) delete(ctx context.Context, path string) error {
	return s.do(ctx, http.MethodDelete, path, nil, nil)
}
