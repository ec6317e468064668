package downstream

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"leadconversion/internal/pkg/log_messages"
)

// SessionResponse is the raw outcome of a POST.
type SessionResponse struct {
	StatusCode int
	Body       []byte
}

// Session posts an already authenticated request. Authentication itself is
// the caller's business; the session id travels inside the SOAP header.
type Session interface {
	Post(ctx context.Context, url string, body []byte, headers map[string]string,
		proxies map[string]string) (*SessionResponse, error)
}

// ErrInvalidProxy marks a proxy map that cannot be turned into a transport.
var ErrInvalidProxy = errors.New("invalid proxy configuration")

// HTTPSession is a Session over net/http. Only the direct route and the
// configured proxy map keep a pooled client; any other proxy map gets a
// client for the duration of one call.
type HTTPSession struct {
	timeout time.Duration
	proxies map[string]string

	mu      sync.Mutex
	clients map[string]*http.Client
}

func NewHTTPSession(timeout time.Duration, proxies map[string]string) *HTTPSession {
	return &HTTPSession{
		timeout: timeout,
		proxies: proxies,
		clients: make(map[string]*http.Client),
	}
}

func (s *HTTPSession) Post(
	ctx context.Context,
	url string,
	body []byte,
	headers map[string]string,
	proxies map[string]string,
) (*SessionResponse, error) {
	client, pooled, err := s.clientFor(proxies)
	if err != nil {
		return nil, err
	}
	if !pooled {
		defer client.CloseIdleConnections()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf(log_messages.ErrorFailedToReadConvertLeadBody, err)
	}

	return &SessionResponse{StatusCode: httpResp.StatusCode, Body: data}, nil
}

// CloseIdleConnections releases pooled connections of every cached client.
func (s *HTTPSession) CloseIdleConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, client := range s.clients {
		client.CloseIdleConnections()
	}
}

// clientFor reports whether the returned client is kept in the pool.
func (s *HTTPSession) clientFor(proxies map[string]string) (*http.Client, bool, error) {
	key := proxyKey(proxies)
	if key != "" && key != proxyKey(s.proxies) {
		client, err := s.newClient(proxies)
		return client, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[key]; ok {
		return client, true, nil
	}
	client, err := s.newClient(proxies)
	if err != nil {
		return nil, false, err
	}
	s.clients[key] = client
	return client, true, nil
}

func (s *HTTPSession) newClient(proxies map[string]string) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if len(proxies) > 0 {
		routes := make(map[string]*url.URL, len(proxies))
		for scheme, raw := range proxies {
			proxyURL, err := url.Parse(raw)
			if err == nil && (proxyURL.Scheme == "" || proxyURL.Host == "") {
				err = errors.New("missing scheme or host")
			}
			if err != nil {
				return nil, fmt.Errorf("%w: "+log_messages.ErrorInvalidProxyURL, ErrInvalidProxy, scheme, err)
			}
			routes[strings.ToLower(scheme)] = proxyURL
		}
		transport.Proxy = func(r *http.Request) (*url.URL, error) {
			return routes[r.URL.Scheme], nil
		}
	}
	return &http.Client{Timeout: s.timeout, Transport: transport}, nil
}

func proxyKey(proxies map[string]string) string {
	if len(proxies) == 0 {
		return ""
	}
	schemes := make([]string, 0, len(proxies))
	for scheme := range proxies {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)

	var b strings.Builder
	for _, scheme := range schemes {
		b.WriteString(scheme)
		b.WriteByte('=')
		b.WriteString(proxies[scheme])
		b.WriteByte(';')
	}
	return b.String()
}
