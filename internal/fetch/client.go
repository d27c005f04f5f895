package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects is the redirect limit of net/http, made explicit.
const maxRedirects = 10

// Default request headers sent alongside the User-Agent.
const (
	defaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	defaultAcceptLanguage = "en-US,en;q=0.9"
)

// Client creates HTTP clients for page fetching.
type Client struct {
	timeout   time.Duration
	userAgent string

	// proxyAddress is empty for direct connections.
	proxyAddress string
	dialer       proxy.Dialer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithProxy routes connections through a SOCKS5 proxy at host:port.
func WithProxy(address string) ClientOption {
	return func(c *Client) {
		c.proxyAddress = address
	}
}

// NewClient creates a Client. It fails only for a malformed proxy address.
func NewClient(defaultUserAgent string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		timeout:   10 * time.Second,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.proxyAddress != "" {
		if !isValidProxyAddress(c.proxyAddress) {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.SOCKS5("tcp", c.proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		c.dialer = dialer
	}
	return c, nil
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// UserAgent returns the default User-Agent.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// ProxyAddress returns the SOCKS5 proxy address, or "" for direct mode.
func (c *Client) ProxyAddress() string {
	return c.proxyAddress
}

// HTTPClient returns a client that sends the default headers.
func (c *Client) HTTPClient() *http.Client {
	return c.HTTPClientWithConfig(RequestOptions{})
}

// RequestOptions are per-site header settings.
type RequestOptions struct {
	// UserAgent overrides the client default when set.
	UserAgent string
	Cookie    string
	Headers   map[string]string
}

// HTTPClientWithConfig returns a client that adds the given per-site headers.
func (c *Client) HTTPClientWithConfig(opts RequestOptions) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: c.timeout,
	}
	if c.dialer != nil {
		transport.Proxy = nil
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := c.dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return c.dialer.Dial(network, addr)
		}
	}

	ua := c.userAgent
	if opts.UserAgent != "" {
		ua = opts.UserAgent
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	return &http.Client{
		Transport: &headerInjectingTransport{
			base:      transport,
			userAgent: ua,
			cookie:    opts.Cookie,
			headers:   opts.Headers,
		},
		Timeout: c.timeout,
		Jar:     jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// headerInjectingTransport sets browser-like and per-site headers on
// every outgoing request.
type headerInjectingTransport struct {
	base      http.RoundTripper
	userAgent string
	cookie    string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	if clone.Header.Get("Accept") == "" {
		clone.Header.Set("Accept", defaultAccept)
	}
	if clone.Header.Get("Accept-Language") == "" {
		clone.Header.Set("Accept-Language", defaultAcceptLanguage)
	}
	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}

// NormalizeURL validates raw and adds https:// to a bare host.
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrInvalidURL
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrInvalidURL
	}
	if u.Host == "" {
		return "", ErrInvalidURL
	}
	return u.String(), nil
}

func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}
