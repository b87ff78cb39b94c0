// Package whttp is the HTTP helper the snapshot sources fetch through:
// retries, proxying, a trusted-host check and page title extraction.
package whttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/weppos/publicsuffix-go/publicsuffix"
	"golang.org/x/net/html"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

// ErrUntrustedSource is returned for URLs outside the government domains
// processing data is accepted from.
var ErrUntrustedSource = errors.New("untrusted source")

// TrustedDomains are the registrable domains data may come from.
var TrustedDomains = []string{"state.gov", "uscis.gov", "dol.gov"}

type WHTTPHeader struct {
	Name  string
	Value string
}

type WHTTPReq struct {
	URL     string
	Method  string
	Headers []WHTTPHeader
}

type WHTTPRes struct {
	StatusCode     int
	ResponseLength int
	HTTPTitle      string
	BodyString     string
}

// Options configures a Client.
type Options struct {
	RetryMax     int
	RetryWaitMin time.Duration
	Proxy        string
	Timeout      time.Duration
}

// Client wraps a retrying HTTP client.
type Client struct {
	retry *retryablehttp.Client
}

// NewClient builds a Client. Zero options keep the retryablehttp defaults.
func NewClient(opts Options) (*Client, error) {
	rc := retryablehttp.NewClient()
	rc.Logger = log.New(io.Discard, "", 0)
	if opts.RetryMax > 0 {
		rc.RetryMax = opts.RetryMax
	}
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
		rc.RetryWaitMax = opts.RetryWaitMin * 4
	}
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	if opts.Proxy != "" {
		proxyURL, err := url.Parse(opts.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		rc.HTTPClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}
	return &Client{retry: rc}, nil
}

// CheckTrusted accepts URLs on a trusted registrable domain, and loopback
// hosts for local mirrors.
func CheckTrusted(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return fmt.Errorf("%w: %q", ErrUntrustedSource, rawURL)
	}
	host := strings.ToLower(u.Hostname())
	if host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrUntrustedSource, host)
	}
	domain, err := publicsuffix.Domain(host)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUntrustedSource, host)
	}
	for _, d := range TrustedDomains {
		if domain == d {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUntrustedSource, host)
}

// SendHTTPRequest performs wReq against a trusted host.
func (c *Client) SendHTTPRequest(ctx context.Context, wReq *WHTTPReq) (*WHTTPRes, error) {
	if err := CheckTrusted(wReq.URL); err != nil {
		return nil, err
	}
	method := wReq.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, wReq.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-transform")
	req.Header.Set("Accept-Language", "en")
	for _, h := range wReq.Headers {
		req.Header.Add(h.Name, h.Value)
	}

	resp, err := c.retry.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	wRes := &WHTTPRes{
		StatusCode: resp.StatusCode,
		BodyString: string(bodyBytes),
	}
	if title, ok := GetHTMLTitle(wRes.BodyString); ok {
		wRes.HTTPTitle = strings.ToValidUTF8(strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", "")), "")
	}
	wRes.ResponseLength = utf8.RuneCountInString(wRes.BodyString)
	return wRes, nil
}

// Get fetches url and fails on non-2xx responses.
func (c *Client) Get(ctx context.Context, url string, headers ...WHTTPHeader) (*WHTTPRes, error) {
	res, err := c.SendHTTPRequest(ctx, &WHTTPReq{URL: url, Method: http.MethodGet, Headers: headers})
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return res, fmt.Errorf("GET %s: status %d", url, res.StatusCode)
	}
	return res, nil
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func traverse(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result, ok := traverse(c); ok {
			return result, ok
		}
	}
	return "", false
}

// GetHTMLTitle returns the text of the first <title> element.
func GetHTMLTitle(body string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return "", false
	}
	return traverse(doc)
}
