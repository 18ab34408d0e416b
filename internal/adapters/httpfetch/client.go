package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
	"github.com/Guilhem-Bonnet/tv-programm/internal/ports"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) Gecko/20100101 Firefox/120.0"

	maxBodyBytes = 4 << 20
)

// Client exécute un GET unique (pas de retry: la politique appartient à l'appelant).
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

func New(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

// Get renvoie le document brut ou une erreur qui wrappe ports.ErrNetwork,
// ports.ErrNotFound ou ports.ErrServer. Une annulation renvoie l'erreur du contexte.
func (c *Client) Get(ctx context.Context, rawURL string) (domain.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("%w: invalid url %q", ports.ErrNotFound, rawURL)
	}
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.5")

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.RawDocument{}, ctxErr
		}
		return domain.RawDocument{}, fmt.Errorf("%w: GET %s: %v", ports.ErrNetwork, rawURL, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return domain.RawDocument{}, fmt.Errorf("%w: GET %s: %s", err, rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.RawDocument{}, ctxErr
		}
		return domain.RawDocument{}, fmt.Errorf("%w: read %s: %v", ports.ErrNetwork, rawURL, err)
	}

	ct := resp.Header.Get("Content-Type")
	return domain.RawDocument{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: ct,
		Charset:     declaredCharset(ct),
		Body:        body,
	}, nil
}

func (c *Client) userAgent() string {
	if c.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.UserAgent
}

func statusError(resp *http.Response) error {
	switch {
	case resp.StatusCode < 400:
		return nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ports.ErrNotFound
	default:
		return ports.ErrServer
	}
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(params["charset"]))
}

// IsFetchError indique si err provient de l'étape fetch.
func IsFetchError(err error) bool {
	return errors.Is(err, ports.ErrNetwork) || errors.Is(err, ports.ErrNotFound) || errors.Is(err, ports.ErrServer)
}
