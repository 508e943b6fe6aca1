// internal/pkg/platform/client.go
package platform

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/klausterra/alpha-se-1/internal/pkg/httpclient"
)

// ErrInvalidResponse means the platform answered 2xx without the expected payload.
var ErrInvalidResponse = errors.New("platform returned an invalid response")

// Email is a single outgoing message handed to the platform mail function.
type Email struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	FromEmail string `json:"from_email,omitempty"`
	FromName  string `json:"from_name,omitempty"`
}

// CheckoutRequest describes the visitor paying for access.
type CheckoutRequest struct {
	Email      string  `json:"email"`
	UserID     string  `json:"user_id"`
	Amount     float64 `json:"amount"`
	SuccessURL string  `json:"success_url"`
	CancelURL  string  `json:"cancel_url"`
}

type CheckoutSession struct {
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

// Client calls the hosted backend functions: file upload, checkout and mail.
type Client struct {
	baseURL string
	http    *httpclient.Client
}

func NewClient(baseURL, apiKey string) *Client {
	hc := httpclient.NewClient(otel.Tracer("platform-client"))
	if apiKey != "" {
		hc.Header.Set("Authorization", "Bearer "+apiKey)
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// WithTimeout bounds every platform call; zero keeps the context deadline only.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.http.HTTPClient.Timeout = d
	}
	return c
}

// UploadFile stores a file publicly and returns its URL.
func (c *Client) UploadFile(ctx context.Context, filename string, file io.Reader) (string, error) {
	var out struct {
		FileURL string `json:"file_url"`
	}
	if err := c.http.PostFile(ctx, c.baseURL+"/integrations/upload-file", "file", filename, file, &out); err != nil {
		return "", errors.Wrap(err, "upload file")
	}
	if out.FileURL == "" {
		return "", ErrInvalidResponse
	}
	return out.FileURL, nil
}

// CreateCheckout opens a payment session and returns the redirect URL.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	var out struct {
		Data CheckoutSession `json:"data"`
	}
	if err := c.http.PostJSON(ctx, c.fn("createStripeCheckout"), req, &out); err != nil {
		return CheckoutSession{}, errors.Wrap(err, "create checkout")
	}
	if out.Data.URL == "" {
		return CheckoutSession{}, ErrInvalidResponse
	}
	return out.Data, nil
}

// SendEmail delivers a message through the platform mail function.
func (c *Client) SendEmail(ctx context.Context, email Email) error {
	if email.To == "" {
		return fmt.Errorf("email without recipient")
	}
	return errors.Wrap(c.http.PostJSON(ctx, c.fn("sendNotificationEmail"), email, nil), "send email")
}

func (c *Client) fn(name string) string {
	return c.baseURL + "/functions/" + name
}
