package client

import (
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

type client struct {
	restyClient       *resty.Client
	transferClient    *resty.Client
	apiKey            string
	userAgent         string
	processingTimeout time.Duration
	retryEnabled      bool
	maxRetries        int
}

var _ Client = (*client)(nil)

type Option func(*client)

func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.restyClient.SetBaseURL(baseURL)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		if timeout > 0 {
			c.restyClient.SetTimeout(timeout)
		}
	}
}

// WithConnectTimeout bounds dial time separately from the request timeout.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(c *client) {
		if timeout <= 0 {
			return
		}
		c.restyClient.SetTransport(&http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		})
	}
}

// WithMaxRetries sets how many times a failed exchange is retried after the
// initial attempt. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(c *client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDisabled turns the retry policy off entirely.
func WithRetryDisabled() Option {
	return func(c *client) {
		c.retryEnabled = false
	}
}

func WithUserAgent(ua string) Option {
	return func(c *client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRestyClient allows callers to provide a preconfigured API client.
func WithRestyClient(restyClient *resty.Client) Option {
	return func(c *client) {
		if restyClient != nil {
			c.restyClient = restyClient
		}
	}
}

// WithTransferClient overrides the client used for unauthenticated transfers
// to pre-signed download URLs.
func WithTransferClient(transfer *resty.Client) Option {
	return func(c *client) {
		if transfer != nil {
			c.transferClient = transfer
		}
	}
}

// WithProcessingTimeout customizes the maximum wait for long-running
// operations such as WaitForCompletion.
func WithProcessingTimeout(timeout time.Duration) Option {
	return func(c *client) {
		if timeout > 0 {
			c.processingTimeout = timeout
			if c.transferClient != nil {
				c.transferClient.SetTimeout(timeout)
			}
		}
	}
}

// NewClient builds a Convertly API client. The api key is required; all other
// behavior is set through options and is immutable afterwards.
func NewClient(apiKey string, opts ...Option) (Client, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	c := &client{
		restyClient:       newDefaultAPIClient(),
		apiKey:            apiKey,
		userAgent:         defaultUserAgent,
		processingTimeout: DefaultProcessingTimeout,
		retryEnabled:      true,
		maxRetries:        DefaultMaxRetries,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.restyClient == nil {
		c.restyClient = newDefaultAPIClient()
	}

	if c.transferClient == nil {
		c.transferClient = newTransferClient(c.processingTimeout)
	}

	c.restyClient.
		SetHeader("User-Agent", c.userAgent).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			// Set here so the credential wins over any caller-supplied header.
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
			req.Header.Set(RequestIDHeader, uuid.NewString())
			return nil
		})

	if c.retryEnabled && c.maxRetries > 0 {
		c.restyClient.
			SetRetryCount(c.maxRetries).
			SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
				return time.Duration(resp.Request.Attempt) * retryBackoffUnit, nil
			}).
			AddRetryCondition(func(resp *resty.Response, err error) bool {
				if err != nil {
					return true
				}
				return resp.StatusCode() >= 500 || resp.StatusCode() == http.StatusTooManyRequests
			})
	}

	return c, nil
}

// Name returns the service name.
func (c *client) Name() string {
	return ServiceName
}

// Version returns the API version.
func (c *client) Version() string {
	return APIVersion
}

func newDefaultAPIClient() *resty.Client {
	return resty.New().
		SetBaseURL(DefaultBaseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json").
		SetTransport(&http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DefaultConnectTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		})
}

func newTransferClient(timeout time.Duration) *resty.Client {
	return resty.New().
		SetTimeout(timeout).
		SetRetryCount(DefaultMaxRetries).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second)
}
