package alerting

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crdberrors "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/crickarena/fantasy-cricket/internal/platform/logging"
	"github.com/crickarena/fantasy-cricket/internal/platform/resilience"
)

const defaultRequestTimeout = 5 * time.Second

type alertPayload struct {
	Title       string            `json:"title"`
	Service     string            `json:"service"`
	Environment string            `json:"environment"`
	Fields      map[string]string `json:"fields,omitempty"`
	RaisedAt    time.Time         `json:"raised_at"`
}

// WebhookClient delivers operator alerts to a configured HTTP endpoint.
// Alerting is never on a user path, so the breaker fails fast when the
// endpoint misbehaves instead of stacking timeouts.
type WebhookClient struct {
	endpoint    string
	service     string
	environment string
	timeout     time.Duration
	client      *fasthttp.Client
	breaker     *resilience.CircuitBreaker
	logger      *logging.Logger
	now         func() time.Time
}

type WebhookConfig struct {
	Endpoint       string
	ServiceName    string
	Environment    string
	RequestTimeout time.Duration
	Breaker        resilience.CircuitBreakerConfig
}

func NewWebhookClient(cfg WebhookConfig, logger *logging.Logger) *WebhookClient {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.Breaker)

	return &WebhookClient{
		endpoint:    strings.TrimSpace(cfg.Endpoint),
		service:     cfg.ServiceName,
		environment: cfg.Environment,
		timeout:     cfg.RequestTimeout,
		client: &fasthttp.Client{
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
		breaker: resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		logger:  logger,
		now:     time.Now,
	}
}

// Enabled reports whether an endpoint is configured. A disabled client
// swallows alerts after logging them, which keeps call sites branch-free.
func (c *WebhookClient) Enabled() bool {
	return c.endpoint != ""
}

func (c *WebhookClient) Alert(ctx context.Context, title string, fields map[string]string) error {
	if !c.Enabled() {
		c.logger.WarnContext(ctx, "ops alert with no webhook configured", "title", title)
		return nil
	}
	if err := c.breaker.Allow(); err != nil {
		return crdberrors.Wrap(err, "alert webhook")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	payload := alertPayload{
		Title:       title,
		Service:     c.service,
		Environment: c.environment,
		Fields:      fields,
		RaisedAt:    c.now().UTC(),
	}
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		c.breaker.RecordSuccess()
		return crdberrors.Wrap(err, "encode alert payload")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(buf.Bytes())

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		c.breaker.RecordFailure()
		return crdberrors.Wrapf(err, "post alert to %s", c.endpoint)
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		c.breaker.RecordFailure()
		return crdberrors.Newf("alert webhook returned status %d", code)
	}

	c.breaker.RecordSuccess()
	return nil
}
