package extbridge

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/panoramablock/rwasync/internal/app/port"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to a browser companion agent that proxies the wallet
// extension. Each call maps onto one endpoint of the agent.
type Client struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		client:  &fasthttp.Client{},
		baseURL: baseURL,
		timeout: timeout,
		logger:  logger.Named("ExtensionBridge"),
	}
}

func (c *Client) IsInstalled(ctx context.Context) bool {
	var resp struct {
		Installed bool `json:"installed"`
	}
	if err := c.call(ctx, "GET", "/installed", nil, &resp); err != nil {
		c.logger.Debug("installed probe failed", zap.Error(err))
		return false
	}
	return resp.Installed
}

func (c *Client) IsAllowed(ctx context.Context) (bool, error) {
	var resp struct {
		Allowed bool `json:"allowed"`
	}
	if err := c.call(ctx, "GET", "/allowed", nil, &resp); err != nil {
		return false, err
	}
	return resp.Allowed, nil
}

func (c *Client) SetAllowed(ctx context.Context) (bool, error) {
	var resp struct {
		Allowed bool `json:"allowed"`
	}
	if err := c.call(ctx, "POST", "/allowed", nil, &resp); err != nil {
		return false, err
	}
	return resp.Allowed, nil
}

func (c *Client) GetPublicKey(ctx context.Context) (string, error) {
	var resp struct {
		PublicKey string `json:"publicKey"`
	}
	if err := c.call(ctx, "GET", "/public-key", nil, &resp); err != nil {
		return "", err
	}
	return resp.PublicKey, nil
}

func (c *Client) SignTransaction(ctx context.Context, envelopeXDR, networkPassphrase string) (string, error) {
	req := map[string]string{
		"envelopeXdr":       envelopeXDR,
		"networkPassphrase": networkPassphrase,
	}
	var resp struct {
		SignedEnvelopeXDR string `json:"signedEnvelopeXdr"`
	}
	if err := c.call(ctx, "POST", "/sign", req, &resp); err != nil {
		return "", err
	}
	return resp.SignedEnvelopeXDR, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal bridge request")
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return errors.Wrap(err, "bridge request failed")
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return errors.Errorf("bridge returned status %d", resp.StatusCode())
	}
	if dest != nil {
		if err := json.Unmarshal(resp.Body(), dest); err != nil {
			return errors.Wrap(err, "decode bridge response")
		}
	}
	return nil
}

var _ port.ExtensionBridge = (*Client)(nil)
