package network

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/panoramablock/rwasync/internal/domain/entity"
)

const defaultFriendbotURL = "https://friendbot.stellar.org"

// FriendbotClient requests testnet funding for freshly generated accounts.
type FriendbotClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewFriendbotClient creates a new Friendbot client. An empty baseURL
// selects the SDF-hosted Friendbot.
func NewFriendbotClient(baseURL string, timeout time.Duration, logger *zap.Logger) *FriendbotClient {
	if baseURL == "" {
		baseURL = defaultFriendbotURL
	}
	return &FriendbotClient{
		client:  &fasthttp.Client{},
		baseURL: baseURL,
		timeout: timeout,
		logger:  logger.Named("FriendbotClient"),
	}
}

// Fund asks Friendbot to create and fund the account.
func (c *FriendbotClient) Fund(ctx context.Context, address string) error {
	requestURL := fmt.Sprintf("%s/?addr=%s", c.baseURL, address)
	c.logger.Debug("Requesting account funding from Friendbot", zap.String("address", address))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return &entity.NetworkError{Operation: "friendbot_fund", Err: err}
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return &entity.NetworkError{
			Operation: "friendbot_fund",
			Err:       fmt.Errorf("friendbot returned status %d", resp.StatusCode()),
		}
	}

	c.logger.Info("Account funded via Friendbot", zap.String("address", address))
	return nil
}
