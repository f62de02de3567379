package client

import (
	"context"
	"simple-ledger-go/blocks"
	"simple-ledger-go/nodes"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	DEFAULT_TIMEOUT = 5 * time.Minute
)

// Client talks to a node's HTTP API.
type Client struct {
	rc *resty.Client
}

func NewClient(baseURL string) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DEFAULT_TIMEOUT).
		SetHeader("Content-Type", "application/json")
	return &Client{rc: rc}
}

func (c *Client) Blocks(ctx context.Context) ([]blocks.Block, error) {
	var chain []blocks.Block
	resp, err := c.rc.R().
		SetContext(ctx).
		SetResult(&chain).
		Get(nodes.BLOCKS_PATH)
	if err := check(resp, err, "get blocks"); err != nil {
		return nil, err
	}
	return chain, nil
}

// Mine blocks until the node has found the proof of work.
func (c *Client) Mine(ctx context.Context, data []byte) (blocks.Block, error) {
	var block blocks.Block
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(nodes.Payload(data)).
		SetResult(&block).
		Post(nodes.MINE_PATH)
	if err := check(resp, err, "mine"); err != nil {
		return blocks.Block{}, err
	}
	return block, nil
}

func (c *Client) Offer(ctx context.Context, chain []blocks.Block) (nodes.OfferResponse, error) {
	var out nodes.OfferResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(chain).
		SetResult(&out).
		Post(nodes.OFFER_PATH)
	if err := check(resp, err, "offer"); err != nil {
		return nodes.OfferResponse{}, err
	}
	return out, nil
}

func check(resp *resty.Response, err error, what string) error {
	if err != nil {
		return errors.WithMessage(err, what)
	}
	if resp.IsError() {
		return errors.Errorf("%s: %s: %s", what, resp.Status(), resp.String())
	}
	return nil
}
