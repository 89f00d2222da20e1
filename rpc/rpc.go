package rpc

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// ErrNoClient is reported when no endpoint is configured.
var ErrNoClient = errors.New("no RPC client (set ETH_RPC_URL)")

// Client wraps an Ethereum RPC client
type Client struct {
	*ethclient.Client
	URL string
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, 8*time.Second)
}

// ConnectWithTimeout attempts to connect with a custom timeout
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Client: nil, Error: err}
	}

	return ConnectResult{
		Client: &Client{
			Client: client,
			URL:    url,
		},
		Error: nil,
	}
}

// Upstream returns the raw JSON-RPC client, the node side of a wallet.
func (c *Client) Upstream() *gethrpc.Client {
	return c.Client.Client()
}

// Status is a snapshot of an endpoint, shown on the settings page.
type Status struct {
	URL      string
	ChainID  *big.Int
	Block    uint64
	LoadedAt time.Time
	Err      error
}

// Probe queries chain id and head block of the endpoint.
func Probe(client *Client, timeout time.Duration) Status {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s := Status{LoadedAt: time.Now()}
	if client == nil || client.Client == nil {
		s.Err = ErrNoClient
		return s
	}
	s.URL = client.URL

	id, err := client.ChainID(ctx)
	if err != nil {
		s.Err = err
		return s
	}
	s.ChainID = id

	block, err := client.BlockNumber(ctx)
	if err != nil {
		s.Err = err
		return s
	}
	s.Block = block
	return s
}
