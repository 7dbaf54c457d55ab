// Package rpc probes the Starknet JSON-RPC endpoint of a profile.
package rpc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// Endpoint is the result of probing one RPC URL.
type Endpoint struct {
	URL         string        `json:"url"`
	ChainID     string        `json:"chainId,omitempty"`
	BlockNumber uint64        `json:"blockNumber"`
	Latency     time.Duration `json:"latencyNs"`
	Healthy     bool          `json:"healthy"`
	Error       string        `json:"error,omitempty"`
}

// HealthCheck asks url for its chain id and latest block. A node is healthy
// if both calls succeed within timeout.
func HealthCheck(ctx context.Context, url string, timeout time.Duration) (Endpoint, error) {
	ep := Endpoint{URL: url}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	client, err := gethrpc.DialContext(timeoutCtx, url)
	if err != nil {
		ep.Error = err.Error()
		return ep, fmt.Errorf("dial %s: %w", url, err)
	}
	defer client.Close()

	var chainID string
	if err := client.CallContext(timeoutCtx, &chainID, "starknet_chainId"); err != nil {
		ep.Latency = time.Since(start)
		ep.Error = err.Error()
		return ep, fmt.Errorf("starknet_chainId: %w", err)
	}
	var block uint64
	if err := client.CallContext(timeoutCtx, &block, "starknet_blockNumber"); err != nil {
		ep.Latency = time.Since(start)
		ep.Error = err.Error()
		return ep, fmt.Errorf("starknet_blockNumber: %w", err)
	}

	ep.Latency = time.Since(start)
	ep.ChainID = DecodeChainID(chainID)
	ep.BlockNumber = block
	ep.Healthy = true
	return ep, nil
}

// DecodeChainID turns a felt-encoded short string ("0x534e5f4d41494e") into
// its text form ("SN_MAIN"). Values that are not printable ASCII are
// returned unchanged.
func DecodeChainID(felt string) string {
	b, err := hexutil.Decode(felt)
	if err != nil || len(b) == 0 {
		return felt
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return felt
		}
	}
	return strings.TrimSpace(string(b))
}
