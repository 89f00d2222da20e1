// Package chain wraps a wallet provider into a contract backend: every chain
// read and write is a JSON-RPC request routed through the wallet.
package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"charm-feedback-tui/wallet"
)

// ErrSubscriptionsUnsupported is returned by SubscribeFilterLogs. The front
// end re-reads after its own writes instead of following contract events.
var ErrSubscriptionsUnsupported = errors.New("log subscriptions are not supported")

// Connection is a provider-backed client. It satisfies bind.ContractBackend
// and bind.DeployBackend.
type Connection struct {
	provider wallet.Provider
}

// NewConnection wraps p.
func NewConnection(p wallet.Provider) *Connection {
	return &Connection{provider: p}
}

// Provider returns the wrapped wallet.
func (c *Connection) Provider() wallet.Provider { return c.provider }

func (c *Connection) call(ctx context.Context, result any, method string, params ...any) error {
	raw, err := c.provider.Request(ctx, method, params...)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if len(raw) == 0 || string(raw) == "null" {
		return ethereum.NotFound
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}

// ChainID asks the wallet which chain it is on.
func (c *Connection) ChainID(ctx context.Context) (*big.Int, error) {
	var id hexutil.Big
	if err := c.call(ctx, &id, "eth_chainId"); err != nil {
		return nil, err
	}
	return (*big.Int)(&id), nil
}

// Network resolves the chain id to a Network.
func (c *Connection) Network(ctx context.Context) (Network, error) {
	id, err := c.ChainID(ctx)
	if err != nil {
		return Network{}, err
	}
	return NetworkFor(id), nil
}

// RequestAccounts asks the wallet for account access (eth_requestAccounts).
func (c *Connection) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accts []common.Address
	if err := c.call(ctx, &accts, "eth_requestAccounts"); err != nil {
		return nil, err
	}
	return accts, nil
}

// Accounts lists the accounts already exposed to the page (eth_accounts).
func (c *Connection) Accounts(ctx context.Context) ([]common.Address, error) {
	var accts []common.Address
	if err := c.call(ctx, &accts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accts, nil
}

// BalanceAt returns the wei balance of account at blockNumber (nil = latest).
func (c *Connection) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	var bal hexutil.Big
	if err := c.call(ctx, &bal, "eth_getBalance", account, toBlockNumArg(blockNumber)); err != nil {
		return nil, err
	}
	return (*big.Int)(&bal), nil
}

func (c *Connection) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	var code hexutil.Bytes
	if err := c.call(ctx, &code, "eth_getCode", contract, toBlockNumArg(blockNumber)); err != nil {
		return nil, err
	}
	return code, nil
}

func (c *Connection) PendingCodeAt(ctx context.Context, contract common.Address) ([]byte, error) {
	var code hexutil.Bytes
	if err := c.call(ctx, &code, "eth_getCode", contract, "pending"); err != nil {
		return nil, err
	}
	return code, nil
}

func (c *Connection) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var out hexutil.Bytes
	if err := c.call(ctx, &out, "eth_call", toCallArg(msg), toBlockNumArg(blockNumber)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Connection) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	var head *types.Header
	if err := c.call(ctx, &head, "eth_getBlockByNumber", toBlockNumArg(number), false); err != nil {
		return nil, err
	}
	return head, nil
}

func (c *Connection) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var nonce hexutil.Uint64
	if err := c.call(ctx, &nonce, "eth_getTransactionCount", account, "pending"); err != nil {
		return 0, err
	}
	return uint64(nonce), nil
}

func (c *Connection) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	var price hexutil.Big
	if err := c.call(ctx, &price, "eth_gasPrice"); err != nil {
		return nil, err
	}
	return (*big.Int)(&price), nil
}

func (c *Connection) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	var tip hexutil.Big
	if err := c.call(ctx, &tip, "eth_maxPriorityFeePerGas"); err != nil {
		return nil, err
	}
	return (*big.Int)(&tip), nil
}

func (c *Connection) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	var gas hexutil.Uint64
	if err := c.call(ctx, &gas, "eth_estimateGas", toCallArg(msg)); err != nil {
		return 0, err
	}
	return uint64(gas), nil
}

func (c *Connection) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	data, err := tx.MarshalBinary()
	if err != nil {
		return err
	}
	var hash common.Hash
	return c.call(ctx, &hash, "eth_sendRawTransaction", hexutil.Encode(data))
}

func (c *Connection) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var r *types.Receipt
	if err := c.call(ctx, &r, "eth_getTransactionReceipt", txHash); err != nil {
		return nil, err
	}
	return r, nil
}

func (c *Connection) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	arg, err := toFilterArg(q)
	if err != nil {
		return nil, err
	}
	var logs []types.Log
	if err := c.call(ctx, &logs, "eth_getLogs", arg); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Connection) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error) {
	return nil, ErrSubscriptionsUnsupported
}

func toBlockNumArg(number *big.Int) string {
	if number == nil {
		return "latest"
	}
	if number.Sign() >= 0 {
		return hexutil.EncodeBig(number)
	}
	return gethrpc.BlockNumber(number.Int64()).String()
}

func toCallArg(msg ethereum.CallMsg) any {
	arg := map[string]any{
		"from": msg.From,
		"to":   msg.To,
	}
	if len(msg.Data) > 0 {
		arg["input"] = hexutil.Bytes(msg.Data)
	}
	if msg.Value != nil {
		arg["value"] = (*hexutil.Big)(msg.Value)
	}
	if msg.Gas != 0 {
		arg["gas"] = hexutil.Uint64(msg.Gas)
	}
	if msg.GasPrice != nil {
		arg["gasPrice"] = (*hexutil.Big)(msg.GasPrice)
	}
	if msg.GasFeeCap != nil {
		arg["maxFeePerGas"] = (*hexutil.Big)(msg.GasFeeCap)
	}
	if msg.GasTipCap != nil {
		arg["maxPriorityFeePerGas"] = (*hexutil.Big)(msg.GasTipCap)
	}
	return arg
}

func toFilterArg(q ethereum.FilterQuery) (any, error) {
	arg := map[string]any{
		"address": q.Addresses,
		"topics":  q.Topics,
	}
	if q.BlockHash != nil {
		if q.FromBlock != nil || q.ToBlock != nil {
			return nil, errors.New("cannot specify both BlockHash and FromBlock/ToBlock")
		}
		arg["blockHash"] = *q.BlockHash
		return arg, nil
	}
	if q.FromBlock == nil {
		arg["fromBlock"] = "0x0"
	} else {
		arg["fromBlock"] = toBlockNumArg(q.FromBlock)
	}
	arg["toBlock"] = toBlockNumArg(q.ToBlock)
	return arg, nil
}
