package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"charm-feedback-tui/wallet"
)

var ErrAccountNotExposed = errors.New("account is not exposed by the wallet")

// Signer is a write capability for one account. Transactions are signed by
// the wallet over eth_signTransaction and broadcast by the Connection.
type Signer struct {
	conn    *Connection
	account common.Address
	chainID *big.Int
}

// Signer derives a signer for account. The wallet must currently expose it.
func (c *Connection) Signer(ctx context.Context, account common.Address) (*Signer, error) {
	accts, err := c.Accounts(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(accts, account) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotExposed, account.Hex())
	}
	id, err := c.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	return &Signer{conn: c, account: account, chainID: id}, nil
}

func (s *Signer) Account() common.Address { return s.account }

func (s *Signer) ChainID() *big.Int { return new(big.Int).Set(s.chainID) }

// TransactOpts builds bind options whose signing step is delegated to the
// wallet.
func (s *Signer) TransactOpts(ctx context.Context) *bind.TransactOpts {
	return &bind.TransactOpts{
		From:    s.account,
		Context: ctx,
		Signer:  func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
			return s.sign(ctx, from, tx)
		},
	}
}

func (s *Signer) sign(ctx context.Context, from common.Address, tx *types.Transaction) (*types.Transaction, error) {
	if from != s.account {
		return nil, bind.ErrNotAuthorized
	}
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	var signedRaw hexutil.Bytes
	if err := s.conn.call(ctx, &signedRaw, "eth_signTransaction", wallet.SignRequest{From: from, Raw: raw}); err != nil {
		return nil, err
	}
	signed := new(types.Transaction)
	if err := signed.UnmarshalBinary(signedRaw); err != nil {
		return nil, fmt.Errorf("decode signed transaction: %w", err)
	}
	sender, err := types.Sender(types.LatestSignerForChainID(s.chainID), signed)
	if err != nil {
		return nil, err
	}
	if sender != from {
		return nil, fmt.Errorf("wallet signed as %s, expected %s", sender.Hex(), from.Hex())
	}
	return signed, nil
}
