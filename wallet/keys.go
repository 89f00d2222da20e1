package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrNoAccounts     = errors.New("wallet has no accounts")
	ErrUnknownAccount = errors.New("account not held by wallet")
)

// Keyring holds the signing keys of a wallet.
type Keyring interface {
	Accounts() []common.Address
	SignTx(account common.Address, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}

// PrivateKeys is an in-memory keyring, mostly for development chains.
type PrivateKeys struct {
	order []common.Address
	keys  map[common.Address]*ecdsa.PrivateKey
}

// ParsePrivateKeys builds a keyring from hex encoded secp256k1 keys.
func ParsePrivateKeys(hexKeys []string) (*PrivateKeys, error) {
	k := &PrivateKeys{keys: make(map[common.Address]*ecdsa.PrivateKey)}
	for i, h := range hexKeys {
		h = strings.TrimPrefix(strings.TrimSpace(h), "0x")
		if h == "" {
			continue
		}
		key, err := crypto.HexToECDSA(h)
		if err != nil {
			return nil, fmt.Errorf("private key %d: %w", i, err)
		}
		k.add(key)
	}
	if len(k.order) == 0 {
		return nil, ErrNoAccounts
	}
	return k, nil
}

// NewPrivateKeys wraps already parsed keys.
func NewPrivateKeys(keys ...*ecdsa.PrivateKey) *PrivateKeys {
	k := &PrivateKeys{keys: make(map[common.Address]*ecdsa.PrivateKey)}
	for _, key := range keys {
		k.add(key)
	}
	return k
}

func (k *PrivateKeys) add(key *ecdsa.PrivateKey) {
	addr := crypto.PubkeyToAddress(key.PublicKey)
	if _, ok := k.keys[addr]; ok {
		return
	}
	k.keys[addr] = key
	k.order = append(k.order, addr)
}

func (k *PrivateKeys) Accounts() []common.Address { return slices.Clone(k.order) }

func (k *PrivateKeys) SignTx(account common.Address, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	key, ok := k.keys[account]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, account.Hex())
	}
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
}

// Keystore is a keyring over an encrypted go-ethereum keystore directory.
type Keystore struct {
	ks *keystore.KeyStore
}

// OpenKeystore opens dir and unlocks every account in it with passphrase.
func OpenKeystore(dir, passphrase string) (*Keystore, error) {
	ks := keystore.NewKeyStore(dir, keystore.StandardScryptN, keystore.StandardScryptP)
	accts := ks.Accounts()
	if len(accts) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoAccounts, dir)
	}
	for _, a := range accts {
		if err := ks.Unlock(a, passphrase); err != nil {
			return nil, fmt.Errorf("unlock %s: %w", a.Address.Hex(), err)
		}
	}
	return &Keystore{ks: ks}, nil
}

func (k *Keystore) Accounts() []common.Address {
	accts := k.ks.Accounts()
	out := make([]common.Address, 0, len(accts))
	for _, a := range accts {
		out = append(out, a.Address)
	}
	return out
}

func (k *Keystore) SignTx(account common.Address, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	if !k.ks.HasAddress(account) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, account.Hex())
	}
	return k.ks.SignTx(accounts.Account{Address: account}, tx, chainID)
}
