// Package feedback reads and writes feedback entries through a contract
// binding and prepares them for display.
package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/core/types"

	"charm-feedback-tui/contract"
)

// MaxMessageLength is the longest message the form accepts, in characters.
const MaxMessageLength = 500

var (
	ErrNetworkRead       = errors.New("failed to load feedbacks from the contract")
	ErrTransactionFailed = errors.New("failed to submit feedback")
	ErrNotConnected      = errors.New("wallet not connected")
	ErrEmptyMessage      = errors.New("feedback message is empty")
	ErrMessageTooLong    = fmt.Errorf("feedback message is longer than %d characters", MaxMessageLength)
)

// Source lists stored entries.
type Source interface {
	GetAllFeedback(ctx context.Context) ([]contract.Entry, error)
}

// Sink submits new entries.
type Sink interface {
	SubmitFeedback(ctx context.Context, message string) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	NewFeedback(receipt *types.Receipt) (contract.Entry, bool)
}

// Contract is a bound, writable feedback contract. *contract.Binding
// implements it.
type Contract interface {
	Source
	Sink
}

// Load reads every entry and formats it. On failure the error wraps
// ErrNetworkRead and the caller keeps whatever it displayed before.
func Load(ctx context.Context, src Source, f Formatter) ([]Formatted, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: %w", ErrNetworkRead, ErrNotConnected)
	}
	entries, err := src.GetAllFeedback(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetworkRead, err)
	}
	out := make([]Formatted, 0, len(entries))
	for _, e := range entries {
		out = append(out, f.Format(e))
	}
	return out, nil
}

// Validate trims message and checks it fits the form's limits.
func Validate(message string) (string, error) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(msg) > MaxMessageLength {
		return "", ErrMessageTooLong
	}
	return msg, nil
}

// Result describes an included submission.
type Result struct {
	Tx      *types.Transaction
	Receipt *types.Receipt
	// Entry is decoded from the receipt's NewFeedback log, when present.
	Entry *contract.Entry
}

// Submit sends message and waits until the transaction is included with a
// successful status. Every failure after validation wraps
// ErrTransactionFailed.
func Submit(ctx context.Context, sink Sink, message string) (Result, error) {
	if sink == nil {
		return Result{}, ErrNotConnected
	}
	msg, err := Validate(message)
	if err != nil {
		return Result{}, err
	}

	tx, err := sink.SubmitFeedback(ctx, msg)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}
	receipt, err := sink.WaitMined(ctx, tx)
	if err != nil {
		return Result{Tx: tx}, fmt.Errorf("%w: wait for %s: %w", ErrTransactionFailed, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return Result{Tx: tx, Receipt: receipt}, fmt.Errorf("%w: transaction %s reverted", ErrTransactionFailed, tx.Hash().Hex())
	}

	res := Result{Tx: tx, Receipt: receipt}
	if e, ok := sink.NewFeedback(receipt); ok {
		res.Entry = &e
	}
	return res, nil
}
