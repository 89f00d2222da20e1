package feedback

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"charm-feedback-tui/contract"
	"charm-feedback-tui/helpers"
	"charm-feedback-tui/wallet"
)

var author = common.HexToAddress("0xABCDEF0000000000000000000000000000001234")

type fakeContract struct {
	entries   []contract.Entry
	readErr   error
	sendErr   error
	mineErr   error
	status    uint64
	submitted []string
}

func (f *fakeContract) GetAllFeedback(context.Context) ([]contract.Entry, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.entries, nil
}

func (f *fakeContract) SubmitFeedback(_ context.Context, message string) (*types.Transaction, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.submitted = append(f.submitted, message)
	return types.NewTx(&types.LegacyTx{Nonce: uint64(len(f.submitted))}), nil
}

func (f *fakeContract) WaitMined(context.Context, *types.Transaction) (*types.Receipt, error) {
	if f.mineErr != nil {
		return nil, f.mineErr
	}
	return &types.Receipt{Status: f.status, BlockNumber: big.NewInt(7)}, nil
}

func (f *fakeContract) NewFeedback(r *types.Receipt) (contract.Entry, bool) {
	if r.Status != types.ReceiptStatusSuccessful || len(f.submitted) == 0 {
		return contract.Entry{}, false
	}
	return contract.Entry{User: author, Message: f.submitted[len(f.submitted)-1], Timestamp: big.NewInt(1700000000)}, true
}

func TestFormat(t *testing.T) {
	f := NewFormatter(language.AmericanEnglish, time.UTC)
	e := contract.Entry{User: author, Message: "hi", Timestamp: big.NewInt(1700000000)}

	got := f.Format(e)
	// the display form is checksummed
	assert.Equal(t, helpers.ShortenAddr(author.Hex()), got.ShortAddress)
	assert.True(t, strings.EqualFold("0xABCD...1234", got.ShortAddress))
	assert.Equal(t, "hi", got.Message)
	assert.Equal(t, author.Hex(), got.User)
	assert.Equal(t, "11/14/2023, 10:13:20 PM", got.Timestamp)
	assert.Equal(t, got, f.Format(e), "formatting is idempotent")
}

func TestFormatterLocales(t *testing.T) {
	e := contract.Entry{User: author, Timestamp: big.NewInt(1700000000)}
	tests := []struct {
		locale string
		want   string
	}{
		{"en_US.UTF-8", "11/14/2023, 10:13:20 PM"},
		{"en_GB.UTF-8", "14/11/2023, 22:13:20"},
		{"de_DE", "14.11.2023, 22:13:20"},
		{"ja_JP.UTF-8", "2023/11/14 22:13:20"},
		{"C", "11/14/2023, 10:13:20 PM"},
		{"", "11/14/2023, 10:13:20 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			f := NewFormatter(ParseLocale(tt.locale), time.UTC)
			assert.Equal(t, tt.want, f.Format(e).Timestamp)
		})
	}
}

func TestLoad(t *testing.T) {
	f := NewFormatter(language.AmericanEnglish, time.UTC)
	src := &fakeContract{entries: []contract.Entry{
		{User: author, Message: "one", Timestamp: big.NewInt(1700000000)},
		{User: author, Message: "two", Timestamp: big.NewInt(1700000100)},
	}}

	got, err := Load(context.Background(), src, f)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[1].Message)

	src.readErr = errors.New("dial tcp: connection refused")
	_, err = Load(context.Background(), src, f)
	assert.ErrorIs(t, err, ErrNetworkRead)

	_, err = Load(context.Background(), nil, f)
	assert.ErrorIs(t, err, ErrNetworkRead)
}

func TestValidate(t *testing.T) {
	msg, err := Validate("  hello \n")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg)

	_, err = Validate("   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = Validate(strings.Repeat("é", MaxMessageLength))
	assert.NoError(t, err)
	_, err = Validate(strings.Repeat("a", MaxMessageLength+1))
	assert.ErrorIs(t, err, ErrMessageTooLong)
}

func TestSubmit(t *testing.T) {
	c := &fakeContract{status: types.ReceiptStatusSuccessful}

	res, err := Submit(context.Background(), c, " hello ")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, c.submitted)
	require.NotNil(t, res.Entry)
	assert.Equal(t, "hello", res.Entry.Message)
	assert.Equal(t, int64(7), res.Receipt.BlockNumber.Int64())
}

func TestSubmitFailures(t *testing.T) {
	tests := []struct {
		name    string
		c       *fakeContract
		wantErr []error
	}{
		{
			name:    "rejected signature",
			c:       &fakeContract{sendErr: &wallet.RPCError{Code: wallet.CodeUserRejected, Message: "User denied transaction signature."}},
			wantErr: []error{ErrTransactionFailed, wallet.ErrUserRejected},
		},
		{
			name:    "reverted",
			c:       &fakeContract{status: types.ReceiptStatusFailed},
			wantErr: []error{ErrTransactionFailed},
		},
		{
			name:    "dropped",
			c:       &fakeContract{mineErr: context.DeadlineExceeded},
			wantErr: []error{ErrTransactionFailed, context.DeadlineExceeded},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Submit(context.Background(), tt.c, "hello")
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
			assert.Nil(t, res.Entry)
		})
	}
}

func TestSubmitNotConnected(t *testing.T) {
	_, err := Submit(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, ErrNotConnected)
}
