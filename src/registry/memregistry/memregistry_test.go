package memregistry

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	market = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	alice  = common.HexToAddress("0x0000000000000000000000000000000000000011")
	bob    = common.HexToAddress("0x0000000000000000000000000000000000000022")

	collection = common.HexToAddress("0x00000000000000000000000000000000000000f1")
)

func TestAssetRegistryTransferRequiresApproval(t *testing.T) {
	r := NewAssetRegistry(market)
	tokenID := big.NewInt(1)
	r.Mint(alice, collection, tokenID)

	// 未授权市场时转移被拒绝
	err := r.Transfer(context.Background(), collection, tokenID, alice, bob)
	require.Error(t, err)

	r.SetApprovalForAll(alice, market, true)
	require.NoError(t, r.Transfer(context.Background(), collection, tokenID, alice, bob))

	owner, err := r.OwnerOf(context.Background(), collection, tokenID)
	require.NoError(t, err)
	require.Equal(t, bob, owner)

	// from 必须是当前所有者
	err = r.Transfer(context.Background(), collection, tokenID, alice, bob)
	require.Error(t, err)
}

func TestAssetRegistrySingleApprovalClearedOnTransfer(t *testing.T) {
	r := NewAssetRegistry(market)
	tokenID := big.NewInt(7)
	r.Mint(alice, collection, tokenID)
	r.Approve(market, collection, tokenID)

	ok, err := r.IsApprovedOrOwner(context.Background(), market, collection, tokenID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, r.Transfer(context.Background(), collection, tokenID, alice, bob))

	// 单次授权随转移清空
	ok, err = r.IsApprovedOrOwner(context.Background(), market, collection, tokenID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCurrencyLedgerAllowanceConsumed(t *testing.T) {
	l := NewCurrencyLedger(market)
	l.Credit(alice, decimal.NewFromInt(100))
	l.SetAllowance(alice, decimal.NewFromInt(60))

	ok, err := l.TransferFrom(context.Background(), alice, market, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.True(t, ok)

	// 划转消耗额度, 剩余 10 不足以再转 50
	ok, err = l.TransferFrom(context.Background(), alice, market, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.False(t, ok)

	// 市场动自己账户的资金不受额度限制
	ok, err = l.TransferFrom(context.Background(), market, bob, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.True(t, ok)

	b, err := l.BalanceOf(context.Background(), bob)
	require.NoError(t, err)
	require.True(t, b.Equal(decimal.NewFromInt(50)))
}

func TestCurrencyLedgerInsufficientBalance(t *testing.T) {
	l := NewCurrencyLedger(market)
	l.Credit(alice, decimal.NewFromInt(10))
	l.SetAllowance(alice, decimal.NewFromInt(100))

	// 余额不足: ok=false 且无错误, 账本不变
	ok, err := l.TransferFrom(context.Background(), alice, market, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.False(t, ok)

	b, err := l.BalanceOf(context.Background(), alice)
	require.NoError(t, err)
	require.True(t, b.Equal(decimal.NewFromInt(10)))

	a, err := l.Allowance(context.Background(), alice, market)
	require.NoError(t, err)
	require.True(t, a.Equal(decimal.NewFromInt(100)))
}
