package marketplace

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nechmads/nfts-marketplace/src/registry/memregistry"
)

func TestBuyNowHappyPath(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 100)
	f.fund(buyerAddr, 100)

	err := f.market.BuyNow(context.Background(), buyerAddr, itemID, decimal.NewFromInt(100))
	require.NoError(t, err)

	// 抽成 2%: 买方 -100, 卖方 +98, 银行 +2, 托管归零
	require.True(t, f.balance(buyerAddr).IsZero())
	require.True(t, f.balance(sellerAddr).Equal(decimal.NewFromInt(98)))
	require.True(t, f.balance(bankAddr).Equal(decimal.NewFromInt(2)))
	require.True(t, f.balance(custodyAddr).IsZero())

	// 资产所有权已转移
	owner, err := f.assets.OwnerOf(context.Background(), collectionA, big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, buyerAddr, owner)

	// 记录进入终态: sold 置位, 一口价清零, 所有者切换
	item, err := f.market.GetItem(itemID)
	require.NoError(t, err)
	require.True(t, item.Sold)
	require.True(t, item.BuyNowPrice.IsZero())
	require.Equal(t, buyerAddr, item.Owner)

	require.Equal(t, []string{EventItemListed, EventItemSoldBuyNow}, f.emitted.types())
}

func TestBuyNowDemandsExactTender(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 100)
	f.fund(buyerAddr, 200)

	// 差额不被容忍, 多付与少付一样被拒绝
	err := f.market.BuyNow(context.Background(), buyerAddr, itemID, decimal.NewFromInt(99))
	require.ErrorIs(t, err, ErrWrongTenderAmount)
	err = f.market.BuyNow(context.Background(), buyerAddr, itemID, decimal.NewFromInt(101))
	require.ErrorIs(t, err, ErrWrongTenderAmount)

	// 拒绝后零状态变更
	require.True(t, f.balance(buyerAddr).Equal(decimal.NewFromInt(200)))
	item, err := f.market.GetItem(itemID)
	require.NoError(t, err)
	require.False(t, item.Sold)
}

func TestBuyNowCommissionRoundsDown(t *testing.T) {
	f := newFixture(t, defaultConfig())
	require.NoError(t, f.market.SetCommission(adminAddr, 15))
	itemID := f.mintAndList(sellerAddr, 1, 1, 20)
	f.fund(buyerAddr, 20)

	require.NoError(t, f.market.BuyNow(context.Background(), buyerAddr, itemID, decimal.NewFromInt(20)))

	// floor(20*15/100) = 3, 卖方得 17, 两份之和等于全款
	require.True(t, f.balance(bankAddr).Equal(decimal.NewFromInt(3)))
	require.True(t, f.balance(sellerAddr).Equal(decimal.NewFromInt(17)))
}

func TestBuyNowZeroCommission(t *testing.T) {
	f := newFixture(t, defaultConfig())
	require.NoError(t, f.market.SetCommission(adminAddr, 0))
	itemID := f.mintAndList(sellerAddr, 1, 1, 100)
	f.fund(buyerAddr, 100)

	require.NoError(t, f.market.BuyNow(context.Background(), buyerAddr, itemID, decimal.NewFromInt(100)))
	require.True(t, f.balance(sellerAddr).Equal(decimal.NewFromInt(100)))
	require.True(t, f.balance(bankAddr).IsZero())
}

func TestBuyNowInsufficientFunds(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 100)
	f.fund(buyerAddr, 50)

	err := f.market.BuyNow(context.Background(), buyerAddr, itemID, decimal.NewFromInt(100))
	require.ErrorIs(t, err, ErrInsufficientFundsOrAllowance)

	// 失败后挂单完好, 可被其他人买走
	f.fund(bidderAddr, 100)
	require.NoError(t, f.market.BuyNow(context.Background(), bidderAddr, itemID, decimal.NewFromInt(100)))
}

func TestBuyNowRefundsWhenAssetTransferFails(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 100)
	f.fund(buyerAddr, 100)
	f.assets.FailTransfers(true)

	err := f.market.BuyNow(context.Background(), buyerAddr, itemID, decimal.NewFromInt(100))
	require.Error(t, err)

	// 资金原路退回, 内部状态零变更
	require.True(t, f.balance(buyerAddr).Equal(decimal.NewFromInt(100)))
	require.True(t, f.balance(custodyAddr).IsZero())
	item, err := f.market.GetItem(itemID)
	require.NoError(t, err)
	require.False(t, item.Sold)
	require.True(t, item.Live)

	// 故障排除后同一挂单可正常成交, 但退款消耗了授权额度, 需重新授予
	f.assets.FailTransfers(false)
	f.currency.SetAllowance(buyerAddr, decimal.NewFromInt(100))
	require.NoError(t, f.market.BuyNow(context.Background(), buyerAddr, itemID, decimal.NewFromInt(100)))
}

func TestBuyNowTwiceRejected(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 100)
	f.fund(buyerAddr, 100)
	f.fund(bidderAddr, 100)

	require.NoError(t, f.market.BuyNow(context.Background(), buyerAddr, itemID, decimal.NewFromInt(100)))

	err := f.market.BuyNow(context.Background(), bidderAddr, itemID, decimal.NewFromInt(100))
	require.ErrorIs(t, err, ErrItemAlreadySold)
	require.True(t, f.balance(bidderAddr).Equal(decimal.NewFromInt(100)))
}

func TestAcceptBidFullFlow(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)
	f.fund(bidderAddr, 60)

	handle, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.NotZero(t, handle)

	matched, err := f.market.AcceptBid(context.Background(), sellerAddr, itemID, bidderAddr, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.True(t, matched)

	// 2% 抽成: 出价人 -50, 卖方 +49, 银行 +1
	require.True(t, f.balance(bidderAddr).Equal(decimal.NewFromInt(10)))
	require.True(t, f.balance(sellerAddr).Equal(decimal.NewFromInt(49)))
	require.True(t, f.balance(bankAddr).Equal(decimal.NewFromInt(1)))

	owner, err := f.assets.OwnerOf(context.Background(), collectionA, big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, bidderAddr, owner)

	// 接受后记录售出且所有者切换 (成交挂单不可复活)
	item, err := f.market.GetItem(itemID)
	require.NoError(t, err)
	require.True(t, item.Sold)
	require.Equal(t, bidderAddr, item.Owner)

	// 成交的出价已从出价簿移除
	bids, err := f.market.GetOpenBids(itemID)
	require.NoError(t, err)
	require.Empty(t, bids)

	require.Equal(t, []string{EventItemListed, EventBidSubmitted, EventBidAccepted, EventItemSoldBid}, f.emitted.types())
}

func TestAcceptBidNoMatchIsSilent(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)
	f.fund(bidderAddr, 60)
	_, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(50))
	require.NoError(t, err)

	// 价格不匹配: 无错误, 无成交, 无状态变更
	matched, err := f.market.AcceptBid(context.Background(), sellerAddr, itemID, bidderAddr, decimal.NewFromInt(40))
	require.NoError(t, err)
	require.False(t, matched)

	item, err := f.market.GetItem(itemID)
	require.NoError(t, err)
	require.False(t, item.Sold)
	bids, err := f.market.GetOpenBids(itemID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
}

func TestAcceptBidOwnerOnly(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)
	f.fund(bidderAddr, 60)
	_, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(50))
	require.NoError(t, err)

	_, err = f.market.AcceptBid(context.Background(), strangerAddr, itemID, bidderAddr, decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrNotItemOwner)
}

func TestBuyNowAfterAcceptBidRejected(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 100)
	f.fund(bidderAddr, 50)
	f.fund(buyerAddr, 100)

	_, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(50))
	require.NoError(t, err)
	matched, err := f.market.AcceptBid(context.Background(), sellerAddr, itemID, bidderAddr, decimal.NewFromInt(50))
	require.NoError(t, err)
	require.True(t, matched)

	// 接受出价同样把记录推入终态, 一口价通道关闭
	err = f.market.BuyNow(context.Background(), buyerAddr, itemID, decimal.NewFromInt(100))
	require.ErrorIs(t, err, ErrItemAlreadySold)
	require.True(t, f.balance(buyerAddr).Equal(decimal.NewFromInt(100)))
}

func TestAcceptBidOnDelistedItemRejected(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)
	f.fund(bidderAddr, 60)
	handle, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(50))
	require.NoError(t, err)

	require.NoError(t, f.market.Delist(sellerAddr, itemID))

	// 下架后的挂单不再成交, 两条接受路径同样被拒
	matched, err := f.market.AcceptBid(context.Background(), sellerAddr, itemID, bidderAddr, decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrItemDelisted)
	require.False(t, matched)
	matched, err = f.market.AcceptBidByHandle(context.Background(), sellerAddr, itemID, handle)
	require.ErrorIs(t, err, ErrItemDelisted)
	require.False(t, matched)

	// 资金与所有权零变更
	require.True(t, f.balance(bidderAddr).Equal(decimal.NewFromInt(60)))
	owner, err := f.assets.OwnerOf(context.Background(), collectionA, big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, sellerAddr, owner)
	item, err := f.market.GetItem(itemID)
	require.NoError(t, err)
	require.False(t, item.Sold)
}

// disburseFailLedger 让托管分发步骤返回系统性故障, 其余划转正常
type disburseFailLedger struct {
	*memregistry.CurrencyLedger
	custody common.Address
	fail    bool
}

func (l *disburseFailLedger) TransferFrom(ctx context.Context, from, to common.Address, amount decimal.Decimal) (bool, error) {
	if l.fail && from == l.custody {
		return false, errors.New("ledger unavailable")
	}
	return l.CurrencyLedger.TransferFrom(ctx, from, to, amount)
}

func TestBuyNowCommitsWhenDisbursementFails(t *testing.T) {
	assets := memregistry.NewAssetRegistry(custodyAddr)
	currency := &disburseFailLedger{
		CurrencyLedger: memregistry.NewCurrencyLedger(custodyAddr),
		custody:        custodyAddr,
	}
	market, err := New(defaultConfig(), assets, currency, nil)
	require.NoError(t, err)

	assets.Mint(sellerAddr, collectionA, big.NewInt(1))
	assets.SetApprovalForAll(sellerAddr, custodyAddr, true)
	itemID, err := market.List(context.Background(), sellerAddr, collectionA, big.NewInt(1),
		decimal.NewFromInt(10), decimal.NewFromInt(100))
	require.NoError(t, err)
	currency.Credit(buyerAddr, decimal.NewFromInt(100))
	currency.SetAllowance(buyerAddr, decimal.NewFromInt(100))

	currency.fail = true
	err = market.BuyNow(context.Background(), buyerAddr, itemID, decimal.NewFromInt(100))
	// 资产已不可逆转移, 所有权状态提交, 错误带专用种类供调用方区分
	require.ErrorIs(t, err, ErrDisbursementFailed)

	item, err := market.GetItem(itemID)
	require.NoError(t, err)
	require.True(t, item.Sold)
	require.Equal(t, buyerAddr, item.Owner)
	owner, err := assets.OwnerOf(context.Background(), collectionA, big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, buyerAddr, owner)

	// 全款滞留在托管账户, 等待对账
	b, err := currency.BalanceOf(context.Background(), custodyAddr)
	require.NoError(t, err)
	require.True(t, b.Equal(decimal.NewFromInt(100)))
}

func TestSoldAssetCanBeRelistedByNewOwner(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 100)
	f.fund(buyerAddr, 100)
	require.NoError(t, f.market.BuyNow(context.Background(), buyerAddr, itemID, decimal.NewFromInt(100)))

	// 售出释放成员集位置, 新主人可以重新挂单
	f.assets.SetApprovalForAll(buyerAddr, custodyAddr, true)
	newID, err := f.market.List(context.Background(), buyerAddr, collectionA, big.NewInt(1),
		decimal.NewFromInt(50), decimal.NewFromInt(500))
	require.NoError(t, err)
	require.Greater(t, newID, itemID)
}
