package marketplace

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/nechmads/nfts-marketplace/src/registry/memregistry"
)

func TestSubmitBidValidation(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)
	f.fund(bidderAddr, 100)

	_, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.Zero)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(9))
	require.ErrorIs(t, err, ErrBidTooLow)

	_, err = f.market.SubmitBid(context.Background(), bidderAddr, 99, decimal.NewFromInt(10))
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestSubmitBidChecksFundsAndAllowance(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)

	// 余额不足
	f.currency.Credit(bidderAddr, decimal.NewFromInt(30))
	f.currency.SetAllowance(bidderAddr, decimal.NewFromInt(100))
	_, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrInsufficientFundsOrAllowance)

	// 余额够但授权额度不足
	f.currency.Credit(bidderAddr, decimal.NewFromInt(70))
	f.currency.SetAllowance(bidderAddr, decimal.NewFromInt(40))
	_, err = f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrInsufficientFundsOrAllowance)

	f.currency.SetAllowance(bidderAddr, decimal.NewFromInt(50))
	_, err = f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(50))
	require.NoError(t, err)
}

func TestSameBidderMultipleBids(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)
	f.fund(bidderAddr, 100)

	h1, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(20))
	require.NoError(t, err)
	h2, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(30))
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)

	bids, err := f.market.GetOpenBids(itemID)
	require.NoError(t, err)
	require.Len(t, bids, 2)
}

func TestCancelBidIsIdempotent(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)
	f.fund(bidderAddr, 100)
	_, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(20))
	require.NoError(t, err)

	// 取消不存在的出价不是错误
	require.NoError(t, f.market.CancelBid(bidderAddr, itemID, decimal.NewFromInt(99)))
	require.NoError(t, f.market.CancelBid(strangerAddr, itemID, decimal.NewFromInt(20)))

	bids, err := f.market.GetOpenBids(itemID)
	require.NoError(t, err)
	require.Len(t, bids, 1)

	// 匹配的取消只移除第一条
	require.NoError(t, f.market.CancelBid(bidderAddr, itemID, decimal.NewFromInt(20)))
	require.NoError(t, f.market.CancelBid(bidderAddr, itemID, decimal.NewFromInt(20)))
	bids, err = f.market.GetOpenBids(itemID)
	require.NoError(t, err)
	require.Empty(t, bids)

	require.ErrorIs(t, f.market.CancelBid(bidderAddr, 99, decimal.NewFromInt(20)), ErrItemNotFound)
}

func TestCancelBidSurvivesDelist(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)
	f.fund(bidderAddr, 100)
	_, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(20))
	require.NoError(t, err)

	// 下架不清空出价簿, 已有出价仍可取消
	require.NoError(t, f.market.Delist(sellerAddr, itemID))
	require.NoError(t, f.market.CancelBid(bidderAddr, itemID, decimal.NewFromInt(20)))
	bids, err := f.market.GetOpenBids(itemID)
	require.NoError(t, err)
	require.Empty(t, bids)
}

func TestHandleEndpointsGatedByFlag(t *testing.T) {
	cfg := defaultConfig()
	cfg.StableBidHandles = false
	f := newFixture(t, cfg)
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)
	f.fund(bidderAddr, 100)
	handle, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(20))
	require.NoError(t, err)

	require.ErrorIs(t, f.market.CancelBidByHandle(bidderAddr, itemID, handle), ErrHandlesDisabled)
	_, err = f.market.AcceptBidByHandle(context.Background(), sellerAddr, itemID, handle)
	require.ErrorIs(t, err, ErrHandlesDisabled)
}

func TestCancelBidByHandle(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)
	f.fund(bidderAddr, 100)
	handle, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(20))
	require.NoError(t, err)

	// 只有出价人本人能按句柄取消
	require.ErrorIs(t, f.market.CancelBidByHandle(strangerAddr, itemID, handle), ErrNotAuthorized)

	require.NoError(t, f.market.CancelBidByHandle(bidderAddr, itemID, handle))
	// 幂等: 已取消的句柄再取消静默返回
	require.NoError(t, f.market.CancelBidByHandle(bidderAddr, itemID, handle))

	bids, err := f.market.GetOpenBids(itemID)
	require.NoError(t, err)
	require.Empty(t, bids)
}

func TestAcceptBidByHandle(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)
	f.fund(bidderAddr, 100)

	// 同价两条出价, 句柄精确指定成交哪一条
	h1, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(20))
	require.NoError(t, err)
	h2, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(20))
	require.NoError(t, err)

	matched, err := f.market.AcceptBidByHandle(context.Background(), sellerAddr, itemID, h2)
	require.NoError(t, err)
	require.True(t, matched)

	bids, err := f.market.GetOpenBids(itemID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	require.Equal(t, h1, bids[0].Handle)

	// 不存在的句柄: 静默 matched=false
	otherID := f.mintAndList(sellerAddr, 2, 10, 0)
	matched, err = f.market.AcceptBidByHandle(context.Background(), sellerAddr, otherID, 9999)
	require.NoError(t, err)
	require.False(t, matched)
}

// hookedLedger 在余额查询时触发回调, 模拟锁外窗口内的并发变更
type hookedLedger struct {
	*memregistry.CurrencyLedger
	hook func()
}

func (l *hookedLedger) BalanceOf(ctx context.Context, owner common.Address) (decimal.Decimal, error) {
	if l.hook != nil {
		l.hook()
	}
	return l.CurrencyLedger.BalanceOf(ctx, owner)
}

func TestSubmitBidRechecksMinPriceOnCommit(t *testing.T) {
	assets := memregistry.NewAssetRegistry(custodyAddr)
	currency := &hookedLedger{CurrencyLedger: memregistry.NewCurrencyLedger(custodyAddr)}
	market, err := New(defaultConfig(), assets, currency, nil)
	require.NoError(t, err)

	assets.Mint(sellerAddr, collectionA, big.NewInt(1))
	assets.SetApprovalForAll(sellerAddr, custodyAddr, true)
	itemID, err := market.List(context.Background(), sellerAddr, collectionA, big.NewInt(1),
		decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)
	currency.Credit(bidderAddr, decimal.NewFromInt(100))
	currency.SetAllowance(bidderAddr, decimal.NewFromInt(100))

	// 出价通过首轮校验后, 卖家在锁外窗口内抬高最低价
	currency.hook = func() {
		require.NoError(t, market.SetMinPrice(sellerAddr, itemID, decimal.NewFromInt(60)))
	}
	_, err = market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(50))
	require.ErrorIs(t, err, ErrBidTooLow)

	bids, err := market.GetOpenBids(itemID)
	require.NoError(t, err)
	require.Empty(t, bids)
}

func TestGetOpenBidsReturnsCopy(t *testing.T) {
	f := newFixture(t, defaultConfig())
	itemID := f.mintAndList(sellerAddr, 1, 10, 0)
	f.fund(bidderAddr, 100)
	_, err := f.market.SubmitBid(context.Background(), bidderAddr, itemID, decimal.NewFromInt(20))
	require.NoError(t, err)

	bids, err := f.market.GetOpenBids(itemID)
	require.NoError(t, err)
	bids[0].Price = decimal.NewFromInt(1)

	fresh, err := f.market.GetOpenBids(itemID)
	require.NoError(t, err)
	require.True(t, fresh[0].Price.Equal(decimal.NewFromInt(20)))
}
