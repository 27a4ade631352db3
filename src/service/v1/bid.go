package service

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nechmads/nfts-marketplace/src/pkg/xzap"
	"github.com/nechmads/nfts-marketplace/src/service/svc"
	types "github.com/nechmads/nfts-marketplace/src/types/v1"
)

// SubmitBid 提交出价
// 返回的句柄仅在 stable_bid_handles 开启时向外透出
func SubmitBid(ctx context.Context, svcCtx *svc.ServerCtx, caller common.Address, itemID uint64, price decimal.Decimal) (uint64, error) {
	handle, err := svcCtx.Market.SubmitBid(ctx, caller, itemID, price)
	if err != nil {
		return 0, err
	}
	xzap.WithContext(ctx).Info("bid submitted",
		zap.Uint64("item_id", itemID),
		zap.String("bidder", caller.Hex()),
		zap.String("price", price.String()))
	if !svcCtx.Market.StableBidHandlesEnabled() {
		return 0, nil
	}
	return handle, nil
}

// CancelBid 取消出价, handle 非零时走句柄路径
func CancelBid(ctx context.Context, svcCtx *svc.ServerCtx, caller common.Address, itemID uint64, price decimal.Decimal, handle uint64) error {
	if handle != 0 {
		return svcCtx.Market.CancelBidByHandle(caller, itemID, handle)
	}
	return svcCtx.Market.CancelBid(caller, itemID, price)
}

// AcceptBid 接受出价, handle 非零时走句柄路径
// matched=false 表示没有匹配的出价 (原始语义: 静默无操作)
func AcceptBid(ctx context.Context, svcCtx *svc.ServerCtx, caller common.Address, itemID uint64, bidder common.Address, price decimal.Decimal, handle uint64) (bool, error) {
	var matched bool
	var err error
	if handle != 0 {
		matched, err = svcCtx.Market.AcceptBidByHandle(ctx, caller, itemID, handle)
	} else {
		matched, err = svcCtx.Market.AcceptBid(ctx, caller, itemID, bidder, price)
	}
	if err != nil {
		return false, err
	}
	if !matched {
		xzap.WithContext(ctx).Info("accept bid matched nothing",
			zap.Uint64("item_id", itemID),
			zap.String("bidder", bidder.Hex()),
			zap.String("price", price.String()))
	}
	return matched, nil
}

// GetOpenBids 查询公开出价
func GetOpenBids(_ context.Context, svcCtx *svc.ServerCtx, itemID uint64) ([]types.BidInfo, error) {
	bids, err := svcCtx.Market.GetOpenBids(itemID)
	if err != nil {
		return nil, err
	}
	withHandles := svcCtx.Market.StableBidHandlesEnabled()
	out := make([]types.BidInfo, 0, len(bids))
	for _, b := range bids {
		info := types.BidInfo{
			Bidder: strings.ToLower(b.Bidder.Hex()),
			Price:  b.Price,
		}
		if withHandles {
			info.Handle = b.Handle
		}
		out = append(out, info)
	}
	return out, nil
}
