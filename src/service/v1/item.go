package service

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nechmads/nfts-marketplace/src/marketplace"
	"github.com/nechmads/nfts-marketplace/src/pkg/xzap"
	"github.com/nechmads/nfts-marketplace/src/service/svc"
	types "github.com/nechmads/nfts-marketplace/src/types/v1"
)

// ListItem 创建挂单
func ListItem(ctx context.Context, svcCtx *svc.ServerCtx, caller, collection common.Address, tokenID *big.Int, minPrice, buyNowPrice decimal.Decimal) (uint64, error) {
	itemID, err := svcCtx.Market.List(ctx, caller, collection, tokenID, minPrice, buyNowPrice)
	if err != nil {
		return 0, err
	}
	xzap.WithContext(ctx).Info("item listed",
		zap.Uint64("item_id", itemID),
		zap.String("collection", collection.Hex()),
		zap.String("token_id", tokenID.String()),
		zap.String("seller", caller.Hex()))
	return itemID, nil
}

// GetItem 查询挂单详情
func GetItem(_ context.Context, svcCtx *svc.ServerCtx, itemID uint64) (*types.ItemInfo, error) {
	item, err := svcCtx.Market.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	return toItemInfo(item), nil
}

// BuyNow 一口价购买
func BuyNow(ctx context.Context, svcCtx *svc.ServerCtx, caller common.Address, itemID uint64, tendered decimal.Decimal) error {
	if err := svcCtx.Market.BuyNow(ctx, caller, itemID, tendered); err != nil {
		return err
	}
	xzap.WithContext(ctx).Info("item sold via buy now",
		zap.Uint64("item_id", itemID),
		zap.String("buyer", caller.Hex()),
		zap.String("price", tendered.String()))
	return nil
}

// SetBuyNowPrice 修改一口价
func SetBuyNowPrice(_ context.Context, svcCtx *svc.ServerCtx, caller common.Address, itemID uint64, price decimal.Decimal) error {
	return svcCtx.Market.SetBuyNowPrice(caller, itemID, price)
}

// SetMinPrice 修改最低价
func SetMinPrice(_ context.Context, svcCtx *svc.ServerCtx, caller common.Address, itemID uint64, price decimal.Decimal) error {
	return svcCtx.Market.SetMinPrice(caller, itemID, price)
}

// Delist 下架
func Delist(ctx context.Context, svcCtx *svc.ServerCtx, caller common.Address, itemID uint64) error {
	if err := svcCtx.Market.Delist(caller, itemID); err != nil {
		return err
	}
	xzap.WithContext(ctx).Info("item delisted", zap.Uint64("item_id", itemID))
	return nil
}

// GetItems 浏览挂单镜像, 数据来自异步落库的快照表
func GetItems(ctx context.Context, svcCtx *svc.ServerCtx, collectionAddr string, liveOnly bool, page, pageSize int) (*types.ItemsResp, error) {
	snapshots, err := svcCtx.Dao.QueryItemSnapshots(ctx, svcCtx.C.ChainCfg.Name, collectionAddr, liveOnly, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed on query item snapshots")
	}
	result := make([]types.ItemInfo, 0, len(snapshots))
	for _, s := range snapshots {
		result = append(result, types.ItemInfo{
			ItemID:            s.ItemID,
			CollectionAddress: s.CollectionAddress,
			TokenID:           s.TokenID,
			Owner:             s.Owner,
			MinPrice:          s.MinPrice,
			BuyNowPrice:       s.BuyNowPrice,
			Live:              s.Live,
			Sold:              s.Sold,
		})
	}
	return &types.ItemsResp{Result: result}, nil
}

func toItemInfo(item marketplace.Item) *types.ItemInfo {
	return &types.ItemInfo{
		ItemID:            item.ID,
		CollectionAddress: strings.ToLower(item.Collection.Hex()),
		TokenID:           item.TokenID.String(),
		Owner:             strings.ToLower(item.Owner.Hex()),
		MinPrice:          item.MinPrice,
		BuyNowPrice:       item.BuyNowPrice,
		Live:              item.Live,
		Sold:              item.Sold,
	}
}
