package types

import "github.com/shopspring/decimal"

// ListItemReq 挂单请求
type ListItemReq struct {
	CallerAddress     string          `json:"caller_address" binding:"required"`     // 卖家地址
	CollectionAddress string          `json:"collection_address" binding:"required"` // NFT 合约地址
	TokenID           string          `json:"token_id" binding:"required"`           // Token ID (十进制)
	MinPrice          decimal.Decimal `json:"min_price"`                             // 最低可接受出价
	BuyNowPrice       decimal.Decimal `json:"buy_now_price"`                         // 一口价, 0 表示关闭
}

// ListItemResp 挂单结果
type ListItemResp struct {
	ItemID uint64 `json:"item_id"`
}

// SetPriceReq 修改价格请求 (一口价或最低价)
type SetPriceReq struct {
	CallerAddress string          `json:"caller_address" binding:"required"`
	Price         decimal.Decimal `json:"price"`
}

// BuyNowReq 一口价购买请求
type BuyNowReq struct {
	CallerAddress string          `json:"caller_address" binding:"required"`
	TenderAmount  decimal.Decimal `json:"tender_amount"` // 必须与一口价完全相等
}

// DelistReq 下架请求
type DelistReq struct {
	CallerAddress string `json:"caller_address" binding:"required"`
}

// ItemsResp 挂单镜像分页结果 (来自落库的快照, 非引擎实时状态)
type ItemsResp struct {
	Result []ItemInfo `json:"result"`
}

// ItemInfo 挂单详情
type ItemInfo struct {
	ItemID            uint64          `json:"item_id"`
	CollectionAddress string          `json:"collection_address"`
	TokenID           string          `json:"token_id"`
	Owner             string          `json:"owner"`
	MinPrice          decimal.Decimal `json:"min_price"`
	BuyNowPrice       decimal.Decimal `json:"buy_now_price"`
	Live              bool            `json:"live"`
	Sold              bool            `json:"sold"`
}
