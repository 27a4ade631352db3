package types

import "github.com/shopspring/decimal"

// SubmitBidReq 出价请求
type SubmitBidReq struct {
	CallerAddress string          `json:"caller_address" binding:"required"` // 出价人地址
	Price         decimal.Decimal `json:"price"`                             // 出价
}

// SubmitBidResp 出价结果
// Handle 仅在 stable_bid_handles 开启时返回
type SubmitBidResp struct {
	Handle uint64 `json:"handle,omitempty"`
}

// CancelBidReq 取消出价请求
// Handle 非零时走句柄路径 (需开启 stable_bid_handles), 否则按 (caller, price) 匹配
type CancelBidReq struct {
	CallerAddress string          `json:"caller_address" binding:"required"`
	Price         decimal.Decimal `json:"price"`
	Handle        uint64          `json:"handle"`
}

// AcceptBidReq 接受出价请求
// Handle 非零时走句柄路径 (需开启 stable_bid_handles), 否则按 (bidder, price) 匹配
type AcceptBidReq struct {
	CallerAddress string          `json:"caller_address" binding:"required"` // 必须是记录所有者
	Bidder        string          `json:"bidder"`
	Price         decimal.Decimal `json:"price"`
	Handle        uint64          `json:"handle"`
}

// AcceptBidResp 接受出价结果
// Matched=false 表示没有匹配的出价, 调用按原始语义静默返回
type AcceptBidResp struct {
	Matched bool `json:"matched"`
}

// BidInfo 单条公开出价
type BidInfo struct {
	Handle uint64          `json:"handle,omitempty"`
	Bidder string          `json:"bidder"`
	Price  decimal.Decimal `json:"price"`
}
