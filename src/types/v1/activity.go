package types

import "github.com/shopspring/decimal"

// ActivityInfo 活动流水
type ActivityInfo struct {
	EventType         string          `json:"event_type"`
	ItemID            uint64          `json:"item_id"`
	CollectionAddress string          `json:"collection_address"`
	TokenID           string          `json:"token_id"`
	Maker             string          `json:"maker"`
	Taker             string          `json:"taker"`
	Price             decimal.Decimal `json:"price"`
	EventTime         int64           `json:"event_time"`
}

// ActivitiesResp 活动流水分页结果
type ActivitiesResp struct {
	Result []ActivityInfo `json:"result"`
	Count  int64          `json:"count"`
}
