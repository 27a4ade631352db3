package dao

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// 活动类型 ID, 持久化到活动表
const (
	Sale           = 1 // 出价被接受成交
	Listing        = 2
	CancelListing  = 3
	Buy            = 4 // 一口价成交
	ItemBid        = 5
	CancelItemBid  = 6
	AcceptItemBid  = 7
	SetBuyNowPrice = 8
	SetMinPrice    = 9
)

// Activity 活动流水记录, 每条对外广播的通知落一行
type Activity struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ActivityType      int             `gorm:"column:activity_type"`
	ItemID            uint64          `gorm:"column:item_id"`
	CollectionAddress string          `gorm:"column:collection_address"`
	TokenID           string          `gorm:"column:token_id"`
	Maker             string          `gorm:"column:maker"`
	Taker             string          `gorm:"column:taker"`
	Price             decimal.Decimal `gorm:"column:price;type:decimal(38,0)"`
	EventTime         int64           `gorm:"column:event_time"`
}

// ItemSnapshot 挂单状态镜像, 供查询接口使用, 核心事实在引擎内存中
type ItemSnapshot struct {
	ItemID            uint64          `gorm:"column:item_id;primaryKey"`
	CollectionAddress string          `gorm:"column:collection_address"`
	TokenID           string          `gorm:"column:token_id"`
	Owner             string          `gorm:"column:owner"`
	MinPrice          decimal.Decimal `gorm:"column:min_price;type:decimal(38,0)"`
	BuyNowPrice       decimal.Decimal `gorm:"column:buy_now_price;type:decimal(38,0)"`
	Live              bool            `gorm:"column:live"`
	Sold              bool            `gorm:"column:sold"`
	UpdateTime        int64           `gorm:"column:update_time"`
}

// ActivityTableName 活动表按链名分表
func ActivityTableName(chain string) string {
	return fmt.Sprintf("nm_activities_%s", chain)
}

// ItemTableName 挂单镜像表按链名分表
func ItemTableName(chain string) string {
	return fmt.Sprintf("nm_items_%s", chain)
}
