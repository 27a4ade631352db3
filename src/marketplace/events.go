package marketplace

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// 事件类型标识, 与活动表的 activity_type 对应
const (
	EventItemListed     = "list"
	EventItemDelisted   = "cancel_list"
	EventItemSoldBuyNow = "buy"
	EventItemSoldBid    = "sale"
	EventBidSubmitted   = "item_bid"
	EventBidCancelled   = "cancel_item_bid"
	EventBidAccepted    = "accept_item_bid"
	EventBuyNowPriceSet = "set_buy_now_price"
	EventMinPriceSet    = "set_min_price"
)

// Event 市场对外广播的通知
// 由外部的观察者/索引器消费, 核心不关心它们被如何处理
type Event struct {
	Type        string          `json:"type"`
	ItemID      uint64          `json:"item_id"`
	Collection  common.Address  `json:"collection"`
	TokenID     *big.Int        `json:"token_id"`
	Maker       common.Address  `json:"maker"`         // 动作发起方 (卖家/出价人)
	Taker       common.Address  `json:"taker"`         // 对手方 (买家/出价人), 可为零地址
	Price       decimal.Decimal `json:"price"`         // 成交价或出价
	MinPrice    decimal.Decimal `json:"min_price"`     // 挂单时的最低价
	BuyNowPrice decimal.Decimal `json:"buy_now_price"` // 挂单时的一口价
	EventTime   int64           `json:"event_time"`    // Unix 秒
}

// Emitter 事件出口
// 实现方不得回调市场的变更入口 (核心在持有内部状态时发出事件)
type Emitter interface {
	Emit(event Event)
}

// NopEmitter 空实现, 测试或无观察者场景使用
type NopEmitter struct{}

func (NopEmitter) Emit(Event) {}

func (m *Marketplace) emit(e Event) {
	if e.EventTime == 0 {
		e.EventTime = time.Now().Unix()
	}
	m.emitter.Emit(e)
}
