package marketplace

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Item 挂单记录
// 一个 Item 将一个 NFT 资产和它的销售条件绑定在一起
// 一旦 Sold 置为 true, 该记录成为不可变的历史, 永远不会被删除
type Item struct {
	ID          uint64          `json:"id"`            // 挂单 ID, 从 1 开始单调递增, 永不复用
	Collection  common.Address  `json:"collection"`    // NFT 合约地址
	TokenID     *big.Int        `json:"token_id"`      // NFT Token ID
	Owner       common.Address  `json:"owner"`         // 市场视角的当前所有者 (缓存, 非最终事实)
	MinPrice    decimal.Decimal `json:"min_price"`     // 可接受的最低出价
	BuyNowPrice decimal.Decimal `json:"buy_now_price"` // 一口价, 0 表示关闭一口价通道
	Live        bool            `json:"live"`          // 是否仍在架上
	Sold        bool            `json:"sold"`          // 是否已售出 (终态)

	// settling 表示该 Item 正在执行结算的外部划转阶段
	// 用作针对重入调用的互斥标记, 重入的变更调用会被直接拒绝
	settling bool
}

// Bid 针对某个 Item 的公开出价
// 出价没有顺序语义, 同一出价人允许以不同价格挂多个出价
// (bidder, price) 在一个 Item 的出价集合内即是出价的身份;
// Handle 是额外分配的单调句柄, 仅在 stable_bid_handles 开启时对外暴露
type Bid struct {
	Handle uint64          `json:"handle"`
	Bidder common.Address  `json:"bidder"`
	Price  decimal.Decimal `json:"price"`
}

// Policy 市场策略配置
// 只能由行政主体 (admin) 通过策略接口修改
type Policy struct {
	CommissionPercent int64                   `json:"commission_percent"` // 平台抽成百分比, [0,100]
	Bank              common.Address          `json:"bank"`               // 抽成接收账户
	Allowed           map[common.Address]bool `json:"allowed"`            // 准入合约白名单, 空表示全部接受
}

// acceptsCollection 白名单检查, 空白名单表示接受所有合约
func (p Policy) acceptsCollection(collection common.Address) bool {
	if len(p.Allowed) == 0 {
		return true
	}
	return p.Allowed[collection]
}

// assetKey 生成 (collection, instance) 对的成员集键
// 同一资产实例同时最多只能有一条在架且未售出的挂单
func assetKey(collection common.Address, tokenID *big.Int) string {
	return strings.ToLower(collection.Hex()) + ":" + tokenID.String()
}

// splitPrice 计算抽成拆分
// commission = floor(price * percent / 100), sellerCut = price - commission
// 不变量: sellerCut + commission == price
func splitPrice(price decimal.Decimal, percent int64) (sellerCut, commission decimal.Decimal) {
	commission = price.Mul(decimal.NewFromInt(percent)).Div(decimal.NewFromInt(100)).Floor()
	sellerCut = price.Sub(commission)
	return sellerCut, commission
}
