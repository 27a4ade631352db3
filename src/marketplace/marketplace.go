package marketplace

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nechmads/nfts-marketplace/src/registry"
)

// Config 市场引擎的初始配置
// 策略字段 (抽成/白名单/收款账户) 之后仅能通过行政接口修改
type Config struct {
	Admin             common.Address   // 行政主体, 唯一可修改策略的地址
	Custody           common.Address   // 市场托管账户, 结算资金的中转站
	Bank              common.Address   // 抽成接收账户
	CommissionPercent int64            // 初始抽成百分比 [0,100]
	Allowed           []common.Address // 初始准入合约白名单, 空表示全部接受
	StableBidHandles  bool             // 是否开放按句柄取消/接受出价的强化接口
}

// Marketplace 市场账本聚合根
// 持有挂单表 / 出价簿 / 策略三块共享可变状态,
// 所有变更入口都经由同一把锁串行化 (单一全局顺序)
type Marketplace struct {
	mu sync.RWMutex

	assets   registry.AssetRegistry
	currency registry.CurrencyLedger
	emitter  Emitter

	admin            common.Address
	custody          common.Address
	policy           Policy
	stableBidHandles bool

	items      map[uint64]*Item
	listed     map[string]uint64 // 在架且未售出的 (collection, instance) -> item id
	bids       map[uint64][]Bid  // item id -> 公开出价集合
	nextItemID uint64
	nextHandle uint64
}

// New 创建市场引擎
// emitter 传 nil 时使用空实现
func New(cfg Config, assets registry.AssetRegistry, currency registry.CurrencyLedger, emitter Emitter) (*Marketplace, error) {
	if cfg.CommissionPercent < 0 || cfg.CommissionPercent > 100 {
		return nil, ErrInvalidArgument
	}
	if emitter == nil {
		emitter = NopEmitter{}
	}
	allowed := make(map[common.Address]bool, len(cfg.Allowed))
	for _, c := range cfg.Allowed {
		allowed[c] = true
	}
	return &Marketplace{
		assets:   assets,
		currency: currency,
		emitter:  emitter,
		admin:    cfg.Admin,
		custody:  cfg.Custody,
		policy: Policy{
			CommissionPercent: cfg.CommissionPercent,
			Bank:              cfg.Bank,
			Allowed:           allowed,
		},
		stableBidHandles: cfg.StableBidHandles,
		items:            make(map[uint64]*Item),
		listed:           make(map[string]uint64),
		bids:             make(map[uint64][]Bid),
		nextItemID:       1,
		nextHandle:       1,
	}, nil
}

// GetItem 查询挂单记录
// 读操作可以与任何变更并发执行, 观察到的要么是变更前要么是变更后的状态
func (m *Marketplace) GetItem(itemID uint64) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[itemID]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	return *item, nil
}

// GetOpenBids 返回某个 Item 的公开出价
// 顺序为插入序, 但删除采用末位换位补洞, 因此跨删除后顺序不稳定
func (m *Marketplace) GetOpenBids(itemID uint64) ([]Bid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.items[itemID]; !ok {
		return nil, ErrItemNotFound
	}
	open := m.bids[itemID]
	out := make([]Bid, len(open))
	copy(out, open)
	return out, nil
}

// StableBidHandlesEnabled 句柄式出价接口是否开放
func (m *Marketplace) StableBidHandlesEnabled() bool {
	return m.stableBidHandles
}

// GetPolicy 返回当前策略的快照
func (m *Marketplace) GetPolicy() Policy {
	m.mu.RLock()
	defer m.mu.RUnlock()

	allowed := make(map[common.Address]bool, len(m.policy.Allowed))
	for c := range m.policy.Allowed {
		allowed[c] = true
	}
	p := m.policy
	p.Allowed = allowed
	return p
}

// mutableItem 变更入口的公共前置检查, 调用方必须已持有写锁
func (m *Marketplace) mutableItem(itemID uint64) (*Item, error) {
	item, ok := m.items[itemID]
	if !ok {
		return nil, ErrItemNotFound
	}
	if item.Sold {
		return nil, ErrItemAlreadySold
	}
	if item.settling {
		return nil, ErrSettlementInProgress
	}
	if !item.Live {
		return nil, ErrItemDelisted
	}
	return item, nil
}
