package marketplace

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// List 创建挂单
// 前置条件:
//  1. 目标合约在准入白名单内 (白名单为空则全部接受)
//  2. (collection, instance) 当前没有在架且未售出的挂单
//  3. 调用方是该 NFT 的所有者, 或持有其转移授权 (以资产登记处为准)
//
// 成功后分配下一个 item id, 将调用方快照为记录所有者, 并广播挂单事件
func (m *Marketplace) List(ctx context.Context, caller, collection common.Address, tokenID *big.Int, minPrice, buyNowPrice decimal.Decimal) (uint64, error) {
	if tokenID == nil || minPrice.IsNegative() || buyNowPrice.IsNegative() {
		return 0, ErrInvalidArgument
	}

	key := assetKey(collection, tokenID)

	// 第一阶段: 锁内校验并抢占成员集位置
	// 占位使用 id=0 (合法 id 从 1 开始), 避免外部调用期间被并发重复挂单
	m.mu.Lock()
	if !m.policy.acceptsCollection(collection) {
		m.mu.Unlock()
		return 0, ErrContractNotAccepted
	}
	if _, exists := m.listed[key]; exists {
		m.mu.Unlock()
		return 0, ErrAlreadyListed
	}
	m.listed[key] = 0
	m.mu.Unlock()

	// 第二阶段: 锁外询问资产登记处, 避免外部 RPC 阻塞整个账本
	ok, err := m.assets.IsApprovedOrOwner(ctx, caller, collection, tokenID)
	if err != nil || !ok {
		m.mu.Lock()
		delete(m.listed, key)
		m.mu.Unlock()
		if err != nil {
			return 0, errors.Wrap(err, "failed on query asset registry")
		}
		return 0, ErrNotAuthorized
	}

	// 第三阶段: 提交 (锁外期间白名单可能已收紧)
	m.mu.Lock()
	if !m.policy.acceptsCollection(collection) {
		delete(m.listed, key)
		m.mu.Unlock()
		return 0, ErrContractNotAccepted
	}
	itemID := m.nextItemID
	m.nextItemID++
	item := &Item{
		ID:          itemID,
		Collection:  collection,
		TokenID:     new(big.Int).Set(tokenID),
		Owner:       caller,
		MinPrice:    minPrice,
		BuyNowPrice: buyNowPrice,
		Live:        true,
	}
	m.items[itemID] = item
	m.listed[key] = itemID
	m.mu.Unlock()

	m.emit(Event{
		Type:        EventItemListed,
		ItemID:      itemID,
		Collection:  collection,
		TokenID:     item.TokenID,
		Maker:       caller,
		MinPrice:    minPrice,
		BuyNowPrice: buyNowPrice,
		Price:       buyNowPrice,
	})

	return itemID, nil
}

// SetBuyNowPrice 修改一口价, 置 0 表示关闭一口价通道
// 仅记录所有者可调用, 且只在 live && !sold 时允许
func (m *Marketplace) SetBuyNowPrice(caller common.Address, itemID uint64, newPrice decimal.Decimal) error {
	if newPrice.IsNegative() {
		return ErrInvalidArgument
	}

	m.mu.Lock()
	item, err := m.mutableItem(itemID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if item.Owner != caller {
		m.mu.Unlock()
		return ErrNotItemOwner
	}
	item.BuyNowPrice = newPrice
	snapshot := *item
	m.mu.Unlock()

	m.emit(Event{
		Type:        EventBuyNowPriceSet,
		ItemID:      itemID,
		Collection:  snapshot.Collection,
		TokenID:     snapshot.TokenID,
		Maker:       caller,
		BuyNowPrice: newPrice,
		Price:       newPrice,
	})
	return nil
}

// SetMinPrice 修改最低可接受出价, 规则与 SetBuyNowPrice 相同
func (m *Marketplace) SetMinPrice(caller common.Address, itemID uint64, newPrice decimal.Decimal) error {
	if newPrice.IsNegative() {
		return ErrInvalidArgument
	}

	m.mu.Lock()
	item, err := m.mutableItem(itemID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if item.Owner != caller {
		m.mu.Unlock()
		return ErrNotItemOwner
	}
	item.MinPrice = newPrice
	snapshot := *item
	m.mu.Unlock()

	m.emit(Event{
		Type:       EventMinPriceSet,
		ItemID:     itemID,
		Collection: snapshot.Collection,
		TokenID:    snapshot.TokenID,
		Maker:      caller,
		MinPrice:   newPrice,
		Price:      newPrice,
	})
	return nil
}

// Delist 下架
// 显式的下架转移: live 置 false 并释放成员集位置, 挂单记录保留
// 已下架的 Item 不再接受购买和出价, 已有出价仍可被取消
func (m *Marketplace) Delist(caller common.Address, itemID uint64) error {
	m.mu.Lock()
	item, err := m.mutableItem(itemID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if item.Owner != caller {
		m.mu.Unlock()
		return ErrNotItemOwner
	}
	item.Live = false
	delete(m.listed, assetKey(item.Collection, item.TokenID))
	snapshot := *item
	m.mu.Unlock()

	m.emit(Event{
		Type:       EventItemDelisted,
		ItemID:     itemID,
		Collection: snapshot.Collection,
		TokenID:    snapshot.TokenID,
		Maker:      caller,
	})
	return nil
}
