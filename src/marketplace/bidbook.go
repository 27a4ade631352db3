package marketplace

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// SubmitBid 提交出价
// 前置条件: Item 在架且未售出, 价格不低于最低价,
// 且资金账本上出价人的实时余额与授予市场的授权额度均不低于出价
//
// 余额/授权在提交后仍可能变化, 这是设计上接受的竞态:
// 接受出价时的成败以资金账本划转调用的结果为准, 而不是提交时的检查
func (m *Marketplace) SubmitBid(ctx context.Context, caller common.Address, itemID uint64, price decimal.Decimal) (uint64, error) {
	if !price.IsPositive() {
		return 0, ErrInvalidArgument
	}

	// 第一阶段: 锁内校验
	m.mu.Lock()
	item, err := m.mutableItem(itemID)
	if err != nil {
		m.mu.Unlock()
		return 0, err
	}
	if price.LessThan(item.MinPrice) {
		m.mu.Unlock()
		return 0, ErrBidTooLow
	}
	collection, tokenID := item.Collection, item.TokenID
	m.mu.Unlock()

	// 第二阶段: 锁外查询资金账本
	balance, err := m.currency.BalanceOf(ctx, caller)
	if err != nil {
		return 0, errors.Wrap(err, "failed on query bidder balance")
	}
	allowance, err := m.currency.Allowance(ctx, caller, m.custody)
	if err != nil {
		return 0, errors.Wrap(err, "failed on query bidder allowance")
	}
	if balance.LessThan(price) || allowance.LessThan(price) {
		return 0, ErrInsufficientFundsOrAllowance
	}

	// 第三阶段: 重新校验后提交 (锁外期间 Item 可能已售出/下架/改价)
	m.mu.Lock()
	item, err = m.mutableItem(itemID)
	if err != nil {
		m.mu.Unlock()
		return 0, err
	}
	if price.LessThan(item.MinPrice) {
		m.mu.Unlock()
		return 0, ErrBidTooLow
	}
	handle := m.nextHandle
	m.nextHandle++
	m.bids[itemID] = append(m.bids[itemID], Bid{
		Handle: handle,
		Bidder: caller,
		Price:  price,
	})
	m.mu.Unlock()

	m.emit(Event{
		Type:       EventBidSubmitted,
		ItemID:     itemID,
		Collection: collection,
		TokenID:    tokenID,
		Maker:      caller,
		Price:      price,
	})

	return handle, nil
}

// CancelBid 取消第一条匹配 (caller, price) 的出价
// 找不到匹配时静默返回, 取消不存在的出价不是错误 (幂等)
func (m *Marketplace) CancelBid(caller common.Address, itemID uint64, price decimal.Decimal) error {
	m.mu.Lock()
	item, ok := m.items[itemID]
	if !ok {
		m.mu.Unlock()
		return ErrItemNotFound
	}
	// 结算进行中禁止取消, 防止取消与接受竞态造成账本损坏
	if item.settling {
		m.mu.Unlock()
		return ErrSettlementInProgress
	}
	idx := m.findBid(itemID, caller, price)
	if idx < 0 {
		m.mu.Unlock()
		return nil
	}
	removed := m.removeBidAt(itemID, idx)
	collection, tokenID := item.Collection, item.TokenID
	m.mu.Unlock()

	m.emit(Event{
		Type:       EventBidCancelled,
		ItemID:     itemID,
		Collection: collection,
		TokenID:    tokenID,
		Maker:      removed.Bidder,
		Price:      removed.Price,
	})
	return nil
}

// CancelBidByHandle 按句柄精确取消出价
// 仅在 stable_bid_handles 开启时可用; 与 CancelBid 同样幂等
func (m *Marketplace) CancelBidByHandle(caller common.Address, itemID uint64, handle uint64) error {
	if !m.stableBidHandles {
		return ErrHandlesDisabled
	}

	m.mu.Lock()
	item, ok := m.items[itemID]
	if !ok {
		m.mu.Unlock()
		return ErrItemNotFound
	}
	if item.settling {
		m.mu.Unlock()
		return ErrSettlementInProgress
	}
	idx := -1
	for i, b := range m.bids[itemID] {
		if b.Handle == handle {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return nil
	}
	if m.bids[itemID][idx].Bidder != caller {
		m.mu.Unlock()
		return ErrNotAuthorized
	}
	removed := m.removeBidAt(itemID, idx)
	collection, tokenID := item.Collection, item.TokenID
	m.mu.Unlock()

	m.emit(Event{
		Type:       EventBidCancelled,
		ItemID:     itemID,
		Collection: collection,
		TokenID:    tokenID,
		Maker:      removed.Bidder,
		Price:      removed.Price,
	})
	return nil
}

// findBid 返回第一条匹配 (bidder, price) 的出价下标, 无匹配返回 -1
// 调用方必须已持有锁
func (m *Marketplace) findBid(itemID uint64, bidder common.Address, price decimal.Decimal) int {
	for i, b := range m.bids[itemID] {
		if b.Bidder == bidder && b.Price.Equal(price) {
			return i
		}
	}
	return -1
}

// removeBidAt 末位换位删除, 不保序
// 调用方必须已持有锁
func (m *Marketplace) removeBidAt(itemID uint64, idx int) Bid {
	open := m.bids[itemID]
	removed := open[idx]
	last := len(open) - 1
	open[idx] = open[last]
	m.bids[itemID] = open[:last]
	return removed
}
