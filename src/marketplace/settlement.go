package marketplace

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// 结算采用两阶段的 check-effects-interactions 纪律:
//
//  1. 锁内完成全部前置校验, 并把 Item 标记为 settling --
//     标记期间任何针对同一 Item 的变更入口 (重入或并发) 都会被拒绝
//  2. 锁外执行外部划转. 资金经市场托管账户中转:
//     先把全款从买方拉入托管, 再转移资产, 最后从托管向卖方和抽成账户分发
//     任何可失败的步骤失败时, 托管中的资金原路退回买方, 内部状态零变更
//  3. 锁内提交: sold 置位 / 记录所有者切换 / 成员集释放, 然后广播事件
//
// 资产转移成功后的分发步骤只动托管自有资金, 按协作方约定不会因余额或授权失败;
// 若账本此时出现系统性故障, 所有权状态仍会提交 (资产已不可逆转移), 错误上抛由运维对账

// BuyNow 一口价购买
// tendered 必须与一口价完全相等, 不容忍任何差额
func (m *Marketplace) BuyNow(ctx context.Context, caller common.Address, itemID uint64, tendered decimal.Decimal) error {
	// 第一阶段: 校验并预占
	m.mu.Lock()
	item, err := m.mutableItem(itemID)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if item.BuyNowPrice.IsZero() {
		m.mu.Unlock()
		return ErrBuyNowDisabled
	}
	if !tendered.Equal(item.BuyNowPrice) {
		m.mu.Unlock()
		return ErrWrongTenderAmount
	}
	item.settling = true
	seller := item.Owner
	price := item.BuyNowPrice
	collection, tokenID := item.Collection, item.TokenID
	percent := m.policy.CommissionPercent
	bank := m.policy.Bank
	m.mu.Unlock()

	// 第二阶段: 外部划转
	moved, legErr := m.settleLegs(ctx, caller, seller, collection, tokenID, price, percent, bank)
	if !moved {
		m.mu.Lock()
		item.settling = false
		m.mu.Unlock()
		return legErr
	}

	// 第三阶段: 提交
	// 资产一旦转移就不可逆, 即使分发步骤报了系统性错误也必须提交所有权状态
	m.mu.Lock()
	item.Sold = true
	item.BuyNowPrice = decimal.Zero
	item.Owner = caller
	item.settling = false
	delete(m.listed, assetKey(collection, tokenID))
	m.mu.Unlock()

	m.emit(Event{
		Type:       EventItemSoldBuyNow,
		ItemID:     itemID,
		Collection: collection,
		TokenID:    tokenID,
		Maker:      seller,
		Taker:      caller,
		Price:      price,
	})
	return legErr
}

// AcceptBid 接受第一条匹配 (bidder, price) 的出价
// 仅记录所有者可调用; 没有匹配的出价时静默返回 matched=false,
// 不报错也不产生任何状态变更和事件
func (m *Marketplace) AcceptBid(ctx context.Context, caller common.Address, itemID uint64, bidder common.Address, price decimal.Decimal) (bool, error) {
	return m.acceptBid(ctx, caller, itemID, func() int {
		return m.findBid(itemID, bidder, price)
	})
}

// AcceptBidByHandle 按句柄精确接受出价
// 仅在 stable_bid_handles 开启时可用, 行为与 AcceptBid 一致
func (m *Marketplace) AcceptBidByHandle(ctx context.Context, caller common.Address, itemID uint64, handle uint64) (bool, error) {
	if !m.stableBidHandles {
		return false, ErrHandlesDisabled
	}
	return m.acceptBid(ctx, caller, itemID, func() int {
		for i, b := range m.bids[itemID] {
			if b.Handle == handle {
				return i
			}
		}
		return -1
	})
}

// acceptBid 出价接受的公共路径, resolve 在锁内解析目标出价下标
func (m *Marketplace) acceptBid(ctx context.Context, caller common.Address, itemID uint64, resolve func() int) (bool, error) {
	// 第一阶段: 校验并预占
	m.mu.Lock()
	item, ok := m.items[itemID]
	if !ok {
		m.mu.Unlock()
		return false, ErrItemNotFound
	}
	if item.Owner != caller {
		m.mu.Unlock()
		return false, ErrNotItemOwner
	}
	if item.Sold {
		m.mu.Unlock()
		return false, ErrItemAlreadySold
	}
	if item.settling {
		m.mu.Unlock()
		return false, ErrSettlementInProgress
	}
	if !item.Live {
		m.mu.Unlock()
		return false, ErrItemDelisted
	}
	idx := resolve()
	if idx < 0 {
		m.mu.Unlock()
		return false, nil
	}
	matched := m.bids[itemID][idx]
	item.settling = true
	seller := item.Owner
	collection, tokenID := item.Collection, item.TokenID
	percent := m.policy.CommissionPercent
	bank := m.policy.Bank
	m.mu.Unlock()

	// 第二阶段: 外部划转, 资金从出价人预授的额度中拉取
	moved, legErr := m.settleLegs(ctx, matched.Bidder, seller, collection, tokenID, matched.Price, percent, bank)
	if !moved {
		m.mu.Lock()
		item.settling = false
		m.mu.Unlock()
		return false, legErr
	}

	// 第三阶段: 提交, 成交的出价从出价簿移除
	m.mu.Lock()
	for i, b := range m.bids[itemID] {
		if b.Handle == matched.Handle {
			m.removeBidAt(itemID, i)
			break
		}
	}
	item.Sold = true
	item.Owner = matched.Bidder
	item.settling = false
	delete(m.listed, assetKey(collection, tokenID))
	m.mu.Unlock()

	m.emit(Event{
		Type:       EventBidAccepted,
		ItemID:     itemID,
		Collection: collection,
		TokenID:    tokenID,
		Maker:      matched.Bidder,
		Taker:      seller,
		Price:      matched.Price,
	})
	m.emit(Event{
		Type:       EventItemSoldBid,
		ItemID:     itemID,
		Collection: collection,
		TokenID:    tokenID,
		Maker:      seller,
		Taker:      matched.Bidder,
		Price:      matched.Price,
	})
	return true, legErr
}

// settleLegs 执行一次结算的全部外部步骤
// moved 表示资产所有权是否已经转移:
// moved=false 时保证买方资金已原路退回, 内部状态可以安全回滚;
// moved=true 且 err != nil 仅发生在分发步骤出现系统性账本故障时,
// 此时调用方必须提交所有权状态, 差额由运维依据错误与事件流水对账
func (m *Marketplace) settleLegs(ctx context.Context, buyer, seller common.Address, collection common.Address, tokenID *big.Int, price decimal.Decimal, percent int64, bank common.Address) (moved bool, err error) {
	sellerCut, commission := splitPrice(price, percent)

	// 1. 全款从买方拉入托管
	ok, err := m.currency.TransferFrom(ctx, buyer, m.custody, price)
	if err != nil {
		return false, errors.Wrap(err, "failed on pull funds from buyer")
	}
	if !ok {
		return false, ErrInsufficientFundsOrAllowance
	}

	// 2. 资产转移, 失败时退款
	if err := m.assets.Transfer(ctx, collection, tokenID, seller, buyer); err != nil {
		if _, refundErr := m.currency.TransferFrom(ctx, m.custody, buyer, price); refundErr != nil {
			return false, errors.Wrap(refundErr, "failed on refund buyer after asset transfer failure")
		}
		return false, errors.Wrap(err, "failed on transfer asset ownership")
	}

	// 3. 从托管分发: 先卖方, 后抽成 (抽成为零时跳过)
	// 这里只动托管自有资金, 正常情况下不会因余额或授权失败;
	// 一旦失败, 错误挂在 ErrDisbursementFailed 上, 调用方据此区分
	// "已成交待对账" 与 "未成交"
	if _, err := m.currency.TransferFrom(ctx, m.custody, seller, sellerCut); err != nil {
		return true, errors.Wrapf(ErrDisbursementFailed, "pay seller: %v", err)
	}
	if commission.IsPositive() {
		if _, err := m.currency.TransferFrom(ctx, m.custody, bank, commission); err != nil {
			return true, errors.Wrapf(ErrDisbursementFailed, "pay commission: %v", err)
		}
	}
	return true, nil
}
