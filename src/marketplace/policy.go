package marketplace

import (
	"github.com/ethereum/go-ethereum/common"
)

// 策略接口, 全部仅限行政主体调用
// 非 admin 的调用一律返回 ErrNotAuthorized

// SetCommission 设置平台抽成百分比, 取值范围 [0,100]
func (m *Marketplace) SetCommission(caller common.Address, percent int64) error {
	if caller != m.admin {
		return ErrNotAuthorized
	}
	if percent < 0 || percent > 100 {
		return ErrInvalidArgument
	}

	m.mu.Lock()
	m.policy.CommissionPercent = percent
	m.mu.Unlock()
	return nil
}

// SetBankAddress 设置抽成接收账户, 不允许零地址
func (m *Marketplace) SetBankAddress(caller, bank common.Address) error {
	if caller != m.admin {
		return ErrNotAuthorized
	}
	if bank == (common.Address{}) {
		return ErrInvalidArgument
	}

	m.mu.Lock()
	m.policy.Bank = bank
	m.mu.Unlock()
	return nil
}

// RestrictToContract 将合约加入准入白名单
// 白名单一旦非空, 只有名单内的合约可以挂单
func (m *Marketplace) RestrictToContract(caller, collection common.Address) error {
	if caller != m.admin {
		return ErrNotAuthorized
	}
	if collection == (common.Address{}) {
		return ErrInvalidArgument
	}

	m.mu.Lock()
	if m.policy.Allowed == nil {
		m.policy.Allowed = make(map[common.Address]bool)
	}
	m.policy.Allowed[collection] = true
	m.mu.Unlock()
	return nil
}

// AcceptAllContracts 清空白名单, 恢复接受所有合约
func (m *Marketplace) AcceptAllContracts(caller common.Address) error {
	if caller != m.admin {
		return ErrNotAuthorized
	}

	m.mu.Lock()
	m.policy.Allowed = make(map[common.Address]bool)
	m.mu.Unlock()
	return nil
}
