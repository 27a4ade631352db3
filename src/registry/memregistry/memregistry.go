// Package memregistry 提供资产登记处与资金账本的进程内实现
// 用于本地开发档位和测试, 语义与链上 ERC721/ERC20 对齐
package memregistry

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func tokenKey(collection common.Address, tokenID *big.Int) string {
	return collection.Hex() + ":" + tokenID.String()
}

// AssetRegistry 进程内 NFT 登记处
type AssetRegistry struct {
	mu sync.RWMutex

	market    common.Address                             // 市场托管地址, 转移时校验其授权
	owners    map[string]common.Address                  // token -> owner
	approved  map[string]common.Address                  // token -> 单次授权的 operator
	operators map[common.Address]map[common.Address]bool // owner -> operator -> approved for all

	failTransfer bool // 测试开关: 强制 Transfer 失败
}

func NewAssetRegistry(market common.Address) *AssetRegistry {
	return &AssetRegistry{
		market:    market,
		owners:    make(map[string]common.Address),
		approved:  make(map[string]common.Address),
		operators: make(map[common.Address]map[common.Address]bool),
	}
}

// Mint 铸造一个 NFT 给 owner
func (r *AssetRegistry) Mint(owner, collection common.Address, tokenID *big.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owners[tokenKey(collection, tokenID)] = owner
}

// Approve 对单个 NFT 授权 operator
func (r *AssetRegistry) Approve(operator, collection common.Address, tokenID *big.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.approved[tokenKey(collection, tokenID)] = operator
}

// SetApprovalForAll owner 把名下全部 NFT 授权给 operator
func (r *AssetRegistry) SetApprovalForAll(owner, operator common.Address, on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.operators[owner] == nil {
		r.operators[owner] = make(map[common.Address]bool)
	}
	r.operators[owner][operator] = on
}

// FailTransfers 测试开关, 让后续 Transfer 全部失败
func (r *AssetRegistry) FailTransfers(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failTransfer = on
}

func (r *AssetRegistry) OwnerOf(_ context.Context, collection common.Address, tokenID *big.Int) (common.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[tokenKey(collection, tokenID)]
	if !ok {
		return common.Address{}, errors.New("token does not exist")
	}
	return owner, nil
}

func (r *AssetRegistry) IsApprovedOrOwner(_ context.Context, operator common.Address, collection common.Address, tokenID *big.Int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := tokenKey(collection, tokenID)
	owner, ok := r.owners[key]
	if !ok {
		return false, errors.New("token does not exist")
	}
	if owner == operator || r.approved[key] == operator {
		return true, nil
	}
	return r.operators[owner][operator], nil
}

func (r *AssetRegistry) Transfer(_ context.Context, collection common.Address, tokenID *big.Int, from, to common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failTransfer {
		return errors.New("transfer rejected")
	}
	key := tokenKey(collection, tokenID)
	owner, ok := r.owners[key]
	if !ok {
		return errors.New("token does not exist")
	}
	if owner != from {
		return errors.New("from is not the current owner")
	}
	// 市场必须持有转移授权
	if from != r.market && r.approved[key] != r.market && !r.operators[from][r.market] {
		return errors.New("market is not approved to move this token")
	}
	r.owners[key] = to
	delete(r.approved, key)
	return nil
}

// CurrencyLedger 进程内资金账本
// 市场 (spender) 通过 allowance 划转他人资金, 动自己账户的资金不受限
type CurrencyLedger struct {
	mu sync.Mutex

	spender    common.Address // 市场托管地址
	balances   map[common.Address]decimal.Decimal
	allowances map[common.Address]decimal.Decimal // owner -> 授予市场的额度

	failTransfer bool
}

func NewCurrencyLedger(spender common.Address) *CurrencyLedger {
	return &CurrencyLedger{
		spender:    spender,
		balances:   make(map[common.Address]decimal.Decimal),
		allowances: make(map[common.Address]decimal.Decimal),
	}
}

// Credit 给账户充值
func (l *CurrencyLedger) Credit(owner common.Address, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[owner] = l.balance(owner).Add(amount)
}

// SetAllowance 设置 owner 授予市场的可支配额度
func (l *CurrencyLedger) SetAllowance(owner common.Address, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[owner] = amount
}

// FailTransfers 测试开关, 让后续 TransferFrom 返回系统性错误
func (l *CurrencyLedger) FailTransfers(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failTransfer = on
}

func (l *CurrencyLedger) balance(owner common.Address) decimal.Decimal {
	if b, ok := l.balances[owner]; ok {
		return b
	}
	return decimal.Zero
}

func (l *CurrencyLedger) BalanceOf(_ context.Context, owner common.Address) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance(owner), nil
}

func (l *CurrencyLedger) Allowance(_ context.Context, owner, spender common.Address) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if spender != l.spender {
		return decimal.Zero, nil
	}
	if a, ok := l.allowances[owner]; ok {
		return a, nil
	}
	return decimal.Zero, nil
}

func (l *CurrencyLedger) TransferFrom(_ context.Context, from, to common.Address, amount decimal.Decimal) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failTransfer {
		return false, errors.New("ledger unavailable")
	}
	if amount.IsNegative() {
		return false, errors.New("negative amount")
	}
	if l.balance(from).LessThan(amount) {
		return false, nil
	}
	// 动他人账户需要消耗授予市场的额度
	if from != l.spender {
		allowance := l.allowances[from]
		if allowance.LessThan(amount) {
			return false, nil
		}
		l.allowances[from] = allowance.Sub(amount)
	}
	l.balances[from] = l.balance(from).Sub(amount)
	l.balances[to] = l.balance(to).Add(amount)
	return true, nil
}
