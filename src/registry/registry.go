package registry

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// AssetRegistry 资产登记处 (NFT 合约) 的访问接口
// 所有权的最终事实 (source of truth) 永远在登记处一侧,
// 市场内部记录的 owner 只是缓存
type AssetRegistry interface {
	// OwnerOf 查询某个 NFT 当前的所有者地址
	OwnerOf(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error)

	// IsApprovedOrOwner 判断 operator 是否为 NFT 所有者或被授权操作该 NFT
	IsApprovedOrOwner(ctx context.Context, operator common.Address, collection common.Address, tokenID *big.Int) (bool, error)

	// Transfer 将 NFT 从 from 转移给 to
	// 如果 from 不是当前所有者 (或市场未被授权) 会返回错误
	Transfer(ctx context.Context, collection common.Address, tokenID *big.Int, from, to common.Address) error
}

// CurrencyLedger 资金账本 (ERC20 类代币) 的访问接口
// 市场作为 spender, 通过用户预先授予的 allowance 划转资金
type CurrencyLedger interface {
	// BalanceOf 查询账户余额
	BalanceOf(ctx context.Context, owner common.Address) (decimal.Decimal, error)

	// Allowance 查询 owner 授予 spender 的可支配额度
	Allowance(ctx context.Context, owner, spender common.Address) (decimal.Decimal, error)

	// TransferFrom 以市场身份从 from 账户向 to 账户划转 amount
	// 按照该协作方的约定, 余额或授权不足时返回 ok=false 而不是 error;
	// error 仅用于账本本身不可用等系统性故障
	TransferFrom(ctx context.Context, from, to common.Address, amount decimal.Decimal) (bool, error)
}
