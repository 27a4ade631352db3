package evmregistry

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const erc20ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transferFrom","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

// CurrencyLedger ERC20 合约之上的资金账本实现
// token 合约地址在构造时固定
type CurrencyLedger struct {
	c      *Client
	parsed abi.ABI
	token  common.Address
}

func NewCurrencyLedger(c *Client, token common.Address) (*CurrencyLedger, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, errors.Wrap(err, "failed on parse erc20 abi")
	}
	return &CurrencyLedger{c: c, parsed: parsed, token: token}, nil
}

func (l *CurrencyLedger) BalanceOf(ctx context.Context, owner common.Address) (decimal.Decimal, error) {
	out, err := l.c.call(ctx, l.parsed, l.token, "balanceOf", owner)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(out[0].(*big.Int), 0), nil
}

func (l *CurrencyLedger) Allowance(ctx context.Context, owner, spender common.Address) (decimal.Decimal, error) {
	out, err := l.c.call(ctx, l.parsed, l.token, "allowance", owner, spender)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(out[0].(*big.Int), 0), nil
}

// TransferFrom 划转资金
// from 为托管账户自身时走 transfer (动自有资金), 否则消耗 allowance 走 transferFrom
// 交易被合约回退 (余额/授权不足) 时按协作方约定返回 ok=false 而不是 error
func (l *CurrencyLedger) TransferFrom(ctx context.Context, from, to common.Address, amount decimal.Decimal) (bool, error) {
	value := amount.BigInt()
	if from == l.c.From() {
		return l.c.transact(ctx, l.parsed, l.token, "transfer", to, value)
	}
	return l.c.transact(ctx, l.parsed, l.token, "transferFrom", from, to, value)
}
