package service

import (
	"context"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/nechmads/nfts-marketplace/src/pkg/xzap"
	"github.com/nechmads/nfts-marketplace/src/service/svc"
	types "github.com/nechmads/nfts-marketplace/src/types/v1"
)

// SetCommission 行政接口: 设置抽成百分比
func SetCommission(ctx context.Context, svcCtx *svc.ServerCtx, caller common.Address, percent int64) error {
	if err := svcCtx.Market.SetCommission(caller, percent); err != nil {
		return err
	}
	xzap.WithContext(ctx).Info("commission updated", zap.Int64("percent", percent))
	return nil
}

// SetBankAddress 行政接口: 设置抽成接收账户
func SetBankAddress(ctx context.Context, svcCtx *svc.ServerCtx, caller, bank common.Address) error {
	if err := svcCtx.Market.SetBankAddress(caller, bank); err != nil {
		return err
	}
	xzap.WithContext(ctx).Info("bank address updated", zap.String("bank", bank.Hex()))
	return nil
}

// RestrictToContract 行政接口: 白名单准入一个合约
func RestrictToContract(ctx context.Context, svcCtx *svc.ServerCtx, caller, collection common.Address) error {
	if err := svcCtx.Market.RestrictToContract(caller, collection); err != nil {
		return err
	}
	xzap.WithContext(ctx).Info("collection restricted", zap.String("collection", collection.Hex()))
	return nil
}

// AcceptAllContracts 行政接口: 清空白名单
func AcceptAllContracts(ctx context.Context, svcCtx *svc.ServerCtx, caller common.Address) error {
	if err := svcCtx.Market.AcceptAllContracts(caller); err != nil {
		return err
	}
	xzap.WithContext(ctx).Info("collection allowlist cleared")
	return nil
}

// GetPolicy 查询当前策略
func GetPolicy(_ context.Context, svcCtx *svc.ServerCtx) *types.PolicyInfo {
	p := svcCtx.Market.GetPolicy()
	allowed := make([]string, 0, len(p.Allowed))
	for c := range p.Allowed {
		allowed = append(allowed, strings.ToLower(c.Hex()))
	}
	sort.Strings(allowed)
	return &types.PolicyInfo{
		CommissionPercent: p.CommissionPercent,
		BankAddress:       strings.ToLower(p.Bank.Hex()),
		Allowed:           allowed,
	}
}
