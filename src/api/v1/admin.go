package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/nechmads/nfts-marketplace/src/pkg/errcode"
	"github.com/nechmads/nfts-marketplace/src/pkg/xhttp"
	"github.com/nechmads/nfts-marketplace/src/service/svc"
	service "github.com/nechmads/nfts-marketplace/src/service/v1"
	types "github.com/nechmads/nfts-marketplace/src/types/v1"
)

// SetCommissionHandler 设置平台抽成百分比 [0, 100]
// PUT /api/v1/admin/commission
func SetCommissionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SetCommissionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		caller, ok := parseAddress(req.CallerAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		if err := service.SetCommission(c.Request.Context(), svcCtx, caller, req.Percent); err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// SetBankHandler 设置抽成接收账户
// PUT /api/v1/admin/bank
func SetBankHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SetBankReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		caller, ok := parseAddress(req.CallerAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		bank, ok := parseAddress(req.BankAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		if err := service.SetBankAddress(c.Request.Context(), svcCtx, caller, bank); err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// RestrictContractHandler 白名单准入一个 NFT 合约
// POST /api/v1/admin/allowed-contracts
func RestrictContractHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.RestrictContractReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		caller, ok := parseAddress(req.CallerAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		collection, ok := parseAddress(req.CollectionAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		if err := service.RestrictToContract(c.Request.Context(), svcCtx, caller, collection); err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// AcceptAllContractsHandler 清空白名单, 接受任意合约
// DELETE /api/v1/admin/allowed-contracts
func AcceptAllContractsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.AcceptAllReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		caller, ok := parseAddress(req.CallerAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		if err := service.AcceptAllContracts(c.Request.Context(), svcCtx, caller); err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// GetPolicyHandler 查询当前策略
// GET /api/v1/admin/policy
func GetPolicyHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		xhttp.OkJson(c, service.GetPolicy(c.Request.Context(), svcCtx))
	}
}
