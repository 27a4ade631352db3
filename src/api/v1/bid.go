package v1

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/nechmads/nfts-marketplace/src/pkg/errcode"
	"github.com/nechmads/nfts-marketplace/src/pkg/xhttp"
	"github.com/nechmads/nfts-marketplace/src/service/svc"
	service "github.com/nechmads/nfts-marketplace/src/service/v1"
	types "github.com/nechmads/nfts-marketplace/src/types/v1"
)

// SubmitBidHandler 对挂单出价
// POST /api/v1/items/:id/bids
func SubmitBidHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		var req types.SubmitBidReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		caller, ok := parseAddress(req.CallerAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		handle, err := service.SubmitBid(c.Request.Context(), svcCtx, caller, itemID, req.Price)
		if err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, types.SubmitBidResp{Handle: handle})
	}
}

// CancelBidHandler 取消出价
// DELETE /api/v1/items/:id/bids
func CancelBidHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		var req types.CancelBidReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		caller, ok := parseAddress(req.CallerAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		if err := service.CancelBid(c.Request.Context(), svcCtx, caller, itemID, req.Price, req.Handle); err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// AcceptBidHandler 卖家接受出价
// POST /api/v1/items/:id/bids/accept
func AcceptBidHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		var req types.AcceptBidReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		caller, ok := parseAddress(req.CallerAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		var bidder common.Address
		if req.Handle == 0 {
			bidder, ok = parseAddress(req.Bidder)
			if !ok {
				xhttp.Error(c, errcode.ErrInvalidParams)
				return
			}
		}

		matched, err := service.AcceptBid(c.Request.Context(), svcCtx, caller, itemID, bidder, req.Price, req.Handle)
		if err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, types.AcceptBidResp{Matched: matched})
	}
}

// GetOpenBidsHandler 查询挂单的公开出价
// GET /api/v1/items/:id/bids
func GetOpenBidsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		bids, err := service.GetOpenBids(c.Request.Context(), svcCtx, itemID)
		if err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, bids)
	}
}
