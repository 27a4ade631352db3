package v1

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nechmads/nfts-marketplace/src/pkg/errcode"
	"github.com/nechmads/nfts-marketplace/src/pkg/xhttp"
	"github.com/nechmads/nfts-marketplace/src/service/svc"
	service "github.com/nechmads/nfts-marketplace/src/service/v1"
	types "github.com/nechmads/nfts-marketplace/src/types/v1"
)

// ListItemHandler 创建挂单
// POST /api/v1/items
func ListItemHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ListItemReq
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
		tokenID, ok := parseTokenID(req.TokenID)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		itemID, err := service.ListItem(c.Request.Context(), svcCtx, caller, collection, tokenID, req.MinPrice, req.BuyNowPrice)
		if err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, types.ListItemResp{ItemID: itemID})
	}
}

// GetItemsHandler 浏览挂单镜像
// GET /api/v1/items?collection_address=&live_only=&page=&page_size=
func GetItemsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		collectionAddr := c.Query("collection_address")
		if collectionAddr != "" {
			addr, ok := parseAddress(collectionAddr)
			if !ok {
				xhttp.Error(c, errcode.ErrInvalidParams)
				return
			}
			collectionAddr = strings.ToLower(addr.Hex())
		}
		liveOnly := c.DefaultQuery("live_only", "true") == "true"
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
		if err != nil || pageSize < 1 || pageSize > maxPageSize {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		resp, err := service.GetItems(c.Request.Context(), svcCtx, collectionAddr, liveOnly, page, pageSize)
		if err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, resp)
	}
}

// GetItemHandler 查询挂单详情
// GET /api/v1/items/:id
func GetItemHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		item, err := service.GetItem(c.Request.Context(), svcCtx, itemID)
		if err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, item)
	}
}

// BuyNowHandler 一口价购买
// POST /api/v1/items/:id/buy
func BuyNowHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		var req types.BuyNowReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		caller, ok := parseAddress(req.CallerAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		if err := service.BuyNow(c.Request.Context(), svcCtx, caller, itemID, req.TenderAmount); err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// SetBuyNowPriceHandler 修改一口价, 置 0 关闭
// PUT /api/v1/items/:id/buy-now-price
func SetBuyNowPriceHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		var req types.SetPriceReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		caller, ok := parseAddress(req.CallerAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		if err := service.SetBuyNowPrice(c.Request.Context(), svcCtx, caller, itemID, req.Price); err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// SetMinPriceHandler 修改最低可接受出价
// PUT /api/v1/items/:id/min-price
func SetMinPriceHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		var req types.SetPriceReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		caller, ok := parseAddress(req.CallerAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		if err := service.SetMinPrice(c.Request.Context(), svcCtx, caller, itemID, req.Price); err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, nil)
	}
}

// DelistHandler 下架
// DELETE /api/v1/items/:id
func DelistHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := parseItemID(c)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		var req types.DelistReq
		if err := c.ShouldBindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		caller, ok := parseAddress(req.CallerAddress)
		if !ok {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}

		if err := service.Delist(c.Request.Context(), svcCtx, caller, itemID); err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, nil)
	}
}
