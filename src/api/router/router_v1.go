package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/nechmads/nfts-marketplace/src/api/v1"
	"github.com/nechmads/nfts-marketplace/src/service/svc"
)

func loadV1(r *gin.Engine, svcCtx *svc.ServerCtx) {
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api/v1")

	items := api.Group("/items")
	{
		items.POST("", v1.ListItemHandler(svcCtx))       // 挂单
		items.GET("", v1.GetItemsHandler(svcCtx))        // 浏览挂单镜像
		items.GET("/:id", v1.GetItemHandler(svcCtx))     // 挂单详情
		items.DELETE("/:id", v1.DelistHandler(svcCtx))   // 下架
		items.POST("/:id/buy", v1.BuyNowHandler(svcCtx)) // 一口价购买
		items.PUT("/:id/buy-now-price", v1.SetBuyNowPriceHandler(svcCtx))
		items.PUT("/:id/min-price", v1.SetMinPriceHandler(svcCtx))

		items.GET("/:id/bids", v1.GetOpenBidsHandler(svcCtx))       // 公开出价列表
		items.POST("/:id/bids", v1.SubmitBidHandler(svcCtx))        // 出价
		items.DELETE("/:id/bids", v1.CancelBidHandler(svcCtx))      // 取消出价
		items.POST("/:id/bids/accept", v1.AcceptBidHandler(svcCtx)) // 卖家接受出价
	}

	admin := api.Group("/admin")
	{
		admin.GET("/policy", v1.GetPolicyHandler(svcCtx))
		admin.PUT("/commission", v1.SetCommissionHandler(svcCtx))
		admin.PUT("/bank", v1.SetBankHandler(svcCtx))
		admin.POST("/allowed-contracts", v1.RestrictContractHandler(svcCtx))
		admin.DELETE("/allowed-contracts", v1.AcceptAllContractsHandler(svcCtx))
	}

	api.GET("/activities", v1.GetActivitiesHandler(svcCtx)) // 活动流水
}
