package v1

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nechmads/nfts-marketplace/src/pkg/errcode"
	"github.com/nechmads/nfts-marketplace/src/pkg/xhttp"
	"github.com/nechmads/nfts-marketplace/src/service/svc"
	service "github.com/nechmads/nfts-marketplace/src/service/v1"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetActivitiesHandler 查询活动流水
// GET /api/v1/activities?collection_address=&token_id=&user_address=&event_types=&page=&page_size=
func GetActivitiesHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
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
		userAddr := c.Query("user_address")
		if userAddr != "" {
			addr, ok := parseAddress(userAddr)
			if !ok {
				xhttp.Error(c, errcode.ErrInvalidParams)
				return
			}
			userAddr = strings.ToLower(addr.Hex())
		}

		var eventTypes []string
		if raw := c.Query("event_types"); raw != "" {
			eventTypes = strings.Split(raw, ",")
		}

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

		resp, err := service.GetActivities(c.Request.Context(), svcCtx, collectionAddr, c.Query("token_id"), userAddr, eventTypes, page, pageSize)
		if err != nil {
			xhttp.Error(c, bizError(err))
			return
		}
		xhttp.OkJson(c, resp)
	}
}
