package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nechmads/nfts-marketplace/src/dao"
	"github.com/nechmads/nfts-marketplace/src/service/svc"
	types "github.com/nechmads/nfts-marketplace/src/types/v1"
)

// GetActivities 查询活动流水
func GetActivities(ctx context.Context, svcCtx *svc.ServerCtx, collectionAddr, tokenID, userAddr string, eventTypes []string, page, pageSize int) (*types.ActivitiesResp, error) {
	activities, total, err := svcCtx.Dao.QueryActivities(ctx, svcCtx.C.ChainCfg.Name, collectionAddr, tokenID, userAddr, eventTypes, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed on query activities")
	}

	result := make([]types.ActivityInfo, 0, len(activities))
	for _, a := range activities {
		result = append(result, types.ActivityInfo{
			EventType:         dao.IDToEventType(a.ActivityType),
			ItemID:            a.ItemID,
			CollectionAddress: a.CollectionAddress,
			TokenID:           a.TokenID,
			Maker:             a.Maker,
			Taker:             a.Taker,
			Price:             a.Price,
			EventTime:         a.EventTime,
		})
	}
	return &types.ActivitiesResp{Result: result, Count: total}, nil
}
