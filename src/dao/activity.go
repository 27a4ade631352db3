package dao

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	cacheActivityNumPrefix = "cache:nm:activity:count:"
	activityCountCacheTTL  = 60 // 秒
)

// 事件类型字符串与活动 ID 的双向映射
var eventTypesToID = map[string]int{
	"sale":              Sale,
	"list":              Listing,
	"cancel_list":       CancelListing,
	"buy":               Buy,
	"item_bid":          ItemBid,
	"cancel_item_bid":   CancelItemBid,
	"accept_item_bid":   AcceptItemBid,
	"set_buy_now_price": SetBuyNowPrice,
	"set_min_price":     SetMinPrice,
}

var idToEventTypes = map[int]string{
	Sale:           "sale",
	Listing:        "list",
	CancelListing:  "cancel_list",
	Buy:            "buy",
	ItemBid:        "item_bid",
	CancelItemBid:  "cancel_item_bid",
	AcceptItemBid:  "accept_item_bid",
	SetBuyNowPrice: "set_buy_now_price",
	SetMinPrice:    "set_min_price",
}

// EventTypeToID 事件类型字符串转活动 ID, 未知类型返回 false
func EventTypeToID(eventType string) (int, bool) {
	id, ok := eventTypesToID[eventType]
	return id, ok
}

// IDToEventType 活动 ID 转事件类型字符串
func IDToEventType(id int) string {
	return idToEventTypes[id]
}

type activityCountCacheKey struct {
	Chain             string   `json:"chain"`
	CollectionAddress string   `json:"collection_address"`
	TokenID           string   `json:"token_id"`
	UserAddress       string   `json:"user_address"`
	EventTypes        []string `json:"event_types"`
}

// CreateActivity 写入一条活动流水
func (d *Dao) CreateActivity(ctx context.Context, chain string, activity *Activity) error {
	if err := d.DB.WithContext(ctx).Table(ActivityTableName(chain)).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(activity).Error; err != nil {
		return errors.Wrap(err, "failed on create activity")
	}
	return nil
}

// QueryActivities 按条件分页查询活动流水
// 总数走 Redis 缓存, 避免频繁全表 Count
func (d *Dao) QueryActivities(ctx context.Context, chain string, collectionAddr, tokenID, userAddr string, eventTypes []string, page, pageSize int) ([]Activity, int64, error) {
	var activities []Activity

	filtered := func() *gorm.DB {
		tx := d.DB.WithContext(ctx).Table(ActivityTableName(chain))
		if collectionAddr != "" {
			tx = tx.Where("collection_address = ?", strings.ToLower(collectionAddr))
		}
		if tokenID != "" {
			tx = tx.Where("token_id = ?", tokenID)
		}
		if userAddr != "" {
			lower := strings.ToLower(userAddr)
			tx = tx.Where("maker = ? or taker = ?", lower, lower)
		}
		var events []int
		for _, v := range eventTypes {
			if id, ok := eventTypesToID[v]; ok {
				events = append(events, id)
			}
		}
		if len(events) > 0 {
			tx = tx.Where("activity_type in ?", events)
		}
		return tx
	}

	total, err := d.countActivities(filtered(), &activityCountCacheKey{
		Chain:             chain,
		CollectionAddress: collectionAddr,
		TokenID:           tokenID,
		UserAddress:       userAddr,
		EventTypes:        eventTypes,
	})
	if err != nil {
		return nil, 0, err
	}

	if err := filtered().Order("event_time desc, id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&activities).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on query activities")
	}

	return activities, total, nil
}

// countActivities 带缓存的总数统计
func (d *Dao) countActivities(tx *gorm.DB, key *activityCountCacheKey) (int64, error) {
	raw, err := json.Marshal(key)
	if err != nil {
		return 0, errors.Wrap(err, "failed on marshal count cache key")
	}
	cacheKey := cacheActivityNumPrefix + string(raw)

	var total int64
	if found, err := d.KvStore.ReadJson(cacheKey, &total); err == nil && found {
		return total, nil
	}

	if err := tx.Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "failed on count activities")
	}

	// 缓存写失败不影响查询结果
	_ = d.KvStore.WriteJson(cacheKey, total, activityCountCacheTTL)
	return total, nil
}
