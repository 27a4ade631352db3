// Package recorder 异步落库市场通知
// 引擎广播的每条事件写入活动流水表, 并刷新挂单镜像表
package recorder

import (
	"context"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/threading"
	"go.uber.org/zap"

	"github.com/nechmads/nfts-marketplace/src/dao"
	"github.com/nechmads/nfts-marketplace/src/marketplace"
	"github.com/nechmads/nfts-marketplace/src/pkg/xzap"
)

const eventBufferSize = 1024

// Recorder 事件记录器, 实现 marketplace.Emitter
// Emit 只做入队, 落库在独立的 goroutine 中进行, 不阻塞结算路径
type Recorder struct {
	ctx    context.Context
	dao    *dao.Dao
	chain  string
	events chan marketplace.Event

	// market 用于在落库时读取挂单的最新快照
	// 启动后由 Bind 注入 (引擎构造时需要 emitter, 两者相互引用)
	market *marketplace.Marketplace
}

func New(ctx context.Context, d *dao.Dao, chain string) *Recorder {
	return &Recorder{
		ctx:    ctx,
		dao:    d,
		chain:  chain,
		events: make(chan marketplace.Event, eventBufferSize),
	}
}

// Bind 注入市场引擎
func (r *Recorder) Bind(m *marketplace.Marketplace) {
	r.market = m
}

// Emit 事件入队
// 队列满时丢弃并告警, 通知流水是旁路数据, 不允许拖垮账本
func (r *Recorder) Emit(event marketplace.Event) {
	select {
	case r.events <- event:
	default:
		xzap.WithContext(r.ctx).Warn("activity event dropped, buffer full",
			zap.String("type", event.Type),
			zap.Uint64("item_id", event.ItemID))
	}
}

// Start 启动落库循环
func (r *Recorder) Start() {
	threading.GoSafe(r.loop)
}

func (r *Recorder) loop() {
	for {
		select {
		case <-r.ctx.Done():
			xzap.WithContext(r.ctx).Info("activity recorder stopped")
			return
		case event := <-r.events:
			r.handle(event)
		}
	}
}

func (r *Recorder) handle(event marketplace.Event) {
	activityType, ok := dao.EventTypeToID(event.Type)
	if !ok {
		xzap.WithContext(r.ctx).Warn("unknown event type", zap.String("type", event.Type))
		return
	}

	activity := &dao.Activity{
		ActivityType:      activityType,
		ItemID:            event.ItemID,
		CollectionAddress: strings.ToLower(event.Collection.Hex()),
		TokenID:           event.TokenID.String(),
		Maker:             strings.ToLower(event.Maker.Hex()),
		Taker:             strings.ToLower(event.Taker.Hex()),
		Price:             event.Price,
		EventTime:         event.EventTime,
	}
	if err := r.dao.CreateActivity(r.ctx, r.chain, activity); err != nil {
		xzap.WithContext(r.ctx).Error("failed on record activity",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.Uint64("item_id", event.ItemID))
	}

	r.refreshSnapshot(event.ItemID)
}

// refreshSnapshot 以引擎内的最新状态刷新挂单镜像
func (r *Recorder) refreshSnapshot(itemID uint64) {
	if r.market == nil {
		return
	}
	item, err := r.market.GetItem(itemID)
	if err != nil {
		return
	}
	snapshot := &dao.ItemSnapshot{
		ItemID:            item.ID,
		CollectionAddress: strings.ToLower(item.Collection.Hex()),
		TokenID:           item.TokenID.String(),
		Owner:             strings.ToLower(item.Owner.Hex()),
		MinPrice:          item.MinPrice,
		BuyNowPrice:       item.BuyNowPrice,
		Live:              item.Live,
		Sold:              item.Sold,
		UpdateTime:        time.Now().Unix(),
	}
	if err := r.dao.UpsertItemSnapshot(r.ctx, r.chain, snapshot); err != nil {
		xzap.WithContext(r.ctx).Error("failed on refresh item snapshot",
			zap.Error(err),
			zap.Uint64("item_id", itemID))
	}
}
