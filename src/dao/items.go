package dao

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// UpsertItemSnapshot 写入或更新一条挂单镜像
func (d *Dao) UpsertItemSnapshot(ctx context.Context, chain string, snapshot *ItemSnapshot) error {
	if err := d.DB.WithContext(ctx).Table(ItemTableName(chain)).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}},
			UpdateAll: true,
		}).
		Create(snapshot).Error; err != nil {
		return errors.Wrap(err, "failed on upsert item snapshot")
	}
	return nil
}

// QueryItemSnapshots 分页查询挂单镜像, liveOnly 时只返回在架且未售出的
func (d *Dao) QueryItemSnapshots(ctx context.Context, chain string, collectionAddr string, liveOnly bool, page, pageSize int) ([]ItemSnapshot, error) {
	var snapshots []ItemSnapshot

	tx := d.DB.WithContext(ctx).Table(ItemTableName(chain))
	if collectionAddr != "" {
		tx = tx.Where("collection_address = ?", collectionAddr)
	}
	if liveOnly {
		tx = tx.Where("live = ? and sold = ?", true, false)
	}
	if err := tx.Order("item_id desc").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&snapshots).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query item snapshots")
	}
	return snapshots, nil
}
