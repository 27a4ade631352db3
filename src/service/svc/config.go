package svc

import (
	"gorm.io/gorm"

	"github.com/nechmads/nfts-marketplace/src/dao"
	"github.com/nechmads/nfts-marketplace/src/marketplace"
	"github.com/nechmads/nfts-marketplace/src/pkg/xkv"
	"github.com/nechmads/nfts-marketplace/src/service/recorder"
)

// CtxConfig 服务上下文构建器, Option 模式
type CtxConfig struct {
	db       *gorm.DB
	dao      *dao.Dao
	KvStore  *xkv.Store
	Market   *marketplace.Marketplace
	Recorder *recorder.Recorder
}

type CtxOption func(conf *CtxConfig)

// NewServerCtx 组装服务上下文
func NewServerCtx(options ...CtxOption) *ServerCtx {
	c := &CtxConfig{}
	for _, opt := range options {
		opt(c)
	}
	return &ServerCtx{
		DB:       c.db,
		KvStore:  c.KvStore,
		Dao:      c.dao,
		Market:   c.Market,
		Recorder: c.Recorder,
	}
}

func WithKv(kv *xkv.Store) CtxOption {
	return func(conf *CtxConfig) {
		conf.KvStore = kv
	}
}

func WithDB(db *gorm.DB) CtxOption {
	return func(conf *CtxConfig) {
		conf.db = db
	}
}

func WithDao(dao *dao.Dao) CtxOption {
	return func(conf *CtxConfig) {
		conf.dao = dao
	}
}

func WithMarket(m *marketplace.Marketplace) CtxOption {
	return func(conf *CtxConfig) {
		conf.Market = m
	}
}

func WithRecorder(r *recorder.Recorder) CtxOption {
	return func(conf *CtxConfig) {
		conf.Recorder = r
	}
}
