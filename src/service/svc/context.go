package svc

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/kv"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"gorm.io/gorm"

	"github.com/nechmads/nfts-marketplace/src/config"
	"github.com/nechmads/nfts-marketplace/src/dao"
	"github.com/nechmads/nfts-marketplace/src/marketplace"
	"github.com/nechmads/nfts-marketplace/src/pkg/gdb"
	"github.com/nechmads/nfts-marketplace/src/pkg/xkv"
	"github.com/nechmads/nfts-marketplace/src/pkg/xzap"
	"github.com/nechmads/nfts-marketplace/src/registry"
	"github.com/nechmads/nfts-marketplace/src/registry/evmregistry"
	"github.com/nechmads/nfts-marketplace/src/registry/memregistry"
	"github.com/nechmads/nfts-marketplace/src/service/recorder"
)

// ServerCtx 服务上下文, 持有全部基础设施组件
type ServerCtx struct {
	C        *config.Config
	DB       *gorm.DB
	Dao      *dao.Dao
	KvStore  *xkv.Store
	Market   *marketplace.Marketplace
	Recorder *recorder.Recorder
}

// NewServiceContext 初始化服务所需的全部基础设施
func NewServiceContext(c *config.Config) (*ServerCtx, error) {
	// 1. 日志
	if _, err := xzap.SetUp(c.Log); err != nil {
		return nil, err
	}

	// 2. Redis
	var kvConf kv.KvConf
	for _, con := range c.Kv.Redis {
		kvConf = append(kvConf, cache.NodeConf{
			RedisConf: redis.RedisConf{
				Host: con.Host,
				Type: con.Type,
				Pass: con.Pass,
			},
			Weight: 1,
		})
	}
	store := xkv.NewStore(kvConf)

	// 3. 数据库
	db, err := gdb.NewDB(c.DB)
	if err != nil {
		return nil, err
	}

	// 4. 数据访问层
	d := dao.New(context.Background(), db, store)

	// 5. 协作方: 资产登记处与资金账本
	assets, currency, custody, err := newRegistries(c)
	if err != nil {
		return nil, err
	}

	// 6. 活动记录器与市场引擎 (记录器即引擎的事件出口)
	rec := recorder.New(context.Background(), d, c.ChainCfg.Name)

	var allowed []common.Address
	for _, addr := range c.Marketplace.Allowed {
		allowed = append(allowed, common.HexToAddress(addr))
	}
	market, err := marketplace.New(marketplace.Config{
		Admin:             common.HexToAddress(c.Marketplace.Admin),
		Custody:           custody,
		Bank:              common.HexToAddress(c.Marketplace.Bank),
		CommissionPercent: c.Marketplace.CommissionPercent,
		Allowed:           allowed,
		StableBidHandles:  c.Marketplace.StableBidHandles,
	}, assets, currency, rec)
	if err != nil {
		return nil, errors.Wrap(err, "failed on create marketplace engine")
	}
	rec.Bind(market)
	rec.Start()

	serverCtx := NewServerCtx(
		WithDB(db),
		WithKv(store),
		WithDao(d),
		WithMarket(market),
		WithRecorder(rec),
	)
	serverCtx.C = c

	return serverCtx, nil
}

// newRegistries 按配置档位构建协作方实现
// evm: 接链上 ERC721/ERC20 合约; memory: 进程内实现, 本地开发用
func newRegistries(c *config.Config) (registry.AssetRegistry, registry.CurrencyLedger, common.Address, error) {
	switch c.Marketplace.RegistryMode {
	case "evm":
		client, err := evmregistry.Dial(context.Background(), c.ChainCfg.Endpoint, c.ChainCfg.ID, c.ChainCfg.PrivateKey)
		if err != nil {
			return nil, nil, common.Address{}, errors.Wrap(err, "failed on create evm client")
		}
		assets, err := evmregistry.NewAssetRegistry(client)
		if err != nil {
			return nil, nil, common.Address{}, err
		}
		currency, err := evmregistry.NewCurrencyLedger(client, common.HexToAddress(c.ChainCfg.CurrencyAddress))
		if err != nil {
			return nil, nil, common.Address{}, err
		}
		return assets, currency, client.From(), nil
	case "memory":
		custody := common.HexToAddress(c.Marketplace.Custody)
		return memregistry.NewAssetRegistry(custody), memregistry.NewCurrencyLedger(custody), custody, nil
	default:
		return nil, nil, common.Address{}, errors.Errorf("unknown registry mode: %s", c.Marketplace.RegistryMode)
	}
}
