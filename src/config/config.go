package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/nechmads/nfts-marketplace/src/pkg/gdb"
	"github.com/nechmads/nfts-marketplace/src/pkg/xzap"
)

// Config 应用全局配置
type Config struct {
	Api         ApiConf     `toml:"api" mapstructure:"api" json:"api"`
	Monitor     Monitor     `toml:"monitor" mapstructure:"monitor" json:"monitor"`
	Log         xzap.Config `toml:"log" mapstructure:"log" json:"log"`
	Kv          *KvConf     `toml:"kv" mapstructure:"kv" json:"kv"`
	DB          *gdb.Config `toml:"db" mapstructure:"db" json:"db"`
	ChainCfg    ChainCfg    `toml:"chain_cfg" mapstructure:"chain_cfg" json:"chain_cfg"`
	Marketplace MarketCfg   `toml:"marketplace" mapstructure:"marketplace" json:"marketplace"`
	ProjectCfg  ProjectCfg  `toml:"project_cfg" mapstructure:"project_cfg" json:"project_cfg"`
}

// ApiConf HTTP 服务配置
type ApiConf struct {
	Port string `toml:"port" mapstructure:"port" json:"port"` // 监听端口, 如 ":9000"
}

// Monitor 监控配置
type Monitor struct {
	PprofEnable bool  `toml:"pprof_enable" mapstructure:"pprof_enable" json:"pprof_enable"`
	PprofPort   int64 `toml:"pprof_port" mapstructure:"pprof_port" json:"pprof_port"`
}

// ChainCfg 链与协作方合约配置
type ChainCfg struct {
	Name            string `toml:"name" mapstructure:"name" json:"name"`                                     // 链名称 (如: eth, sepolia)
	ID              int64  `toml:"id" mapstructure:"id" json:"id"`                                           // Chain ID
	Endpoint        string `toml:"endpoint" mapstructure:"endpoint" json:"endpoint"`                         // RPC 地址
	CurrencyAddress string `toml:"currency_address" mapstructure:"currency_address" json:"currency_address"` // 资金账本 (ERC20) 合约地址
	PrivateKey      string `toml:"private_key" mapstructure:"private_key" json:"private_key"`                // 托管账户私钥 (hex)
}

// MarketCfg 市场策略的初始配置
// 这里只是种子, 运行期以行政接口的修改为准
type MarketCfg struct {
	RegistryMode      string   `toml:"registry_mode" mapstructure:"registry_mode" json:"registry_mode"`                // evm / memory
	Admin             string   `toml:"admin" mapstructure:"admin" json:"admin"`                                        // 行政主体地址
	Custody           string   `toml:"custody" mapstructure:"custody" json:"custody"`                                  // 托管账户地址 (memory 档位用)
	Bank              string   `toml:"bank" mapstructure:"bank" json:"bank"`                                           // 抽成接收账户
	CommissionPercent int64    `toml:"commission_percent" mapstructure:"commission_percent" json:"commission_percent"` // 初始抽成 [0,100]
	Allowed           []string `toml:"allowed" mapstructure:"allowed" json:"allowed"`                                  // 初始白名单, 空表示全部接受
	StableBidHandles  bool     `toml:"stable_bid_handles" mapstructure:"stable_bid_handles" json:"stable_bid_handles"` // 句柄式出价接口开关
}

// ProjectCfg 项目配置
type ProjectCfg struct {
	Name string `toml:"name" mapstructure:"name" json:"name"`
}

// KvConf KV 存储配置
type KvConf struct {
	Redis []*Redis `toml:"redis" json:"redis"`
}

// Redis 连接配置
type Redis struct {
	Host string `toml:"host" json:"host"`
	Type string `toml:"type" json:"type"` // node / cluster
	Pass string `toml:"pass" json:"pass"`
}

// UnmarshalConfig 加载并解析配置文件
// 环境变量以 NFTM_ 为前缀覆盖, 如 NFTM_DB_HOST
func UnmarshalConfig(configFilePath string) (*Config, error) {
	viper.SetConfigFile(configFilePath)
	viper.SetConfigType("toml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("NFTM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return nil, err
	}

	return &c, nil
}
