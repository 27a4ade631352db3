// Package xkv 封装 go-zero 的 kv 存储, 做缓存层
package xkv

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/stores/kv"
)

// Store 对 kv.Store 的薄封装, 补充 JSON 读写助手
type Store struct {
	kv.Store
}

func NewStore(c kv.KvConf) *Store {
	return &Store{Store: kv.NewStore(c)}
}

// ReadJson 读取并反序列化缓存值
// 键不存在时返回 found=false, 不视为错误
func (s *Store) ReadJson(key string, v interface{}) (bool, error) {
	raw, err := s.Get(key)
	if err != nil {
		return false, errors.Wrap(err, "failed on get cache value")
	}
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, errors.Wrap(err, "failed on unmarshal cache value")
	}
	return true, nil
}

// WriteJson 序列化并写入缓存, seconds<=0 表示不过期
func (s *Store) WriteJson(key string, v interface{}, seconds int) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "failed on marshal cache value")
	}
	if seconds > 0 {
		return s.Setex(key, string(raw), seconds)
	}
	return s.Set(key, string(raw))
}
