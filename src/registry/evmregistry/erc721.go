package evmregistry

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// 最小化的 ERC721 ABI, 只保留市场用到的入口
const erc721ABI = `[
	{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"tokenId","type":"uint256"}],"name":"getApproved","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"operator","type":"address"}],"name":"isApprovedForAll","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"name":"transferFrom","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

// AssetRegistry ERC721 合约之上的资产登记处实现
// collection 地址逐调用传入, 一个实例可服务任意多个 NFT 合约
type AssetRegistry struct {
	c      *Client
	parsed abi.ABI
}

func NewAssetRegistry(c *Client) (*AssetRegistry, error) {
	parsed, err := abi.JSON(strings.NewReader(erc721ABI))
	if err != nil {
		return nil, errors.Wrap(err, "failed on parse erc721 abi")
	}
	return &AssetRegistry{c: c, parsed: parsed}, nil
}

func (r *AssetRegistry) OwnerOf(ctx context.Context, collection common.Address, tokenID *big.Int) (common.Address, error) {
	out, err := r.c.call(ctx, r.parsed, collection, "ownerOf", tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return out[0].(common.Address), nil
}

// IsApprovedOrOwner 组合 ownerOf / getApproved / isApprovedForAll 三个只读入口判断
func (r *AssetRegistry) IsApprovedOrOwner(ctx context.Context, operator common.Address, collection common.Address, tokenID *big.Int) (bool, error) {
	owner, err := r.OwnerOf(ctx, collection, tokenID)
	if err != nil {
		return false, err
	}
	if owner == operator {
		return true, nil
	}
	out, err := r.c.call(ctx, r.parsed, collection, "getApproved", tokenID)
	if err != nil {
		return false, err
	}
	if out[0].(common.Address) == operator {
		return true, nil
	}
	out, err = r.c.call(ctx, r.parsed, collection, "isApprovedForAll", owner, operator)
	if err != nil {
		return false, err
	}
	return out[0].(bool), nil
}

func (r *AssetRegistry) Transfer(ctx context.Context, collection common.Address, tokenID *big.Int, from, to common.Address) error {
	ok, err := r.c.transact(ctx, r.parsed, collection, "transferFrom", from, to, tokenID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("erc721 transferFrom reverted")
	}
	return nil
}
