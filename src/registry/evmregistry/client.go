// Package evmregistry 把资产登记处与资金账本两个协作方接到 EVM 链上的
// ERC721 / ERC20 合约, 市场以托管账户的身份读状态和发交易
package evmregistry

import (
	"context"
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

const transferGasLimit = 300000

// Client EVM RPC 客户端, 封装市场托管账户的只读调用和交易发送
type Client struct {
	eth     *ethclient.Client
	chainID *big.Int
	key     *ecdsa.PrivateKey
	from    common.Address
}

// Dial 连接 RPC 节点
// privKeyHex 为市场托管账户私钥, 仅读场景可传空串
func Dial(ctx context.Context, rawURL string, chainID int64, privKeyHex string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed on dial evm rpc")
	}
	c := &Client{
		eth:     eth,
		chainID: big.NewInt(chainID),
	}
	if privKeyHex != "" {
		key, err := crypto.HexToECDSA(privKeyHex)
		if err != nil {
			return nil, errors.Wrap(err, "failed on parse custody private key")
		}
		c.key = key
		c.from = crypto.PubkeyToAddress(key.PublicKey)
	}
	return c, nil
}

// From 托管账户地址
func (c *Client) From() common.Address {
	return c.from
}

// call 只读调用并解包返回值
func (c *Client) call(ctx context.Context, parsed abi.ABI, contract common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed on pack %s call", method)
	}
	raw, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed on eth_call %s", method)
	}
	out, err := parsed.Unpack(method, raw)
	if err != nil {
		return nil, errors.Wrapf(err, "failed on unpack %s result", method)
	}
	return out, nil
}

// transact 发送合约交易并等待上链
// 返回交易是否执行成功 (receipt status)
func (c *Client) transact(ctx context.Context, parsed abi.ABI, contract common.Address, method string, args ...interface{}) (bool, error) {
	if c.key == nil {
		return false, errors.New("client has no signing key")
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return false, errors.Wrapf(err, "failed on pack %s tx", method)
	}
	nonce, err := c.eth.PendingNonceAt(ctx, c.from)
	if err != nil {
		return false, errors.Wrap(err, "failed on get pending nonce")
	}
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed on suggest gas price")
	}
	tx := ethereumTypes.NewTransaction(nonce, contract, big.NewInt(0), transferGasLimit, gasPrice, data)
	signed, err := ethereumTypes.SignTx(tx, ethereumTypes.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return false, errors.Wrap(err, "failed on sign tx")
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return false, errors.Wrapf(err, "failed on send %s tx", method)
	}
	receipt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		return false, errors.Wrap(err, "failed on wait tx mined")
	}
	return receipt.Status == ethereumTypes.ReceiptStatusSuccessful, nil
}
