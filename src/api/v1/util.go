package v1

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/nechmads/nfts-marketplace/src/marketplace"
	"github.com/nechmads/nfts-marketplace/src/pkg/errcode"
)

// bizError 把引擎的错误种类映射为 API 业务错误码
// 未识别的错误原样透出消息, 不吞细节
func bizError(err error) error {
	switch {
	case errors.Is(err, marketplace.ErrNotAuthorized):
		return errcode.ErrNotAuthorized
	case errors.Is(err, marketplace.ErrAlreadyListed):
		return errcode.ErrAlreadyListed
	case errors.Is(err, marketplace.ErrContractNotAccepted):
		return errcode.ErrContractNotAccepted
	case errors.Is(err, marketplace.ErrNotItemOwner):
		return errcode.ErrNotItemOwner
	case errors.Is(err, marketplace.ErrItemNotFound):
		return errcode.ErrItemNotFound
	case errors.Is(err, marketplace.ErrItemAlreadySold):
		return errcode.ErrItemAlreadySold
	case errors.Is(err, marketplace.ErrItemDelisted):
		return errcode.ErrItemDelisted
	case errors.Is(err, marketplace.ErrBuyNowDisabled):
		return errcode.ErrBuyNowDisabled
	case errors.Is(err, marketplace.ErrWrongTenderAmount):
		return errcode.ErrWrongTenderAmount
	case errors.Is(err, marketplace.ErrBidTooLow):
		return errcode.ErrBidTooLow
	case errors.Is(err, marketplace.ErrInsufficientFundsOrAllowance):
		return errcode.ErrInsufficientFunds
	case errors.Is(err, marketplace.ErrSettlementInProgress):
		return errcode.ErrSettlementInProgress
	case errors.Is(err, marketplace.ErrDisbursementFailed):
		return errcode.ErrSettledPayoutPending
	case errors.Is(err, marketplace.ErrHandlesDisabled):
		return errcode.ErrHandlesDisabled
	case errors.Is(err, marketplace.ErrInvalidArgument):
		return errcode.ErrInvalidParams
	default:
		return errcode.NewCustomErr(err.Error())
	}
}

// parseAddress 校验并解析 hex 地址
func parseAddress(s string) (common.Address, bool) {
	if !common.IsHexAddress(s) {
		return common.Address{}, false
	}
	return common.HexToAddress(s), true
}

// parseTokenID 解析十进制 token id
func parseTokenID(s string) (*big.Int, bool) {
	id, ok := new(big.Int).SetString(s, 10)
	if !ok || id.Sign() < 0 {
		return nil, false
	}
	return id, true
}

// parseItemID 解析路径参数中的 item id
func parseItemID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
