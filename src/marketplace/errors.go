package marketplace

import "github.com/pkg/errors"

// 业务错误种类
// 所有前置条件失败都会以零状态变更中止调用, 并向调用方返回具体的错误种类,
// 不允许吞掉细节只抛一个笼统的失败
var (
	ErrNotAuthorized                = errors.New("caller is neither owner nor approved for the asset")
	ErrAlreadyListed                = errors.New("asset already has an active listing")
	ErrContractNotAccepted          = errors.New("collection contract is not on the accepted list")
	ErrNotItemOwner                 = errors.New("caller is not the item owner of record")
	ErrItemNotFound                 = errors.New("item not found")
	ErrItemDelisted                 = errors.New("item has been delisted")
	ErrItemAlreadySold              = errors.New("item already sold")
	ErrBuyNowDisabled               = errors.New("buy now is disabled for this item")
	ErrWrongTenderAmount            = errors.New("tendered amount does not equal the buy now price")
	ErrBidTooLow                    = errors.New("bid price is below the minimum price")
	ErrInsufficientFundsOrAllowance = errors.New("insufficient funds or allowance")
	ErrInvalidArgument              = errors.New("invalid argument")
	ErrSettlementInProgress         = errors.New("a settlement on this item is already in progress")
	ErrDisbursementFailed           = errors.New("sale committed but payout disbursement failed")
	ErrHandlesDisabled              = errors.New("stable bid handles are not enabled")
)
