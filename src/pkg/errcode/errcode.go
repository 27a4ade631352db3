// Package errcode 定义 API 层的业务错误码
package errcode

import "fmt"

// Err 业务错误, code 随响应体返回
type Err struct {
	code int
	msg  string
}

func NewErr(code int, msg string) *Err {
	return &Err{code: code, msg: msg}
}

// NewCustomErr 通用业务错误
func NewCustomErr(msg string) *Err {
	return NewErr(CodeCustom, msg)
}

func (e *Err) Code() int {
	return e.code
}

func (e *Err) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.code, e.msg)
}

func (e *Err) Msg() string {
	return e.msg
}

const (
	CodeOK     = 200
	CodeCustom = 10001
)

var (
	ErrUnexpected    = NewErr(10000, "service internal error")
	ErrInvalidParams = NewErr(10002, "invalid params")

	// 市场业务错误码
	ErrNotAuthorized        = NewErr(30001, "caller is neither owner nor approved")
	ErrAlreadyListed        = NewErr(30002, "asset already listed")
	ErrContractNotAccepted  = NewErr(30003, "collection contract not accepted")
	ErrNotItemOwner         = NewErr(30004, "caller is not the item owner")
	ErrItemNotFound         = NewErr(30005, "item not found")
	ErrItemAlreadySold      = NewErr(30006, "item already sold")
	ErrBuyNowDisabled       = NewErr(30007, "buy now disabled")
	ErrWrongTenderAmount    = NewErr(30008, "wrong tender amount")
	ErrBidTooLow            = NewErr(30009, "bid too low")
	ErrInsufficientFunds    = NewErr(30010, "insufficient funds or allowance")
	ErrItemDelisted         = NewErr(30011, "item delisted")
	ErrSettlementInProgress = NewErr(30012, "settlement in progress")
	ErrHandlesDisabled      = NewErr(30013, "stable bid handles not enabled")
	ErrSettledPayoutPending = NewErr(30014, "sale committed, payout pending reconciliation")
)
