package types

// SetCommissionReq 设置平台抽成
type SetCommissionReq struct {
	CallerAddress string `json:"caller_address" binding:"required"`
	Percent       int64  `json:"percent"`
}

// SetBankReq 设置抽成接收账户
type SetBankReq struct {
	CallerAddress string `json:"caller_address" binding:"required"`
	BankAddress   string `json:"bank_address" binding:"required"`
}

// RestrictContractReq 白名单准入一个合约
type RestrictContractReq struct {
	CallerAddress     string `json:"caller_address" binding:"required"`
	CollectionAddress string `json:"collection_address" binding:"required"`
}

// AcceptAllReq 清空白名单
type AcceptAllReq struct {
	CallerAddress string `json:"caller_address" binding:"required"`
}

// PolicyInfo 当前策略
type PolicyInfo struct {
	CommissionPercent int64    `json:"commission_percent"`
	BankAddress       string   `json:"bank_address"`
	Allowed           []string `json:"allowed"` // 空表示全部接受
}
