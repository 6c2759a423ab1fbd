package entity

// WalletTransaction is one historical transaction of an account, with an
// operation summary built from Horizon operation records.
type WalletTransaction struct {
	ID             string   `json:"id"`
	Hash           string   `json:"hash"`
	Ledger         int32    `json:"ledger"`
	CreatedAt      string   `json:"createdAt"`
	SourceAccount  string   `json:"sourceAccount"`
	FeeCharged     int64    `json:"feeCharged"`
	OperationCount int32    `json:"operationCount"`
	Successful     bool     `json:"successful"`
	Memo           string   `json:"memo,omitempty"`
	OperationType  string   `json:"operationType,omitempty"`
	InvolvedAssets []string `json:"involvedAssets,omitempty"`
	AmountMoved    string   `json:"amountMoved,omitempty"`
}
