package entity

import (
	"math/big"
	"time"
)

// OperationType identifies a chain-mutating operation.
type OperationType string

const (
	OpSupply      OperationType = "supply"
	OpBorrow      OperationType = "borrow"
	OpRepay       OperationType = "repay"
	OpWithdraw    OperationType = "withdraw"
	OpDeployToken OperationType = "deploy-token"
	OpDeployPool  OperationType = "deploy-pool"
)

// OperationRequest is a fully validated chain mutation, amounts already
// converted to integer base units.
type OperationRequest struct {
	Type         OperationType
	From         string
	PoolAddress  string
	TokenAddress string
	Amount       *big.Int
	Params       map[string]string
}

// OperationResult reports the broadcast outcome. Mock is true when the
// executor returned a placeholder identifier instead of broadcasting.
type OperationResult struct {
	TxHash      string
	Mock        bool
	SubmittedAt time.Time
}
