package entity

// PoolData describes a lending pool, sourced by merging on-chain records
// with locally created pools. PoolAddress is unique across the merged
// list; when both sources carry the same address the on-chain record wins.
type PoolData struct {
	PoolAddress          string `json:"pool_address"`
	Name                 string `json:"name"`
	Oracle               string `json:"oracle"`
	BackstopTakeRate     int64  `json:"backstop_take_rate"`
	MaxPositions         int    `json:"max_positions"`
	TotalSupply          string `json:"total_supply"`
	TotalBorrowed        string `json:"total_borrowed"`
	SupplyAPY            string `json:"supply_apy"`
	BorrowAPY            string `json:"borrow_apy"`
	UtilizationRate      string `json:"utilization_rate"`
	CollateralFactor     string `json:"collateral_factor"`
	LiquidationThreshold string `json:"liquidation_threshold"`
	ReserveFactor        string `json:"reserve_factor"`
	InterestRateModel    string `json:"interest_rate_model"`
	IsActive             bool   `json:"is_active"`
	CreatedAt            string `json:"created_at"`
	LastUpdated          string `json:"last_updated"`

	// Source marks where the record came from: "chain", "local" or "fallback".
	Source string `json:"source"`
	// Fallback is true when the record substitutes for a failed fetch.
	Fallback bool `json:"fallback"`
}

// PoolStats aggregates the merged pool list for dashboard display.
type PoolStats struct {
	TotalValueLocked string `json:"totalValueLocked"`
	TotalMarkets     int    `json:"totalMarkets"`
	AvgUtilization   string `json:"avgUtilization"`
}

// ContractInfo lists the platform contract addresses resolved from the
// factory contract. Fallback is true when known testnet addresses were
// substituted because the on-chain lookup failed or came back empty.
type ContractInfo struct {
	PoolFactory string `json:"poolFactory"`
	Backstop    string `json:"backstop"`
	Oracle      string `json:"oracle"`
	USDCToken   string `json:"usdcToken"`
	XLMToken    string `json:"xlmToken"`
	BLNDToken   string `json:"blndToken"`
	Admin       string `json:"admin"`
	Fallback    bool   `json:"fallback"`
}
