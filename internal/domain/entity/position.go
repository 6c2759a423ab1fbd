package entity

// UserPosition holds a user's supplied and borrowed amounts in one pool.
// Amounts are integer base units keyed by asset address. Positions are
// always refetched fresh and never survive a session.
type UserPosition struct {
	PoolAddress string            `json:"poolAddress"`
	UserAddress string            `json:"userAddress"`
	Supplied    map[string]string `json:"supplied"`
	Borrowed    map[string]string `json:"borrowed"`
}
