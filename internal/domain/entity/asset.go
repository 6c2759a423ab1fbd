package entity

// RWAType categorizes a real-world-asset token by the class of the
// underlying off-chain asset.
type RWAType string

const (
	RWATypeTreasury      RWAType = "treasury"
	RWATypeCorporateBond RWAType = "corporate-bond"
	RWATypeRealEstate    RWAType = "real-estate"
	RWATypeCommodity     RWAType = "commodity"
	RWATypeOther         RWAType = "other"
)

// AssetBalance represents one balance line of a Stellar account, with
// RWA categorization applied. Recomputed on every fetch, never mutated
// locally. The IsRWA/RWAType classification is a substring heuristic and
// may misclassify; that is documented behavior.
type AssetBalance struct {
	AssetType   string  `json:"assetType"`
	AssetCode   string  `json:"assetCode,omitempty"`
	AssetIssuer string  `json:"assetIssuer,omitempty"`
	Balance     string  `json:"balance"`
	Limit       string  `json:"limit,omitempty"`
	IsRWA       bool    `json:"isRWA"`
	RWAType     RWAType `json:"rwaType,omitempty"`
	DisplayName string  `json:"displayName,omitempty"`
}

// BalanceSummary splits an account's holdings into display categories.
type BalanceSummary struct {
	XLMBalance  string         `json:"xlmBalance"`
	RWAAssets   []AssetBalance `json:"rwaAssets"`
	Stablecoins []AssetBalance `json:"stablecoins"`
	OtherAssets []AssetBalance `json:"otherAssets"`
}

// RecentToken is a token or pool the user created through the wizard,
// persisted locally and merged into on-chain listings.
type RecentToken struct {
	Address        string `json:"address"`
	Name           string `json:"name"`
	Symbol         string `json:"symbol,omitempty"`
	Type           string `json:"type"` // "token" or "pool"
	CreatedAt      string `json:"createdAt"`
	DeploymentHash string `json:"deploymentHash,omitempty"`
}
