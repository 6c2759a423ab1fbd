package entity

// Settings is the user-editable network configuration. Defaults are
// environment-derived; each field is independently overridable and
// resettable back to the environment value.
type Settings struct {
	Network              string `json:"network" envconfig:"STELLAR_NETWORK" default:"testnet"`
	HorizonURL           string `json:"horizonUrl" envconfig:"HORIZON_URL" default:"https://horizon-testnet.stellar.org"`
	RPCURL               string `json:"rpcUrl" envconfig:"RPC_URL" default:"https://soroban-testnet.stellar.org"`
	DefindexAPIBase      string `json:"defindexApiBase" envconfig:"DEFINDEX_API_BASE" default:""`
	ReflectorFeedSrwaUSD string `json:"reflectorFeedSrwaUsd" envconfig:"REFLECTOR_FEED_SRWA_USD" default:""`
	SoroswapRouter       string `json:"soroswapRouter" envconfig:"SOROSWAP_ROUTER" default:""`
	BlendFactory         string `json:"blendFactory" envconfig:"BLEND_FACTORY" default:""`
	DefaultSlippageBps   int    `json:"defaultSlippageBps" envconfig:"DEFAULT_SLIPPAGE_BPS" default:"50"`
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	Network              *string `json:"network,omitempty"`
	HorizonURL           *string `json:"horizonUrl,omitempty"`
	RPCURL               *string `json:"rpcUrl,omitempty"`
	DefindexAPIBase      *string `json:"defindexApiBase,omitempty"`
	ReflectorFeedSrwaUSD *string `json:"reflectorFeedSrwaUsd,omitempty"`
	SoroswapRouter       *string `json:"soroswapRouter,omitempty"`
	BlendFactory         *string `json:"blendFactory,omitempty"`
	DefaultSlippageBps   *int    `json:"defaultSlippageBps,omitempty"`
}
