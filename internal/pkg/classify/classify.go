// Package classify categorizes Stellar asset codes into RWA types.
// Classification is a pure substring heuristic over the asset symbol and
// may misclassify; callers treat the result as advisory display metadata.
package classify

import (
	"strings"

	"github.com/panoramablock/rwasync/internal/domain/entity"
)

var stablecoins = map[string]struct{}{
	"USDC": {},
	"USDT": {},
	"BUSD": {},
	"DAI":  {},
	"TUSD": {},
	"USDP": {},
}

var displayNames = map[string]string{
	"SRWATBILL": "US Treasury Bills",
	"SRWACORP":  "Corporate Bonds",
	"SRWAREIT":  "Real Estate Investment Trust",
	"TBILL3M":   "3-Month Treasury Bills",
	"CORPBOND":  "Corporate Bonds",
	"GOLDTOKEN": "Gold-Backed Token",
}

// RWAType returns the RWA category for an asset code, or ("", false) when
// the code matches no known pattern. Pattern order matters: treasury
// patterns win over the generic srwa/rwa catch-all.
func RWAType(assetCode string) (entity.RWAType, bool) {
	code := strings.ToLower(assetCode)
	switch {
	case code == "":
		return "", false
	case strings.Contains(code, "tbill") || strings.Contains(code, "treasury"):
		return entity.RWATypeTreasury, true
	case strings.Contains(code, "bond") || strings.Contains(code, "corp"):
		return entity.RWATypeCorporateBond, true
	case strings.Contains(code, "reit") || strings.Contains(code, "real") || strings.Contains(code, "property"):
		return entity.RWATypeRealEstate, true
	case strings.Contains(code, "gold") || strings.Contains(code, "silver") || strings.Contains(code, "commodity"):
		return entity.RWATypeCommodity, true
	case strings.Contains(code, "srwa") || strings.Contains(code, "rwa"):
		return entity.RWATypeOther, true
	}
	return "", false
}

// IsStablecoin reports whether the asset code is a known stablecoin.
func IsStablecoin(assetCode string) bool {
	_, ok := stablecoins[strings.ToUpper(assetCode)]
	return ok
}

// DisplayName maps well-known RWA asset codes to readable names, falling
// back to the code itself.
func DisplayName(assetCode string) string {
	if name, ok := displayNames[strings.ToUpper(assetCode)]; ok {
		return name
	}
	return assetCode
}

// Apply annotates an asset balance in place with RWA categorization and
// display name.
func Apply(asset *entity.AssetBalance) {
	rwaType, ok := RWAType(asset.AssetCode)
	if !ok {
		return
	}
	asset.IsRWA = true
	asset.RWAType = rwaType
	asset.DisplayName = DisplayName(asset.AssetCode)
}
