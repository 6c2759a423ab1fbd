package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/panoramablock/rwasync/internal/domain/entity"
)

func TestRWAType(t *testing.T) {
	tests := []struct {
		code string
		want entity.RWAType
		ok   bool
	}{
		{code: "SRWATBILL", want: entity.RWATypeTreasury, ok: true},
		{code: "TBILL3M", want: entity.RWATypeTreasury, ok: true},
		{code: "CORPBOND", want: entity.RWATypeCorporateBond, ok: true},
		{code: "SRWAREIT", want: entity.RWATypeRealEstate, ok: true},
		{code: "GOLDTOKEN", want: entity.RWATypeCommodity, ok: true},
		{code: "SRWAX", want: entity.RWATypeOther, ok: true},
		{code: "myrwatoken", want: entity.RWATypeOther, ok: true},
		{code: "XLM", ok: false},
		{code: "USDC", ok: false},
		{code: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := RWAType(tt.code)
		assert.Equal(t, tt.ok, ok, "code %q", tt.code)
		assert.Equal(t, tt.want, got, "code %q", tt.code)
	}
}

// Treasury patterns take precedence over the generic srwa catch-all when
// both match.
func TestRWATypePatternOrder(t *testing.T) {
	got, ok := RWAType("SRWATBILL")
	assert.True(t, ok)
	assert.Equal(t, entity.RWATypeTreasury, got)
}

func TestIsStablecoin(t *testing.T) {
	assert.True(t, IsStablecoin("USDC"))
	assert.True(t, IsStablecoin("usdt"))
	assert.False(t, IsStablecoin("XLM"))
	assert.False(t, IsStablecoin(""))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "US Treasury Bills", DisplayName("SRWATBILL"))
	assert.Equal(t, "Gold-Backed Token", DisplayName("goldtoken"))
	assert.Equal(t, "UNKNOWN", DisplayName("UNKNOWN"))
}

func TestApply(t *testing.T) {
	asset := entity.AssetBalance{AssetCode: "SRWATBILL", Balance: "10"}
	Apply(&asset)
	assert.True(t, asset.IsRWA)
	assert.Equal(t, entity.RWATypeTreasury, asset.RWAType)
	assert.Equal(t, "US Treasury Bills", asset.DisplayName)

	plain := entity.AssetBalance{AssetCode: "XLM", Balance: "5"}
	Apply(&plain)
	assert.False(t, plain.IsRWA)
	assert.Empty(t, plain.DisplayName)
}
