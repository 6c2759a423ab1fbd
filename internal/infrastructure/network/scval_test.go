package network

import (
	"math/big"
	"testing"

	"github.com/stellar/go/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testContract = "CD3NNLUCKWR52S5JOOLORACZ4FQ3RGSWULECCKZ6DTZRZ74N25JMYS2Z"
	testAccount  = "GAAZI4TCR3TY5OJHCTJC2A4QSY6CJWJH5IAJTGKIN2ER7LBNVKOCCWN7"
)

func TestAddressScValRoundTrip(t *testing.T) {
	v, err := AddressScVal(testContract)
	require.NoError(t, err)
	require.Equal(t, xdr.ScValTypeScvAddress, v.Type)

	got, err := scValToAddress(v)
	require.NoError(t, err)
	assert.Equal(t, testContract, got)
}

func TestAddressScValRejectsAccounts(t *testing.T) {
	_, err := AddressScVal(testAccount)
	assert.Error(t, err, "G addresses are not contract ids")
}

func TestAccountScVal(t *testing.T) {
	v, err := AccountScVal(testAccount)
	require.NoError(t, err)
	require.Equal(t, xdr.ScValTypeScvAddress, v.Type)

	got, err := scValToAddress(v)
	require.NoError(t, err)
	assert.Equal(t, testAccount, got)
}

func TestI128ScVal(t *testing.T) {
	tests := []struct {
		amount string
	}{
		{amount: "0"},
		{amount: "1"},
		{amount: "1000000000"},
		{amount: "18446744073709551616"}, // 2^64, spills into the high limb
	}
	for _, tt := range tests {
		amount, ok := new(big.Int).SetString(tt.amount, 10)
		require.True(t, ok)

		v, err := I128ScVal(amount)
		require.NoError(t, err, "amount %s", tt.amount)
		require.Equal(t, xdr.ScValTypeScvI128, v.Type)
		assert.Equal(t, tt.amount, scI128ToString(*v.I128), "amount %s", tt.amount)
	}
}

func TestI128ScValRejects(t *testing.T) {
	_, err := I128ScVal(nil)
	assert.Error(t, err)

	_, err = I128ScVal(big.NewInt(-1))
	assert.Error(t, err)

	tooBig := new(big.Int).Lsh(big.NewInt(1), 127)
	_, err = I128ScVal(tooBig)
	assert.Error(t, err)
}

func TestPassphrase(t *testing.T) {
	assert.Contains(t, Passphrase("testnet"), "Test SDF Network")
	assert.Contains(t, Passphrase("public"), "Public Global Stellar Network")
	assert.Contains(t, Passphrase("anything-else"), "Test SDF Network")
}

func TestExplorerTxURL(t *testing.T) {
	url := ExplorerTxURL("https://stellar.expert/explorer/testnet", "abc123")
	assert.Equal(t, "https://stellar.expert/explorer/testnet/tx/abc123", url)
}
