package network

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/stellar/go/strkey"
	"github.com/stellar/go/xdr"

	"github.com/panoramablock/rwasync/internal/domain/entity"
)

// contractScAddress builds an ScAddress from a C... strkey contract ID.
func contractScAddress(contractID string) (xdr.ScAddress, error) {
	raw, err := strkey.Decode(strkey.VersionByteContract, contractID)
	if err != nil {
		return xdr.ScAddress{}, errors.Wrapf(err, "invalid contract address %q", contractID)
	}
	var hash xdr.Hash
	copy(hash[:], raw)
	return xdr.ScAddress{
		Type:       xdr.ScAddressTypeScAddressTypeContract,
		ContractId: (*xdr.ContractId)(&hash),
	}, nil
}

// AddressScVal wraps a contract address into an ScVal argument.
func AddressScVal(contractID string) (xdr.ScVal, error) {
	addr, err := contractScAddress(contractID)
	if err != nil {
		return xdr.ScVal{}, err
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
}

// AccountScVal wraps a G... account address into an ScVal argument.
func AccountScVal(accountID string) (xdr.ScVal, error) {
	accID, err := xdr.AddressToAccountId(accountID)
	if err != nil {
		return xdr.ScVal{}, errors.Wrapf(err, "invalid account address %q", accountID)
	}
	addr := xdr.ScAddress{
		Type:      xdr.ScAddressTypeScAddressTypeAccount,
		AccountId: &accID,
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvAddress, Address: &addr}, nil
}

// scValToAddress converts an address ScVal back to its strkey form.
func scValToAddress(v xdr.ScVal) (string, error) {
	if v.Type != xdr.ScValTypeScvAddress || v.Address == nil {
		return "", errors.New("value is not an address")
	}
	addr := *v.Address
	switch addr.Type {
	case xdr.ScAddressTypeScAddressTypeContract:
		if addr.ContractId == nil {
			return "", errors.New("contract address missing ID")
		}
		return strkey.Encode(strkey.VersionByteContract, (*addr.ContractId)[:])
	case xdr.ScAddressTypeScAddressTypeAccount:
		if addr.AccountId == nil {
			return "", errors.New("account address missing ID")
		}
		return addr.AccountId.Address(), nil
	}
	return "", errors.Errorf("unsupported address type %v", addr.Type)
}

// scVecToAddresses decodes a vector of address ScVals.
func scVecToAddresses(v xdr.ScVal) ([]string, error) {
	if v.Type != xdr.ScValTypeScvVec || v.Vec == nil || *v.Vec == nil {
		return nil, errors.New("value is not a vector")
	}
	vec := **v.Vec
	addrs := make([]string, 0, len(vec))
	for _, item := range vec {
		addr, err := scValToAddress(item)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// scMapFields flattens a symbol-keyed ScMap into string fields, skipping
// entries whose values are not strings or symbols.
func scMapFields(v xdr.ScVal) (map[string]string, bool) {
	if v.Type != xdr.ScValTypeScvMap || v.Map == nil || *v.Map == nil {
		return nil, false
	}
	fields := make(map[string]string)
	for _, e := range **v.Map {
		key, ok := scValToKey(e.Key)
		if !ok {
			continue
		}
		switch e.Val.Type {
		case xdr.ScValTypeScvString:
			if e.Val.Str != nil {
				fields[key] = string(*e.Val.Str)
			}
		case xdr.ScValTypeScvSymbol:
			if e.Val.Sym != nil {
				fields[key] = string(*e.Val.Sym)
			}
		}
	}
	return fields, true
}

func scValToKey(v xdr.ScVal) (string, bool) {
	switch v.Type {
	case xdr.ScValTypeScvSymbol:
		if v.Sym != nil {
			return string(*v.Sym), true
		}
	case xdr.ScValTypeScvString:
		if v.Str != nil {
			return string(*v.Str), true
		}
	}
	return "", false
}

// scI128ToString renders an i128 amount as a decimal base-unit string.
func scI128ToString(parts xdr.Int128Parts) string {
	hi := new(big.Int).SetInt64(int64(parts.Hi))
	hi.Lsh(hi, 64)
	lo := new(big.Int).SetUint64(uint64(parts.Lo))
	return hi.Add(hi, lo).String()
}

// decodePositionMaps fills the supplied/borrowed maps from a position
// ScMap of shape {supplied: {asset: i128}, borrowed: {asset: i128}}.
// Undecodable shapes leave the maps empty rather than failing the fetch.
func decodePositionMaps(v xdr.ScVal, position *entity.UserPosition) {
	if v.Type != xdr.ScValTypeScvMap || v.Map == nil || *v.Map == nil {
		return
	}
	for _, e := range **v.Map {
		key, ok := scValToKey(e.Key)
		if !ok {
			continue
		}
		var dest map[string]string
		switch key {
		case "supplied":
			dest = position.Supplied
		case "borrowed":
			dest = position.Borrowed
		default:
			continue
		}
		if e.Val.Type != xdr.ScValTypeScvMap || e.Val.Map == nil || *e.Val.Map == nil {
			continue
		}
		for _, inner := range **e.Val.Map {
			asset, err := scValToAddress(inner.Key)
			if err != nil {
				continue
			}
			if inner.Val.Type == xdr.ScValTypeScvI128 && inner.Val.I128 != nil {
				dest[asset] = scI128ToString(*inner.Val.I128)
			}
		}
	}
}

// I128ScVal encodes a non-negative integer amount as an i128 contract value.
func I128ScVal(amount *big.Int) (xdr.ScVal, error) {
	if amount == nil || amount.Sign() < 0 || amount.BitLen() > 127 {
		return xdr.ScVal{}, errors.New("amount out of i128 range")
	}
	lo := new(big.Int).And(amount, new(big.Int).SetUint64(^uint64(0)))
	hi := new(big.Int).Rsh(amount, 64)
	parts := xdr.Int128Parts{
		Hi: xdr.Int64(hi.Int64()),
		Lo: xdr.Uint64(lo.Uint64()),
	}
	return xdr.ScVal{Type: xdr.ScValTypeScvI128, I128: &parts}, nil
}
