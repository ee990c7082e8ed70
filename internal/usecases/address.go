package usecases

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// evmNetworks lists network identifiers whose addresses and hashes follow EVM encoding.
var evmNetworks = map[string]struct{}{
	"ethereum":  {},
	"erc20":     {},
	"polygon":   {},
	"bsc":       {},
	"bep20":     {},
	"arbitrum":  {},
	"optimism":  {},
	"base":      {},
	"avalanche": {},
}

// IsEVMNetwork reports whether network uses EVM addresses.
func IsEVMNetwork(network string) bool {
	_, ok := evmNetworks[strings.ToLower(strings.TrimSpace(network))]
	return ok
}

// ValidAddress checks an address for the given network. Non-EVM networks only
// require a non-empty value without whitespace.
func ValidAddress(network, address string) bool {
	address = strings.TrimSpace(address)
	if IsEVMNetwork(network) {
		return common.IsHexAddress(address) && strings.HasPrefix(address, "0x")
	}
	return address != "" && !strings.ContainsAny(address, " \t\n")
}

// ValidTxHash checks a deposit transaction hash for the given network.
func ValidTxHash(network, hash string) bool {
	hash = strings.TrimSpace(hash)
	if IsEVMNetwork(network) {
		b, err := hexutil.Decode(hash)
		return err == nil && len(b) == common.HashLength
	}
	return hash != "" && len(hash) <= 128 && !strings.ContainsAny(hash, " \t\n")
}

// ChecksumAddress normalises EVM addresses to their EIP-55 form.
func ChecksumAddress(network, address string) string {
	address = strings.TrimSpace(address)
	if IsEVMNetwork(network) && common.IsHexAddress(address) {
		return common.HexToAddress(address).Hex()
	}
	return address
}
