package codec

import (
	// Local Packages
	models "paybot-console/models"
)

const placeholder = "N/A"

// NeutralLink is the link target for networks outside both equivalence classes.
const NeutralLink = "#"

// TruncateHash shortens a transaction hash to its first 10 and last 8 characters.
func TruncateHash(hash string) string {
	return truncate(hash, 10, 8)
}

// TruncateAddress shortens a wallet address to its first 8 and last 6 characters.
func TruncateAddress(address string) string {
	return truncate(address, 8, 6)
}

func truncate(s string, prefix, suffix int) string {
	if s == "" {
		return placeholder
	}
	r := []rune(s)
	if len(r) <= prefix+suffix {
		return s
	}
	return string(r[:prefix]) + "..." + string(r[len(r)-suffix:])
}

// TxLink returns the explorer page of a transaction hash on the given network.
func TxLink(network, hash string) string {
	switch models.ClassOf(network) {
	case models.ClassBEP20:
		return "https://bscscan.com/tx/" + hash
	case models.ClassTRC20:
		return "https://tronscan.org/#/transaction/" + hash
	}
	return NeutralLink
}

// AddressLink returns the explorer page of a wallet address on the given network.
func AddressLink(network, address string) string {
	switch models.ClassOf(network) {
	case models.ClassBEP20:
		return "https://bscscan.com/address/" + address
	case models.ClassTRC20:
		return "https://tronscan.org/#/address/" + address
	}
	return NeutralLink
}
