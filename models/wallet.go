package models

import "strings"

// NetworkClass groups interchangeable network labels referring to the same chain.
type NetworkClass string

const (
	ClassBEP20   NetworkClass = "BEP20"
	ClassTRC20   NetworkClass = "TRC20"
	ClassUnknown NetworkClass = "unknown"
)

// ClassOf maps a network label to its equivalence class.
func ClassOf(network string) NetworkClass {
	switch strings.ToUpper(strings.TrimSpace(network)) {
	case "BSC", "BEP20":
		return ClassBEP20
	case "TRON", "TRC20":
		return ClassTRC20
	}
	return ClassUnknown
}

// WalletTransfer is an on-chain token transfer into one of the deposit wallets.
type WalletTransfer struct {
	Hash         string         `json:"hash"`
	From         string         `json:"from"`
	To           string         `json:"to"`
	Value        FlexibleString `json:"value"`
	TokenDecimal FlexibleString `json:"tokenDecimal"`
	TimeStamp    FlexibleString `json:"timeStamp"`
	Network      string         `json:"network"`
	Status       FlexibleString `json:"status"`
	Confirmed    bool           `json:"confirmed"`
}

func (w *WalletTransfer) Class() NetworkClass {
	return ClassOf(w.Network)
}

func (w *WalletTransfer) IsConfirmed() bool {
	return w.Confirmed || w.Status == "1"
}
