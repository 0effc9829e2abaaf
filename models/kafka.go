package models

type Record struct {
	Key   []byte `json:"key"`
	Value []byte `json:"value"`
	Topic string `json:"topic"`
}

// TxEvent is a transaction change notification published by the backend.
type TxEvent struct {
	TransactionID FlexibleString `json:"transaction_id"`
	Status        Status         `json:"status"`
	Type          TxType         `json:"type"`
	Event         string         `json:"event"`
}
