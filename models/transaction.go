package models

import (
	// Go Internal Packages
	"time"

	// External Packages
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPendiente  Status = "pendiente"
	StatusProcesando Status = "procesando"
	StatusAdmitido   Status = "admitido"
	StatusPagado     Status = "pagado"
	StatusCancelado  Status = "cancelado"
)

// Terminal reports whether no further status transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusPagado || s == StatusCancelado
}

type TxType string

const (
	TypePago      TxType = "pago"
	TypeCarga     TxType = "carga"
	TypeReembolso TxType = "reembolso"
)

type Transaction struct {
	ID              FlexibleString      `json:"id"`
	Type            TxType              `json:"type"`
	Status          Status              `json:"status"`
	AmountARS       decimal.NullDecimal `json:"amount_ars"`
	AmountUSDT      decimal.NullDecimal `json:"amount_usdt"`
	Username        string              `json:"username,omitempty"`
	TelegramID      FlexibleString      `json:"telegram_id,omitempty"`
	AdminUsername   string              `json:"admin_username,omitempty"`
	Identifier      string              `json:"identifier,omitempty"`
	Motivo          string              `json:"motivo,omitempty"`
	CreatedAt       *time.Time          `json:"created_at"`
	ReviewStartedAt *time.Time          `json:"review_started_at,omitempty"`
	AdmittedAt      *time.Time          `json:"admitted_at,omitempty"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	UpdatedAt       *time.Time          `json:"updated_at,omitempty"`
}

// Owner returns the identity shown for the transaction: the username, or the telegram id.
func (t *Transaction) Owner() string {
	if t.Username != "" {
		return t.Username
	}
	if t.TelegramID != "" {
		return "ID: " + t.TelegramID.String()
	}
	return "ID: N/A"
}

// DeletedTransaction is a transaction archived by a clear-all.
type DeletedTransaction struct {
	ID                FlexibleString      `json:"id"`
	OriginalID        FlexibleString      `json:"original_id"`
	Username          string              `json:"username,omitempty"`
	TelegramID        FlexibleString      `json:"telegram_id,omitempty"`
	Type              TxType              `json:"type"`
	Status            Status              `json:"status"`
	AmountARS         decimal.NullDecimal `json:"amount_ars"`
	AmountUSDT        decimal.NullDecimal `json:"amount_usdt"`
	Motivo            string              `json:"motivo,omitempty"`
	OriginalCreatedAt *time.Time          `json:"original_created_at,omitempty"`
	DeletedAt         *time.Time          `json:"deleted_at,omitempty"`
	DeletedBy         string              `json:"deleted_by,omitempty"`
}
