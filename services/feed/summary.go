package feed

import (
	// Local Packages
	models "paybot-console/models"

	// External Packages
	"github.com/shopspring/decimal"
)

// Summary aggregates the currently loaded records. It is a sample over whatever the last
// fetch returned for the active filters, not a server-side total.
type Summary struct {
	Sample   bool                  `json:"sample"`
	Total    int                   `json:"total"`
	Pending  int                   `json:"pending"`
	ByStatus map[models.Status]int `json:"by_status"`
	ByType   map[models.TxType]int `json:"by_type"`
	SumUSDT  decimal.Decimal       `json:"sum_usdt"`
	SumARS   decimal.Decimal       `json:"sum_ars"`
}

// Summarize counts records by status and type and sums their amounts. Pending counts both
// pendiente and procesando.
func Summarize(records []models.Transaction) Summary {
	s := Summary{
		Sample:   true,
		Total:    len(records),
		ByStatus: make(map[models.Status]int),
		ByType:   make(map[models.TxType]int),
		SumUSDT:  decimal.Zero,
		SumARS:   decimal.Zero,
	}
	for _, tx := range records {
		s.ByStatus[tx.Status]++
		if tx.Type != "" {
			s.ByType[tx.Type]++
		}
		if tx.Status == models.StatusPendiente || tx.Status == models.StatusProcesando {
			s.Pending++
		}
		if tx.AmountUSDT.Valid {
			s.SumUSDT = s.SumUSDT.Add(tx.AmountUSDT.Decimal)
		}
		if tx.AmountARS.Valid {
			s.SumARS = s.SumARS.Add(tx.AmountARS.Decimal)
		}
	}
	return s
}
