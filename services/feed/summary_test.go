package feed

import (
	// Go Internal Packages
	"testing"

	// Local Packages
	models "paybot-console/models"

	// External Packages
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestSummarize(t *testing.T) {
	records := []models.Transaction{
		{Status: models.StatusPendiente, Type: models.TypePago, AmountUSDT: amount("10.5"), AmountARS: amount("12000")},
		{Status: models.StatusProcesando, Type: models.TypePago, AmountUSDT: amount("4.5")},
		{Status: models.StatusPagado, Type: models.TypeCarga, AmountARS: amount("3000.25")},
		{Status: models.StatusCancelado},
	}

	s := Summarize(records)
	assert.True(t, s.Sample)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Pending)
	assert.Equal(t, 1, s.ByStatus[models.StatusPagado])
	assert.Equal(t, 2, s.ByType[models.TypePago])
	assert.NotContains(t, s.ByType, models.TxType(""))
	assert.Equal(t, "15", s.SumUSDT.String())
	assert.Equal(t, "15000.25", s.SumARS.String())
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.True(t, s.SumUSDT.IsZero())
	assert.Empty(t, s.ByStatus)
}
