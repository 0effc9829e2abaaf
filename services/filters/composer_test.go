package filters

import (
	// Go Internal Packages
	"testing"
	"time"

	// Local Packages
	errors "paybot-console/errors"
	models "paybot-console/models"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newComposer(t *testing.T) *Composer {
	t.Helper()
	return NewComposer(time.FixedZone("ART", -3*60*60))
}

func TestQueryDropsSentinels(t *testing.T) {
	c := newComposer(t)
	assert.Equal(t, models.Query{}, c.Query())

	require.NoError(t, c.SetStatus("pendiente"))
	require.NoError(t, c.SetType("all"))
	assert.Equal(t, models.Query{Status: "pendiente"}, c.Query())

	require.NoError(t, c.SetStatus(""))
	assert.Equal(t, models.Query{}, c.Query())
}

func TestQueryExpandsDates(t *testing.T) {
	c := newComposer(t)
	require.NoError(t, c.SetDateFrom("2024-03-10"))
	require.NoError(t, c.SetDateTo("2024-03-12"))

	q := c.Query()
	assert.Equal(t, "2024-03-10T00:00:00", q.From)
	assert.Equal(t, "2024-03-12T23:59:59", q.To)
}

func TestSameDayRangeIsAccepted(t *testing.T) {
	c := newComposer(t)
	require.NoError(t, c.SetDateTo("2024-03-10"))
	require.NoError(t, c.SetDateFrom("2024-03-10"))
	assert.Equal(t, "2024-03-10T00:00:00", c.Query().From)
}

func TestInvertedRangeIsRejected(t *testing.T) {
	c := newComposer(t)
	require.NoError(t, c.SetDateFrom("2024-03-10"))
	require.NoError(t, c.SetDateTo("2024-03-12"))
	before := c.Values()

	err := c.SetDateFrom("2024-03-13")
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Invalid, err))
	assert.Equal(t, before, c.Values())

	err = c.SetDateTo("2024-03-09")
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Invalid, err))
	assert.Equal(t, before, c.Values())
}

func TestClearingDateLiftsRangeCheck(t *testing.T) {
	c := newComposer(t)
	require.NoError(t, c.SetDateTo("2024-03-12"))
	require.NoError(t, c.SetDateTo(""))
	require.NoError(t, c.SetDateFrom("2024-04-01"))
	assert.Equal(t, "", c.Query().To)
}

func TestUnsupportedAxisValues(t *testing.T) {
	c := newComposer(t)
	tests := []struct {
		name string
		set  func() error
	}{
		{name: "status", set: func() error { return c.SetStatus("borrado") }},
		{name: "type", set: func() error { return c.SetType("retiro") }},
		{name: "malformed dateFrom", set: func() error { return c.SetDateFrom("10/03/2024") }},
		{name: "malformed dateTo", set: func() error { return c.SetDateTo("2024-13-01") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set()
			require.Error(t, err)
			assert.True(t, errors.Is(errors.Invalid, err))
		})
	}
	assert.Equal(t, Values{Status: All, Type: All}, c.Values())
}

func TestAxesAreIndependent(t *testing.T) {
	c := newComposer(t)
	require.NoError(t, c.SetStatus("pendiente"))
	require.NoError(t, c.SetType("pago"))
	c.SetSearch("  juan ")

	q := c.Query()
	assert.Equal(t, models.Query{Status: "pendiente", Type: "pago", Search: "juan"}, q)

	require.NoError(t, c.SetType("carga"))
	assert.Equal(t, models.Query{Status: "pendiente", Type: "carga", Search: "juan"}, c.Query())
}
