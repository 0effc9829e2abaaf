package filters

import (
	// Go Internal Packages
	"strings"
	"sync"
	"time"

	// Local Packages
	errors "paybot-console/errors"
	models "paybot-console/models"

	// External Packages
	"github.com/go-playground/validator/v10"
)

// All is the sentinel meaning "do not restrict this axis".
const All = "all"

const (
	dateLayout  = "2006-01-02"
	boundLayout = "2006-01-02T15:04:05"
)

// Values are the raw axis values as the operator entered them.
type Values struct {
	Status   string `json:"status"`
	Type     string `json:"type"`
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
	Search   string `json:"search,omitempty"`
}

// Composer holds the current filter axes and composes them into a models.Query. Each axis is
// updated independently; an update that would produce an inverted date range is rejected
// without touching any axis.
type Composer struct {
	mu       sync.Mutex
	loc      *time.Location
	validate *validator.Validate
	values   Values
}

func NewComposer(loc *time.Location) *Composer {
	if loc == nil {
		loc = time.Local
	}
	return &Composer{
		loc:      loc,
		validate: validator.New(),
		values:   Values{Status: All, Type: All},
	}
}

func (c *Composer) SetStatus(status string) error {
	status = strings.TrimSpace(status)
	if err := c.check("status", status, "omitempty,oneof=all pendiente pagado cancelado"); err != nil {
		return err
	}
	c.mu.Lock()
	c.values.Status = status
	c.mu.Unlock()
	return nil
}

func (c *Composer) SetType(txType string) error {
	txType = strings.TrimSpace(txType)
	if err := c.check("type", txType, "omitempty,oneof=all pago carga reembolso"); err != nil {
		return err
	}
	c.mu.Lock()
	c.values.Type = txType
	c.mu.Unlock()
	return nil
}

// SetDateFrom sets the lower calendar-date bound (YYYY-MM-DD, empty clears it).
func (c *Composer) SetDateFrom(date string) error {
	date = strings.TrimSpace(date)
	if err := c.check("dateFrom", date, "omitempty,datetime=2006-01-02"); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if date != "" && c.values.DateTo != "" && c.after(date, c.values.DateTo) {
		return errors.E(errors.Invalid, "dateFrom must not be after dateTo", nil)
	}
	c.values.DateFrom = date
	return nil
}

// SetDateTo sets the upper calendar-date bound (YYYY-MM-DD, empty clears it).
func (c *Composer) SetDateTo(date string) error {
	date = strings.TrimSpace(date)
	if err := c.check("dateTo", date, "omitempty,datetime=2006-01-02"); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if date != "" && c.values.DateFrom != "" && c.after(c.values.DateFrom, date) {
		return errors.E(errors.Invalid, "dateTo must not be before dateFrom", nil)
	}
	c.values.DateTo = date
	return nil
}

func (c *Composer) SetSearch(search string) {
	c.mu.Lock()
	c.values.Search = strings.TrimSpace(search)
	c.mu.Unlock()
}

// Values returns a copy of the current axis values.
func (c *Composer) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// Query composes the current axes. Sentinel and empty values are dropped and calendar dates
// are expanded to inclusive day bounds.
func (c *Composer) Query() models.Query {
	c.mu.Lock()
	v := c.values
	c.mu.Unlock()

	q := models.Query{Search: v.Search}
	if v.Status != All {
		q.Status = v.Status
	}
	if v.Type != All {
		q.Type = v.Type
	}
	if d, ok := c.parse(v.DateFrom); ok {
		q.From = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, c.loc).Format(boundLayout)
	}
	if d, ok := c.parse(v.DateTo); ok {
		q.To = time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, c.loc).Format(boundLayout)
	}
	return q
}

func (c *Composer) check(field, value, rule string) error {
	if err := c.validate.Var(value, rule); err != nil {
		ve := errors.ValidationErrs()
		ve.Add(field, "has an unsupported value "+value)
		return ve.Err()
	}
	return nil
}

func (c *Composer) parse(date string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(dateLayout, date, c.loc)
	return d, err == nil
}

func (c *Composer) after(a, b string) bool {
	da, okA := c.parse(a)
	db, okB := c.parse(b)
	return okA && okB && da.After(db)
}
