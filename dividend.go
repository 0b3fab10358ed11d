package analyzer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/etnz/analyzer/date"
)

const (
	// DefaultUnitPrice is the share price assumed when none is known for a ticker.
	DefaultUnitPrice = 100.0
	// DefaultGrowthRate is the yearly appreciation of the snowball projection.
	DefaultGrowthRate = 0.07
	// DefaultProjectionYears is the horizon of the snowball projection.
	DefaultProjectionYears = 10
)

// Calendar is the inferred dividend schedule of a ticker.
type Calendar struct {
	// Months of the payments in the trailing year, 1 for January. A month paid twice appears twice.
	Months []int `json:"months"`
	// AvgAmount is the mean amount per share of those payments.
	AvgAmount float64 `json:"avg_amount"`
}

// InferCalendar infers the payment months and average amount per share from a dividend history.
//
// It keeps the payments of the 365 days up to the last payment. The window always holds the
// last payment, so a ticker that stopped paying years ago still gets a calendar from its last
// year of payments. An empty history gives an empty calendar.
func InferCalendar(h *date.History[float64]) Calendar {
	if h.Len() == 0 {
		return Calendar{Months: []int{}}
	}
	last, _ := h.Latest()
	recent := h.Since(last.Add(-365))
	c := Calendar{Months: make([]int, 0, recent.Len())}
	var sum float64
	for on, amount := range recent.Values() {
		c.Months = append(c.Months, int(on.Month()))
		sum += amount
	}
	c.AvgAmount = sum / float64(recent.Len())
	return c
}

// paysIn reports whether the calendar has a payment in month.
func (c Calendar) paysIn(month int) bool {
	for _, m := range c.Months {
		if m == month {
			return true
		}
	}
	return false
}

// Position is a holding of a dividend portfolio.
type Position struct {
	Ticker              string  `json:"ticker"`
	Shares              float64 `json:"shares"`
	CostBasis           float64 `json:"cost_basis"`
	MonthlyContribution float64 `json:"monthly_contribution"`
}

// UnmarshalJSON also accepts the contribution under the "monthly_buy" key.
func (p *Position) UnmarshalJSON(b []byte) error {
	type plain Position
	var v struct {
		plain
		MonthlyBuy *float64 `json:"monthly_buy"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Position(v.plain)
	if v.MonthlyBuy != nil && p.MonthlyContribution == 0 {
		p.MonthlyContribution = *v.MonthlyBuy
	}
	return nil
}

// MonthIncome is the expected dividend income of a calendar month.
type MonthIncome struct {
	Name    string
	Tickers []string
	Amounts []Number // per ticker, in Tickers order
	Total   Number
}

// MarshalJSON encodes {"name": "Jan", "total": t, "<ticker>": amount, ...}.
func (m MonthIncome) MarshalJSON() ([]byte, error) {
	w := new(jsonObjectWriter)
	w.Append("name", m.Name)
	w.Append("total", m.Total)
	for i, t := range m.Tickers {
		w.Append(t, m.Amounts[i])
	}
	return w.MarshalJSON()
}

// Projection is the result of ProjectIncome.
type Projection struct {
	MonthlyIncome []MonthIncome `json:"monthly_income"`
	YearlyIncome  []Number      `json:"yearly_income"`
	TotalValue    []Number      `json:"total_value"`
}

// ProjectionOptions tunes ProjectIncome. Zero fields take their default.
type ProjectionOptions struct {
	// UnitPrice is the share price per ticker used to value the portfolio.
	UnitPrice map[string]float64
	// DefaultUnitPrice is used for tickers missing from UnitPrice.
	DefaultUnitPrice float64
	GrowthRate       float64
	Years            int
}

func (o ProjectionOptions) price(ticker string) float64 {
	if p, ok := o.UnitPrice[ticker]; ok && p > 0 {
		return p
	}
	if o.DefaultUnitPrice > 0 {
		return o.DefaultUnitPrice
	}
	return DefaultUnitPrice
}

// ProjectIncome lays the dividend calendars of the positions over a January to December
// template, then projects the portfolio value and income over the years with contributions
// reinvested and constant growth.
//
// Tickers absent from calendars pay nothing. An empty portfolio gives an empty projection.
func ProjectIncome(positions []Position, calendars map[string]Calendar, opts ProjectionOptions) Projection {
	if len(positions) == 0 {
		return Projection{MonthlyIncome: []MonthIncome{}, YearlyIncome: []Number{}, TotalValue: []Number{}}
	}
	growth := opts.GrowthRate
	if growth == 0 {
		growth = DefaultGrowthRate
	}
	years := opts.Years
	if years <= 0 {
		years = DefaultProjectionYears
	}

	// Duplicated tickers add up in the same column.
	var tickers []string
	shares := make(map[string]float64)
	var contribution float64
	for _, p := range positions {
		if _, ok := shares[p.Ticker]; !ok {
			tickers = append(tickers, p.Ticker)
		}
		shares[p.Ticker] += p.Shares
		contribution += p.MonthlyContribution
	}

	monthly := make([]MonthIncome, 12)
	for m := range monthly {
		month := time.Month(m + 1)
		mi := MonthIncome{Name: month.String()[:3], Tickers: tickers, Amounts: make([]Number, len(tickers))}
		var total float64
		for i, t := range tickers {
			var amount float64
			if cal := calendars[t]; cal.paysIn(int(month)) {
				amount = shares[t] * cal.AvgAmount
			}
			mi.Amounts[i] = Round(amount, 2)
			total += amount
		}
		mi.Total = Round(total, 2)
		monthly[m] = mi
	}

	var value, annual float64
	for _, t := range tickers {
		value += shares[t] * opts.price(t)
		cal := calendars[t]
		annual += cal.AvgAmount * float64(len(cal.Months)) * shares[t]
	}
	value = max(value, 1)
	yield := annual / value

	p := Projection{MonthlyIncome: monthly, YearlyIncome: make([]Number, years), TotalValue: make([]Number, years)}
	for y := range years {
		value += contribution * 12
		value *= 1 + growth
		income := value * yield
		value += income
		p.YearlyIncome[y] = Round(income, 2)
		p.TotalValue[y] = Round(value, 2)
	}
	return p
}

// validatePositions sanitizes the tickers of the positions.
func validatePositions(positions []Position) ([]Position, error) {
	out := make([]Position, len(positions))
	for i, p := range positions {
		t, err := SanitizeTicker(p.Ticker)
		if err != nil {
			return nil, err
		}
		if p.Shares < 0 || p.MonthlyContribution < 0 {
			return nil, fmt.Errorf("%w: negative shares or contribution for %s", ErrValidation, t)
		}
		p.Ticker = t
		out[i] = p
	}
	return out, nil
}
