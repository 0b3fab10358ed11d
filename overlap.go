package analyzer

import (
	"fmt"
	"maps"
	"slices"
)

const (
	// SourceLocal tags an overlap computed from the fetched holdings.
	SourceLocal = "local"
	// SourceScrape tags an overlap reconciled with a scraped comparison.
	SourceScrape = "scrape"
)

// SectorDrift is the weight difference of a sector between two funds.
type SectorDrift struct {
	Sector string  `json:"sector"`
	Drift  float64 `json:"drift"`
}

// HoldingWeight is a holding common to two funds, weights as displayed by the source.
type HoldingWeight struct {
	Ticker        string `json:"ticker"`
	Weight1       string `json:"weight1"`
	Weight2       string `json:"weight2"`
	OverlapWeight string `json:"overlap_weight"`
}

// Scrape is an authoritative fund comparison from a third party.
type Scrape struct {
	OverlapPct  float64
	CommonCount int
	SectorDrift []SectorDrift
	Holdings    []HoldingWeight
}

// Overlap describes how much a set of funds share their holdings.
type Overlap struct {
	CommonCount int `json:"common_count"`
	// TotalCount is the size of the union of the holdings, 0 when unknown.
	TotalCount       int             `json:"total_count"`
	CommonHoldings   []string        `json:"common_holdings"`
	OverlapPct       Number          `json:"overlap_pct"`
	SectorDrift      []SectorDrift   `json:"sector_drift"`
	DetailedHoldings []HoldingWeight `json:"detailed_holdings"`
	// Details is the number of holdings per ticker that has any.
	Details map[string]int `json:"details"`
	Source  string         `json:"source"`
}

// LocalOverlap computes the overlap of the holdings of tickers.
//
// Tickers without holdings are ignored: the intersection and union run over the non empty
// sets only. Common holdings are sorted.
func LocalOverlap(holdings map[string][]string, tickers []string) (Overlap, error) {
	if len(tickers) < 2 {
		return Overlap{}, fmt.Errorf("%w: select at least 2 ETFs", ErrValidation)
	}
	o := Overlap{
		CommonHoldings:   []string{},
		OverlapPct:       Null(),
		SectorDrift:      []SectorDrift{},
		DetailedHoldings: []HoldingWeight{},
		Details:          make(map[string]int, len(tickers)),
		Source:           SourceLocal,
	}
	var common map[string]bool
	union := make(map[string]bool)
	for _, t := range tickers {
		set := make(map[string]bool)
		for _, h := range holdings[t] {
			set[h] = true
		}
		if len(set) == 0 {
			continue
		}
		o.Details[t] = len(set)
		maps.Copy(union, set)
		if common == nil {
			common = set
			continue
		}
		for h := range common {
			if !set[h] {
				delete(common, h)
			}
		}
	}
	o.CommonHoldings = append(o.CommonHoldings, slices.Sorted(maps.Keys(common))...)
	o.CommonCount = len(o.CommonHoldings)
	o.TotalCount = len(union)
	return o, nil
}

// ReconcileOverlap overrides the local result with a scrape when there is one.
//
// The scrape is authoritative for the common count, the overlap percentage, the sector drift
// and the detailed holdings. The union size is then unknown and reported as 0, the local
// common holdings are kept as a preview.
func ReconcileOverlap(local Overlap, s *Scrape) Overlap {
	if s == nil {
		return local
	}
	local.CommonCount = s.CommonCount
	local.TotalCount = 0
	local.OverlapPct = Round(s.OverlapPct, 2)
	if s.SectorDrift != nil {
		local.SectorDrift = s.SectorDrift
	}
	if s.Holdings != nil {
		local.DetailedHoldings = s.Holdings
	}
	local.Source = SourceScrape
	return local
}
