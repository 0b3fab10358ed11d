package analyzer

import (
	"fmt"
	"regexp"
	"strings"
)

// tickerPattern accepts exchange symbols like "SPY", "BRK-B", "VOD.L", "^GSPC" or "EURUSD=X".
var tickerPattern = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.\-=]{0,11}$`)

// ValidateTicker checks that ticker is a well formed, upper case symbol.
func ValidateTicker(ticker string) error {
	if ticker == "" {
		return fmt.Errorf("%w: ticker cannot be empty", ErrValidation)
	}
	if !tickerPattern.MatchString(ticker) {
		return fmt.Errorf("%w: invalid ticker format %q", ErrValidation, ticker)
	}
	return nil
}

// SanitizeTicker upper cases and trims ticker, then validates it.
func SanitizeTicker(ticker string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(ticker))
	if err := ValidateTicker(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// SanitizeTickers sanitizes every ticker, reporting all the invalid ones at once.
func SanitizeTickers(tickers []string) ([]string, error) {
	if len(tickers) == 0 {
		return nil, fmt.Errorf("%w: no ticker", ErrValidation)
	}
	out := make([]string, 0, len(tickers))
	var invalid []string
	for _, t := range tickers {
		s, err := SanitizeTicker(t)
		if err != nil {
			invalid = append(invalid, t)
			continue
		}
		out = append(out, s)
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: invalid tickers %q", ErrValidation, invalid)
	}
	return out, nil
}
