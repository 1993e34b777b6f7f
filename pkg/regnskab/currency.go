package regnskab

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ReportingCurrency is the single currency every monetary field is
// expressed in on output.
const ReportingCurrency = "DKK"

// dkkRates is the fixed currency→DKK multiplier table. Rates are static
// rather than contemporaneous with each filing's fiscal year; conversion
// is an approximation, not a historical restatement.
var dkkRates = map[string]decimal.Decimal{
	"DKK": decimal.NewFromInt(1),
	"EUR": decimal.RequireFromString("7.46"),
	"USD": decimal.RequireFromString("6.90"),
	"GBP": decimal.RequireFromString("8.70"),
	"SEK": decimal.RequireFromString("0.65"),
	"NOK": decimal.RequireFromString("0.64"),
	"CHF": decimal.RequireFromString("7.80"),
}

// knownCurrencies holds the rate table's codes in a fixed order so
// embedded-code scanning is deterministic.
var knownCurrencies = func() []string {
	codes := make([]string, 0, len(dkkRates))
	for code := range dkkRates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}()

// DetectCurrency extracts an ISO 4217 code from a unit measure. It
// handles the prefixed form (iso4217:EUR), the bare form (EUR) and codes
// embedded in longer unit identifiers. Returns "" when undetectable; the
// normalizer then falls back to the domestic currency.
func DetectCurrency(measure string) string {
	m := strings.ToUpper(strings.TrimSpace(measure))
	if m == "" {
		return ""
	}
	if i := strings.LastIndex(m, ":"); i >= 0 {
		m = m[i+1:]
	}
	if _, ok := dkkRates[m]; ok {
		return m
	}
	for _, code := range knownCurrencies {
		if strings.Contains(m, code) {
			return code
		}
	}
	return ""
}

// NormalizeCurrency converts every monetary field to the reporting
// currency using the fixed rate table. The multiplication goes through
// decimal so repeated extractions of the same document are bit-identical.
// OriginalValuta keeps the currency detected before conversion; an
// undetectable currency is treated as already domestic.
func (ms *FinancialMetricSet) NormalizeCurrency() {
	detected := ms.OriginalValuta
	if detected == "" {
		detected = ReportingCurrency
	}
	ms.OriginalValuta = detected
	ms.Valuta = ReportingCurrency

	rate, ok := dkkRates[detected]
	if !ok || detected == ReportingCurrency {
		return
	}

	for _, field := range ms.monetaryFields() {
		if *field == nil {
			continue
		}
		converted, _ := decimal.NewFromFloat(**field).Mul(rate).Float64()
		**field = converted
	}
}
