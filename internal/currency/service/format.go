package service

import (
	"strings"

	"github.com/shopspring/decimal"
	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
)

// FormatAmount renders an amount with the currency's separators, precision,
// and symbol, e.g. EUR 1234.5 -> "€1.234,50".
func FormatAmount(cur *currencydomain.Currency, amount decimal.Decimal) string {
	precision := currencydomain.DefaultPrecision
	symbol := ""
	thousandSep := ","
	decimalSep := "."
	if cur != nil {
		precision = cur.Precision
		symbol = cur.Symbol
		if cur.ThousandSeparator != "" {
			thousandSep = cur.ThousandSeparator
		}
		if cur.DecimalSeparator != "" {
			decimalSep = cur.DecimalSeparator
		}
	}

	fixed := amount.Round(precision).StringFixed(precision)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart := fixed
	fracPart := ""
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart = fixed[:idx]
		fracPart = fixed[idx+1:]
	}

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	b.WriteString(groupThousands(intPart, thousandSep))
	if fracPart != "" {
		b.WriteString(decimalSep)
		b.WriteString(fracPart)
	}
	return b.String()
}

func groupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
