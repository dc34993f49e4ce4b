package invoices

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNormalizeInvoiceIDNumeric(t *testing.T) {
	require.Equal(t, "25042", NormalizeInvoiceID("25042"))
	require.Equal(t, "25042", NormalizeInvoiceID("25042.0"))
	require.Equal(t, "25042", NormalizeInvoiceID("25042.00"))
	require.Equal(t, "25042", NormalizeInvoiceID("  25042.0  "))
}

func TestNormalizeInvoiceIDAlphanumeric(t *testing.T) {
	require.Equal(t, "Int_25003", NormalizeInvoiceID("Int_25003"))
	require.Equal(t, "INT25_005", NormalizeInvoiceID("INT25_005"))
	require.Equal(t, "25042.5", NormalizeInvoiceID("25042.5"))
}

func TestParseAmountSpanishFormat(t *testing.T) {
	require.True(t, decimal.RequireFromString("1234.56").Equal(ParseAmount("1.234,56")))
	require.True(t, decimal.RequireFromString("1234.56").Equal(ParseAmount("1234,56")))
	require.True(t, decimal.RequireFromString("1234.56").Equal(ParseAmount("1.234,56€")))
}

func TestParseAmountEnglishFormat(t *testing.T) {
	require.True(t, decimal.RequireFromString("1234.56").Equal(ParseAmount("1,234.56")))
	require.True(t, decimal.RequireFromString("1234.56").Equal(ParseAmount("1234.56")))
}

func TestParseAmountInvalid(t *testing.T) {
	require.True(t, ParseAmount("invalid").IsZero())
	require.True(t, ParseAmount("").IsZero())
}

func TestFormatCurrencyEUR(t *testing.T) {
	require.Equal(t, "1.000,00€", FormatCurrencyEUR(decimal.NewFromInt(1000)))
	require.Equal(t, "1.234,56€", FormatCurrencyEUR(decimal.RequireFromString("1234.56")))
	require.Equal(t, "0,50€", FormatCurrencyEUR(decimal.RequireFromString("0.5")))
	require.Equal(t, "-12,00€", FormatCurrencyEUR(decimal.NewFromInt(-12)))
	require.Equal(t, "1.234.567,89€", FormatCurrencyEUR(decimal.RequireFromString("1234567.89")))
}
