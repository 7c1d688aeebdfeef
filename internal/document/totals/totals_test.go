package totals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
	"github.com/tallybook/tallybook/internal/document/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func usd() *currencydomain.Currency {
	return &currencydomain.Currency{Code: "USD", Precision: 2}
}

func assertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s %v", expected, actual.String(), msgAndArgs)
}

func TestCompute_EmptyDocument(t *testing.T) {
	doc := &domain.Document{DocType: domain.DocTypeInvoice}

	out := Compute(doc, usd())

	assertDecimalEqual(t, "0", out.Subtotal)
	assertDecimalEqual(t, "0", out.TotalTaxes)
	assertDecimalEqual(t, "0", out.Amount)
	assertDecimalEqual(t, "0", out.Balance)
	assert.Empty(t, out.TaxLines)
}

func TestCompute_EmptyDocumentWithPayments(t *testing.T) {
	doc := &domain.Document{
		DocType:    domain.DocTypeInvoice,
		PaidToDate: dec("25"),
	}

	out := Compute(doc, usd())

	assertDecimalEqual(t, "0", out.Subtotal)
	assertDecimalEqual(t, "-25", out.Balance)
}

func TestCompute_SingleLineNoTaxNoDiscount(t *testing.T) {
	doc := &domain.Document{
		DocType: domain.DocTypeInvoice,
		LineItems: []domain.LineItem{
			{Quantity: dec("3"), Cost: dec("10")},
		},
	}

	out := Compute(doc, usd())

	assertDecimalEqual(t, "30", out.LineItems[0].LineTotal)
	assertDecimalEqual(t, "30", out.LineItems[0].GrossLineTotal)
	assertDecimalEqual(t, "30", out.Subtotal)
	assertDecimalEqual(t, "30", out.Amount)
	assertDecimalEqual(t, "30", out.Balance)
}

func TestCompute_LineDiscount(t *testing.T) {
	tests := []struct {
		name             string
		discount         string
		isAmountDiscount bool
	}{
		{name: "by amount", discount: "20", isAmountDiscount: true},
		{name: "by percentage", discount: "20", isAmountDiscount: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := &domain.Document{
				DocType: domain.DocTypeInvoice,
				LineItems: []domain.LineItem{
					{
						Quantity:         dec("1"),
						Cost:             dec("100"),
						Discount:         dec(tc.discount),
						IsAmountDiscount: tc.isAmountDiscount,
					},
				},
			}

			out := Compute(doc, usd())

			assertDecimalEqual(t, "80", out.LineItems[0].LineTotal)
			assertDecimalEqual(t, "80", out.Subtotal)
		})
	}
}

func TestCompute_DiscountFloorsAtZero(t *testing.T) {
	doc := &domain.Document{
		DocType: domain.DocTypeInvoice,
		LineItems: []domain.LineItem{
			{
				Quantity:         dec("1"),
				Cost:             dec("50"),
				Discount:         dec("80"),
				IsAmountDiscount: true,
			},
		},
	}

	out := Compute(doc, usd())

	assertDecimalEqual(t, "0", out.LineItems[0].LineTotal)
}

func TestCompute_ExclusiveLineTax(t *testing.T) {
	doc := &domain.Document{
		DocType: domain.DocTypeInvoice,
		LineItems: []domain.LineItem{
			{
				Quantity: dec("1"),
				Cost:     dec("100"),
				TaxName1: "GST",
				TaxRate1: dec("10"),
			},
		},
	}

	out := Compute(doc, usd())

	assertDecimalEqual(t, "100", out.LineItems[0].LineTotal)
	assertDecimalEqual(t, "110", out.LineItems[0].GrossLineTotal)
	assertDecimalEqual(t, "10", out.TotalTaxes)
	assertDecimalEqual(t, "110", out.Amount)

	require.Len(t, out.TaxLines, 1)
	assert.Equal(t, "GST", out.TaxLines[0].Name)
	assertDecimalEqual(t, "10", out.TaxLines[0].Rate)
	assertDecimalEqual(t, "10", out.TaxLines[0].Amount)
}

func TestCompute_InclusiveDocumentTax(t *testing.T) {
	// A tax-inclusive subtotal of 110 at 10% contains 10 of tax. The
	// total must stay 110, not become 121.
	doc := &domain.Document{
		DocType: domain.DocTypeInvoice,
		LineItems: []domain.LineItem{
			{Quantity: dec("1"), Cost: dec("110")},
		},
		TaxName1:           "VAT",
		TaxRate1:           dec("10"),
		UsesInclusiveTaxes: true,
	}

	out := Compute(doc, usd())

	assertDecimalEqual(t, "110", out.Subtotal)
	assertDecimalEqual(t, "10", out.TotalTaxes)
	assertDecimalEqual(t, "110", out.Amount)

	require.Len(t, out.TaxLines, 1)
	assertDecimalEqual(t, "10", out.TaxLines[0].Amount)
}

func TestCompute_InclusiveLineTax(t *testing.T) {
	doc := &domain.Document{
		DocType:            domain.DocTypeInvoice,
		UsesInclusiveTaxes: true,
		LineItems: []domain.LineItem{
			{
				Quantity: dec("1"),
				Cost:     dec("110"),
				TaxName1: "VAT",
				TaxRate1: dec("10"),
			},
		},
	}

	out := Compute(doc, usd())

	// The line price already contains the tax.
	assertDecimalEqual(t, "110", out.LineItems[0].LineTotal)
	assertDecimalEqual(t, "110", out.LineItems[0].GrossLineTotal)
	assertDecimalEqual(t, "10", out.TotalTaxes)
	assertDecimalEqual(t, "110", out.Amount)
}

func TestCompute_ZeroPrecisionCurrency(t *testing.T) {
	jpy := &currencydomain.Currency{Code: "JPY", Precision: 0}
	doc := &domain.Document{
		DocType: domain.DocTypeInvoice,
		LineItems: []domain.LineItem{
			{Quantity: dec("1.2"), Cost: dec("27.78")}, // 33.336
		},
	}

	out := Compute(doc, jpy)

	assertDecimalEqual(t, "33", out.LineItems[0].LineTotal)
	assertDecimalEqual(t, "33", out.Subtotal)
}

func TestCompute_MergedTaxKeysRoundPerLine(t *testing.T) {
	// Two lines of 10.01 at 20% each round to 2.00 per line; the merged
	// VAT entry must be 4.00 from summing rounded line amounts, not a
	// re-derivation from the combined base.
	doc := &domain.Document{
		DocType: domain.DocTypeInvoice,
		LineItems: []domain.LineItem{
			{Quantity: dec("1"), Cost: dec("10.01"), TaxName1: "VAT", TaxRate1: dec("20")},
			{Quantity: dec("1"), Cost: dec("10.01"), TaxName1: "VAT", TaxRate1: dec("20")},
		},
	}

	out := Compute(doc, usd())

	require.Len(t, out.TaxLines, 1)
	assert.Equal(t, "VAT", out.TaxLines[0].Name)
	assertDecimalEqual(t, "4", out.TaxLines[0].Amount)
}

func TestCompute_DistinctRatesStaySeparate(t *testing.T) {
	doc := &domain.Document{
		DocType: domain.DocTypeInvoice,
		LineItems: []domain.LineItem{
			{Quantity: dec("1"), Cost: dec("100"), TaxName1: "VAT", TaxRate1: dec("20")},
			{Quantity: dec("1"), Cost: dec("100"), TaxName1: "VAT", TaxRate1: dec("10")},
		},
	}

	out := Compute(doc, usd())

	require.Len(t, out.TaxLines, 2)
	assertDecimalEqual(t, "10", out.TaxLines[0].Rate)
	assertDecimalEqual(t, "10", out.TaxLines[0].Amount)
	assertDecimalEqual(t, "20", out.TaxLines[1].Rate)
	assertDecimalEqual(t, "20", out.TaxLines[1].Amount)
}

func TestCompute_NegativeQuantityCredit(t *testing.T) {
	doc := &domain.Document{
		DocType: domain.DocTypeCredit,
		LineItems: []domain.LineItem{
			{Quantity: dec("-2"), Cost: dec("50")},
		},
	}

	out := Compute(doc, usd())

	assertDecimalEqual(t, "-100", out.LineItems[0].LineTotal)
	assertDecimalEqual(t, "-100", out.Subtotal)
	assertDecimalEqual(t, "-100", out.Amount)
	assertDecimalEqual(t, "-100", out.Balance)
}

func TestCompute_DocumentDiscountAndSurcharges(t *testing.T) {
	doc := &domain.Document{
		DocType: domain.DocTypeInvoice,
		LineItems: []domain.LineItem{
			{Quantity: dec("1"), Cost: dec("200")},
		},
		Discount:            dec("10"), // percent
		TaxName1:            "VAT",
		TaxRate1:            dec("10"),
		CustomSurcharge1:    dec("20"), // taxable
		CustomSurchargeTax1: true,
		CustomSurcharge2:    dec("5"), // not taxable
	}

	out := Compute(doc, usd())

	// 200 - 10% = 180; taxable base 180 + 20 = 200 -> 20 tax.
	assertDecimalEqual(t, "200", out.Subtotal)
	assertDecimalEqual(t, "20", out.TotalTaxes)
	// 180 + 20 + 5 + 20 tax
	assertDecimalEqual(t, "225", out.Amount)
}

func TestCompute_BalanceSubtractsPayments(t *testing.T) {
	doc := &domain.Document{
		DocType: domain.DocTypeInvoice,
		LineItems: []domain.LineItem{
			{Quantity: dec("1"), Cost: dec("150")},
		},
		PaidToDate: dec("100"),
	}

	out := Compute(doc, usd())

	assertDecimalEqual(t, "150", out.Amount)
	assertDecimalEqual(t, "50", out.Balance)
}

func TestCompute_Idempotent(t *testing.T) {
	doc := &domain.Document{
		DocType: domain.DocTypeInvoice,
		LineItems: []domain.LineItem{
			{
				Quantity:         dec("3.5"),
				Cost:             dec("19.99"),
				Discount:         dec("5"),
				IsAmountDiscount: false,
				TaxName1:         "VAT",
				TaxRate1:         dec("21"),
				TaxName2:         "Levy",
				TaxRate2:         dec("1.5"),
			},
			{Quantity: dec("-1"), Cost: dec("10")},
		},
		Discount:         dec("7.25"),
		IsAmountDiscount: true,
		TaxName1:         "VAT",
		TaxRate1:         dec("21"),
		CustomSurcharge1: dec("3"),
		PaidToDate:       dec("12.34"),
	}

	once := Compute(doc, usd())
	twice := Compute(once, usd())

	assert.True(t, once.Subtotal.Equal(twice.Subtotal))
	assert.True(t, once.TotalTaxes.Equal(twice.TotalTaxes))
	assert.True(t, once.Amount.Equal(twice.Amount))
	assert.True(t, once.Balance.Equal(twice.Balance))
	require.Equal(t, len(once.LineItems), len(twice.LineItems))
	for i := range once.LineItems {
		assert.True(t, once.LineItems[i].LineTotal.Equal(twice.LineItems[i].LineTotal))
		assert.True(t, once.LineItems[i].GrossLineTotal.Equal(twice.LineItems[i].GrossLineTotal))
	}
	require.Equal(t, len(once.TaxLines), len(twice.TaxLines))
	for i := range once.TaxLines {
		assert.True(t, once.TaxLines[i].Amount.Equal(twice.TaxLines[i].Amount))
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	doc := &domain.Document{
		DocType: domain.DocTypeInvoice,
		LineItems: []domain.LineItem{
			{Quantity: dec("2"), Cost: dec("10")},
		},
	}

	out := Compute(doc, usd())

	assert.NotSame(t, doc, out)
	assert.True(t, doc.Subtotal.IsZero())
	assert.True(t, doc.LineItems[0].LineTotal.IsZero())
	assertDecimalEqual(t, "20", out.Subtotal)
}

func TestCompute_UnusedTaxSlotsIgnored(t *testing.T) {
	doc := &domain.Document{
		DocType: domain.DocTypeInvoice,
		LineItems: []domain.LineItem{
			{
				Quantity: dec("1"),
				Cost:     dec("100"),
				TaxName1: "",    // rate without name
				TaxRate1: dec("10"),
				TaxName2: "GST", // name without rate
				TaxRate2: dec("0"),
			},
		},
	}

	out := Compute(doc, usd())

	assertDecimalEqual(t, "0", out.TotalTaxes)
	assert.Empty(t, out.TaxLines)
	assertDecimalEqual(t, "100", out.Amount)
}
