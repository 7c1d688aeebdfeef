// Package totals derives every computed monetary field of a billing
// document: per-line totals, the aggregated tax breakdown, subtotal,
// amount, and balance. The computation is pure and deterministic, so
// recomputing an already-computed document changes nothing.
package totals

import (
	"sort"

	"github.com/shopspring/decimal"
	currencydomain "github.com/tallybook/tallybook/internal/currency/domain"
	"github.com/tallybook/tallybook/internal/document/domain"
)

var hundred = decimal.NewFromInt(100)

// Compute returns a copy of doc with all derived fields recomputed at the
// currency's precision. The input document is never mutated. A nil
// currency rounds at the default precision.
func Compute(doc *domain.Document, cur *currencydomain.Currency) *domain.Document {
	precision := currencydomain.DefaultPrecision
	if cur != nil {
		precision = cur.Precision
	}

	out := copyDocument(doc)
	breakdown := newTaxBreakdown()

	subtotal := decimal.Zero
	for i := range out.LineItems {
		line := &out.LineItems[i]
		computeLine(line, out.UsesInclusiveTaxes, precision, breakdown)
		subtotal = subtotal.Add(line.LineTotal)
	}
	out.Subtotal = subtotal.Round(precision)

	discounted := applyDiscount(out.Subtotal, out.Discount, out.IsAmountDiscount).Round(precision)

	taxedSurcharges, untaxedSurcharges := splitSurcharges(out)

	computeDocumentTaxes(out, discounted.Add(taxedSurcharges), precision, breakdown)

	out.TotalTaxes = breakdown.sum().Round(precision)

	total := discounted.Add(taxedSurcharges).Add(untaxedSurcharges)
	if !out.UsesInclusiveTaxes {
		total = total.Add(out.TotalTaxes)
	}
	out.Amount = total.Round(precision)
	out.Balance = out.Amount.Sub(out.PaidToDate).Round(precision)

	out.TaxLines = breakdown.lines()
	return out
}

// computeLine derives line_total, the line's tax contributions, and
// gross_line_total. Tax slots with a zero rate or empty name are unused.
func computeLine(line *domain.LineItem, inclusive bool, precision int32, breakdown *taxBreakdown) {
	extended := line.Quantity.Mul(line.Cost)
	line.LineTotal = applyDiscount(extended, line.Discount, line.IsAmountDiscount).Round(precision)

	lineTaxes := decimal.Zero
	for _, slot := range taxSlots(line.TaxName1, line.TaxRate1, line.TaxName2, line.TaxRate2, line.TaxName3, line.TaxRate3) {
		var amount decimal.Decimal
		if inclusive {
			amount = containedTax(line.LineTotal, slot.rate, precision)
		} else {
			amount = line.LineTotal.Mul(slot.rate).Div(hundred).Round(precision)
		}
		breakdown.add(slot.name, slot.rate, amount)
		lineTaxes = lineTaxes.Add(amount)
	}

	if inclusive {
		line.GrossLineTotal = line.LineTotal
	} else {
		line.GrossLineTotal = line.LineTotal.Add(lineTaxes).Round(precision)
	}
}

// computeDocumentTaxes applies the document's own tax slots to the
// discounted subtotal plus taxable surcharges. In inclusive mode the
// pre-tax base is back-calculated from the combined rate first.
func computeDocumentTaxes(doc *domain.Document, base decimal.Decimal, precision int32, breakdown *taxBreakdown) {
	slots := taxSlots(doc.TaxName1, doc.TaxRate1, doc.TaxName2, doc.TaxRate2, doc.TaxName3, doc.TaxRate3)
	if len(slots) == 0 {
		return
	}

	taxBase := base
	if doc.UsesInclusiveTaxes {
		combined := decimal.Zero
		for _, slot := range slots {
			combined = combined.Add(slot.rate)
		}
		taxBase = base.Div(decimal.NewFromInt(1).Add(combined.Div(hundred)))
	}

	for _, slot := range slots {
		amount := taxBase.Mul(slot.rate).Div(hundred).Round(precision)
		breakdown.add(slot.name, slot.rate, amount)
	}
}

// applyDiscount subtracts a flat amount or a percentage from base. The
// discount alone never drives a non-negative base below zero; a negative
// base (credit semantics) passes through untouched by the floor.
func applyDiscount(base, discount decimal.Decimal, isAmount bool) decimal.Decimal {
	if discount.IsZero() {
		return base
	}
	var result decimal.Decimal
	if isAmount {
		result = base.Sub(discount)
	} else {
		result = base.Sub(base.Mul(discount).Div(hundred))
	}
	if base.Sign() >= 0 && result.Sign() < 0 {
		return decimal.Zero
	}
	return result
}

// containedTax extracts the tax portion already contained in a
// tax-inclusive amount: amount - amount / (1 + rate/100).
func containedTax(amount, rate decimal.Decimal, precision int32) decimal.Decimal {
	divisor := decimal.NewFromInt(1).Add(rate.Div(hundred))
	return amount.Sub(amount.Div(divisor)).Round(precision)
}

func splitSurcharges(doc *domain.Document) (taxed, untaxed decimal.Decimal) {
	taxed = decimal.Zero
	untaxed = decimal.Zero
	surcharges := []struct {
		amount  decimal.Decimal
		taxable bool
	}{
		{doc.CustomSurcharge1, doc.CustomSurchargeTax1},
		{doc.CustomSurcharge2, doc.CustomSurchargeTax2},
		{doc.CustomSurcharge3, doc.CustomSurchargeTax3},
		{doc.CustomSurcharge4, doc.CustomSurchargeTax4},
	}
	for _, s := range surcharges {
		if s.amount.IsZero() {
			continue
		}
		if s.taxable {
			taxed = taxed.Add(s.amount)
		} else {
			untaxed = untaxed.Add(s.amount)
		}
	}
	return taxed, untaxed
}

type taxSlot struct {
	name string
	rate decimal.Decimal
}

// taxSlots returns the used slots: a slot counts only when it has both a
// name and a positive rate.
func taxSlots(n1 string, r1 decimal.Decimal, n2 string, r2 decimal.Decimal, n3 string, r3 decimal.Decimal) []taxSlot {
	slots := make([]taxSlot, 0, 3)
	for _, s := range []taxSlot{{n1, r1}, {n2, r2}, {n3, r3}} {
		if s.name == "" || s.rate.Sign() <= 0 {
			continue
		}
		slots = append(slots, s)
	}
	return slots
}

type taxKey struct {
	name string
	rate string
}

// taxBreakdown accumulates per-line-rounded tax amounts keyed by
// (name, rate). Amounts for the same key sum; they are never re-derived
// from a combined base.
type taxBreakdown struct {
	amounts map[taxKey]decimal.Decimal
	rates   map[taxKey]decimal.Decimal
	order   []taxKey
}

func newTaxBreakdown() *taxBreakdown {
	return &taxBreakdown{
		amounts: make(map[taxKey]decimal.Decimal),
		rates:   make(map[taxKey]decimal.Decimal),
	}
}

func (b *taxBreakdown) add(name string, rate, amount decimal.Decimal) {
	key := taxKey{name: name, rate: rate.String()}
	if _, ok := b.amounts[key]; !ok {
		b.order = append(b.order, key)
		b.rates[key] = rate
	}
	b.amounts[key] = b.amounts[key].Add(amount)
}

func (b *taxBreakdown) sum() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range b.amounts {
		total = total.Add(amount)
	}
	return total
}

// lines renders the breakdown as persistable rows in a stable order.
// DocumentID is left unset; the persistence layer stamps it.
func (b *taxBreakdown) lines() []domain.TaxLine {
	keys := append([]taxKey(nil), b.order...)
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return b.rates[keys[i]].LessThan(b.rates[keys[j]])
	})

	lines := make([]domain.TaxLine, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, domain.TaxLine{
			Name:   key.name,
			Rate:   b.rates[key],
			Amount: b.amounts[key],
		})
	}
	return lines
}

func copyDocument(doc *domain.Document) *domain.Document {
	out := *doc
	out.LineItems = make([]domain.LineItem, len(doc.LineItems))
	copy(out.LineItems, doc.LineItems)
	out.TaxLines = nil
	if doc.Metadata != nil {
		out.Metadata = make(map[string]interface{}, len(doc.Metadata))
		for k, v := range doc.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
