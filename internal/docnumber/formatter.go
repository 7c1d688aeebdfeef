// Package docnumber renders human-readable document numbers from
// configurable templates.
package docnumber

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var seqPadRe = regexp.MustCompile(`\{SEQ(\d+)\}`)

const (
	DefaultInvoiceTemplate   = "INV-{YYYY}{MM}-{SEQ6}"
	DefaultQuoteTemplate     = "QTE-{YYYY}{MM}-{SEQ6}"
	DefaultCreditTemplate    = "CRD-{YYYY}{MM}-{SEQ6}"
	DefaultRecurringTemplate = "REC-{YYYY}{MM}-{SEQ6}"
)

// Format renders a document number from a template, issue time, and a
// monotonic per-company sequence. Pure and deterministic.
//
// Supported tokens: {YYYY} {YY} {MM} {DD} {SEQ} {SEQ<width>}.
func Format(template string, issuedAt time.Time, seq int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("document number template is empty")
	}
	if seq <= 0 {
		return "", fmt.Errorf("invalid document sequence: %d", seq)
	}

	out := template

	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", issuedAt.Format("02"))

	out = strings.ReplaceAll(out, "{SEQ}", strconv.FormatInt(seq, 10))

	out = seqPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := seqPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}
		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}
		return fmt.Sprintf("%0*d", width, seq)
	})

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in document number template: %s", out)
	}

	return out, nil
}
