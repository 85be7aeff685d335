// Package core provides money parsing and handling utilities.
//
// This file contains functions for coercing user input into amounts and for
// formatting amounts and dates for display.
package core

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	commaDecimal  = regexp.MustCompile(`^[+-]?\d+,\d{1,2}$`)
)

// ParseAmount coerces raw user input into an amount.
//
// Like a browser's parseFloat it reads the longest numeric prefix and ignores
// whatever follows it. A comma is accepted as the decimal separator only in
// the form "4,50". Any other comma, such as a thousands separator, is
// rejected. Input without a leading number is rejected.
//
// Examples:
//
//	ParseAmount("4.50")    -> 4.5, nil
//	ParseAmount("4,50")    -> 4.5, nil
//	ParseAmount(" 12abc ") -> 12, nil
//	ParseAmount("1,234")   -> 0, ErrInvalidAmount
//	ParseAmount("abc")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		if !commaDecimal.MatchString(s) {
			return 0, ErrInvalidAmount
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	m := numericPrefix.FindString(s)
	if m == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || !finite(v) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// Sum adds amounts in decimal arithmetic so that, for example, 0.1 + 0.2
// totals 0.3.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.InexactFloat64()
}

// FormatCurrency renders an amount as US dollars, e.g. "$1,234.50".
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", amount)
}

// FormatDate renders a timestamp like "Jan 2, 2006, 03:04 PM" in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("Jan 2, 2006, 03:04 PM")
}

// Pluralize returns "1 expense" or "N expenses".
func Pluralize(n int) string {
	if n == 1 {
		return "1 expense"
	}
	return strconv.Itoa(n) + " expenses"
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
