// Package pagination builds the page-link model shown under the invoice
// listing.
package pagination

import "strconv"

// Ellipsis marks a gap between page links.
const Ellipsis = "..."

// Generate returns the page links for the current page out of total.  Up
// to seven pages are listed in full; beyond that the first and last pages
// stay visible around the current one and gaps collapse to Ellipsis.
//
//	Generate(1, 10) // [1 2 3 ... 9 10]
//	Generate(5, 10) // [1 ... 4 5 6 ... 10]
func Generate(current, total int) []string {
	if total <= 0 {
		return []string{}
	}
	if total <= 7 {
		return pages(seq(1, total)...)
	}
	switch {
	case current <= 3:
		return append(pages(1, 2, 3), Ellipsis, itoa(total-1), itoa(total))
	case current >= total-2:
		return append(pages(1, 2), Ellipsis, itoa(total-2), itoa(total-1), itoa(total))
	default:
		return []string{"1", Ellipsis, itoa(current - 1), itoa(current), itoa(current + 1), Ellipsis, itoa(total)}
	}
}

// ParsePage reads a 1-based page number.  Anything that is not a positive
// integer yields 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func pages(ns ...int) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = itoa(n)
	}
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }
