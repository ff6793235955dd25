package pdf

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// addressKeys is the print order for structured address fields. Keys not
// listed here are not printed.
var addressKeys = [][]string{
	{"line1", "address_line1", "street"},
	{"line2", "address_line2"},
	{"city"},
	{"state"},
	{"postal_code", "pincode", "zip"},
	{"country"},
}

func addressLines(addr datatypes.JSONMap) []string {
	if len(addr) == 0 {
		return nil
	}
	value := func(keys []string) string {
		for _, k := range keys {
			if v, ok := addr[k]; ok && v != nil {
				if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
					return s
				}
			}
		}
		return ""
	}

	lines := nonEmpty(value(addressKeys[0]), value(addressKeys[1]))
	locality := joinNonEmpty(", ", value(addressKeys[2]), value(addressKeys[3]))
	if pin := value(addressKeys[4]); pin != "" {
		locality = joinNonEmpty(" - ", locality, pin)
	}
	return append(lines, nonEmpty(locality, value(addressKeys[5]))...)
}

// FormatINR renders an amount with two decimals and Indian digit grouping,
// e.g. 1234567.5 as 12,34,567.50.
func FormatINR(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var groups []string
	if len(whole) > 3 {
		head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		groups = append([]string{head}, groups...)
		whole = strings.Join(append(groups, tail), ",")
	}

	out := whole + "." + frac
	if d.IsNegative() && !d.Round(2).IsZero() {
		out = "-" + out
	}
	return out
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinNonEmpty(sep string, values ...string) string {
	return strings.Join(nonEmpty(values...), sep)
}
