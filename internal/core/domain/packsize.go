package domain

import (
	"regexp"
	"strconv"
	"strings"
)

var packSizeRe = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*([A-Za-z]+)`)

// ParsePackSize extracts quantity and unit from a retailer pack size
// label such as "165 g", "1.5L" or "Pack size - 330ml".
// The unit is lowercased; anything after the first quantity-unit pair
// is ignored.
func ParsePackSize(label string) (PackSize, bool) {
	label = strings.TrimSpace(label)
	label = strings.TrimSpace(strings.TrimPrefix(label, "Pack size -"))
	if label == "" {
		return PackSize{}, false
	}
	m := packSizeRe.FindStringSubmatch(label)
	if m == nil {
		return PackSize{}, false
	}
	qty, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return PackSize{}, false
	}
	return PackSize{Quantity: qty, Unit: strings.ToLower(m[2])}, true
}
