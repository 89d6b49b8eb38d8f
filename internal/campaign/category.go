package campaign

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ignite/collections-monitor/internal/domain"
)

var dayPattern = regexp.MustCompile(`([+-]?)\s*(\d+)`)

// ParseCategory maps a legacy campaign display name to a category tag.
// It exists only as a registration-time convenience for operators migrating
// configs that still carry display names like "DÍA -5", "DÍA +3",
// "COMPROMISO DE PAGO" or "REACTIVACIÓN"; once a source is registered the
// tag is authoritative and names are never parsed again.
func ParseCategory(name string) domain.Category {
	upper := strings.ToUpper(name)

	switch {
	case strings.Contains(upper, "REACTIV"):
		return domain.Category{Kind: domain.CategoryReactivation}
	case strings.Contains(upper, "COMPROMISO"):
		return domain.Category{Kind: domain.CategoryPaymentCommitment}
	}

	m := dayPattern.FindStringSubmatch(upper)
	if m == nil {
		return domain.Category{Kind: domain.CategoryOther}
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return domain.Category{Kind: domain.CategoryOther}
	}
	if m[1] == "-" {
		n = -n
	}
	switch {
	case n < 0:
		return domain.Category{Kind: domain.CategoryNegativeDays, Days: n}
	case n > 0:
		return domain.Category{Kind: domain.CategoryPositiveDays, Days: n}
	default:
		return domain.Category{Kind: domain.CategoryZeroDays}
	}
}
