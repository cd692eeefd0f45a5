package feed

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"mtt/feedgen/internal/domain"
)

// The feed carries a single fixed-rate currency.
const currencyID = "RUR"

// BuildOffer maps one catalog row into the offer that will be serialized,
// resolving its params through the attribute index.
func BuildOffer(p domain.Product, cityURL string, index AttributeIndex) domain.Offer {
	path := p.CategorySluggable
	if p.SectionSluggable != "" {
		path = p.SectionSluggable + "/" + p.CategorySluggable
	}

	picture := ""
	if p.Image != "" {
		picture = "https://" + cityURL + "/images/" + p.Image
	}

	return domain.Offer{
		ID:          p.ID,
		Name:        p.CategoryName + " ( " + p.Name + " )",
		Price:       p.Price,
		CurrencyID:  currencyID,
		CategoryID:  p.CategoryID,
		URL:         "https://" + cityURL + "/" + path,
		Picture:     picture,
		Description: p.Description,
		Params:      buildParams(p, index),
	}
}

// buildParams projects the raw attribute payload through the index. Keys
// without a resolved name are dropped, as are values that flatten to "" or
// "0". Params are sorted by resolved name so regeneration with unchanged
// data is byte-identical.
func buildParams(p domain.Product, index AttributeIndex) []domain.Param {
	params := make([]domain.Param, 0, len(p.Attributes))
	for key, value := range p.Attributes {
		name := index.Resolve(p.CategoryID, key)
		if name == "" {
			continue
		}
		flat := flattenValue(value)
		if flat == "" || flat == "0" {
			continue
		}
		params = append(params, domain.Param{Name: name, Value: flat})
	}
	sort.Slice(params, func(i, j int) bool {
		return params[i].Name < params[j].Name
	})
	return params
}

// flattenValue renders a scalar-or-list payload entry as text. Lists are
// joined with ", ". Booleans keep their PHP string coercion: true renders
// as "1", false as "" and is then suppressed as falsy. Unexpected shapes
// fall back to their printed form rather than failing the offer.
func flattenValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, flattenValue(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(v, ", ")
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
