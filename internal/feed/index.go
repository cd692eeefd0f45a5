package feed

import "mtt/feedgen/internal/domain"

// AttributeIndex maps category id -> attribute key -> display name for every
// attribute flagged for feed inclusion. Built once per generation run.
type AttributeIndex map[int]map[string]string

// BuildAttributeIndex groups included attributes by category. Attributes
// with a zero priority filter are skipped entirely. A duplicate key within
// one category keeps the last definition read.
func BuildAttributeIndex(attrs []domain.Attribute) AttributeIndex {
	index := make(AttributeIndex)
	for _, attr := range attrs {
		if attr.PriorityFilter == 0 {
			continue
		}
		byKey, ok := index[attr.CategoryID]
		if !ok {
			byKey = make(map[string]string)
			index[attr.CategoryID] = byKey
		}
		byKey[attr.Key] = attr.Name
	}
	return index
}

// Resolve returns the display name for key within a category, or "" when no
// included attribute matches. Absence is not an error.
func (i AttributeIndex) Resolve(categoryID int, key string) string {
	return i[categoryID][key]
}
