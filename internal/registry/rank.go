package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/ytget/cargo-manager/internal/model"
)

// Order selects how search results are arranged for display
type Order string

const (
	OrderRelevance Order = "relevance"
	OrderName      Order = "name"
	OrderDownloads Order = "downloads"
)

// Orders returns all supported orders in display order
func Orders() []Order {
	return []Order{OrderRelevance, OrderName, OrderDownloads}
}

// ParseOrder converts a user supplied name into an Order
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case OrderRelevance, OrderName, OrderDownloads:
		return o, nil
	case "":
		return OrderRelevance, nil
	}
	return "", fmt.Errorf("unknown sort order: %q", s)
}

// Rank returns a reordered copy of crates. OrderRelevance keeps the registry
// order; OrderName puts an exact name match first and then sorts by edit
// distance between name and query; OrderDownloads sorts by download count.
func Rank(crates []model.Crate, query string, order Order) []model.Crate {
	out := append([]model.Crate(nil), crates...)

	switch order {
	case OrderName:
		q := normalizeName(query)
		dist := make(map[string]int, len(out))
		for _, c := range out {
			dist[c.Name] = levenshtein.ComputeDistance(normalizeName(c.Name), q)
		}
		sort.SliceStable(out, func(i, j int) bool {
			return dist[out[i].Name] < dist[out[j].Name]
		})
	case OrderDownloads:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Downloads > out[j].Downloads
		})
	}
	return out
}

// normalizeName folds case and treats '-' and '_' alike, as crates.io does
func normalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}
