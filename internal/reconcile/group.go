// Package reconcile aggregates transactions and budget lines and compares
// planned against actual amounts.
//
// Every function is pure: inputs are not modified and each call returns
// freshly allocated output. Empty inputs produce empty outputs.
package reconcile

import "github.com/shopspring/decimal"

// Group is the result of grouping rows by a key.
type Group[K comparable, R any] struct {
	Key   K
	Total decimal.Decimal
	Rows  []R
}

// GroupBy groups rows by key, summing amount within each group. Groups are
// returned in the order their key is first seen and keep their rows in input
// order.
func GroupBy[R any, K comparable](rows []R, key func(R) K, amount func(R) decimal.Decimal) []Group[K, R] {
	index := make(map[K]int, len(rows))
	groups := make([]Group[K, R], 0)
	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K, R]{Key: k, Total: decimal.Zero})
		}
		groups[i].Total = groups[i].Total.Add(amount(r))
		groups[i].Rows = append(groups[i].Rows, r)
	}
	return groups
}
