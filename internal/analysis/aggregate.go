package analysis

import (
	"sort"
	"strings"
)

// Count is a value and how many times it occurred (or a distinct count for it).
type Count struct {
	Value string
	N     int
}

// GroupCount is the number of records sharing a combination of key values.
type GroupCount struct {
	Keys []string
	N    int
}

// Key joins the group keys for display.
func (g GroupCount) Key() string { return strings.Join(g.Keys, " | ") }

// CompanyStat holds per-company distinct product and chemical counts.
type CompanyStat struct {
	Company   string
	Products  int
	Chemicals int
}

// ValueCounts counts non-missing values of col, most frequent first (ties by
// value). A non-nil mask restricts counting to rows where mask[i] is true.
func ValueCounts(d *Dataset, col string, mask []bool) []Count {
	vals, ok := d.Column(col)
	counts := map[string]int{}
	for i, v := range vals {
		if !ok[i] || (mask != nil && !mask[i]) {
			continue
		}
		counts[v]++
	}
	return sortedCounts(counts)
}

// GroupSizes counts records per combination of the given columns, in
// ascending key order. Rows missing any key are dropped.
func GroupSizes(d *Dataset, cols ...string) []GroupCount {
	vals := make([][]string, len(cols))
	oks := make([][]bool, len(cols))
	for j, c := range cols {
		vals[j], oks[j] = d.Column(c)
	}
	type entry struct {
		keys []string
		n    int
	}
	groups := map[string]*entry{}
	for i := 0; i < d.Len(); i++ {
		keys := make([]string, len(cols))
		skip := false
		for j := range cols {
			if !oks[j][i] {
				skip = true
				break
			}
			keys[j] = vals[j][i]
		}
		if skip {
			continue
		}
		k := strings.Join(keys, "\x00")
		e := groups[k]
		if e == nil {
			e = &entry{keys: keys}
			groups[k] = e
		}
		e.n++
	}
	out := make([]GroupCount, 0, len(groups))
	for _, e := range groups {
		out = append(out, GroupCount{Keys: e.keys, N: e.n})
	}
	sort.Slice(out, func(i, j int) bool { return lessKeys(out[i].Keys, out[j].Keys) })
	return out
}

// DistinctCounts returns, per value of by, the number of distinct non-missing
// values of col, largest first (ties by group value).
func DistinctCounts(d *Dataset, by, col string) []Count {
	sets := distinctSets(d, by, col)
	counts := make(map[string]int, len(sets))
	for k, set := range sets {
		counts[k] = len(set)
	}
	return sortedCounts(counts)
}

// CountDistinct returns the number of distinct non-missing values of col.
func CountDistinct(d *Dataset, col string) int {
	vals, ok := d.Column(col)
	seen := map[string]struct{}{}
	for i, v := range vals {
		if ok[i] {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// MeanDistinctPerGroup averages, over the groups of by, the number of
// distinct non-missing col values. Zero when there are no groups.
func MeanDistinctPerGroup(d *Dataset, by, col string) float64 {
	sets := distinctSets(d, by, col)
	if len(sets) == 0 {
		return 0
	}
	var total int
	for _, set := range sets {
		total += len(set)
	}
	return float64(total) / float64(len(sets))
}

// CompanyStats returns distinct product and chemical counts per company in
// ascending company order.
func CompanyStats(d *Dataset) []CompanyStat {
	products := distinctSets(d, ColCompany, ColProduct)
	chemicals := distinctSets(d, ColCompany, ColChemical)
	out := make([]CompanyStat, 0, len(products))
	for company, set := range products {
		out = append(out, CompanyStat{Company: company, Products: len(set), Chemicals: len(chemicals[company])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Company < out[j].Company })
	return out
}

// SortByProducts returns a copy of stats ordered by distinct products,
// largest first (ties by company name).
func SortByProducts(stats []CompanyStat) []CompanyStat {
	out := append([]CompanyStat(nil), stats...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Products == out[j].Products {
			return out[i].Company < out[j].Company
		}
		return out[i].Products > out[j].Products
	})
	return out
}

// NonMissing returns a mask that is true where col has a value.
func NonMissing(d *Dataset, col string) []bool {
	_, ok := d.Column(col)
	return ok
}

// Total sums the counts.
func Total(counts []Count) int {
	var n int
	for _, c := range counts {
		n += c.N
	}
	return n
}

// Head returns at most the first n elements of s.
func Head[T any](s []T, n int) []T {
	if n < 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

// distinctSets maps each non-missing value of by to the set of non-missing
// col values seen with it. Groups with no col values are kept, empty.
func distinctSets(d *Dataset, by, col string) map[string]map[string]struct{} {
	keys, kok := d.Column(by)
	vals, vok := d.Column(col)
	sets := map[string]map[string]struct{}{}
	for i := range keys {
		if !kok[i] {
			continue
		}
		set := sets[keys[i]]
		if set == nil {
			set = map[string]struct{}{}
			sets[keys[i]] = set
		}
		if vok[i] {
			set[vals[i]] = struct{}{}
		}
	}
	return sets
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Value: k, N: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].N == out[j].N {
			return out[i].Value < out[j].Value
		}
		return out[i].N > out[j].N
	})
	return out
}

func lessKeys(a, b []string) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
