package analysis

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Limits caps how many rows each report section shows.
type Limits struct {
	TopChemicals    int
	TopGroups       int
	TopCompanies    int
	TrendChemicals  int
	TopDiscontinued int
	TopBrands       int
}

// DefaultLimits returns the standard report sizes.
func DefaultLimits() Limits {
	return Limits{
		TopChemicals:    20,
		TopGroups:       20,
		TopCompanies:    10,
		TrendChemicals:  5,
		TopDiscontinued: 10,
		TopBrands:       10,
	}
}

// ChemicalSummary is the chemical-oriented section of the analysis.
type ChemicalSummary struct {
	Counts     []Count      // every chemical, most frequent first
	Top        []Count      // head of Counts
	ByCategory []GroupCount // (PrimaryCategory, ChemicalName), key order
	// Trends is nil when the dataset has no ReportYear column.
	Trends *YearMatrix
	// TrendChemicals are the most frequent chemicals that appear in Trends.
	TrendChemicals []string
}

// SummarizeChemicals computes chemical frequencies, per-category counts and,
// when ReportYear exists, the year by chemical matrix.
func SummarizeChemicals(d *Dataset, lim Limits) ChemicalSummary {
	s := ChemicalSummary{Counts: ValueCounts(d, ColChemical, nil)}
	s.Top = Head(s.Counts, lim.TopChemicals)
	s.ByCategory = Head(GroupSizes(d, ColPrimaryCategory, ColChemical), lim.TopGroups)
	s.Trends = BuildYearMatrix(d, ColChemical)
	if s.Trends != nil {
		for _, c := range Head(s.Counts, lim.TrendChemicals) {
			if _, ok := s.Trends.Series(c.Value); ok {
				s.TrendChemicals = append(s.TrendChemicals, c.Value)
			}
		}
	}
	return s
}

// WriteText renders the chemical section.
func (s ChemicalSummary) WriteText(w io.Writer) error {
	var b strings.Builder
	writeCounts(&b, "TOP CHEMICALS", s.Top)
	writeGroups(&b, "CHEMICALS BY CATEGORY", s.ByCategory)
	if s.Trends != nil {
		b.WriteString("\n[CHEMICAL TRENDS OVER TIME]\n")
		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ReportYear\tRecords")
		for i, n := range s.Trends.Totals() {
			fmt.Fprintf(tw, "%d\t%d\n", s.Trends.Years[i], n)
		}
		tw.Flush()
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// ProductSummary is the product-oriented section of the analysis.
type ProductSummary struct {
	Companies     []CompanyStat // top companies by distinct products
	Categories    []Count
	SubCategories []GroupCount // (PrimaryCategory, SubCategory), key order
	// Discontinued is nil when the dataset has no DiscontinuedDate column.
	Discontinued *DiscontinuedSummary
}

// DiscontinuedSummary describes records with a discontinuation date.
type DiscontinuedSummary struct {
	Size      int
	Chemicals []Count
}

// SummarizeProducts computes company, category and discontinued-product views.
func SummarizeProducts(d *Dataset, lim Limits) ProductSummary {
	s := ProductSummary{
		Companies:     Head(SortByProducts(CompanyStats(d)), lim.TopCompanies),
		Categories:    ValueCounts(d, ColPrimaryCategory, nil),
		SubCategories: Head(GroupSizes(d, ColPrimaryCategory, ColSubCategory), lim.TopGroups),
	}
	if d.Has(ColDiscontinued) {
		mask := NonMissing(d, ColDiscontinued)
		disc := &DiscontinuedSummary{}
		for _, m := range mask {
			if m {
				disc.Size++
			}
		}
		if disc.Size > 0 {
			disc.Chemicals = Head(ValueCounts(d, ColChemical, mask), lim.TopDiscontinued)
		}
		s.Discontinued = disc
	}
	return s
}

// WriteText renders the product section.
func (s ProductSummary) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString("\n[COMPANY STATISTICS]\n")
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CompanyName\tProductName\tChemicalName")
	for _, c := range s.Companies {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", safeVal(c.Company), c.Products, c.Chemicals)
	}
	tw.Flush()
	writeCounts(&b, "CATEGORY DISTRIBUTION", s.Categories)
	writeGroups(&b, "SUBCATEGORY BREAKDOWN", s.SubCategories)
	if s.Discontinued != nil {
		b.WriteString(fmt.Sprintf("\n[DISCONTINUED PRODUCTS: %d]\n", s.Discontinued.Size))
		if s.Discontinued.Size > 0 {
			writeCounts(&b, "CHEMICALS IN DISCONTINUED PRODUCTS", s.Discontinued.Chemicals)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// AdvancedSummary holds the cross-cutting measures.
type AdvancedSummary struct {
	MeanChemicalsPerProduct float64
	Brands                  []Count // distinct chemicals per brand, top N
	CategoryDiversity       []Count // distinct chemicals per category, all
}

// SummarizeAdvanced computes chemicals per product and per-brand and
// per-category chemical diversity.
func SummarizeAdvanced(d *Dataset, lim Limits) AdvancedSummary {
	return AdvancedSummary{
		MeanChemicalsPerProduct: MeanDistinctPerGroup(d, ColProduct, ColChemical),
		Brands:                  Head(DistinctCounts(d, ColBrand, ColChemical), lim.TopBrands),
		CategoryDiversity:       DistinctCounts(d, ColPrimaryCategory, ColChemical),
	}
}

// WriteText renders the advanced section.
func (s AdvancedSummary) WriteText(w io.Writer) error {
	var b strings.Builder
	b.WriteString("\n[CHEMICAL COMBINATIONS]\n")
	b.WriteString(fmt.Sprintf("Average chemicals per product: %.1f\n", s.MeanChemicalsPerProduct))
	writeCounts(&b, "BRAND CHEMICAL PROFILES", s.Brands)
	writeCounts(&b, "CHEMICAL DIVERSITY BY CATEGORY", s.CategoryDiversity)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCounts(b *strings.Builder, title string, counts []Count) {
	b.WriteString("\n[" + title + "]\n")
	if len(counts) == 0 {
		b.WriteString("(none)\n")
		return
	}
	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%d\n", safeVal(c.Value), c.N)
	}
	tw.Flush()
}

func writeGroups(b *strings.Builder, title string, groups []GroupCount) {
	b.WriteString("\n[" + title + "]\n")
	if len(groups) == 0 {
		b.WriteString("(none)\n")
		return
	}
	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	for _, g := range groups {
		for _, k := range g.Keys {
			fmt.Fprintf(tw, "%s\t", safeVal(k))
		}
		fmt.Fprintf(tw, "%d\n", g.N)
	}
	tw.Flush()
}

func safeVal(s string) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "\t", " ")
	if r := []rune(s); len(r) > 60 {
		s = string(r[:57]) + "..."
	}
	return s
}
