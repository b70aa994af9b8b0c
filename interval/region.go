package interval

import (
	"fmt"
	"sort"
	"strconv"
)

// RegionType tags a Region with the annotation track it came from.  Split
// output additionally uses TypeNormal for coding bases outside both tracks.
type RegionType string

// Region types surfaced by this package.
const (
	TypeSAE    RegionType = "SAE"
	TypeSCE    RegionType = "SCE"
	TypeNormal RegionType = "normal"
)

// Region is a genomic interval on a single chromosome, with both ends
// included.  Gene and Type are carried through the split and match stages;
// CcdsIDs is only populated on coding regions assembled from the reference
// table.  SilentCount/MissenseCount stay zero until Match fills them in.
type Region struct {
	Chrom string
	Start int
	End   int
	Gene  string
	Type  RegionType

	// Reference-table payload, populated on coding regions only.
	GeneID    string
	Strand    string
	Accession string
	CcdsIDs   []string

	SilentCount   int
	MissenseCount int
}

// Mutation is a somatic point mutation.  Pos is 0-based; callers converting
// from MAF rows must subtract one from Start_Position first.  Class holds the
// raw Variant_Classification string.
type Mutation struct {
	Chrom string
	Pos   int
	Gene  string
	Class string
}

// Variant classifications the matcher counts.  Anything else found inside an
// interval is consumed without being counted or reported.
const (
	ClassSilent   = "Silent"
	ClassMissense = "Missense_Mutation"
)

// UnsortedInputError reports an input sequence that violates the sorted-by-
// start (or sorted-by-position) precondition.
type UnsortedInputError struct {
	Chrom string
	Prev  int
	Cur   int
	What  string // "region" or "mutation"
}

func (e *UnsortedInputError) Error() string {
	return fmt.Sprintf("interval: unsorted %s input on %s: %d after %d", e.What, e.Chrom, e.Cur, e.Prev)
}

// MalformedIntervalError reports a region with start > end or a missing
// chromosome label.
type MalformedIntervalError struct {
	Region Region
	Reason string
}

func (e *MalformedIntervalError) Error() string {
	return fmt.Sprintf("interval: malformed region %s:%d-%d: %s", e.Region.Chrom, e.Region.Start, e.Region.End, e.Reason)
}

// ChromOrderError reports chromosome labels appearing out of the total order
// defined by CompareChrom, e.g. a chromosome resuming after a switch.
type ChromOrderError struct {
	Prev string
	Cur  string
}

func (e *ChromOrderError) Error() string {
	return fmt.Sprintf("interval: chromosome %q out of order after %q", e.Cur, e.Prev)
}

// OverlapError reports two supposedly disjoint input intervals sharing
// coordinates, typically an SAE block overlapping an SCE block after the
// per-track merges.
type OverlapError struct {
	Chrom string
	Prev  Region
	Cur   Region
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("interval: overlapping input intervals on %s: [%d,%d] and [%d,%d]",
		e.Chrom, e.Prev.Start, e.Prev.End, e.Cur.Start, e.Cur.End)
}

// chromKey decomposes a chromosome label into its non-numeric prefix and
// numeric suffix ("chr10" -> "chr", 10).  Labels without a numeric suffix
// ("chrX") report hasNum false and keep the whole label as prefix-plus-rest.
func chromKey(label string) (prefix string, num int, hasNum bool) {
	i := len(label)
	for i > 0 && label[i-1] >= '0' && label[i-1] <= '9' {
		i--
	}
	if i == len(label) {
		return label, 0, false
	}
	n, err := strconv.Atoi(label[i:])
	if err != nil {
		return label, 0, false
	}
	return label[:i], n, true
}

// sexMitoRank orders the common non-numeric suffixes after all numeric
// chromosomes: X, then Y, then the mitochondrial contig.
func sexMitoRank(suffix string) int {
	switch suffix {
	case "X":
		return 0
	case "Y":
		return 1
	case "M", "MT":
		return 2
	}
	return 3
}

// CompareChrom is the total order used for chromosome labels throughout this
// package: labels are compared as (non-numeric prefix, numeric suffix) pairs,
// so "chr2" sorts before "chr10" even though plain string comparison would
// say otherwise.  Within one prefix, numeric chromosomes come first in
// numeric order, then X, Y, and M/MT, then anything else lexically.  Returns
// -1, 0, or 1.
func CompareChrom(a, b string) int {
	ap, an, aNum := chromKey(a)
	bp, bn, bNum := chromKey(b)
	if aNum && bNum {
		if ap != bp {
			return strcmp(ap, bp)
		}
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	if aNum != bNum {
		// Numeric suffixes sort before non-numeric ones under the same
		// prefix ("chr22" < "chrX").
		if aNum && hasPrefix(b, ap) {
			return -1
		}
		if bNum && hasPrefix(a, bp) {
			return 1
		}
		return strcmp(a, b)
	}
	ar := sexMitoRank(trimPrefix(a))
	br := sexMitoRank(trimPrefix(b))
	if ar != br {
		if ar < br {
			return -1
		}
		return 1
	}
	return strcmp(a, b)
}

func strcmp(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// trimPrefix drops the conventional "chr" prefix if present.
func trimPrefix(label string) string {
	if hasPrefix(label, "chr") {
		return label[3:]
	}
	return label
}

// SortRegions sorts regions by (chromosome order, start, end).  Inputs to
// Merge, the split cursor, and Match must be in this order.
func SortRegions(regions []Region) {
	sort.SliceStable(regions, func(i, j int) bool {
		if c := CompareChrom(regions[i].Chrom, regions[j].Chrom); c != 0 {
			return c < 0
		}
		if regions[i].Start != regions[j].Start {
			return regions[i].Start < regions[j].Start
		}
		return regions[i].End < regions[j].End
	})
}

// SortMutations sorts mutations by (chromosome order, position).
func SortMutations(muts []Mutation) {
	sort.SliceStable(muts, func(i, j int) bool {
		if c := CompareChrom(muts[i].Chrom, muts[j].Chrom); c != 0 {
			return c < 0
		}
		return muts[i].Pos < muts[j].Pos
	})
}

func validateRegion(r Region) error {
	if r.Chrom == "" {
		return &MalformedIntervalError{Region: r, Reason: "empty chromosome label"}
	}
	if r.Start > r.End {
		return &MalformedIntervalError{Region: r, Reason: "start exceeds end"}
	}
	return nil
}
