package interval

// Merge collapses a sorted interval list into a maximal disjoint set.  Two
// intervals merge when the later one starts at or before the running end
// (closed coordinates, so sharing a single base is enough; intervals that
// merely abut at end+1 stay separate).  The merged interval carries the Gene,
// Type, and CcdsIDs of the last input that contributed to it.
//
// The input must be sorted by (CompareChrom, Start); within a chromosome a
// start regression yields an UnsortedInputError, and a chromosome appearing
// again after a switch yields a ChromOrderError.  A start-regression check
// alone would let a revisited chromosome slip through with starts that happen
// to resume in order, which is why both are enforced.
//
// Merge is idempotent: running it on its own output returns the same set.
func Merge(regions []Region) ([]Region, error) {
	var (
		out    []Region
		cur    Region
		active bool
	)
	for _, r := range regions {
		if err := validateRegion(r); err != nil {
			return nil, err
		}
		if active && r.Chrom == cur.Chrom {
			if r.Start < cur.Start {
				return nil, &UnsortedInputError{Chrom: r.Chrom, Prev: cur.Start, Cur: r.Start, What: "region"}
			}
			if r.Start <= cur.End {
				// Extend, taking the later contributor's payload.
				start, end := cur.Start, cur.End
				if r.End > end {
					end = r.End
				}
				cur = r
				cur.Start, cur.End = start, end
				continue
			}
			out = append(out, cur)
			cur = r
			continue
		}
		if active {
			if CompareChrom(r.Chrom, cur.Chrom) <= 0 {
				// cur.Chrom is always the most recent chromosome, so any
				// non-advancing label is either a revisit or a misordering.
				return nil, &ChromOrderError{Prev: cur.Chrom, Cur: r.Chrom}
			}
			out = append(out, cur)
		}
		cur = r
		active = true
	}
	if active {
		out = append(out, cur)
	}
	return out, nil
}

// CheckDisjoint verifies that a sorted single-chromosome interval list is
// pairwise disjoint, as the split and match stages require.
func CheckDisjoint(regions []Region) error {
	for i := 1; i < len(regions); i++ {
		prev, cur := regions[i-1], regions[i]
		if cur.Start < prev.Start {
			return &UnsortedInputError{Chrom: cur.Chrom, Prev: prev.Start, Cur: cur.Start, What: "region"}
		}
		if cur.Start <= prev.End {
			return &OverlapError{Chrom: cur.Chrom, Prev: prev, Cur: cur}
		}
	}
	return nil
}
