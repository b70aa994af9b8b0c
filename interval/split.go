package interval

// Cursor walks one chromosome's annotation intervals while successive coding
// regions of that chromosome are split against them.  The cursor only ever
// advances: once SplitRegion consumes an annotation, later coding regions
// never see it again, which is what makes the whole-chromosome pass linear.
// Callers create one Cursor per chromosome and thread it through every
// SplitRegion call for that chromosome's coding regions, in sorted order.
type Cursor struct {
	anns []Region
	idx  int
}

// NewCursor validates that anns is a sorted disjoint single-chromosome
// annotation set and returns a cursor over it.  The disjointness check is
// what catches SAE blocks overlapping SCE blocks: the per-track merges cannot
// see across tracks, so a cross-track overlap first becomes visible here and
// is rejected rather than silently mis-split.
func NewCursor(anns []Region) (*Cursor, error) {
	for _, a := range anns {
		if err := validateRegion(a); err != nil {
			return nil, err
		}
		if a.Chrom != anns[0].Chrom {
			return nil, &ChromOrderError{Prev: anns[0].Chrom, Cur: a.Chrom}
		}
	}
	if err := CheckDisjoint(anns); err != nil {
		return nil, err
	}
	return &Cursor{anns: anns}, nil
}

// Done reports whether every annotation has been consumed.
func (c *Cursor) Done() bool { return c.idx >= len(c.anns) }

func (c *Cursor) peek() (Region, bool) {
	if c.idx >= len(c.anns) {
		return Region{}, false
	}
	return c.anns[c.idx], true
}

// SplitRegion partitions one coding region against the annotations under cur,
// advancing the cursor past every annotation that starts at or before
// cds.End.  It returns keep segments, which tile [cds.Start, cds.End] exactly
// (annotated stretches tagged with the annotation's type, uncovered
// stretches tagged normal), and del segments, the annotation fragments that
// fall outside the coding region.  Both slices are ordered by start.
//
// An annotation straddling cds.End is clipped: its in-region part becomes a
// keep segment and [cds.End+1, ann.End] a del segment.  Symmetrically, the
// part of an annotation lying before the current coverage point goes to del,
// so an annotation sitting wholly between two coding regions is emitted as a
// single del fragment.
func SplitRegion(cds Region, cur *Cursor) (keep, del []Region, err error) {
	if err = validateRegion(cds); err != nil {
		return nil, nil, err
	}
	cdsCursor := cds.Start
	for {
		ann, ok := cur.peek()
		if !ok || ann.Start > cds.End {
			break
		}
		if ann.Chrom != cds.Chrom {
			return nil, nil, &ChromOrderError{Prev: cds.Chrom, Cur: ann.Chrom}
		}
		start := ann.Start
		if start < cdsCursor {
			stop := cdsCursor - 1
			if ann.End < stop {
				stop = ann.End
			}
			del = append(del, Region{Chrom: cds.Chrom, Start: ann.Start, End: stop, Gene: cds.Gene, Type: ann.Type})
			if ann.End < cdsCursor {
				// Nothing of this annotation reaches the uncovered part of
				// the coding region.
				cur.idx++
				continue
			}
			start = cdsCursor
		} else if start > cdsCursor {
			keep = append(keep, Region{Chrom: cds.Chrom, Start: cdsCursor, End: start - 1, Gene: cds.Gene, Type: TypeNormal})
			cdsCursor = start
		}
		if ann.End <= cds.End {
			keep = append(keep, Region{Chrom: cds.Chrom, Start: start, End: ann.End, Gene: cds.Gene, Type: ann.Type})
			cdsCursor = ann.End + 1
		} else {
			keep = append(keep, Region{Chrom: cds.Chrom, Start: start, End: cds.End, Gene: cds.Gene, Type: ann.Type})
			del = append(del, Region{Chrom: cds.Chrom, Start: cds.End + 1, End: ann.End, Gene: cds.Gene, Type: ann.Type})
			cdsCursor = cds.End + 1
		}
		cur.idx++
	}
	if cdsCursor <= cds.End {
		keep = append(keep, Region{Chrom: cds.Chrom, Start: cdsCursor, End: cds.End, Gene: cds.Gene, Type: TypeNormal})
	}
	return keep, del, nil
}

// SplitChrom splits every coding region of one chromosome against that
// chromosome's annotation set, sharing a single cursor across the regions.
// cdsRegions must be sorted by start; annotations must satisfy NewCursor's
// preconditions.  Annotations left unconsumed after the last coding region
// (those starting beyond it) are emitted as trailing del fragments so that
// every annotation base is accounted for on the keep or del side.
func SplitChrom(cdsRegions, annotations []Region) (keep, del []Region, err error) {
	cur, err := NewCursor(annotations)
	if err != nil {
		return nil, nil, err
	}
	prevStart := -1
	for _, cds := range cdsRegions {
		if cds.Start < prevStart {
			return nil, nil, &UnsortedInputError{Chrom: cds.Chrom, Prev: prevStart, Cur: cds.Start, What: "region"}
		}
		prevStart = cds.Start
		k, d, err := SplitRegion(cds, cur)
		if err != nil {
			return nil, nil, err
		}
		keep = append(keep, k...)
		del = append(del, d...)
	}
	for {
		ann, ok := cur.peek()
		if !ok {
			break
		}
		del = append(del, Region{Chrom: ann.Chrom, Start: ann.Start, End: ann.End, Type: ann.Type})
		cur.idx++
	}
	return keep, del, nil
}
