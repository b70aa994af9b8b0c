package interval

// Match counts mutations against a sorted disjoint single-chromosome
// interval set.  Each mutation lands in exactly one bucket:
//
//   - position inside some interval and classified Silent or
//     Missense_Mutation: counted into that interval;
//   - position inside some interval with any other classification: consumed
//     and deliberately dropped (non-SNP variant classes are not this
//     pipeline's concern, and reporting them as unmatched would misstate
//     where they fell);
//   - position outside every interval: appended to unmatched, including
//     mutations beyond the final interval's end.
//
// The returned regions are copies of the input with the counters filled in;
// the input slice is not modified.  Both scans are single forward passes, so
// the cost is O(len(regions) + len(muts)).
func Match(regions []Region, muts []Mutation) ([]Region, []Mutation, error) {
	if err := CheckDisjoint(regions); err != nil {
		return nil, nil, err
	}
	for i := 1; i < len(muts); i++ {
		if muts[i].Pos < muts[i-1].Pos {
			return nil, nil, &UnsortedInputError{Chrom: muts[i].Chrom, Prev: muts[i-1].Pos, Cur: muts[i].Pos, What: "mutation"}
		}
	}
	counted := make([]Region, len(regions))
	copy(counted, regions)
	var unmatched []Mutation

	mi := 0
	for ri := range counted {
		r := &counted[ri]
		r.SilentCount = 0
		r.MissenseCount = 0
		for mi < len(muts) && muts[mi].Pos < r.Start {
			unmatched = append(unmatched, muts[mi])
			mi++
		}
		for mi < len(muts) && muts[mi].Pos <= r.End {
			switch muts[mi].Class {
			case ClassSilent:
				r.SilentCount++
			case ClassMissense:
				r.MissenseCount++
			}
			mi++
		}
	}
	// Mutations beyond the last interval.  The counting stage treats these
	// the same as mutations falling in a gap between intervals.
	for ; mi < len(muts); mi++ {
		unmatched = append(unmatched, muts[mi])
	}
	return counted, unmatched, nil
}
