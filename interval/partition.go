package interval

import (
	"runtime"

	"github.com/grailbio/base/traverse"
)

// chromRun is one chromosome's contiguous slice [lo, hi) of a globally
// sorted input.
type chromRun struct {
	chrom  string
	lo, hi int
}

func regionRuns(regions []Region) ([]chromRun, error) {
	var runs []chromRun
	for i, r := range regions {
		if len(runs) > 0 && r.Chrom == runs[len(runs)-1].chrom {
			runs[len(runs)-1].hi = i + 1
			continue
		}
		if len(runs) > 0 && CompareChrom(r.Chrom, runs[len(runs)-1].chrom) <= 0 {
			return nil, &ChromOrderError{Prev: runs[len(runs)-1].chrom, Cur: r.Chrom}
		}
		runs = append(runs, chromRun{chrom: r.Chrom, lo: i, hi: i + 1})
	}
	return runs, nil
}

func mutationRuns(muts []Mutation) ([]chromRun, error) {
	var runs []chromRun
	for i, m := range muts {
		if len(runs) > 0 && m.Chrom == runs[len(runs)-1].chrom {
			runs[len(runs)-1].hi = i + 1
			continue
		}
		if len(runs) > 0 && CompareChrom(m.Chrom, runs[len(runs)-1].chrom) <= 0 {
			return nil, &ChromOrderError{Prev: runs[len(runs)-1].chrom, Cur: m.Chrom}
		}
		runs = append(runs, chromRun{chrom: m.Chrom, lo: i, hi: i + 1})
	}
	return runs, nil
}

// mergeRunChroms returns the union of the two run sets' chromosomes in
// CompareChrom order, with each side's run index (or -1 when absent).
type runPair struct {
	chrom string
	a, b  int
}

func mergeRunChroms(a, b []chromRun) []runPair {
	var out []runPair
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b):
			out = append(out, runPair{a[i].chrom, i, -1})
			i++
		case i == len(a):
			out = append(out, runPair{b[j].chrom, -1, j})
			j++
		default:
			switch c := CompareChrom(a[i].chrom, b[j].chrom); {
			case c == 0:
				out = append(out, runPair{a[i].chrom, i, j})
				i++
				j++
			case c < 0:
				out = append(out, runPair{a[i].chrom, i, -1})
				i++
			default:
				out = append(out, runPair{b[j].chrom, -1, j})
				j++
			}
		}
	}
	return out
}

func jobCount(parallelism, nTasks int) int {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > nTasks {
		parallelism = nTasks
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return parallelism
}

// SplitByChrom runs the coverage split across every chromosome present in
// either input.  Both inputs must be globally sorted by (CompareChrom,
// start); each chromosome's annotations must additionally be disjoint.
// Chromosomes are independent, so up to parallelism of them are processed
// concurrently (0 means runtime.NumCPU()); each task owns its input slices
// and the per-chromosome outputs are concatenated in chromosome order, so
// results are deterministic regardless of parallelism.
//
// Annotations on chromosomes with no coding region at all come back as del
// fragments, mirroring SplitChrom's trailing flush.
func SplitByChrom(cds, annotations []Region, parallelism int) (keep, del []Region, err error) {
	cdsRuns, err := regionRuns(cds)
	if err != nil {
		return nil, nil, err
	}
	annRuns, err := regionRuns(annotations)
	if err != nil {
		return nil, nil, err
	}
	pairs := mergeRunChroms(cdsRuns, annRuns)
	type result struct {
		keep, del []Region
	}
	results := make([]result, len(pairs))
	jobs := jobCount(parallelism, len(pairs))
	err = traverse.Each(jobs, func(jobIdx int) error {
		lo := (jobIdx * len(pairs)) / jobs
		hi := ((jobIdx + 1) * len(pairs)) / jobs
		for pi := lo; pi < hi; pi++ {
			p := pairs[pi]
			var c, a []Region
			if p.a >= 0 {
				c = cds[cdsRuns[p.a].lo:cdsRuns[p.a].hi]
			}
			if p.b >= 0 {
				a = annotations[annRuns[p.b].lo:annRuns[p.b].hi]
			}
			k, d, err := SplitChrom(c, a)
			if err != nil {
				return err
			}
			results[pi] = result{keep: k, del: d}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	for _, res := range results {
		keep = append(keep, res.keep...)
		del = append(del, res.del...)
	}
	return keep, del, nil
}

// MatchByChrom runs the mutation matcher across every chromosome present in
// either input, with the same sorting preconditions and parallelism contract
// as SplitByChrom.  Mutations on chromosomes that have no intervals at all
// are reported as unmatched.
func MatchByChrom(regions []Region, muts []Mutation, parallelism int) (counted []Region, unmatched []Mutation, err error) {
	regRuns, err := regionRuns(regions)
	if err != nil {
		return nil, nil, err
	}
	mutRuns, err := mutationRuns(muts)
	if err != nil {
		return nil, nil, err
	}
	pairs := mergeRunChroms(regRuns, mutRuns)
	type result struct {
		counted   []Region
		unmatched []Mutation
	}
	results := make([]result, len(pairs))
	jobs := jobCount(parallelism, len(pairs))
	err = traverse.Each(jobs, func(jobIdx int) error {
		lo := (jobIdx * len(pairs)) / jobs
		hi := ((jobIdx + 1) * len(pairs)) / jobs
		for pi := lo; pi < hi; pi++ {
			p := pairs[pi]
			var r []Region
			var m []Mutation
			if p.a >= 0 {
				r = regions[regRuns[p.a].lo:regRuns[p.a].hi]
			}
			if p.b >= 0 {
				m = muts[mutRuns[p.b].lo:mutRuns[p.b].hi]
			}
			c, u, err := Match(r, m)
			if err != nil {
				return err
			}
			results[pi] = result{counted: c, unmatched: u}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	for _, res := range results {
		counted = append(counted, res.counted...)
		unmatched = append(unmatched, res.unmatched...)
	}
	return counted, unmatched, nil
}
