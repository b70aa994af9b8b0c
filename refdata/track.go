// Package refdata prepares the reference interval sets the pipeline counts
// against: the SAE/SCE annotation tracks exported from the UCSC genome
// browser and the CCDS coding-sequence table, plus the CSV files the
// intermediate and final interval sets are serialized to.
package refdata

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"

	"github.com/codexome/mutcount/interval"
)

// ReadTrack parses a UCSC annotation-track CSV into one region per block.
// Each source row describes a multi-block annotation via chromStart plus
// comma-separated blockSizes/chromStarts offsets; blocks are exploded into
// absolute closed intervals (end = start + size - 1, per the UCSC 0-based
// start / 1-based end convention).  Every returned region is tagged typ.
// The result is sorted by (chromosome order, start) but not merged.
func ReadTrack(r io.Reader, typ interval.RegionType) ([]interval.Region, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, errors.E(err, "reading track header")
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.TrimPrefix(name, "#")] = i
	}
	for _, required := range []string{"chrom", "chromStart", "blockSizes", "chromStarts"} {
		if _, ok := col[required]; !ok {
			return nil, errors.E("track file missing column", required)
		}
	}
	var regions []interval.Region
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.E(err, "reading track row")
		}
		line++
		chrom := row[col["chrom"]]
		chromStart, err := strconv.Atoi(row[col["chromStart"]])
		if err != nil {
			return nil, errors.E(err, "track line", line, "bad chromStart")
		}
		sizes, err := splitIntList(row[col["blockSizes"]])
		if err != nil {
			return nil, errors.E(err, "track line", line, "bad blockSizes")
		}
		offsets, err := splitIntList(row[col["chromStarts"]])
		if err != nil {
			return nil, errors.E(err, "track line", line, "bad chromStarts")
		}
		if len(sizes) != len(offsets) {
			return nil, errors.E("track line", line, "blockSizes and chromStarts length mismatch")
		}
		for i := range sizes {
			start := chromStart + offsets[i]
			regions = append(regions, interval.Region{
				Chrom: chrom,
				Start: start,
				End:   start + sizes[i] - 1,
				Type:  typ,
			})
		}
	}
	interval.SortRegions(regions)
	return regions, nil
}

// ReadTrackFromPath opens path (transparently gunzipping *.gz) and calls
// ReadTrack.
func ReadTrackFromPath(path string, typ interval.RegionType) (regions []interval.Region, err error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	r := io.Reader(in.Reader(ctx))
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		r = gz
	}
	return ReadTrack(r, typ)
}

// splitIntList parses a comma-separated integer list.  UCSC exports carry a
// trailing comma, so empty tokens are skipped.
func splitIntList(s string) ([]int, error) {
	var out []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// MergeTracks merges each annotation track into its own disjoint set and
// interleaves the two by (chromosome order, start).  SAE and SCE are kept as
// distinct region types, so an SAE block overlapping an SCE block survives to
// this function's output; the split stage rejects such input rather than
// merging across tracks.
func MergeTracks(sae, sce []interval.Region) ([]interval.Region, error) {
	mergedSAE, err := interval.Merge(sae)
	if err != nil {
		return nil, errors.E(err, "merging SAE track")
	}
	mergedSCE, err := interval.Merge(sce)
	if err != nil {
		return nil, errors.E(err, "merging SCE track")
	}
	combined := make([]interval.Region, 0, len(mergedSAE)+len(mergedSCE))
	combined = append(combined, mergedSAE...)
	combined = append(combined, mergedSCE...)
	interval.SortRegions(combined)
	return combined, nil
}
