package refdata

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"

	"github.com/codexome/mutcount/interval"
)

// Interval-set CSV schema shared by the track, merged-track, split, and del
// outputs: one row per region, positions 0-based closed.
var regionHeader = []string{"chrom", "start", "end", "gene", "type"}

// WriteRegions writes regions as CSV with the chrom,start,end,gene,type
// schema.
func WriteRegions(w io.Writer, regions []interval.Region) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(regionHeader); err != nil {
		return err
	}
	for _, r := range regions {
		row := []string{r.Chrom, strconv.Itoa(r.Start), strconv.Itoa(r.End), r.Gene, string(r.Type)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRegions parses a CSV written by WriteRegions.
func ReadRegions(r io.Reader) ([]interval.Region, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, errors.E(err, "reading region CSV header")
	}
	col := map[string]int{}
	for i, name := range header {
		col[name] = i
	}
	for _, required := range regionHeader {
		if _, ok := col[required]; !ok {
			return nil, errors.E("region CSV missing column", required)
		}
	}
	var regions []interval.Region
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		start, err := strconv.Atoi(row[col["start"]])
		if err != nil {
			return nil, errors.E(err, "bad start in region CSV")
		}
		end, err := strconv.Atoi(row[col["end"]])
		if err != nil {
			return nil, errors.E(err, "bad end in region CSV")
		}
		regions = append(regions, interval.Region{
			Chrom: row[col["chrom"]],
			Start: start,
			End:   end,
			Gene:  row[col["gene"]],
			Type:  interval.RegionType(row[col["type"]]),
		})
	}
	return regions, nil
}

// WriteCCDS writes the deduplicated coding-region table, preserving the
// reference-table payload columns.  The combined ccds_id list is rendered in
// the bracketed form of the source table.
func WriteCCDS(w io.Writer, regions []interval.Region) error {
	cw := csv.NewWriter(w)
	header := []string{"chrom", "nc_accession", "gene", "gene_id", "cds_strand", "cds_start", "cds_end", "ccds_id"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range regions {
		row := []string{
			r.Chrom, r.Accession, r.Gene, r.GeneID, r.Strand,
			strconv.Itoa(r.Start), strconv.Itoa(r.End),
			"[" + strings.Join(r.CcdsIDs, ",") + "]",
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCounts writes matched regions with their mutation counters appended
// to the region schema.
func WriteCounts(w io.Writer, regions []interval.Region) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, regionHeader...), "silent_count", "missense_count")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range regions {
		row := []string{
			r.Chrom, strconv.Itoa(r.Start), strconv.Itoa(r.End), r.Gene, string(r.Type),
			strconv.Itoa(r.SilentCount), strconv.Itoa(r.MissenseCount),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUnmatched writes the mutations that fell outside every interval.  The
// type column holds the raw variant classification.
func WriteUnmatched(w io.Writer, muts []interval.Mutation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"chrom", "position", "gene", "type"}); err != nil {
		return err
	}
	for _, m := range muts {
		if err := cw.Write([]string{m.Chrom, strconv.Itoa(m.Pos), m.Gene, m.Class}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRegionsToPath creates path and writes regions to it.
func WriteRegionsToPath(path string, regions []interval.Region) (err error) {
	ctx := vcontext.Background()
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	return WriteRegions(out.Writer(ctx), regions)
}

// ReadRegionsFromPath opens path and parses it with ReadRegions.
func ReadRegionsFromPath(path string) (regions []interval.Region, err error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	return ReadRegions(in.Reader(ctx))
}

// WriteCCDSToPath creates path and writes the coding-region table to it.
func WriteCCDSToPath(path string, regions []interval.Region) (err error) {
	ctx := vcontext.Background()
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	return WriteCCDS(out.Writer(ctx), regions)
}
