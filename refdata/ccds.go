package refdata

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"

	"github.com/codexome/mutcount/interval"
)

// ccdsRow mirrors the columns of the NCBI CCDS table (CCDS.current.txt).
type ccdsRow struct {
	Chromosome   string `tsv:"#chromosome"`
	NCAccession  string `tsv:"nc_accession"`
	Gene         string `tsv:"gene"`
	GeneID       string `tsv:"gene_id"`
	CcdsID       string `tsv:"ccds_id"`
	CcdsStatus   string `tsv:"ccds_status"`
	CdsStrand    string `tsv:"cds_strand"`
	CdsFrom      string `tsv:"cds_from"`
	CdsTo        string `tsv:"cds_to"`
	CdsLocations string `tsv:"cds_locations"`
	MatchType    string `tsv:"match_type"`
}

// ReadCCDS parses the tab-separated CCDS table into one coding region per
// (chrom, gene, start, end), keeping only rows with ccds_status "Public" and
// match_type other than "Partial".  Each row's cds_locations list
// ("[s1-e1, s2-e2, ...]") is exploded into individual intervals; rows from
// different CCDS accessions that collapse to identical coordinates are
// deduplicated with their ccds_ids combined.  The result is sorted by
// (chromosome order, start, end) and merged into a disjoint set.
func ReadCCDS(r io.Reader) ([]interval.Region, error) {
	tr := tsv.NewReader(r)
	tr.HasHeaderRow = true
	tr.UseHeaderNames = true

	type key struct {
		chrom, accession, gene, geneID, strand string
		start, end                             int
	}
	byKey := map[key]*interval.Region{}
	var order []key
	nLine := 1
	for {
		var row ccdsRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(err, "CCDS line", nLine)
		}
		nLine++
		if row.CcdsStatus != "Public" || row.MatchType == "Partial" {
			continue
		}
		locs, err := parseCdsLocations(row.CdsLocations)
		if err != nil {
			return nil, errors.E(err, "CCDS line", nLine, "gene", row.Gene)
		}
		chrom := "chr" + row.Chromosome
		for _, loc := range locs {
			k := key{chrom, row.NCAccession, row.Gene, row.GeneID, row.CdsStrand, loc[0], loc[1]}
			if existing, ok := byKey[k]; ok {
				existing.CcdsIDs = appendUnique(existing.CcdsIDs, row.CcdsID)
				continue
			}
			byKey[k] = &interval.Region{
				Chrom:     chrom,
				Start:     loc[0],
				End:       loc[1],
				Gene:      row.Gene,
				GeneID:    row.GeneID,
				Strand:    row.CdsStrand,
				Accession: row.NCAccession,
				CcdsIDs:   []string{row.CcdsID},
			}
			order = append(order, k)
		}
	}
	regions := make([]interval.Region, 0, len(order))
	for _, k := range order {
		r := *byKey[k]
		sort.Strings(r.CcdsIDs)
		regions = append(regions, r)
	}
	interval.SortRegions(regions)
	return interval.Merge(regions)
}

// ReadCCDSFromPath opens path (transparently uncompressing it) and calls
// ReadCCDS.
func ReadCCDSFromPath(path string) (regions []interval.Region, err error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	r := io.Reader(in.Reader(ctx))
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	return ReadCCDS(bufio.NewReaderSize(r, 64<<10))
}

// parseCdsLocations parses a "[s1-e1, s2-e2, ...]" list into start/end
// pairs.  Withdrawn rows carry "-" instead of a list; the Public filter
// removes them before this is called, but "-" still parses to no locations
// rather than an error.
func parseCdsLocations(s string) ([][2]int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" || s == "-" {
		return nil, nil
	}
	var out [][2]int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		dash := strings.IndexByte(tok, '-')
		if dash <= 0 {
			return nil, errors.E("malformed cds location", tok)
		}
		start, err := strconv.Atoi(strings.TrimSpace(tok[:dash]))
		if err != nil {
			return nil, err
		}
		end, err := strconv.Atoi(strings.TrimSpace(tok[dash+1:]))
		if err != nil {
			return nil, err
		}
		out = append(out, [2]int{start, end})
	}
	return out, nil
}

func appendUnique(list []string, s string) []string {
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}
