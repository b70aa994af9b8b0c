package maf

import (
	"bufio"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"

	"github.com/codexome/mutcount/interval"
)

// mutationRow mirrors the columns of the validated mutations table written
// by MutationWriter.
type mutationRow struct {
	FilePath    string `tsv:"file_path"`
	ProjectID   string `tsv:"project_id"`
	ProjectName string `tsv:"project_name"`
	DiseaseType string `tsv:"disease_type"`
	PrimarySite string `tsv:"primary_site"`
	Gene        string `tsv:"Hugo_Symbol"`
	EntrezID    string `tsv:"Entrez_Gene_Id"`
	Chrom       string `tsv:"Chromosome"`
	Start       int64  `tsv:"Start_Position"`
	End         int64  `tsv:"End_Position"`
	Strand      string `tsv:"Strand"`
	Class       string `tsv:"Variant_Classification"`
	Type        string `tsv:"Variant_Type"`
	CCDS        string `tsv:"CCDS"`
}

// ReadMutations parses a validated mutations table and prepares it for
// counting: the 1-based Start_Position becomes a 0-based Pos and the stream
// is sorted by (chromosome order, position).
func ReadMutations(r io.Reader) ([]interval.Mutation, error) {
	tr := tsv.NewReader(r)
	tr.HasHeaderRow = true
	tr.UseHeaderNames = true
	var muts []interval.Mutation
	nLine := 1
	for {
		var row mutationRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(err, "mutations line", nLine)
		}
		nLine++
		muts = append(muts, interval.Mutation{
			Chrom: row.Chrom,
			Pos:   int(row.Start) - 1,
			Gene:  row.Gene,
			Class: row.Class,
		})
	}
	interval.SortMutations(muts)
	return muts, nil
}

// ReadMutationsFromPath opens path and calls ReadMutations.
func ReadMutationsFromPath(path string) (muts []interval.Mutation, err error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	return ReadMutations(bufio.NewReaderSize(in.Reader(ctx), 64<<10))
}
