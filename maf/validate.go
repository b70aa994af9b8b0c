package maf

import (
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"

	"github.com/codexome/mutcount/genome"
)

// IsCandidate reports whether rec is a Silent or Missense_Mutation SNP.
// Everything else (indels, nonsense, splice variants) is discarded before
// the reference check.
func IsCandidate(rec Record) bool {
	if rec.Type != TypeSNP {
		return false
	}
	return rec.Class == ClassSilent || rec.Class == ClassMissense
}

// Validator screens mutation calls against a reference genome.
type Validator struct {
	ref genome.Reference
}

func NewValidator(ref genome.Reference) *Validator {
	return &Validator{ref: ref}
}

// MatchesReference reports whether rec's Reference_Allele agrees with the
// genome base at its position, read on the record's strand.  An error means
// the position could not be looked up at all (unknown chromosome, position
// past the end of the sequence).
func (v *Validator) MatchesReference(rec Record) (bool, error) {
	if len(rec.RefAllele) != 1 {
		return false, nil
	}
	strand := byte('+')
	if rec.Strand != "" {
		strand = rec.Strand[0]
	}
	base, err := v.ref.Base(rec.Chrom, rec.Start-1, strand)
	if err != nil {
		return false, errors.E(err, "looking up", rec.Chrom, "position", rec.Start)
	}
	return base == upperBase(rec.RefAllele[0]), nil
}

func upperBase(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// FileResult summarizes validation of one MAF file.
type FileResult struct {
	Path  string
	Saved int
	Total int
}

// ValidateFile reads every record from mr, keeps the Silent and Missense
// SNPs whose reference allele matches the genome, and writes them to w
// tagged with the manifest entry's project annotations.  Rejected records
// are logged and counted but not written.
func (v *Validator) ValidateFile(entry Entry, mr *Reader, w *MutationWriter) (FileResult, error) {
	res := FileResult{Path: entry.FilePath}
	for {
		rec, err := mr.Read()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		res.Total++
		if !IsCandidate(rec) {
			log.Debug.Printf("%s: record %d: not a Silent or Missense SNP", entry.FilePath, res.Total)
			continue
		}
		ok, err := v.MatchesReference(rec)
		if err != nil {
			return res, err
		}
		if !ok {
			log.Printf("%s: record %d: reference allele %s does not match the genome at %s:%d",
				entry.FilePath, res.Total, rec.RefAllele, rec.Chrom, rec.Start)
			continue
		}
		if err := w.Write(entry, rec); err != nil {
			return res, err
		}
		res.Saved++
	}
}

// MutationWriter emits validated mutations as a tab-separated table.  Each
// row carries the source file's project annotations alongside the MAF
// columns the counter needs.
type MutationWriter struct {
	w *tsv.Writer
}

func NewMutationWriter(w io.Writer) (*MutationWriter, error) {
	tw := tsv.NewWriter(w)
	tw.WriteString("file_path\tproject_id\tproject_name\tdisease_type\tprimary_site\t" +
		"Hugo_Symbol\tEntrez_Gene_Id\tChromosome\tStart_Position\tEnd_Position\t" +
		"Strand\tVariant_Classification\tVariant_Type\tCCDS")
	if err := tw.EndLine(); err != nil {
		return nil, err
	}
	return &MutationWriter{w: tw}, nil
}

func (mw *MutationWriter) Write(entry Entry, rec Record) error {
	mw.w.WriteString(entry.FilePath)
	mw.w.WriteString(entry.ProjectID)
	mw.w.WriteString(entry.ProjectName)
	mw.w.WriteString(entry.DiseaseType)
	mw.w.WriteString(entry.PrimarySite)
	mw.w.WriteString(rec.Gene)
	mw.w.WriteString(rec.EntrezID)
	mw.w.WriteString(rec.Chrom)
	mw.w.WriteInt64(int64(rec.Start))
	mw.w.WriteInt64(int64(rec.End))
	mw.w.WriteString(rec.Strand)
	mw.w.WriteString(rec.Class)
	mw.w.WriteString(rec.Type)
	mw.w.WriteString(rec.CCDS)
	return mw.w.EndLine()
}

func (mw *MutationWriter) Flush() error { return mw.w.Flush() }

// CountsWriter records the per-file saved/total tallies.
type CountsWriter struct {
	w *tsv.Writer
}

func NewCountsWriter(w io.Writer) (*CountsWriter, error) {
	tw := tsv.NewWriter(w)
	tw.WriteString("file_path\tsaved_mutations\ttotal_mutations")
	if err := tw.EndLine(); err != nil {
		return nil, err
	}
	return &CountsWriter{w: tw}, nil
}

func (cw *CountsWriter) Write(res FileResult) error {
	cw.w.WriteString(res.Path)
	cw.w.WriteInt64(int64(res.Saved))
	cw.w.WriteInt64(int64(res.Total))
	return cw.w.EndLine()
}

func (cw *CountsWriter) Flush() error { return cw.w.Flush() }
