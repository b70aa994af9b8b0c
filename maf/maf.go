// Package maf reads somatic mutation calls from MAF (Mutation Annotation
// Format) files, screens them against a reference genome, and turns the
// surviving calls into the position stream consumed by the interval counter.
package maf

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
)

// Record is one mutation call.  Start and End are 1-based inclusive
// positions as written in the MAF; callers converting to the 0-based
// interval coordinate system subtract one from Start.
type Record struct {
	Gene      string
	EntrezID  string
	Chrom     string
	Start     int
	End       int
	Strand    string
	Class     string
	Type      string
	RefAllele string
	CCDS      string
}

// Variant classifications and types recognized by the validator.
const (
	ClassSilent   = "Silent"
	ClassMissense = "Missense_Mutation"
	TypeSNP       = "SNP"
)

// mafColumns are the columns a MAF must provide, in Record field order.
var mafColumns = []string{
	"Hugo_Symbol",
	"Entrez_Gene_Id",
	"Chromosome",
	"Start_Position",
	"End_Position",
	"Strand",
	"Variant_Classification",
	"Variant_Type",
	"Reference_Allele",
	"CCDS",
}

// Reader streams records out of a MAF file.  MAFs are tab-separated with an
// optional preamble of #-prefixed version lines, a header row, and upwards
// of a hundred annotation columns; the reader projects out just the columns
// in Record and ignores the rest.
type Reader struct {
	r     *csv.Reader
	cols  [10]int
	nLine int
}

// NewReader reads the header row of r and resolves the column projection.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.E("empty MAF: no header row")
		}
		return nil, errors.E(err, "reading MAF header")
	}
	index := map[string]int{}
	for i, name := range header {
		index[name] = i
	}
	mr := &Reader{r: cr, nLine: 1}
	for i, name := range mafColumns {
		col, ok := index[name]
		if !ok {
			return nil, errors.E("MAF header is missing column", name)
		}
		mr.cols[i] = col
	}
	return mr, nil
}

// Read returns the next record, or io.EOF after the last one.
func (mr *Reader) Read() (Record, error) {
	row, err := mr.r.Read()
	if err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, errors.E(err, "MAF line", mr.nLine+1)
	}
	mr.nLine++
	var fields [10]string
	for i, col := range mr.cols {
		if col >= len(row) {
			return Record{}, errors.E("MAF line", mr.nLine, "has too few columns")
		}
		fields[i] = row[col]
	}
	start, err := strconv.Atoi(fields[3])
	if err != nil {
		return Record{}, errors.E(err, "MAF line", mr.nLine, "bad Start_Position")
	}
	end, err := strconv.Atoi(fields[4])
	if err != nil {
		return Record{}, errors.E(err, "MAF line", mr.nLine, "bad End_Position")
	}
	return Record{
		Gene:      fields[0],
		EntrezID:  fields[1],
		Chrom:     fields[2],
		Start:     start,
		End:       end,
		Strand:    fields[5],
		Class:     fields[6],
		Type:      fields[7],
		RefAllele: fields[8],
		CCDS:      fields[9],
	}, nil
}

// ReadAll drains the reader.
func (mr *Reader) ReadAll() ([]Record, error) {
	var recs []Record
	for {
		rec, err := mr.Read()
		if err == io.EOF {
			return recs, nil
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
}

// Open opens a MAF at path, transparently uncompressing .gz files.  The
// returned closer must be closed after the reader is drained.
func Open(path string) (*Reader, io.Closer, error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	r := io.Reader(in.Reader(ctx))
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	mr, err := NewReader(bufio.NewReaderSize(r, 64<<10))
	if err != nil {
		file.CloseAndReport(ctx, in, &err)
		return nil, nil, err
	}
	return mr, fileCloser{ctx: ctx, f: in}, nil
}

type fileCloser struct {
	ctx context.Context
	f   file.File
}

func (c fileCloser) Close() (err error) {
	file.CloseAndReport(c.ctx, c.f, &err)
	return err
}
