package maf

import (
	"bufio"
	"encoding/csv"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
)

// Entry is one row of the download manifest produced by the fetcher: a
// local MAF path plus the GDC annotations attached to the file and its case.
type Entry struct {
	FilePath             string
	FileID               string
	DataType             string
	DataCategory         string
	ExperimentalStrategy string
	WorkflowType         string
	ProjectID            string
	ProjectName          string
	DiseaseType          string
	PrimarySite          string
	CaseID               string
	CaseSubmitterID      string
	DownloadStatus       string
}

var manifestHeader = []string{
	"file_path",
	"file_id",
	"data_type",
	"data_category",
	"experimental_strategy",
	"workflow_type",
	"project_id",
	"project_name",
	"disease_type",
	"primary_site",
	"case_id",
	"case_submitter_id",
	"download_status",
}

// IsWXS reports whether the entry came from whole exome sequencing.  The
// validator processes only WXS files.
func (e Entry) IsWXS() bool { return e.ExperimentalStrategy == "WXS" }

// ReadManifest parses the comma-separated manifest, header row included.
func ReadManifest(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.E("empty manifest")
		}
		return nil, err
	}
	if len(header) != len(manifestHeader) {
		return nil, errors.E("manifest header has", len(header), "columns, want", len(manifestHeader))
	}
	for i, name := range manifestHeader {
		if header[i] != name {
			return nil, errors.E("manifest column", i, "is", header[i], "want", name)
		}
	}
	var entries []Entry
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			FilePath:             row[0],
			FileID:               row[1],
			DataType:             row[2],
			DataCategory:         row[3],
			ExperimentalStrategy: row[4],
			WorkflowType:         row[5],
			ProjectID:            row[6],
			ProjectName:          row[7],
			DiseaseType:          row[8],
			PrimarySite:          row[9],
			CaseID:               row[10],
			CaseSubmitterID:      row[11],
			DownloadStatus:       row[12],
		})
	}
}

// ReadManifestFromPath opens path and calls ReadManifest.
func ReadManifestFromPath(path string) (entries []Entry, err error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	return ReadManifest(bufio.NewReader(in.Reader(ctx)))
}

// WriteManifest writes entries as a comma-separated manifest with a header
// row.
func WriteManifest(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(manifestHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.FilePath,
			e.FileID,
			e.DataType,
			e.DataCategory,
			e.ExperimentalStrategy,
			e.WorkflowType,
			e.ProjectID,
			e.ProjectName,
			e.DiseaseType,
			e.PrimarySite,
			e.CaseID,
			e.CaseSubmitterID,
			e.DownloadStatus,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteManifestToPath writes the manifest to path.
func WriteManifestToPath(path string, entries []Entry) (err error) {
	ctx := vcontext.Background()
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	return WriteManifest(out.Writer(ctx), entries)
}
