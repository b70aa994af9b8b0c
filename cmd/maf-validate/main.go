package main

/*
maf-validate screens downloaded MAF files against a reference genome.  For
every whole-exome (WXS) file in the download manifest it keeps the Silent
and Missense SNPs whose reference allele matches the genome, writes them to
a single mutations table annotated with each file's project metadata, and
records per-file saved/total tallies.
*/

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/codexome/mutcount/genome"
	"github.com/codexome/mutcount/maf"
)

var (
	manifestPath = flag.String("manifest", "", "Input download manifest CSV from maf-fetch (required)")
	mafDir       = flag.String("maf-dir", ".", "Directory the manifest's file paths are relative to")
	fastaPath    = flag.String("fasta", "", "Reference genome FASTA; an adjacent .fai index is used when present (required)")
	mutsOut      = flag.String("mutations-out", "mutations.tsv", "Output path for the validated mutations table")
	countsOut    = flag.String("counts-out", "raw_counts.tsv", "Output path for the per-file saved/total tallies")
)

func mafValidateUsage() {
	fmt.Printf("Usage: %s -manifest path -fasta path [OPTIONS]\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = mafValidateUsage
	shutdown := grail.Init()
	defer shutdown()

	if *manifestPath == "" || *fastaPath == "" {
		log.Fatalf("-manifest and -fasta are both required")
	}
	if err := validateMAFs(*manifestPath, *mafDir, *fastaPath, *mutsOut, *countsOut); err != nil {
		log.Panicf("%v", err)
	}
}

// openReference uses the faidx index next to the FASTA when one exists and
// falls back to loading the whole genome otherwise.
func openReference(fastaPath string) (ref genome.Reference, err error) {
	if fai, faiErr := os.Open(fastaPath + ".fai"); faiErr == nil {
		defer fai.Close()
		fa, err := os.Open(fastaPath)
		if err != nil {
			return nil, err
		}
		// The FASTA stays open for the lifetime of the reference.
		return genome.NewIndexed(fa, fai)
	}
	ctx := vcontext.Background()
	in, err := file.Open(ctx, fastaPath)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	return genome.New(in.Reader(ctx))
}

func validateMAFs(manifestPath, mafDir, fastaPath, mutsOut, countsOut string) (err error) {
	entries, err := maf.ReadManifestFromPath(manifestPath)
	if err != nil {
		return err
	}
	log.Printf("maf-validate: %d files in manifest", len(entries))

	ref, err := openReference(fastaPath)
	if err != nil {
		return err
	}
	validator := maf.NewValidator(ref)

	ctx := vcontext.Background()
	mutsFile, err := file.Create(ctx, mutsOut)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, mutsFile, &err)
	mw, err := maf.NewMutationWriter(mutsFile.Writer(ctx))
	if err != nil {
		return err
	}

	countsFile, err := file.Create(ctx, countsOut)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, countsFile, &err)
	cw, err := maf.NewCountsWriter(countsFile.Writer(ctx))
	if err != nil {
		return err
	}

	saved, total := 0, 0
	for _, entry := range entries {
		if !entry.IsWXS() {
			log.Printf("maf-validate: skipping %s (%s, not WXS)", entry.FilePath, entry.ExperimentalStrategy)
			continue
		}
		if strings.HasPrefix(entry.DownloadStatus, "failed") {
			log.Printf("maf-validate: skipping %s (download failed)", entry.FilePath)
			continue
		}
		mr, closer, err := maf.Open(mafDir + "/" + entry.FilePath)
		if err != nil {
			return err
		}
		res, err := validator.ValidateFile(entry, mr, mw)
		if cerr := closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		log.Printf("maf-validate: %s: saved %d of %d mutations", entry.FilePath, res.Saved, res.Total)
		if err := cw.Write(res); err != nil {
			return err
		}
		saved += res.Saved
		total += res.Total
	}
	log.Printf("maf-validate: saved %d mutations out of %d", saved, total)

	if err := mw.Flush(); err != nil {
		return err
	}
	return cw.Flush()
}
