package main

/*
maf-fetch downloads open-access MAF files from the NCI Genomic Data Commons.
It queries the GDC API for MAF-format open-access files, downloads and
uncompresses each one into a directory tree grouped by cancer type, and
writes a manifest CSV that maf-validate consumes.  With -summary the tool
only reports what is available and downloads nothing.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/codexome/mutcount/gdc"
)

var (
	number      = flag.Int("n", 100, "Number of MAF files to download")
	outDir      = flag.String("out-dir", "maf_files", "Directory the MAF files are downloaded into")
	manifest    = flag.String("manifest", "maf_metadata.csv", "Manifest file name, written under -out-dir")
	baseURL     = flag.String("base-url", gdc.DefaultBaseURL, "GDC API endpoint")
	summaryOnly = flag.Bool("summary", false, "Only print a summary of the available files")
)

func mafFetchUsage() {
	fmt.Printf("Usage: %s [OPTIONS]\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = mafFetchUsage
	shutdown := grail.Init()
	defer shutdown()

	ctx := vcontext.Background()
	client := &gdc.Client{BaseURL: *baseURL}

	if *summaryOnly {
		files, err := client.Query(ctx, *number)
		if err != nil {
			log.Panicf("%v", err)
		}
		gdc.Summarize(files).Log()
		return
	}

	fetcher := &gdc.Fetcher{Client: client, OutputDir: *outDir}
	err := fetcher.FetchAll(ctx, *number)
	// The manifest records per-file failures, so write it even when some
	// downloads did not succeed.
	if werr := fetcher.WriteManifest(*manifest); werr != nil {
		log.Panicf("%v", werr)
	}
	if err != nil {
		log.Panicf("%v", err)
	}
	log.Printf("maf-fetch: manifest written to %s/%s", *outDir, *manifest)
}
