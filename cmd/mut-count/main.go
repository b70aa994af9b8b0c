package main

/*
mut-count tallies validated somatic mutations per reference interval.  It
reads the partitioned coding regions produced by mut-prep and the validated
mutation table produced by maf-validate, counts Silent and Missense
mutations for each interval chromosome by chromosome, and writes the
per-interval counts plus every mutation that landed outside all intervals.
*/

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/bgzf"

	"github.com/codexome/mutcount/interval"
	"github.com/codexome/mutcount/maf"
	"github.com/codexome/mutcount/refdata"
)

var (
	regionsPath = flag.String("regions", "", "Input partitioned regions CSV from mut-prep (required)")
	mutsPath    = flag.String("mutations", "", "Input validated mutations TSV from maf-validate (required)")
	outPrefix   = flag.String("out", "mut-count", "Output path prefix")
	format      = flag.String("format", "csv", "Output format; 'csv' and 'csv-bgz' supported")
	parallelism = flag.Int("parallelism", 0, "Maximum number of simultaneous counting jobs; 0 = runtime.NumCPU()")
)

func mutCountUsage() {
	fmt.Printf("Usage: %s -regions path -mutations path [OPTIONS]\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = mutCountUsage
	shutdown := grail.Init()
	defer shutdown()

	if *regionsPath == "" || *mutsPath == "" {
		log.Fatalf("-regions and -mutations are both required")
	}
	var bgzip bool
	switch *format {
	case "csv":
	case "csv-bgz":
		bgzip = true
	default:
		log.Fatalf("Unsupported -format %q; 'csv' and 'csv-bgz' supported", *format)
	}
	if err := countMutations(*regionsPath, *mutsPath, *outPrefix, bgzip, *parallelism); err != nil {
		log.Panicf("%v", err)
	}
}

func countMutations(regionsPath, mutsPath, outPrefix string, bgzip bool, parallelism int) error {
	regions, err := refdata.ReadRegionsFromPath(regionsPath)
	if err != nil {
		return err
	}
	log.Printf("mut-count: read %d intervals", len(regions))

	muts, err := maf.ReadMutationsFromPath(mutsPath)
	if err != nil {
		return err
	}
	log.Printf("mut-count: read %d mutations", len(muts))

	counted, unmatched, err := interval.MatchByChrom(regions, muts, parallelism)
	if err != nil {
		return err
	}
	nSilent, nMissense := 0, 0
	for _, r := range counted {
		nSilent += r.SilentCount
		nMissense += r.MissenseCount
	}
	log.Printf("mut-count: matched %d silent and %d missense mutations, %d unmatched",
		nSilent, nMissense, len(unmatched))

	err = writeOutput(outPrefix+".counts.csv", bgzip, parallelism, func(w io.Writer) error {
		return refdata.WriteCounts(w, counted)
	})
	if err != nil {
		return err
	}
	return writeOutput(outPrefix+".not_matched.csv", bgzip, parallelism, func(w io.Writer) error {
		return refdata.WriteUnmatched(w, unmatched)
	})
}

// writeOutput creates path (with a .gz suffix when bgzip is set) and hands
// the payload writer to fn.
func writeOutput(path string, bgzip bool, parallelism int, fn func(io.Writer) error) (err error) {
	if bgzip {
		path = path + ".gz"
	}
	ctx := vcontext.Background()
	dst, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, dst, &err)
	w := io.Writer(dst.Writer(ctx))
	if bgzip {
		bgzfWriter := bgzf.NewWriter(w, parallelism)
		defer func() {
			if e := bgzfWriter.Close(); e != nil && err == nil {
				err = e
			}
		}()
		w = bgzfWriter
	}
	return fn(w)
}
