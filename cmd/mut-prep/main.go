package main

/*
mut-prep builds the reference interval sets for mutation counting.  It takes
the SAE and SCE annotation tracks exported from the UCSC genome browser plus
the NCBI CCDS table, merges each track into disjoint intervals, and
partitions every CCDS coding region by its annotation coverage.  The
partitioned regions (CCDS_split.csv) are what mut-count tallies mutations
against; the trimmed fragments land in CCDS_del.csv for inspection.
*/

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/codexome/mutcount/interval"
	"github.com/codexome/mutcount/refdata"
)

var (
	saePath     = flag.String("sae", "", "Input SAE annotation track CSV (required)")
	scePath     = flag.String("sce", "", "Input SCE annotation track CSV (required)")
	ccdsPath    = flag.String("ccds", "", "Input CCDS.current.txt table (required)")
	outDir      = flag.String("out-dir", ".", "Directory the prepared reference files are written to")
	parallelism = flag.Int("parallelism", 0, "Maximum number of simultaneous split jobs; 0 = runtime.NumCPU()")
)

func mutPrepUsage() {
	fmt.Printf("Usage: %s -sae path -sce path -ccds path [OPTIONS]\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = mutPrepUsage
	shutdown := grail.Init()
	defer shutdown()

	if *saePath == "" || *scePath == "" || *ccdsPath == "" {
		log.Fatalf("-sae, -sce, and -ccds are all required")
	}
	if flag.NArg() > 0 {
		log.Fatalf("Unexpected positional arguments; please check flag syntax")
	}
	if err := prepRefFiles(*saePath, *scePath, *ccdsPath, *outDir, *parallelism); err != nil {
		log.Panicf("%v", err)
	}
}

func prepRefFiles(saePath, scePath, ccdsPath, outDir string, parallelism int) error {
	sae, err := refdata.ReadTrackFromPath(saePath, interval.TypeSAE)
	if err != nil {
		return err
	}
	log.Printf("mut-prep: read %d SAE blocks", len(sae))
	if sae, err = interval.Merge(sae); err != nil {
		return err
	}

	sce, err := refdata.ReadTrackFromPath(scePath, interval.TypeSCE)
	if err != nil {
		return err
	}
	log.Printf("mut-prep: read %d SCE blocks", len(sce))
	if sce, err = interval.Merge(sce); err != nil {
		return err
	}

	annotations, err := refdata.MergeTracks(sae, sce)
	if err != nil {
		return err
	}
	log.Printf("mut-prep: %d merged annotation intervals", len(annotations))

	ccds, err := refdata.ReadCCDSFromPath(ccdsPath)
	if err != nil {
		return err
	}
	log.Printf("mut-prep: %d CCDS coding intervals", len(ccds))

	keep, del, err := interval.SplitByChrom(ccds, annotations, parallelism)
	if err != nil {
		return err
	}
	log.Printf("mut-prep: split into %d kept and %d trimmed intervals", len(keep), len(del))

	for _, out := range []struct {
		name    string
		regions []interval.Region
	}{
		{"SAE.csv", sae},
		{"SCE.csv", sce},
		{"SAE_SCE.csv", annotations},
		{"CCDS_split.csv", keep},
		{"CCDS_del.csv", del},
	} {
		if err := refdata.WriteRegionsToPath(outDir+"/"+out.name, out.regions); err != nil {
			return err
		}
	}
	return refdata.WriteCCDSToPath(outDir+"/CCDS.csv", ccds)
}
