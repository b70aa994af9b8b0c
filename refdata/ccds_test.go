package refdata

import (
	"reflect"
	"strings"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"

	"github.com/codexome/mutcount/interval"
)

var ccdsTSV = strings.Join([]string{
	"#chromosome\tnc_accession\tgene\tgene_id\tccds_id\tccds_status\tcds_strand\tcds_from\tcds_to\tcds_locations\tmatch_type",
	"1\tNC_000001.11\tGENEA\t1111\tCCDS1.1\tPublic\t+\t100\t400\t[100-200, 300-400]\tIdentical",
	"1\tNC_000001.11\tGENEA\t1111\tCCDS2.1\tPublic\t+\t100\t200\t[100-200]\tIdentical",
	"1\tNC_000001.11\tGENEB\t2222\tCCDS3.1\tWithdrawn\t+\t0\t0\t-\tIdentical",
	"1\tNC_000001.11\tGENEC\t3333\tCCDS4.1\tPublic\t+\t500\t600\t[500-600]\tPartial",
	"2\tNC_000002.12\tGENED\t4444\tCCDS5.1\tPublic\t-\t50\t80\t[50-80]\tIdentical",
}, "\n") + "\n"

func TestReadCCDS(t *testing.T) {
	regions, err := ReadCCDS(strings.NewReader(ccdsTSV))
	assert.NoError(t, err)
	want := []interval.Region{
		{
			Chrom: "chr1", Start: 100, End: 200, Gene: "GENEA", GeneID: "1111",
			Strand: "+", Accession: "NC_000001.11", CcdsIDs: []string{"CCDS1.1", "CCDS2.1"},
		},
		{
			Chrom: "chr1", Start: 300, End: 400, Gene: "GENEA", GeneID: "1111",
			Strand: "+", Accession: "NC_000001.11", CcdsIDs: []string{"CCDS1.1"},
		},
		{
			Chrom: "chr2", Start: 50, End: 80, Gene: "GENED", GeneID: "4444",
			Strand: "-", Accession: "NC_000002.12", CcdsIDs: []string{"CCDS5.1"},
		},
	}
	if !reflect.DeepEqual(regions, want) {
		t.Errorf("got %+v, want %+v", regions, want)
	}
}

func TestReadCCDSMergesOverlaps(t *testing.T) {
	in := strings.Join([]string{
		"#chromosome\tnc_accession\tgene\tgene_id\tccds_id\tccds_status\tcds_strand\tcds_from\tcds_to\tcds_locations\tmatch_type",
		"1\tNC_000001.11\tGENEA\t1\tCCDS1.1\tPublic\t+\t100\t250\t[100-250]\tIdentical",
		"1\tNC_000001.11\tGENEB\t2\tCCDS2.1\tPublic\t+\t200\t300\t[200-300]\tIdentical",
	}, "\n") + "\n"
	regions, err := ReadCCDS(strings.NewReader(in))
	assert.NoError(t, err)
	assert.EQ(t, len(regions), 1)
	expect.EQ(t, regions[0].Start, 100)
	expect.EQ(t, regions[0].End, 300)
	// The merged interval keeps the later contributor's gene.
	expect.EQ(t, regions[0].Gene, "GENEB")
}

func TestParseCdsLocations(t *testing.T) {
	tests := []struct {
		in   string
		want [][2]int
	}{
		{"[100-200, 300-400]", [][2]int{{100, 200}, {300, 400}}},
		{"[5-9]", [][2]int{{5, 9}}},
		{"-", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got, err := parseCdsLocations(tt.in)
		assert.NoError(t, err, tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseCdsLocations(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := parseCdsLocations("[100:200]"); err == nil {
		t.Fatal("expected error for malformed location")
	}
}
