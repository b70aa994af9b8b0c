package maf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMAF = `#version gdc-1.0.0
#annotation.spec gdc-1.0.1-public
Hugo_Symbol	Entrez_Gene_Id	Center	NCBI_Build	Chromosome	Start_Position	End_Position	Strand	Variant_Classification	Variant_Type	Reference_Allele	Tumor_Seq_Allele1	CCDS
TP53	7157	WUGSC	GRCh38	chr17	7675088	7675088	+	Missense_Mutation	SNP	C	T	CCDS11118.1
KRAS	3845	WUGSC	GRCh38	chr12	25245350	25245350	-	Silent	SNP	C	C	CCDS8702.1
BRAF	673	WUGSC	GRCh38	chr7	140753336	140753340	+	In_Frame_Del	DEL	ACTGA	-	CCDS5863.1
`

func TestReader(t *testing.T) {
	mr, err := NewReader(strings.NewReader(testMAF))
	require.NoError(t, err)
	recs, err := mr.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, Record{
		Gene:      "TP53",
		EntrezID:  "7157",
		Chrom:     "chr17",
		Start:     7675088,
		End:       7675088,
		Strand:    "+",
		Class:     "Missense_Mutation",
		Type:      "SNP",
		RefAllele: "C",
		CCDS:      "CCDS11118.1",
	}, recs[0])
	assert.Equal(t, "KRAS", recs[1].Gene)
	assert.Equal(t, "-", recs[1].Strand)
	assert.Equal(t, "DEL", recs[2].Type)
	assert.Equal(t, "ACTGA", recs[2].RefAllele)
}

func TestReaderMissingColumn(t *testing.T) {
	maf := "Hugo_Symbol\tChromosome\tStart_Position\nTP53\tchr17\t100\n"
	_, err := NewReader(strings.NewReader(maf))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Entrez_Gene_Id")
}

func TestReaderEmpty(t *testing.T) {
	_, err := NewReader(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReaderBadPosition(t *testing.T) {
	maf := strings.Join(mafColumns, "\t") + "\n" +
		"TP53\t7157\tchr17\toops\t100\t+\tSilent\tSNP\tC\tCCDS1.1\n"
	mr, err := NewReader(strings.NewReader(maf))
	require.NoError(t, err)
	_, err = mr.Read()
	assert.Error(t, err)
}

func TestIsCandidate(t *testing.T) {
	for _, tc := range []struct {
		class, typ string
		want       bool
	}{
		{"Silent", "SNP", true},
		{"Missense_Mutation", "SNP", true},
		{"Nonsense_Mutation", "SNP", false},
		{"Splice_Site", "SNP", false},
		{"Silent", "DEL", false},
		{"Missense_Mutation", "INS", false},
		{"In_Frame_Del", "DEL", false},
	} {
		got := IsCandidate(Record{Class: tc.class, Type: tc.typ})
		assert.Equal(t, tc.want, got, "%s/%s", tc.class, tc.typ)
	}
}
