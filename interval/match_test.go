package interval

import (
	"reflect"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func mut(chrom string, pos int, class string) Mutation {
	return Mutation{Chrom: chrom, Pos: pos, Gene: "G", Class: class}
}

func TestMatchBasic(t *testing.T) {
	regions := []Region{
		{Chrom: "chr1", Start: 10, End: 20, Gene: "G", Type: TypeSAE},
	}
	muts := []Mutation{
		mut("chr1", 5, ClassSilent),
		mut("chr1", 15, ClassMissense),
		mut("chr1", 15, ClassSilent),
		mut("chr1", 25, ClassSilent),
	}
	counted, unmatched, err := Match(regions, muts)
	assert.NoError(t, err)
	assert.EQ(t, len(counted), 1)
	expect.EQ(t, counted[0].SilentCount, 1)
	expect.EQ(t, counted[0].MissenseCount, 1)
	// Positions outside every interval land in unmatched, including the one
	// past the final interval's end.
	want := []Mutation{mut("chr1", 5, ClassSilent), mut("chr1", 25, ClassSilent)}
	if !reflect.DeepEqual(unmatched, want) {
		t.Errorf("unmatched = %v, want %v", unmatched, want)
	}
}

func TestMatchBoundariesInclusive(t *testing.T) {
	regions := []Region{{Chrom: "chr1", Start: 10, End: 20}}
	muts := []Mutation{
		mut("chr1", 10, ClassSilent),
		mut("chr1", 20, ClassMissense),
	}
	counted, unmatched, err := Match(regions, muts)
	assert.NoError(t, err)
	expect.EQ(t, counted[0].SilentCount, 1)
	expect.EQ(t, counted[0].MissenseCount, 1)
	expect.EQ(t, len(unmatched), 0)
}

func TestMatchDropPolicy(t *testing.T) {
	// A non-SNP classification inside an interval is consumed from the
	// stream but neither counted nor reported as unmatched.
	regions := []Region{{Chrom: "chr1", Start: 10, End: 20}}
	muts := []Mutation{
		mut("chr1", 12, "In_Frame_Del"),
		mut("chr1", 14, "Nonsense_Mutation"),
		mut("chr1", 16, ClassSilent),
	}
	counted, unmatched, err := Match(regions, muts)
	assert.NoError(t, err)
	expect.EQ(t, counted[0].SilentCount, 1)
	expect.EQ(t, counted[0].MissenseCount, 0)
	expect.EQ(t, len(unmatched), 0)
}

func TestMatchGapsBetweenIntervals(t *testing.T) {
	regions := []Region{
		{Chrom: "chr1", Start: 10, End: 20},
		{Chrom: "chr1", Start: 40, End: 50},
	}
	muts := []Mutation{
		mut("chr1", 15, ClassSilent),
		mut("chr1", 30, ClassMissense),
		mut("chr1", 45, ClassMissense),
		mut("chr1", 45, ClassMissense),
	}
	counted, unmatched, err := Match(regions, muts)
	assert.NoError(t, err)
	expect.EQ(t, counted[0].SilentCount, 1)
	expect.EQ(t, counted[1].MissenseCount, 2)
	assert.EQ(t, len(unmatched), 1)
	expect.EQ(t, unmatched[0].Pos, 30)
}

func TestMatchDoesNotModifyInput(t *testing.T) {
	regions := []Region{{Chrom: "chr1", Start: 10, End: 20}}
	muts := []Mutation{mut("chr1", 15, ClassSilent)}
	_, _, err := Match(regions, muts)
	assert.NoError(t, err)
	expect.EQ(t, regions[0].SilentCount, 0)
}

func TestMatchNoMutations(t *testing.T) {
	regions := []Region{{Chrom: "chr1", Start: 10, End: 20}}
	counted, unmatched, err := Match(regions, nil)
	assert.NoError(t, err)
	expect.EQ(t, counted[0].SilentCount, 0)
	expect.EQ(t, counted[0].MissenseCount, 0)
	expect.EQ(t, len(unmatched), 0)
}

func TestMatchNoIntervals(t *testing.T) {
	muts := []Mutation{mut("chr1", 15, ClassSilent)}
	counted, unmatched, err := Match(nil, muts)
	assert.NoError(t, err)
	expect.EQ(t, len(counted), 0)
	if !reflect.DeepEqual(unmatched, muts) {
		t.Errorf("unmatched = %v, want %v", unmatched, muts)
	}
}

func TestMatchErrors(t *testing.T) {
	// Unsorted mutation positions.
	_, _, err := Match(
		[]Region{{Chrom: "chr1", Start: 10, End: 20}},
		[]Mutation{mut("chr1", 15, ClassSilent), mut("chr1", 5, ClassSilent)},
	)
	if _, ok := err.(*UnsortedInputError); !ok {
		t.Fatalf("expected UnsortedInputError, got %v", err)
	}
	// Overlapping intervals.
	_, _, err = Match(
		[]Region{
			{Chrom: "chr1", Start: 10, End: 20},
			{Chrom: "chr1", Start: 15, End: 30},
		},
		nil,
	)
	if _, ok := err.(*OverlapError); !ok {
		t.Fatalf("expected OverlapError, got %v", err)
	}
}
