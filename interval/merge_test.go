package interval

import (
	"reflect"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		in   []Region
		want []Region
	}{
		{
			"disjoint intervals pass through",
			[]Region{
				{Chrom: "chr1", Start: 10, End: 20},
				{Chrom: "chr1", Start: 30, End: 40},
			},
			[]Region{
				{Chrom: "chr1", Start: 10, End: 20},
				{Chrom: "chr1", Start: 30, End: 40},
			},
		},
		{
			"overlapping intervals collapse",
			[]Region{
				{Chrom: "chr1", Start: 10, End: 25},
				{Chrom: "chr1", Start: 20, End: 40},
				{Chrom: "chr1", Start: 35, End: 38},
			},
			[]Region{
				{Chrom: "chr1", Start: 10, End: 40},
			},
		},
		{
			"intervals sharing an endpoint base collapse",
			[]Region{
				{Chrom: "chr1", Start: 10, End: 20},
				{Chrom: "chr1", Start: 20, End: 30},
			},
			[]Region{
				{Chrom: "chr1", Start: 10, End: 30},
			},
		},
		{
			"abutting closed intervals stay separate",
			[]Region{
				{Chrom: "chr1", Start: 10, End: 20},
				{Chrom: "chr1", Start: 21, End: 30},
			},
			[]Region{
				{Chrom: "chr1", Start: 10, End: 20},
				{Chrom: "chr1", Start: 21, End: 30},
			},
		},
		{
			"zero-start interval is a real interval",
			[]Region{
				{Chrom: "chr1", Start: 0, End: 5},
				{Chrom: "chr1", Start: 100, End: 110},
			},
			[]Region{
				{Chrom: "chr1", Start: 0, End: 5},
				{Chrom: "chr1", Start: 100, End: 110},
			},
		},
		{
			"chromosome boundary flushes the accumulator",
			[]Region{
				{Chrom: "chr1", Start: 10, End: 20},
				{Chrom: "chr2", Start: 5, End: 15},
				{Chrom: "chr2", Start: 12, End: 30},
			},
			[]Region{
				{Chrom: "chr1", Start: 10, End: 20},
				{Chrom: "chr2", Start: 5, End: 30},
			},
		},
		{
			"chr2 before chr10",
			[]Region{
				{Chrom: "chr2", Start: 10, End: 20},
				{Chrom: "chr10", Start: 5, End: 15},
			},
			[]Region{
				{Chrom: "chr2", Start: 10, End: 20},
				{Chrom: "chr10", Start: 5, End: 15},
			},
		},
		{
			"empty input",
			nil,
			nil,
		},
	}
	for _, tt := range tests {
		got, err := Merge(tt.in)
		assert.NoError(t, err, tt.name)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMergePayload(t *testing.T) {
	// The merged interval carries the payload of the last contributor.
	got, err := Merge([]Region{
		{Chrom: "chr1", Start: 10, End: 25, Gene: "A", CcdsIDs: []string{"CCDS1.1"}},
		{Chrom: "chr1", Start: 20, End: 40, Gene: "B", CcdsIDs: []string{"CCDS2.1"}},
	})
	assert.NoError(t, err)
	assert.EQ(t, len(got), 1)
	expect.EQ(t, got[0].Gene, "B")
	expect.EQ(t, got[0].CcdsIDs, []string{"CCDS2.1"})
}

func TestMergeIdempotent(t *testing.T) {
	in := []Region{
		{Chrom: "chr1", Start: 0, End: 10},
		{Chrom: "chr1", Start: 5, End: 30},
		{Chrom: "chr1", Start: 50, End: 60},
		{Chrom: "chrX", Start: 2, End: 4},
	}
	once, err := Merge(in)
	assert.NoError(t, err)
	twice, err := Merge(once)
	assert.NoError(t, err)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("re-merge changed output: %v vs %v", once, twice)
	}
}

func TestMergeDisjointInvariant(t *testing.T) {
	in := []Region{
		{Chrom: "chr1", Start: 3, End: 9},
		{Chrom: "chr1", Start: 4, End: 4},
		{Chrom: "chr1", Start: 9, End: 14},
		{Chrom: "chr1", Start: 16, End: 22},
		{Chrom: "chr1", Start: 23, End: 23},
	}
	got, err := Merge(in)
	assert.NoError(t, err)
	for i := 1; i < len(got); i++ {
		if got[i].Start <= got[i-1].End {
			t.Errorf("outputs %d and %d still mergeable: %v", i-1, i, got)
		}
	}
	// Union is preserved: every input base is inside some output interval.
	for _, r := range in {
		for pos := r.Start; pos <= r.End; pos++ {
			found := false
			for _, o := range got {
				if pos >= o.Start && pos <= o.End {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("base %d lost by merge", pos)
			}
		}
	}
}

func TestMergeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   []Region
		want error
	}{
		{
			"start regression within a chromosome",
			[]Region{
				{Chrom: "chr1", Start: 100, End: 200},
				{Chrom: "chr1", Start: 50, End: 60},
			},
			&UnsortedInputError{},
		},
		{
			"chromosome revisited after a switch",
			[]Region{
				{Chrom: "chr1", Start: 10, End: 20},
				{Chrom: "chr2", Start: 10, End: 20},
				{Chrom: "chr1", Start: 30, End: 40},
			},
			&ChromOrderError{},
		},
		{
			"chr10 before chr2 is misordered",
			[]Region{
				{Chrom: "chr10", Start: 10, End: 20},
				{Chrom: "chr2", Start: 10, End: 20},
			},
			&ChromOrderError{},
		},
		{
			"start exceeds end",
			[]Region{
				{Chrom: "chr1", Start: 20, End: 10},
			},
			&MalformedIntervalError{},
		},
		{
			"missing chromosome label",
			[]Region{
				{Start: 10, End: 20},
			},
			&MalformedIntervalError{},
		},
	}
	for _, tt := range tests {
		_, err := Merge(tt.in)
		if err == nil {
			t.Errorf("%s: expected error, got none", tt.name)
			continue
		}
		if reflect.TypeOf(err) != reflect.TypeOf(tt.want) {
			t.Errorf("%s: got %T, want %T", tt.name, err, tt.want)
		}
	}
}

func TestCheckDisjoint(t *testing.T) {
	expect.NoError(t, CheckDisjoint([]Region{
		{Chrom: "chr1", Start: 10, End: 20},
		{Chrom: "chr1", Start: 21, End: 30},
	}))
	err := CheckDisjoint([]Region{
		{Chrom: "chr1", Start: 10, End: 20},
		{Chrom: "chr1", Start: 20, End: 30},
	})
	if _, ok := err.(*OverlapError); !ok {
		t.Errorf("expected OverlapError, got %v", err)
	}
}
