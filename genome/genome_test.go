package genome

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFasta = `>chr1 primary assembly
ACGTACGT
ACgt
>chr2
TTTTGGGG
`

// fai for testFasta: chr1 has 12 bases over lines of 8, first base at
// offset 23; chr2 has 8 bases, first base at offset 43.
const testFai = "chr1\t12\t23\t8\t9\nchr2\t8\t43\t8\t9\n"

func TestMemReference(t *testing.T) {
	g, err := New(strings.NewReader(testFasta))
	require.NoError(t, err)
	assert.Equal(t, []string{"chr1", "chr2"}, g.Names())

	n, err := g.Len("chr1")
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	n, err = g.Len("chr2")
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	for _, tc := range []struct {
		chrom  string
		pos    int
		strand byte
		want   byte
	}{
		{"chr1", 0, '+', 'A'},
		{"chr1", 3, '+', 'T'},
		{"chr1", 8, '+', 'A'},   // second line
		{"chr1", 10, '+', 'G'},  // lowercase in input
		{"chr1", 11, '+', 'T'},  // last base
		{"chr1", 0, '-', 'T'},   // complement
		{"chr1", 2, '-', 'C'},   // complement of G
		{"chr2", 0, '+', 'T'},
		{"chr2", 7, '+', 'G'},
		{"chr2", 7, '-', 'C'},
	} {
		got, err := g.Base(tc.chrom, tc.pos, tc.strand)
		require.NoError(t, err, "Base(%s, %d, %c)", tc.chrom, tc.pos, tc.strand)
		assert.Equal(t, string(tc.want), string(got), "Base(%s, %d, %c)", tc.chrom, tc.pos, tc.strand)
	}
}

func TestMemReferenceErrors(t *testing.T) {
	g, err := New(strings.NewReader(testFasta))
	require.NoError(t, err)

	_, err = g.Base("chr3", 0, '+')
	assert.Error(t, err)
	_, err = g.Base("chr1", 12, '+')
	assert.Error(t, err)
	_, err = g.Base("chr1", -1, '+')
	assert.Error(t, err)
	_, err = g.Base("chr1", 0, '*')
	assert.Error(t, err)
	_, err = g.Len("chr3")
	assert.Error(t, err)
}

func TestMalformedFasta(t *testing.T) {
	_, err := New(strings.NewReader("ACGT\n>chr1\nACGT\n"))
	assert.Error(t, err)
}

func TestIndexedReference(t *testing.T) {
	g, err := NewIndexed(bytes.NewReader([]byte(testFasta)), strings.NewReader(testFai))
	require.NoError(t, err)
	assert.Equal(t, []string{"chr1", "chr2"}, g.Names())

	mem, err := New(strings.NewReader(testFasta))
	require.NoError(t, err)

	// The indexed lookup must agree with the in-memory one everywhere.
	for _, chrom := range mem.Names() {
		n, err := mem.Len(chrom)
		require.NoError(t, err)
		for pos := 0; pos < n; pos++ {
			for _, strand := range []byte{'+', '-'} {
				want, err := mem.Base(chrom, pos, strand)
				require.NoError(t, err)
				got, err := g.Base(chrom, pos, strand)
				require.NoError(t, err, "Base(%s, %d, %c)", chrom, pos, strand)
				assert.Equal(t, string(want), string(got), "Base(%s, %d, %c)", chrom, pos, strand)
			}
		}
	}

	_, err = g.Base("chr1", 12, '+')
	assert.Error(t, err)
	_, err = g.Base("chrX", 0, '+')
	assert.Error(t, err)
}

func TestMalformedFai(t *testing.T) {
	_, err := NewIndexed(bytes.NewReader([]byte(testFasta)), strings.NewReader("chr1\t12\n"))
	assert.Error(t, err)
	_, err = NewIndexed(bytes.NewReader([]byte(testFasta)), strings.NewReader("chr1\t12\t23\t0\t9\n"))
	assert.Error(t, err)
}
