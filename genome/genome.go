// Package genome provides single-nucleotide lookups against a reference
// genome stored as an (optionally faidx-indexed) FASTA file.  The mutation
// validator uses it to check a MAF row's Reference_Allele against the build
// the coordinates claim to come from.
package genome

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Reference answers point queries against a reference genome.  Positions are
// 0-based.  Strand is '+' or '-'; minus-strand queries return the complement
// of the plus-strand base.  Implementations are safe for concurrent use.
type Reference interface {
	// Base returns the uppercased nucleotide at the given position.
	Base(chrom string, pos int, strand byte) (byte, error)

	// Len returns the length of the named sequence.
	Len(chrom string) (int, error)

	// Names returns all sequence names in file order.
	Names() []string
}

func complement(b byte) byte {
	switch b {
	case 'A':
		return 'T'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	case 'T':
		return 'A'
	}
	return b
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func orient(b byte, strand byte) (byte, error) {
	switch strand {
	case '+':
		return upper(b), nil
	case '-':
		return complement(upper(b)), nil
	}
	return 0, errors.Errorf("invalid strand %q", string(strand))
}

// memReference keeps every sequence in memory.  Fine for test genomes and
// single chromosomes; use NewIndexed for a whole human reference.
type memReference struct {
	seqs  map[string]string
	names []string
}

// New reads an entire FASTA stream into memory.  Sequence names are the
// characters after '>' up to the first space.
func New(r io.Reader) (Reference, error) {
	g := &memReference{seqs: map[string]string{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<28)
	var name string
	var seq strings.Builder
	flush := func() error {
		if seq.Len() == 0 {
			return nil
		}
		if name == "" {
			return errors.New("malformed FASTA: sequence data before any header")
		}
		g.seqs[name] = seq.String()
		g.names = append(g.names, name)
		seq.Reset()
		return nil
	}
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			name = strings.SplitN(line[1:], " ", 2)[0]
			continue
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading FASTA")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *memReference) Base(chrom string, pos int, strand byte) (byte, error) {
	s, ok := g.seqs[chrom]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", chrom)
	}
	if pos < 0 || pos >= len(s) {
		return 0, errors.Errorf("position %d out of range for %s (length %d)", pos, chrom, len(s))
	}
	return orient(s[pos], strand)
}

func (g *memReference) Len(chrom string) (int, error) {
	s, ok := g.seqs[chrom]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", chrom)
	}
	return len(s), nil
}

func (g *memReference) Names() []string { return g.names }

// faiEntry is one line of a samtools faidx index: sequence length, byte
// offset of the first base, bases per line, and bytes per line (bases plus
// line terminator).
type faiEntry struct {
	length    int
	offset    int64
	lineBase  int
	lineWidth int
}

type indexedReference struct {
	mu     sync.Mutex
	r      io.ReadSeeker
	seqs   map[string]faiEntry
	names  []string
	bufOff int64
	buf    []byte
}

// NewIndexed returns a Reference backed by an uncompressed FASTA and its
// .fai index, reading single bases on demand instead of loading sequences
// into memory.
func NewIndexed(fasta io.ReadSeeker, fai io.Reader) (Reference, error) {
	g := &indexedReference{r: fasta, seqs: map[string]faiEntry{}, bufOff: -1}
	scanner := bufio.NewScanner(fai)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			return nil, errors.Errorf("malformed fai line: %q", line)
		}
		var (
			ent faiEntry
			err error
		)
		if ent.length, err = strconv.Atoi(fields[1]); err != nil {
			return nil, errors.Wrapf(err, "fai line %q", line)
		}
		if ent.offset, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
			return nil, errors.Wrapf(err, "fai line %q", line)
		}
		if ent.lineBase, err = strconv.Atoi(fields[3]); err != nil {
			return nil, errors.Wrapf(err, "fai line %q", line)
		}
		if ent.lineWidth, err = strconv.Atoi(fields[4]); err != nil {
			return nil, errors.Wrapf(err, "fai line %q", line)
		}
		if ent.lineBase <= 0 || ent.lineWidth < ent.lineBase {
			return nil, errors.Errorf("inconsistent fai line: %q", line)
		}
		g.seqs[fields[0]] = ent
		g.names = append(g.names, fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading fai index")
	}
	return g, nil
}

const indexedBufSize = 8192

// readByte fetches one byte of the FASTA, refilling the cache window around
// it when the offset falls outside the current window.
func (g *indexedReference) readByte(off int64) (byte, error) {
	if g.bufOff < 0 || off < g.bufOff || off >= g.bufOff+int64(len(g.buf)) {
		if _, err := g.r.Seek(off, io.SeekStart); err != nil {
			return 0, errors.Wrapf(err, "seek to %d", off)
		}
		if cap(g.buf) < indexedBufSize {
			g.buf = make([]byte, indexedBufSize)
		}
		g.buf = g.buf[:cap(g.buf)]
		n, err := g.r.Read(g.buf)
		if n == 0 {
			if err == nil || err == io.EOF {
				return 0, errors.New("unexpected end of FASTA (stale index?)")
			}
			return 0, err
		}
		g.buf = g.buf[:n]
		g.bufOff = off
	}
	return g.buf[off-g.bufOff], nil
}

func (g *indexedReference) Base(chrom string, pos int, strand byte) (byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ent, ok := g.seqs[chrom]
	if !ok {
		return 0, errors.Errorf("sequence not found in index: %s", chrom)
	}
	if pos < 0 || pos >= ent.length {
		return 0, errors.Errorf("position %d out of range for %s (length %d)", pos, chrom, ent.length)
	}
	off := ent.offset + int64((pos/ent.lineBase)*ent.lineWidth+pos%ent.lineBase)
	b, err := g.readByte(off)
	if err != nil {
		return 0, err
	}
	return orient(b, strand)
}

func (g *indexedReference) Len(chrom string) (int, error) {
	ent, ok := g.seqs[chrom]
	if !ok {
		return 0, errors.Errorf("sequence not found in index: %s", chrom)
	}
	return ent.length, nil
}

func (g *indexedReference) Names() []string { return g.names }
