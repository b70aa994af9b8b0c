package gdc

import (
	"sort"

	"github.com/grailbio/base/log"
)

// TypeStats counts the files and bytes available for one cancer type.
type TypeStats struct {
	Count int
	Bytes int64
}

// Summary aggregates a query result by cancer type.
type Summary struct {
	TotalFiles int
	TotalBytes int64
	ByType     map[string]TypeStats
}

// Summarize groups the query hits by cancer type.
func Summarize(files []FileInfo) Summary {
	s := Summary{ByType: map[string]TypeStats{}}
	for _, fi := range files {
		ct := fi.CancerType()
		st := s.ByType[ct]
		st.Count++
		st.Bytes += fi.FileSize
		s.ByType[ct] = st
		s.TotalFiles++
		s.TotalBytes += fi.FileSize
	}
	return s
}

// Log writes the summary as one line per cancer type, sorted by name.
func (s Summary) Log() {
	log.Printf("gdc: %d MAF files available, %.2f GB total", s.TotalFiles, float64(s.TotalBytes)/(1<<30))
	names := make([]string, 0, len(s.ByType))
	for name := range s.ByType {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		st := s.ByType[name]
		log.Printf("gdc:   %s: %d files (%.2f GB)", name, st.Count, float64(st.Bytes)/(1<<30))
	}
}
