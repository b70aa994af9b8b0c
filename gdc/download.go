package gdc

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"

	"github.com/codexome/mutcount/maf"
)

// Fetcher downloads MAF files into a directory tree grouped by cancer type
// and accumulates a manifest row per file.
type Fetcher struct {
	Client *Client
	// OutputDir is the root of the download tree.
	OutputDir string

	entries []maf.Entry
}

// Entries returns the manifest rows accumulated so far.
func (f *Fetcher) Entries() []maf.Entry { return f.entries }

// Fetch downloads the file described by fi: the gzipped MAF is streamed to
// disk, its MD5 is checked against the query metadata, and the payload is
// uncompressed in place with the .gz suffix stripped.  A file whose
// uncompressed form already exists is skipped.  Every call records a
// manifest row whose download_status is "success", "already_exists", or
// "failed: ..." and whose file_path points at the uncompressed MAF.
func (f *Fetcher) Fetch(ctx context.Context, fi FileInfo) error {
	cancerType := fi.CancerType()
	relPath := cancerType + "/" + fi.FileName
	finalRel := strings.TrimSuffix(relPath, ".gz")
	finalPath := filepath.Join(f.OutputDir, filepath.FromSlash(finalRel))

	if _, err := os.Stat(finalPath); err == nil {
		log.Printf("gdc: skipping %s (already exists)", fi.FileName)
		f.entries = append(f.entries, fi.ManifestEntry(finalRel, "already_exists"))
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(finalPath), 0777); err != nil {
		return err
	}

	err := f.download(ctx, fi, finalPath)
	if err != nil {
		log.Error.Printf("gdc: failed to download %s: %v", fi.FileName, err)
		f.entries = append(f.entries, fi.ManifestEntry(finalRel, "failed: "+err.Error()))
		return err
	}
	log.Printf("gdc: downloaded %s", fi.FileName)
	f.entries = append(f.entries, fi.ManifestEntry(finalRel, "success"))
	return nil
}

// download streams /data/{id} through an MD5 check and a gzip decoder into
// dst.  The temporary output is renamed into place only after the whole
// payload decodes cleanly.
func (f *Fetcher) download(ctx context.Context, fi FileInfo, dst string) error {
	tmp := dst + ".partial"
	err := f.Client.do(ctx, f.Client.baseURL()+"/data/"+fi.FileID, func(body io.Reader) (err error) {
		out, err := os.Create(tmp)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := out.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		digest := md5.New()
		src := io.Reader(io.TeeReader(body, digest))
		if strings.HasSuffix(fi.FileName, ".gz") {
			gz, err := gzip.NewReader(src)
			if err != nil {
				return errors.E(err, fi.FileName, "is not valid gzip")
			}
			defer gz.Close()
			src = gz
		}
		if _, err := io.Copy(out, src); err != nil {
			return err
		}
		if fi.MD5Sum != "" {
			if sum := hex.EncodeToString(digest.Sum(nil)); sum != fi.MD5Sum {
				return errors.E("md5 mismatch for", fi.FileName, "got", sum, "want", fi.MD5Sum)
			}
		}
		return nil
	})
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

// FetchAll queries for up to n files and downloads each of them.  Download
// failures are recorded in the manifest but do not stop the remaining
// files; the returned error reports how many failed.
func (f *Fetcher) FetchAll(ctx context.Context, n int) error {
	files, err := f.Client.Query(ctx, n)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		log.Printf("gdc: no MAF files found")
		return nil
	}
	log.Printf("gdc: downloading %d files to %s", len(files), f.OutputDir)
	nFailed := 0
	for i, fi := range files {
		log.Printf("gdc: [%d/%d] %s: %s (%.2f MB)",
			i+1, len(files), fi.CancerType(), fi.FileName, float64(fi.FileSize)/(1<<20))
		if err := f.Fetch(ctx, fi); err != nil {
			nFailed++
		}
	}
	if nFailed > 0 {
		return errors.E(nFailed, "of", len(files), "downloads failed")
	}
	return nil
}

// WriteManifest saves the accumulated manifest under the output directory.
func (f *Fetcher) WriteManifest(name string) error {
	return maf.WriteManifestToPath(filepath.Join(f.OutputDir, name), f.entries)
}
