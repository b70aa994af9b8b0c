// Package gdc fetches open-access MAF files from the NCI Genomic Data
// Commons.  It queries the /files endpoint for MAF-format open-access
// files, downloads each one via /data/{id}, verifies its checksum,
// uncompresses it, and records a manifest row per file for the validator.
package gdc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/retry"

	"github.com/codexome/mutcount/maf"
)

// DefaultBaseURL is the production GDC API endpoint.
const DefaultBaseURL = "https://api.gdc.cancer.gov"

// queryFields are the file and case attributes requested from /files.
const queryFields = "file_id,file_name,file_size,md5sum,data_type,data_category," +
	"experimental_strategy,cases.project.project_id,cases.project.name," +
	"cases.case_id,cases.submitter_id,cases.disease_type,cases.primary_site," +
	"analysis.workflow_type,created_datetime,updated_datetime"

// FileInfo is one hit from the /files endpoint.
type FileInfo struct {
	FileID               string     `json:"file_id"`
	FileName             string     `json:"file_name"`
	FileSize             int64      `json:"file_size"`
	MD5Sum               string     `json:"md5sum"`
	DataType             string     `json:"data_type"`
	DataCategory         string     `json:"data_category"`
	ExperimentalStrategy string     `json:"experimental_strategy"`
	Analysis             Analysis   `json:"analysis"`
	Cases                []CaseInfo `json:"cases"`
	CreatedDatetime      string     `json:"created_datetime"`
	UpdatedDatetime      string     `json:"updated_datetime"`
}

type Analysis struct {
	WorkflowType string `json:"workflow_type"`
}

type CaseInfo struct {
	CaseID      string      `json:"case_id"`
	SubmitterID string      `json:"submitter_id"`
	DiseaseType string      `json:"disease_type"`
	PrimarySite string      `json:"primary_site"`
	Project     ProjectInfo `json:"project"`
}

type ProjectInfo struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
}

// Case returns the file's first case, or a zero CaseInfo when the file has
// none attached.
func (fi FileInfo) Case() CaseInfo {
	if len(fi.Cases) == 0 {
		return CaseInfo{}
	}
	return fi.Cases[0]
}

// CancerType is the label files are grouped under on disk: the first case's
// disease type, falling back to its primary site, with path-hostile
// characters replaced.
func (fi FileInfo) CancerType() string {
	c := fi.Case()
	label := c.DiseaseType
	if label == "" {
		label = c.PrimarySite
	}
	if label == "" {
		return "Unknown"
	}
	out := make([]byte, len(label))
	for i := 0; i < len(label); i++ {
		switch label[i] {
		case '/', ' ':
			out[i] = '_'
		default:
			out[i] = label[i]
		}
	}
	return string(out)
}

// ManifestEntry builds the manifest row for a downloaded file.
func (fi FileInfo) ManifestEntry(filePath, status string) maf.Entry {
	c := fi.Case()
	return maf.Entry{
		FilePath:             filePath,
		FileID:               fi.FileID,
		DataType:             fi.DataType,
		DataCategory:         fi.DataCategory,
		ExperimentalStrategy: fi.ExperimentalStrategy,
		WorkflowType:         fi.Analysis.WorkflowType,
		ProjectID:            c.Project.ProjectID,
		ProjectName:          c.Project.Name,
		DiseaseType:          c.DiseaseType,
		PrimarySite:          c.PrimarySite,
		CaseID:               c.CaseID,
		CaseSubmitterID:      c.SubmitterID,
		DownloadStatus:       status,
	}
}

// Client talks to the GDC API.
type Client struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// HTTPClient defaults to a client with a 15 minute timeout; MAF
	// downloads can run long.
	HTTPClient *http.Client
	// Retries is the number of attempts per request.  Defaults to 5.
	Retries int
	// Policy spaces out retries.  Defaults to exponential backoff from
	// 500ms.
	Policy retry.Policy
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Minute}
}

func (c *Client) retries() int {
	if c.Retries > 0 {
		return c.Retries
	}
	return 5
}

func (c *Client) policy() retry.Policy {
	if c.Policy != nil {
		return c.Policy
	}
	return retry.Backoff(500*time.Millisecond, 30*time.Second, 2)
}

// mafFilters is the /files filter expression selecting open-access MAFs.
func mafFilters() string {
	type leaf struct {
		Field string   `json:"field"`
		Value []string `json:"value"`
	}
	type clause struct {
		Op      string `json:"op"`
		Content leaf   `json:"content"`
	}
	filters := struct {
		Op      string   `json:"op"`
		Content []clause `json:"content"`
	}{
		Op: "and",
		Content: []clause{
			{Op: "in", Content: leaf{Field: "data_format", Value: []string{"MAF"}}},
			{Op: "in", Content: leaf{Field: "access", Value: []string{"open"}}},
		},
	}
	b, err := json.Marshal(filters)
	if err != nil {
		panic(err)
	}
	return string(b)
}

type filesResponse struct {
	Data struct {
		Hits []FileInfo `json:"hits"`
	} `json:"data"`
}

// Query asks the GDC for up to n open-access MAF files.
func (c *Client) Query(ctx context.Context, n int) ([]FileInfo, error) {
	params := url.Values{}
	params.Set("filters", mafFilters())
	params.Set("fields", queryFields)
	params.Set("format", "JSON")
	params.Set("size", strconv.Itoa(n))
	u := c.baseURL() + "/files?" + params.Encode()

	var body []byte
	err := c.do(ctx, u, func(r io.Reader) error {
		var err error
		body, err = ioutil.ReadAll(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	var resp filesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.E(err, "decoding GDC /files response")
	}
	return resp.Data.Hits, nil
}

// do issues a GET with retries, handing the response body to fn on success.
// Non-2xx statuses count as failures and are retried.
func (c *Client) do(ctx context.Context, u string, fn func(io.Reader) error) error {
	var lastErr error
	for attempt := 0; attempt < c.retries(); attempt++ {
		if attempt > 0 {
			if err := retry.Wait(ctx, c.policy(), attempt-1); err != nil {
				return err
			}
		}
		lastErr = c.doOnce(ctx, u, fn)
		if lastErr == nil {
			return nil
		}
	}
	return errors.E(lastErr, fmt.Sprintf("GET %s: giving up after %d attempts", u, c.retries()))
}

func (c *Client) doOnce(ctx context.Context, u string, fn func(io.Reader) error) error {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.E("GDC returned status", resp.Status)
	}
	return fn(resp.Body)
}
