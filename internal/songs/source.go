package songs

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// ParseCSV reads a header row followed by data rows.
// Short rows are allowed; their missing cells read as empty.
func ParseCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parsing CSV: %w", err)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("parsing CSV: no header row")
	}
	return Table{Header: rows[0], Rows: rows[1:]}, nil
}

// FileSource reads the song table from a local CSV file.
type FileSource struct {
	Path string
}

// Table opens and parses the CSV file.
func (s FileSource) Table(_ context.Context) (Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return Table{}, fmt.Errorf("opening %s: %w", s.Path, err)
	}
	defer f.Close()

	return ParseCSV(f)
}

func (s FileSource) String() string {
	return "file:" + s.Path
}

// HTTPSource fetches the song table as CSV over HTTP.
// URL may be relative; it is then resolved against Base.
type HTTPSource struct {
	URL    string
	Base   string
	Client *http.Client
}

// NewHTTPSource creates an HTTPSource with a 30 second client timeout.
func NewHTTPSource(rawURL, base string) *HTTPSource {
	return &HTTPSource{
		URL:  rawURL,
		Base: base,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Table downloads and parses the CSV document.
func (s *HTTPSource) Table(ctx context.Context) (Table, error) {
	target, err := s.resolve()
	if err != nil {
		return Table{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Table{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return Table{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Table{}, fmt.Errorf("fetching %s: unexpected status %s", target, resp.Status)
	}

	return ParseCSV(resp.Body)
}

func (s *HTTPSource) String() string {
	return "http:" + s.URL
}

// resolve returns the absolute URL of the table.
func (s *HTTPSource) resolve() (string, error) {
	ref, err := url.Parse(s.URL)
	if err != nil {
		return "", fmt.Errorf("parsing source URL: %w", err)
	}
	if ref.IsAbs() || s.Base == "" {
		return ref.String(), nil
	}

	base, err := url.Parse(s.Base)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}
