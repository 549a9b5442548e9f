package catalog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cardiaccare/cardiaccare-api/logging"
	"golang.org/x/text/encoding/charmap"
)

// DefaultSourceURL is the BDPM specialites file the catalog is built from.
const DefaultSourceURL = "https://base-donnees-publique.medicaments.gouv.fr/download/file/CIS_bdpm.txt"

// Downloader fetches the catalog from a fixed source URL.
type Downloader struct {
	url string
}

// NewDownloader returns a Downloader for the given source URL. An empty URL
// falls back to DefaultSourceURL.
func NewDownloader(url string) *Downloader {
	if url == "" {
		url = DefaultSourceURL
	}
	return &Downloader{url: url}
}

// FetchProducts downloads and parses the configured source file.
func (d *Downloader) FetchProducts(ctx context.Context) ([]Product, error) {
	return FetchProducts(ctx, d.url)
}

// FetchProducts downloads and parses the catalog source file.
func FetchProducts(ctx context.Context, url string) ([]Product, error) {
	client := &http.Client{
		Timeout: 5 * time.Minute,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	response, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer func() {
		if err := response.Body.Close(); err != nil {
			logging.Warn("Failed to close catalog response body", "error", err)
		}
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog download returned status %d", response.StatusCode)
	}

	bodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	// The upstream file is sometimes ISO-8859-1 and sometimes UTF-8, so sniff
	// before decoding.
	var reader io.Reader
	if utf8.Valid(bodyBytes) {
		reader = bytes.NewReader(bodyBytes)
	} else {
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	}

	return ParseProducts(reader)
}

// ParseProducts reads the tab-separated specialites feed. Malformed lines are
// skipped and counted rather than failing the whole refresh.
func ParseProducts(r io.Reader) ([]Product, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0), 1*1024*1024)

	var products []Product
	skippedMissingColumns := 0
	skippedFormatErrors := 0

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 4 {
			skippedMissingColumns++
			continue
		}

		cis, err := strconv.Atoi(fields[0])
		if err != nil {
			skippedFormatErrors++
			continue
		}

		label := strings.TrimSpace(fields[1])
		if label == "" {
			skippedFormatErrors++
			continue
		}

		products = append(products, Product{
			CIS:    cis,
			Label:  label,
			Form:   strings.TrimSpace(fields[2]),
			Routes: strings.Split(fields[3], ";"),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error in catalog feed: %w", err)
	}

	if skippedMissingColumns > 0 || skippedFormatErrors > 0 {
		logging.Warn("Skipped malformed catalog lines",
			"missing_columns", skippedMissingColumns,
			"format_errors", skippedFormatErrors)
	}

	logging.Info("Catalog feed parsed", "product_count", len(products))
	return products, nil
}
