package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jask/rangmanch/internal/catalog"
	"github.com/jask/rangmanch/internal/database/repository"
	"github.com/jask/rangmanch/internal/library"
)

// IngestService imports catalogs from YAML or CSV files.
type IngestService struct {
	Content *repository.ContentRepo
}

type IngestResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

// ImportFile picks the format from the file extension. YAML files replace the
// catalog as a whole and fail on any invalid item; CSV files merge row by row.
func (s *IngestService) ImportFile(ctx context.Context, path string) (IngestResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		items, err := catalog.LoadFile(path)
		if err != nil {
			return IngestResult{}, err
		}
		if err := s.Content.ReplaceAll(ctx, items); err != nil {
			return IngestResult{}, fmt.Errorf("replace catalog: %w", err)
		}
		return IngestResult{Imported: len(items)}, nil
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return IngestResult{}, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return s.ImportCSV(ctx, f)
	}
	return IngestResult{}, fmt.Errorf("%w: unsupported catalog format %q", ErrInvalidRequest, filepath.Ext(path))
}

// CSV columns: id, title, type, date (YYYY-MM-DD), status, views, thumbnail.
// A leading header row is skipped. Thumbnail may be omitted. Rows whose id
// already appeared earlier in the file are skipped.
func (s *IngestService) ImportCSV(ctx context.Context, r io.Reader) (IngestResult, error) {
	res := IngestResult{}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	seen := map[int]bool{}
	line := 0
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "id") {
			continue
		}
		if len(rec) < 6 {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: expected at least 6 columns", line))
			continue
		}
		item, err := parseItemRecord(rec)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d %w", line, err))
			continue
		}
		if seen[item.ID] {
			res.Skipped++
			continue
		}
		seen[item.ID] = true
		if err := s.Content.Upsert(ctx, item); err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d insert: %w", line, err))
			continue
		}
		res.Imported++
	}
	return res, nil
}

func parseItemRecord(rec []string) (library.ContentItem, error) {
	id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	if err != nil || id <= 0 {
		return library.ContentItem{}, fmt.Errorf("id: invalid value %q", rec[0])
	}
	title := strings.TrimSpace(rec[1])
	if title == "" {
		return library.ContentItem{}, fmt.Errorf("title: required")
	}
	date, err := library.ParseDate(strings.TrimSpace(rec[3]))
	if err != nil {
		return library.ContentItem{}, fmt.Errorf("date: %w", err)
	}
	views, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(rec[5]), ",", ""))
	if err != nil || views < 0 {
		return library.ContentItem{}, fmt.Errorf("views: invalid value %q", rec[5])
	}
	item := library.ContentItem{
		ID:     id,
		Title:  title,
		Type:   strings.TrimSpace(rec[2]),
		Date:   date,
		Status: strings.TrimSpace(rec[4]),
		Views:  views,
	}
	if len(rec) > 6 {
		item.Thumbnail = strings.TrimSpace(rec[6])
	}
	return item, nil
}
