package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/govolunteer/govolunteer-api/internal/records"
)

// DefaultDataDir is used when no data directory is configured.
const DefaultDataDir = "~/.local/share/govolunteer-api"

// Storage reads and writes dataset files.
type Storage struct {
	dataDir string
	mu      sync.Mutex
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	if dataDir == "" {
		dataDir = DefaultDataDir
	}

	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path returns the file backing dataset name.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dataDir, filepath.Base(name)+".csv")
}

// Rows implements records.Source. A missing file means the dataset has not
// been synced and is reported as unavailable.
func (s *Storage) Rows(_ context.Context, name string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.read(name)
	if err != nil {
		return nil, records.Unavailable("dataset "+name, err)
	}
	return rows, nil
}

// WriteRows replaces the dataset file with rows.
func (s *Storage) WriteRows(name string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(name, rows)
}

// MarkPDFRequested is the file-backed counterpart of the spreadsheet update:
// the first row matching fullName and id gets email and PDF_Requested=TRUE.
func (s *Storage) MarkPDFRequested(_ context.Context, name, fullName, id, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.read(name)
	if err != nil {
		return false, records.Unavailable("dataset "+name, err)
	}

	table, err := records.NewTable(name, rows)
	if err != nil {
		return false, err
	}
	if err := table.Require(records.EmailColumn, records.PDFRequestedColumn); err != nil {
		return false, err
	}

	matches := table.MatchIndexes(fullName, id)
	if len(matches) == 0 {
		return false, nil
	}

	emailCol, _ := table.Column(records.EmailColumn)
	flagCol, _ := table.Column(records.PDFRequestedColumn)

	row := rows[matches[0]+1]
	if need := max(emailCol, flagCol) + 1; len(row) < need {
		row = append(row, make([]string, need-len(row))...)
	}
	row[emailCol] = email
	row[flagCol] = "TRUE"
	rows[matches[0]+1] = row

	if err := s.write(name, rows); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Storage) read(name string) ([][]string, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("dataset %q has not been synced", name)
		}
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	return rows, nil
}

func (s *Storage) write(name string, rows [][]string) error {
	path := s.Path(name)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating dataset file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing dataset file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing dataset file: %w", err)
	}
	return nil
}
