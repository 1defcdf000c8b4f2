package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/numlab/internal/viz"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	log     logrus.FieldLogger
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, log: logrus.StandardLogger(), now: time.Now}
}

// WithLogger replaces the default logrus standard logger.
func (s *Store) WithLogger(log logrus.FieldLogger) *Store {
	s.log = log
	return s
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// FigureMeta describes a figure saved as <Name>.csv next to the metadata.
type FigureMeta struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	XLabel string   `json:"xlabel"`
	YLabel string   `json:"ylabel"`
	Points []string `json:"points,omitempty"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Study     string             `json:"study"`
	Preset    string             `json:"preset,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Summary   map[string]float64 `json:"summary"`
	Figures   []FigureMeta       `json:"figures"`
}

// Save records one study run and returns its ID.
func (s *Store) Save(study, preset string, summary map[string]float64, figures []*viz.Figure) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%d", study, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Study:     study,
		Preset:    preset,
		Timestamp: now,
		Summary:   make(map[string]float64, len(summary)),
		Figures:   make([]FigureMeta, 0, len(figures)),
	}
	// JSON has no NaN or Inf.
	for k, v := range summary {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.log.WithFields(logrus.Fields{"run": runID, "key": k}).Warn("dropping non-finite summary value")
			continue
		}
		meta.Summary[k] = v
	}

	for _, f := range figures {
		fm := FigureMeta{Name: f.Name, Title: f.Title, XLabel: f.XLabel, YLabel: f.YLabel}
		for _, sr := range f.Series {
			if sr.Marker == viz.Crosses {
				fm.Points = append(fm.Points, sr.Name)
			}
		}
		meta.Figures = append(meta.Figures, fm)

		if err := writeFigureCSV(filepath.Join(runDir, f.Name+".csv"), f); err != nil {
			return "", fmt.Errorf("storage: figure %s: %w", f.Name, err)
		}
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{"run": runID, "figures": len(figures)}).Debug("run saved")
	return runID, nil
}

func writeFigureCSV(path string, f *viz.Figure) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"series", "x", "y"}); err != nil {
		return err
	}
	for _, sr := range f.Series {
		for i := range sr.X {
			row := []string{
				sr.Name,
				strconv.FormatFloat(sr.X[i], 'g', -1, 64),
				strconv.FormatFloat(sr.Y[i], 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.WithError(err).WithField("run", entry.Name()).Warn("skipping unreadable run")
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s metadata: %w", runID, err)
	}

	return &meta, nil
}

// LoadFigure rebuilds a saved figure. Series keep their first-seen order.
func (s *Store) LoadFigure(runID, name string) (*viz.Figure, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	var fm *FigureMeta
	for i := range meta.Figures {
		if meta.Figures[i].Name == name {
			fm = &meta.Figures[i]
			break
		}
	}
	if fm == nil {
		return nil, fmt.Errorf("storage: run %s has no figure %q", runID, name)
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, name+".csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("storage: %s/%s.csv: %w", runID, name, err)
	}

	fig := viz.NewFigure(fm.Name, fm.Title, fm.XLabel, fm.YLabel)
	index := make(map[string]int)
	for i, rec := range records {
		if i == 0 {
			continue
		}
		x, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: %s/%s.csv line %d: %w", runID, name, i+1, err)
		}
		y, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("storage: %s/%s.csv line %d: %w", runID, name, i+1, err)
		}

		k, ok := index[rec[0]]
		if !ok {
			k = len(fig.Series)
			index[rec[0]] = k
			sr := viz.Series{Name: rec[0]}
			if contains(fm.Points, rec[0]) {
				sr.Marker = viz.Crosses
			}
			fig.Series = append(fig.Series, sr)
		}
		fig.Series[k].X = append(fig.Series[k].X, x)
		fig.Series[k].Y = append(fig.Series[k].Y, y)
	}
	return fig, nil
}

// FigurePath returns the CSV file backing a saved figure.
func (s *Store) FigurePath(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name+".csv")
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// ExportData is a whole run in one JSON document.
type ExportData struct {
	RunMetadata
	Data map[string][]ExportSeries `json:"data"`
}

type ExportSeries struct {
	Name string    `json:"name"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

// ExportJSON writes the run metadata and every figure's data to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}

	data := ExportData{RunMetadata: *meta, Data: make(map[string][]ExportSeries)}
	for _, fm := range meta.Figures {
		fig, err := s.LoadFigure(runID, fm.Name)
		if err != nil {
			return err
		}
		for _, sr := range fig.Series {
			// encoding/json has no NaN or Inf.
			sr = sr.Finite()
			data.Data[fm.Name] = append(data.Data[fm.Name], ExportSeries{Name: sr.Name, X: sr.X, Y: sr.Y})
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
