package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/plague/internal/plague"
	"github.com/san-kum/plague/internal/sim"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
)

var (
	ErrMalformedHistory = errors.New("storage: malformed history file")
	ErrNonFinite        = errors.New("storage: non-finite run value")
)

var historyHeader = []string{"day", "percentage", "rate", "control"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Controller  string             `json:"controller"`
	Params      map[string]float64 `json:"params,omitempty"`
	Steps       int                `json:"steps"`
	Days        float64            `json:"days"`
	SteadyState int                `json:"steady_state"`
	Cost        float64            `json:"cost"`
	Tolerance   float64            `json:"tolerance"`
	Window      int                `json:"window"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata.json and history.csv and
// returns the run id.
func (s *Store) Save(controller string, params map[string]float64, cfg sim.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", controller, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := checkFinite(params, result); err != nil {
		return "", err
	}
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	steps := result.History.Len() - 1
	meta := RunMetadata{
		ID:          runID,
		Timestamp:   now,
		Controller:  controller,
		Params:      params,
		Steps:       steps,
		Days:        plague.Day(steps),
		SteadyState: result.SteadyState,
		Cost:        result.Cost,
		Tolerance:   cfg.Tolerance,
		Window:      cfg.Window,
		Metrics:     result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeHistory(filepath.Join(runDir, historyFile), result.History); err != nil {
		return "", err
	}

	return runID, nil
}

// checkFinite rejects values metadata.json cannot encode. The history
// itself is CSV and keeps NaN and Inf as written.
func checkFinite(params map[string]float64, result *sim.Result) error {
	bad := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }

	if bad(result.Cost) {
		return fmt.Errorf("%w: cost = %v", ErrNonFinite, result.Cost)
	}
	for _, name := range sortedKeys(result.Metrics) {
		if v := result.Metrics[name]; bad(v) {
			return fmt.Errorf("%w: metric %s = %v", ErrNonFinite, name, v)
		}
	}
	for _, name := range sortedKeys(params) {
		if v := params[name]; bad(v) {
			return fmt.Errorf("%w: param %s = %v", ErrNonFinite, name, v)
		}
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeHistory(path string, h plague.History) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(historyHeader); err != nil {
		return err
	}

	for i := 0; i < h.Len(); i++ {
		row := []string{
			strconv.FormatFloat(plague.Day(i), 'f', 1, 64),
			strconv.FormatFloat(h.Percentages[i], 'g', -1, 64),
			strconv.FormatFloat(h.Rates[i], 'g', -1, 64),
			strconv.FormatFloat(h.Controls[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// List returns the metadata of every readable run, oldest first.
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
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadHistory reads the stored curves back. Values are written with full
// precision, so a loaded history is bit-identical to the saved one.
func (s *Store) LoadHistory(runID string) (plague.History, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return plague.History{}, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(historyHeader)

	records, err := r.ReadAll()
	if err != nil {
		return plague.History{}, fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}
	if len(records) < 2 {
		return plague.History{}, plague.ErrEmptyHistory
	}

	steps := make([]plague.Step, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [3]float64
		for j := range vals {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return plague.History{}, fmt.Errorf("%w: row %d: %v", ErrMalformedHistory, i+1, err)
			}
			vals[j] = v
		}
		steps = append(steps, plague.Step{Percentage: vals[0], Rate: vals[1], Control: vals[2]})
	}

	return plague.NewHistory(steps), nil
}
