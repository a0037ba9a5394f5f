package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/golang/geo/r2"
	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/geom"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "states.csv"
	ballsFile    = "balls.json"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was configured.
type RunInfo struct {
	Preset   string      `json:"preset"`
	Seed     int64       `json:"seed"`
	Dt       float64     `json:"dt"`
	Duration float64     `json:"duration"`
	Gravity  float64     `json:"gravity"`
	Damping  float64     `json:"damping"`
	Boundary geom.Circle `json:"boundary"`
}

type RunMetadata struct {
	RunInfo
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Steps      int                `json:"steps"`
	Collisions int                `json:"collisions"`
	Balls      int                `json:"balls"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (s *Store) Save(info RunInfo, result *dynamo.Result) (string, error) {
	now := time.Now()
	base := fmt.Sprintf("%s_%d", info.Preset, now.Unix())
	runID := base
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, runID)); os.IsNotExist(err) {
			break
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		RunInfo:    info,
		ID:         runID,
		Timestamp:  now,
		Steps:      result.StepsTaken,
		Collisions: result.Collisions,
		Balls:      len(result.Final),
		Metrics:    result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, ballsFile), result.Final); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Samples); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var sampleHeader = []string{"time", "balls", "kinetic", "px", "py", "collisions"}

func writeSamples(path string, samples []dynamo.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, samples)
}

// WriteCSV writes samples with a header row in the states.csv layout.
func WriteCSV(out io.Writer, samples []dynamo.Sample) error {
	w := csv.NewWriter(out)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			strconv.FormatFloat(smp.Time, 'f', 6, 64),
			strconv.Itoa(smp.Balls),
			strconv.FormatFloat(smp.Kinetic, 'f', 6, 64),
			strconv.FormatFloat(smp.Momentum.X, 'f', 6, 64),
			strconv.FormatFloat(smp.Momentum.Y, 'f', 6, 64),
			strconv.Itoa(smp.Collisions),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns stored runs, oldest first.
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

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) open(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
	}
	return data, err
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := s.open(runID, metadataFile)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	return &meta, nil
}

// LoadBalls returns the balls as they were at the end of the run.
func (s *Store) LoadBalls(runID string) ([]dynamo.Ball, error) {
	data, err := s.open(runID, ballsFile)
	if err != nil {
		return nil, err
	}
	var balls []dynamo.Ball
	if err := json.Unmarshal(data, &balls); err != nil {
		return nil, fmt.Errorf("decode balls: %w", err)
	}
	return balls, nil
}

func (s *Store) LoadSamples(runID string) ([]dynamo.Sample, error) {
	csvPath := filepath.Join(s.baseDir, runID, samplesFile)
	file, err := os.Open(csvPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	samples := make([]dynamo.Sample, 0, len(records))
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < len(sampleHeader) {
			continue
		}

		var f [4]float64
		ok := true
		for j, col := range []int{0, 2, 3, 4} {
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				ok = false
				break
			}
			f[j] = v
		}
		balls, errB := strconv.Atoi(record[1])
		hits, errC := strconv.Atoi(record[5])
		if !ok || errB != nil || errC != nil {
			continue
		}

		samples = append(samples, dynamo.Sample{
			Time:       f[0],
			Balls:      balls,
			Kinetic:    f[1],
			Momentum:   r2.Point{X: f[2], Y: f[3]},
			Collisions: hits,
		})
	}

	return samples, nil
}
