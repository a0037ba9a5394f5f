package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ballsim/internal/dynamo"
)

type ExportSample struct {
	Time       float64 `json:"t"`
	Balls      int     `json:"balls"`
	Kinetic    float64 `json:"kinetic"`
	MomentumX  float64 `json:"px"`
	MomentumY  float64 `json:"py"`
	Collisions int     `json:"collisions"`
}

type ExportData struct {
	Run     RunMetadata    `json:"run"`
	Steps   int            `json:"steps"`
	Samples []ExportSample `json:"samples"`
	Final   []dynamo.Ball  `json:"final"`
}

// Export gathers everything stored for runID into one document.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return nil, err
	}
	balls, err := s.LoadBalls(runID)
	if err != nil {
		return nil, err
	}

	data := &ExportData{
		Run:     *meta,
		Steps:   meta.Steps,
		Samples: make([]ExportSample, len(samples)),
		Final:   balls,
	}
	for i, smp := range samples {
		data.Samples[i] = ExportSample{
			Time:       smp.Time,
			Balls:      smp.Balls,
			Kinetic:    smp.Kinetic,
			MomentumX:  smp.Momentum.X,
			MomentumY:  smp.Momentum.Y,
			Collisions: smp.Collisions,
		}
	}
	return data, nil
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes the run to path, or to stdout when path is "-" or empty.
func (s *Store) ExportJSON(runID, path string) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}
	if path == "" || path == "-" {
		return WriteJSON(os.Stdout, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}
