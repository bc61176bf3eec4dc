package storage

import (
	"github.com/san-kum/robosim/internal/dynamo"
)

// ExportData is the JSON form of a whole run.
type ExportData struct {
	RunMetadata
	Times  []float64        `json:"times"`
	Frames [][]dynamo.Frame `json:"frames"`
}

// ExportJSON writes the metadata and trajectory of runID to path.
func (s *Store) ExportJSON(runID, path string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	data := ExportData{RunMetadata: *meta, Frames: frames}
	if len(frames) > 0 {
		data.Times = make([]float64, len(frames[0]))
		for i, f := range frames[0] {
			data.Times[i] = f.T
		}
	}
	return writeJSON(path, data)
}
