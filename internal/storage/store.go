package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/san-kum/robosim/internal/dynamo"
	"github.com/san-kum/robosim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
	fixedColumns = 9 // time, agent, x, y, theta, v_l, v_r, ticks_l, ticks_r
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

type RunMetadata struct {
	ID          string               `json:"id"`
	Profile     string               `json:"profile"`
	ProfileHash string               `json:"profile_hash"`
	Timestamp   time.Time            `json:"timestamp"`
	Dt          float64              `json:"dt"`
	Duration    float64              `json:"duration"`
	Steps       int                  `json:"steps"`
	Agents      int                  `json:"agents"`
	Sensors     int                  `json:"sensors"`
	Integrator  string               `json:"integrator"`
	Supervisor  string               `json:"supervisor"`
	Metrics     []map[string]float64 `json:"metrics"`
}

// Fingerprint hashes the JSON encoding of v, so runs made with identical
// robot specs can be grouped.
func Fingerprint(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

// Save writes the metadata and every agent's trajectory. ID, Timestamp and
// the counts in meta are filled in from the result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = fmt.Sprintf("%s_%s", meta.Profile, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Steps = result.StepsTaken
	meta.Agents = len(result.Frames)
	meta.Metrics = finiteMetrics(result.Metrics)
	if len(result.Frames) > 0 && len(result.Frames[0]) > 0 {
		meta.Sensors = len(result.Frames[0][0].Readings)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), meta.Sensors, result); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// finiteMetrics drops values JSON cannot carry, such as the +Inf clearance
// of a robot without sensors.
func finiteMetrics(in []map[string]float64) []map[string]float64 {
	out := make([]map[string]float64, len(in))
	for i, m := range in {
		out[i] = make(map[string]float64, len(m))
		for k, v := range m {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				out[i][k] = v
			}
		}
	}
	return out
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

func writeStates(path string, sensors int, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time", "agent", "x", "y", "theta", "v_l", "v_r", "ticks_l", "ticks_r"}
	for i := 0; i < sensors; i++ {
		header = append(header, fmt.Sprintf("ir%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for agent, frames := range result.Frames {
		for _, fr := range frames {
			if err := w.Write(frameRow(agent, fr)); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func frameRow(agent int, fr dynamo.Frame) []string {
	row := []string{
		formatFloat(fr.T),
		strconv.Itoa(agent),
		formatFloat(fr.Pose.X),
		formatFloat(fr.Pose.Y),
		formatFloat(fr.Pose.Theta),
		formatFloat(fr.VL),
		formatFloat(fr.VR),
	}
	for i := 0; i < 2; i++ {
		tick := 0
		if i < len(fr.Ticks) {
			tick = fr.Ticks[i]
		}
		row = append(row, strconv.Itoa(tick))
	}
	for _, d := range fr.Readings {
		row = append(row, formatFloat(d))
	}
	return row
}

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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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

// StatesPath is where the run's CSV trajectory lives.
func (s *Store) StatesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, statesFile)
}

// LoadTrajectory reads back the frames of every agent, indexed by agent. Rows
// naming an agent beyond the count in the run's metadata are rejected.
func (s *Store) LoadTrajectory(runID string) ([][]dynamo.Frame, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(s.StatesPath(runID))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	frames := make([][]dynamo.Frame, meta.Agents)
	for i := 1; i < len(records); i++ {
		agent, fr, err := parseRow(records[i])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", statesFile, i+1, err)
		}
		if agent >= meta.Agents {
			return nil, fmt.Errorf("%s line %d: agent %d out of range (run has %d)", statesFile, i+1, agent, meta.Agents)
		}
		frames[agent] = append(frames[agent], fr)
	}
	return frames, nil
}

func parseRow(record []string) (int, dynamo.Frame, error) {
	if len(record) < fixedColumns {
		return 0, dynamo.Frame{}, fmt.Errorf("expected at least %d columns, got %d", fixedColumns, len(record))
	}

	floats := make([]float64, 0, len(record))
	var agent int
	var ticks [2]int
	for j, field := range record {
		switch j {
		case 1:
			v, err := strconv.Atoi(field)
			if err != nil || v < 0 {
				return 0, dynamo.Frame{}, fmt.Errorf("bad agent %q", field)
			}
			agent = v
		case 7, 8:
			v, err := strconv.Atoi(field)
			if err != nil {
				return 0, dynamo.Frame{}, fmt.Errorf("bad tick count %q", field)
			}
			ticks[j-7] = v
		default:
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return 0, dynamo.Frame{}, err
			}
			floats = append(floats, v)
		}
	}

	// floats: time, x, y, theta, v_l, v_r, readings...
	return agent, dynamo.Frame{
		T:        floats[0],
		Pose:     dynamo.NewPose(floats[1], floats[2], floats[3]),
		VL:       floats[4],
		VR:       floats[5],
		Ticks:    []int{ticks[0], ticks[1]},
		Readings: append([]float64{}, floats[6:]...),
	}, nil
}
