package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/wyixiang/ikerEcsProject/config"
)

// RunSummary is the single-row record written to run.csv at the end of a run.
type RunSummary struct {
	RunID         string  `csv:"run_id"`
	Seed          uint64  `csv:"seed"`
	Ticks         int32   `csv:"ticks"`
	SimTimeSec    float64 `csv:"sim_time"`
	FinalPred     int     `csv:"final_pred"`
	FinalPrey     int     `csv:"final_prey"`
	FinalFood     int     `csv:"final_food"`
	TotalEaten    int     `csv:"total_eaten"`
	TotalBirths   int     `csv:"total_births"`
	TotalCapped   int     `csv:"total_capped"`
	AvgTickMillis float64 `csv:"avg_tick_ms"`
}

// csvSink appends rows of T to one file. The header goes out with the first row.
type csvSink[T any] struct {
	f      *os.File
	header bool
}

func openSink[T any](path string) (*csvSink[T], error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &csvSink[T]{f: f}, nil
}

func (s *csvSink[T]) append(row T) error {
	rows := []T{row}
	if s.header {
		return gocsv.MarshalWithoutHeaders(rows, s.f)
	}
	if err := gocsv.Marshal(rows, s.f); err != nil {
		return err
	}
	s.header = true
	return nil
}

func (s *csvSink[T]) close() error {
	if s == nil {
		return nil
	}
	return s.f.Close()
}

// OutputManager writes one run's artifacts into a directory: config.yaml,
// telemetry.csv and perf.csv per stats window, and run.csv at the end.
// A nil manager discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvSink[WindowStats]
	perf      *csvSink[PerfStatsCSV]
}

// NewOutputManager creates dir and opens the per-window CSV files. An empty
// dir disables output and yields a nil manager.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	tel, err := openSink[WindowStats](filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	perf, err := openSink[PerfStatsCSV](filepath.Join(dir, "perf.csv"))
	if err != nil {
		tel.close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	return &OutputManager{dir: dir, telemetry: tel, perf: perf}, nil
}

func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.append(stats); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.append(stats.ToCSV(windowEnd)); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteSummary replaces run.csv with s.
func (om *OutputManager) WriteSummary(s RunSummary) error {
	if om == nil {
		return nil
	}
	sink, err := openSink[RunSummary](filepath.Join(om.dir, "run.csv"))
	if err != nil {
		return fmt.Errorf("creating run.csv: %w", err)
	}
	return errors.Join(sink.append(s), sink.close())
}

func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.close(), om.perf.close())
}
