package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/wishtree/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir           string
	telemetryFile *os.File
	perfFile      *os.File
	eventsFile    *os.File

	// Track if headers have been written
	telemetryHeaderWritten bool
	perfHeaderWritten      bool
	eventsHeaderWritten    bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.telemetryFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.telemetryFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	f, err = os.Create(filepath.Join(dir, "events.csv"))
	if err != nil {
		om.telemetryFile.Close()
		om.perfFile.Close()
		return nil, fmt.Errorf("creating events.csv: %w", err)
	}
	om.eventsFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// writeRecords writes records to f, with a header on the first call.
func writeRecords[T any](f *os.File, headerWritten *bool, records []T) error {
	if !*headerWritten {
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.telemetryFile, &om.telemetryHeaderWritten, []WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	records := []PerfStatsCSV{stats.ToCSV(windowEnd)}
	if err := writeRecords(om.perfFile, &om.perfHeaderWritten, records); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteEvents appends events to events.csv.
func (om *OutputManager) WriteEvents(events []Event) error {
	if om == nil || len(events) == 0 {
		return nil
	}
	if err := writeRecords(om.eventsFile, &om.eventsHeaderWritten, events); err != nil {
		return fmt.Errorf("writing events: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.telemetryFile, om.perfFile, om.eventsFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
