package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wyixiang/ikerEcsProject/config"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// Nil manager methods are no-ops.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("WriteTelemetry on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 10, PredCount: 3}); err != nil {
		t.Fatalf("WriteTelemetry: %v", err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 20, PredCount: 4}); err != nil {
		t.Fatalf("WriteTelemetry: %v", err)
	}
	if err := om.WritePerf(NewPerfCollector(4).Stats(), 20); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.WriteSummary(RunSummary{RunID: "abc", Ticks: 20}); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("telemetry.csv has %d lines, want header + 2 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,pred,") {
		t.Errorf("unexpected header %q", lines[0])
	}

	for _, name := range []string{"perf.csv", "config.yaml", "run.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
