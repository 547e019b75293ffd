package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// evalLog appends one CSV row per evaluation, tracks the best parameters
// and prints progress.
type evalLog struct {
	f      *os.File
	w      *csv.Writer
	params *ParamVector

	budget  int
	count   int
	started time.Time

	bestFitness float64
	best        []float64
}

func newEvalLog(path string, params *ParamVector, budget int) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create eval log: %w", err)
	}
	l := &evalLog{
		f:           f,
		w:           csv.NewWriter(f),
		params:      params,
		budget:      budget,
		started:     time.Now(),
		bestFitness: math.Inf(1),
	}
	header := []string{"eval", "fitness"}
	for _, s := range params.Specs {
		header = append(header, s.Name)
	}
	if err := l.w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

// Record logs the clamped parameters of one evaluation.
func (l *evalLog) Record(used []float64, fitness, quality float64) {
	l.count++
	if fitness < l.bestFitness {
		l.bestFitness = fitness
		l.best = used
	}

	row := make([]string, 0, len(used)+2)
	row = append(row, strconv.Itoa(l.count), strconv.FormatFloat(fitness, 'f', 6, 64))
	for _, v := range used {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	_ = l.w.Write(row)
	l.w.Flush()

	elapsed := time.Since(l.started)
	eta := time.Duration(l.budget-l.count) * (elapsed / time.Duration(l.count))
	fmt.Printf("eval %d/%d quality=%.3f best=%.3f elapsed=%s eta=%s\n",
		l.count, l.budget, quality, -l.bestFitness, formatDuration(elapsed), formatDuration(eta))
}

// Summary prints best, the parameters kept as the result.
func (l *evalLog) Summary(best []float64) {
	fmt.Printf("\nDone: %d evaluations in %s, best quality %.3f\n",
		l.count, formatDuration(time.Since(l.started)), -l.bestFitness)
	for i, s := range l.params.Specs {
		fmt.Printf("  %-20s %.6f\n", s.Name, best[i])
	}
}

func (l *evalLog) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}

// formatDuration renders d as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
