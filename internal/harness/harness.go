// Package harness runs the complex multiplication check end to end: it
// selects a device, multiplies two generated sequences on it, repeats the
// work with the scalar reference and compares the two results.
package harness

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	complexmul "github.com/LynnColeArt/guda-complexmul"
	"github.com/LynnColeArt/guda-complexmul/internal/config"
)

// Sample is one printed element of the run.
type Sample struct {
	Index int                `json:"index"`
	A     complexmul.Complex `json:"a"`
	B     complexmul.Complex `json:"b"`
	Out   complexmul.Complex `json:"out"`
}

// Report captures the outcome of a run.
type Report struct {
	RunID             string        `json:"run_id"`
	Device            string        `json:"device"`
	DeviceClass       string        `json:"device_class"`
	Elements          int           `json:"elements"`
	ParallelDuration  time.Duration `json:"parallel_ns"`
	ScalarDuration    time.Duration `json:"scalar_avg_ns"`
	ScalarRepetitions int           `json:"scalar_repetitions"`
	Samples           []Sample      `json:"samples"`
	Verdict           string        `json:"verdict"`
	FirstMismatch     int           `json:"first_mismatch"`
	Timestamp         time.Time     `json:"timestamp"`
}

// Matched reports whether the parallel and scalar results agreed.
func (r *Report) Matched() bool {
	return r.Verdict == complexmul.Match.String()
}

// Inputs builds the reference inputs in1[i] = (i+2, i+4) and
// in2[i] = (i+4, i+6).
func Inputs(n int) (in1, in2 []complexmul.Complex) {
	in1 = make([]complexmul.Complex, n)
	in2 = make([]complexmul.Complex, n)
	for i := range in1 {
		in1[i] = complexmul.Complex{Re: float64(i + 2), Im: float64(i + 4)}
		in2[i] = complexmul.Complex{Re: float64(i + 4), Im: float64(i + 6)}
	}
	return in1, in2
}

// SampleIndices returns the first count indices followed by the last index,
// without duplicates.
func SampleIndices(n, count int) []int {
	if n == 0 {
		return nil
	}
	count = min(count, n)
	idx := make([]int, 0, count+1)
	for i := 0; i < count; i++ {
		idx = append(idx, i)
	}
	if count < n {
		idx = append(idx, n-1)
	}
	return idx
}

// Run executes the check described by cfg on platform p. Any failure of
// device selection or of either kernel aborts the run with an error and no
// verdict.
func Run(cfg *config.Config, p complexmul.Platform, logger *zap.Logger) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	report := &Report{
		RunID:             uuid.NewString(),
		Elements:          cfg.Elements,
		ScalarRepetitions: cfg.ScalarRepetitions,
		FirstMismatch:     -1,
		Timestamp:         time.Now(),
	}
	logger = logger.With(zap.String("run_id", report.RunID))

	in1, in2 := Inputs(cfg.Elements)
	outParallel := make([]complexmul.Complex, cfg.Elements)
	outScalar := make([]complexmul.Complex, cfg.Elements)

	q, err := complexmul.NewQueue(p, complexmul.VendorRanker(cfg.PreferredVendor), complexmul.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("device selection failed: %w", err)
	}
	defer q.Close()

	report.Device = q.Device().Name
	report.DeviceClass = q.Device().Class.String()

	start := time.Now()
	if err := complexmul.ParallelMultiply(q, in1, in2, outParallel); err != nil {
		return nil, fmt.Errorf("parallel multiply failed: %w", err)
	}
	report.ParallelDuration = time.Since(start)

	start = time.Now()
	for i := 0; i < cfg.ScalarRepetitions; i++ {
		if err := complexmul.ScalarMultiply(in1, in2, outScalar); err != nil {
			return nil, fmt.Errorf("scalar multiply failed: %w", err)
		}
	}
	report.ScalarDuration = time.Since(start) / time.Duration(cfg.ScalarRepetitions)

	for _, j := range SampleIndices(cfg.Elements, cfg.SampleCount) {
		report.Samples = append(report.Samples, Sample{Index: j, A: in1[j], B: in2[j], Out: outParallel[j]})
	}

	verdict, first := complexmul.CompareIndex(complexmul.Vector(outParallel), complexmul.Vector(outScalar))
	report.Verdict = verdict.String()
	report.FirstMismatch = first

	if verdict != complexmul.Match {
		diff := complexmul.Diff(complexmul.Vector(outScalar), complexmul.Vector(outParallel))
		logger.Warn("results differ",
			zap.Stringer("verdict", verdict),
			zap.Int("first_mismatch", first),
			zap.Int("mismatches", diff.NumErrors),
			zap.Uint64("max_ulp", diff.MaxULPError))
	}

	logger.Info("run complete",
		zap.String("device", report.Device),
		zap.Duration("parallel", report.ParallelDuration),
		zap.Duration("scalar_avg", report.ScalarDuration),
		zap.String("verdict", report.Verdict))
	return report, nil
}

// Print writes the human-readable report.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Target Device: %s\n", r.Device)
	fmt.Fprintf(w, "Parallel execution time on device: %d µs\n", r.ParallelDuration.Microseconds())
	fmt.Fprintf(w, "Average Scalar execution time on CPU (%d runs): %d µs\n",
		r.ScalarRepetitions, r.ScalarDuration.Microseconds())

	for i, s := range r.Samples {
		if i == len(r.Samples)-1 && i > 0 && s.Index != r.Samples[i-1].Index+1 {
			fmt.Fprintln(w, "...")
		}
		fmt.Fprintf(w, "[%d] %s * %s = %s\n", s.Index, s.A, s.B, s.Out)
	}

	if r.Matched() {
		fmt.Fprintln(w, "Complex multiplication successfully run on the device")
	} else {
		fmt.Fprintln(w, "Verification Failed. Results are not matched")
	}
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
