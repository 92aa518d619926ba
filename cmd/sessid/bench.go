package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/sessid"
	"github.com/spf13/cobra"
)

func newBenchCommand(opts *rootOptions) *cobra.Command {
	var (
		concurrency int
		ops         int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Load test concurrent issue and authenticate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if concurrency <= 0 || ops <= 0 {
				return fmt.Errorf("concurrency and ops must be > 0")
			}

			out := cmd.OutOrStdout()
			engine, err := opts.engine(false, func(cfg *sessid.Config) {
				if len(cfg.Signer.Secret) == 0 {
					cfg.Signer.Secret = randomSecret()
					fmt.Fprintln(out, "no secret configured, using a random one")
				}
				cfg.Metrics.Enabled = true
				cfg.Metrics.EnableLatencyHistograms = true
			})
			if err != nil {
				return err
			}
			defer engine.Close()

			results, err := runBench(cmd.Context(), engine, ops, concurrency)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "---- results ----")
			printStats(out, "issue", results.issue)
			printStats(out, "authenticate", results.authenticate)
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 64, "Number of concurrent workers")
	cmd.Flags().IntVar(&ops, "ops", 200000, "Operations per phase")
	return cmd
}

func randomSecret() []byte {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return b
}

type benchResults struct {
	issue        phaseStats
	authenticate phaseStats
}

// runBench issues ops signed identifiers, then authenticates each of them,
// both phases spread over concurrency workers.
func runBench(ctx context.Context, engine *sessid.Engine, ops, concurrency int) (benchResults, error) {
	issued := make([]string, ops)

	issue := runPhase(ops, concurrency, func(i int) error {
		sid, err := engine.Issue(ctx)
		if err != nil {
			return err
		}
		issued[i] = sid.SignedText()
		return nil
	})
	if issue.failures == int64(ops) {
		return benchResults{}, fmt.Errorf("every issue failed")
	}

	auth := runPhase(ops, concurrency, func(i int) error {
		_, err := engine.Authenticate(ctx, issued[i])
		return err
	})
	return benchResults{issue: issue, authenticate: auth}, nil
}

func runPhase(ops, concurrency int, op func(i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, ops)
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Go(func() {
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(i)
				latencies[i] = time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
			}
		})
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	s := phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
	}
	if total > 0 {
		s.opsPerS = float64(len(samples)) / total.Seconds()
	}
	return s
}

// percentile expects samples sorted ascending.
func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(w io.Writer, name string, s phaseStats) {
	fmt.Fprintf(w, "%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Nanosecond),
		s.p95.Round(time.Nanosecond),
		s.p99.Round(time.Nanosecond),
	)
}
