// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/ezrec/handoff/channel"
	"github.com/ezrec/handoff/harness"
	"github.com/ezrec/handoff/metrics"
	"github.com/ezrec/handoff/source"
	"github.com/ezrec/handoff/translate"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
}

func run(args []string, stdout io.Writer, stderr io.Writer) (err error) {
	env, err := loadEnv()
	if err != nil {
		return
	}

	var count int
	var seed int64
	var expr string
	var stress int
	var jitter time.Duration
	var timeout time.Duration
	var verbose bool
	var dump bool

	flags := flag.NewFlagSet("handoff", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.IntVar(&count, "n", env.Count, "Number of handoffs")
	flags.Int64Var(&seed, "seed", env.Seed, "Random seed (0 seeds from the clock)")
	flags.StringVar(&expr, "e", "", "Starlark expression of i and seed producing each value")
	flags.IntVar(&stress, "stress", 0, "Repeat the exchange this many times, verifying each run")
	flags.DurationVar(&jitter, "jitter", 0, "Maximum random pause before each operation")
	flags.DurationVar(&timeout, "timeout", env.Timeout, "Abandon the exchange after this long")
	flags.BoolVar(&verbose, "v", env.Verbose, "Verbose mode")
	flags.BoolVar(&dump, "metrics", false, "Write handoff metrics to stderr on exit")

	err = flags.Parse(args)
	if err != nil {
		return
	}

	if flags.NArg() != 0 {
		err = errors.New(translate.From("unknown arguments: %v", flags.Args()))
		return
	}

	logger := newLogger(stderr, verbose)
	defer logger.Sync()

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var src source.Source
	if len(expr) != 0 {
		src, err = source.NewScript(expr, seed)
		if err != nil {
			return
		}
	}

	cfg := harness.Config{
		Count:  count,
		Source: src,
		Seed:   seed,
		Jitter: jitter,
		Yield:  stress > 0,
		Logger: logger,
	}

	if stress > 0 {
		err = harness.Stress(ctx, stress, cfg)
		if err != nil {
			return
		}
		// Counts are preformatted so the printer does not group their digits.
		translate.Fprintf(stdout, "%v runs of %v handoffs verified\n",
			strconv.Itoa(stress), strconv.Itoa(count))
		return
	}

	reg := prometheus.NewRegistry()
	cfg.Watch = func(h *channel.Handoff[int32]) {
		reg.MustRegister(metrics.NewCollector("handoff", h))
	}
	cfg.OnTake = func(index int, value int32) {
		fmt.Fprintf(stdout, "g_data = %d\n", value)
	}

	report, err := harness.Run(ctx, cfg)
	if err == nil {
		err = report.Verify()
	}

	if dump {
		derr := writeMetrics(stderr, reg)
		if err == nil {
			err = derr
		}
	}

	return
}

// writeMetrics writes every gathered family in the text exposition format.
func writeMetrics(w io.Writer, reg prometheus.Gatherer) (err error) {
	families, err := reg.Gather()
	if err != nil {
		return
	}

	for _, mf := range families {
		_, err = expfmt.MetricFamilyToText(w, mf)
		if err != nil {
			return
		}
	}

	return
}
