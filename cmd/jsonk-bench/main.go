// jsonk-bench - concurrent throughput harness
//
// Measures parse, serialize, and merge-patch throughput over a worker pool,
// exercising the engine under the concurrent access pattern it is built for:
// many goroutines patching and reading shared configuration documents.
//
// Output: per-mode summary with ops/sec and MB/sec to stderr.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jsonk-io/jsonk/jsonk"
)

type config struct {
	workers    int
	iterations int
	modes      []string
	docFile    string
}

func main() {
	cfg := parseArgs(os.Args[1:])

	target, patch := loadWorkload(cfg)

	fmt.Fprintf(os.Stderr, "jsonk benchmark\n")
	fmt.Fprintf(os.Stderr, "===============\n")
	fmt.Fprintf(os.Stderr, "workers: %d  iterations: %d  document: %d bytes  patch: %d bytes\n\n",
		cfg.workers, cfg.iterations, len(target), len(patch))

	pool, err := ants.NewPool(cfg.workers)
	if err != nil {
		fatal("create pool: %v", err)
	}
	defer pool.Release()

	type benchMode struct {
		name string
		work func() error
	}
	var modes []benchMode
	for _, mode := range cfg.modes {
		switch mode {
		case "parse":
			modes = append(modes, benchMode{mode, func() error { return benchParse(target) }})
		case "emit":
			modes = append(modes, benchMode{mode, func() error { return benchEmit(target) }})
		case "patch":
			modes = append(modes, benchMode{mode, func() error { return benchPatch(target, patch) }})
		default:
			fatal("unknown mode: %s", mode)
		}
	}

	// Run each mode once up front so a bad workload fails with its actual
	// error before any timed run starts.
	var g errgroup.Group
	for _, m := range modes {
		g.Go(m.work)
	}
	if err := g.Wait(); err != nil {
		fatal("workload check: %v", err)
	}

	for _, m := range modes {
		runMode(pool, m.name, cfg.iterations, len(target), m.work)
	}
}

// runMode submits iterations onto the shared pool and reports throughput.
// Completion is tracked with a WaitGroup because Submit only hands work to
// the pool without waiting for it.
func runMode(pool *ants.Pool, name string, iterations, docBytes int, work func() error) {
	var failures atomic.Int64
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < iterations; i++ {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if err := work(); err != nil {
				failures.Add(1)
			}
		})
		if err != nil {
			fatal("%s: submit: %v", name, err)
		}
	}
	wg.Wait()
	elapsed := time.Since(start)

	opsSec := float64(iterations) / elapsed.Seconds()
	mbSec := float64(iterations*docBytes) / (1 << 20) / elapsed.Seconds()
	fmt.Fprintf(os.Stderr, "%-8s %8.0f ops/sec  %8.1f MB/sec  %v total",
		name, opsSec, mbSec, elapsed.Round(time.Millisecond))
	if n := failures.Load(); n > 0 {
		fmt.Fprintf(os.Stderr, "  (%d failures)", n)
	}
	fmt.Fprintln(os.Stderr)
}

func benchParse(doc []byte) error {
	v, err := jsonk.Parse(doc)
	if err != nil {
		return err
	}
	v.Release()
	return nil
}

func benchEmit(doc []byte) error {
	v, err := jsonk.Parse(doc)
	if err != nil {
		return err
	}
	defer v.Release()
	buf := make([]byte, len(doc)+64)
	_, err = jsonk.Serialize(v, buf)
	return err
}

func benchPatch(target, patch []byte) error {
	out := make([]byte, len(target)+len(patch)+64)
	res, _ := jsonk.ApplyPatch(target, patch, out)
	if !res.Applied() {
		return fmt.Errorf("patch result: %s", res)
	}
	return nil
}

// loadWorkload returns the target document and a patch against it, from a
// file if given or a synthetic configuration document otherwise.
func loadWorkload(cfg *config) (target, patch []byte) {
	if cfg.docFile != "" {
		data, err := os.ReadFile(cfg.docFile)
		if err != nil {
			fatal("read document: %v", err)
		}
		return data, []byte(`{"bench":{"touched":true}}`)
	}
	return syntheticDocument(), []byte(
		`{"settings":{"timeout":60,"debug":null},"metadata":{"updated":true}}`)
}

// syntheticDocument builds a config-shaped document with a few hundred keys.
func syntheticDocument() []byte {
	var b strings.Builder
	b.WriteString(`{"settings":{"timeout":30,"debug":false,"retries":3},"peers":[`)
	for i := 0; i < 100; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, `{"host":"node-%03d.internal","port":%d,"weight":%d.%d}`,
			i, 7000+i, i%10, i%100)
	}
	b.WriteString(`],"metadata":{"version":"2.4.1","updated":false}}`)
	return []byte(b.String())
}

func parseArgs(args []string) *config {
	cfg := &config{
		workers:    8,
		iterations: 100000,
		modes:      []string{"parse", "emit", "patch"},
	}
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "--workers="):
			cfg.workers = mustAtoi(arg)
		case strings.HasPrefix(arg, "--iterations="):
			cfg.iterations = mustAtoi(arg)
		case strings.HasPrefix(arg, "--modes="):
			cfg.modes = strings.Split(arg[len("--modes="):], ",")
		case strings.HasPrefix(arg, "--doc="):
			cfg.docFile = arg[len("--doc="):]
		case arg == "--help" || arg == "-h":
			printUsage()
			os.Exit(0)
		default:
			fatal("unknown argument: %s", arg)
		}
	}
	return cfg
}

func mustAtoi(arg string) int {
	n, err := strconv.Atoi(arg[strings.IndexByte(arg, '=')+1:])
	if err != nil || n <= 0 {
		fatal("invalid value in %s", arg)
	}
	return n
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "jsonk-bench: "+format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `jsonk-bench - concurrent throughput harness

Usage:
  jsonk-bench [options]

Options:
  --workers=N       Worker pool size (default 8)
  --iterations=N    Operations per mode (default 100000)
  --modes=LIST      Comma-separated: parse,emit,patch (default all)
  --doc=FILE        Benchmark against a real document instead of synthetic
`)
}
