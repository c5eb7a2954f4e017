package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/weaponry/autogrep/internal/autogrep"
	"github.com/weaponry/autogrep/internal/log"
	"github.com/weaponry/autogrep/internal/report"
)

var (
	appName, gitTag, gitCommit, gitBranch string
)

// Exit codes used by main, matching the CLI's documented process contract.
const (
	exitOK            = 0
	exitArchiveFormat = 2
	exitIOError       = 3
	exitCancelled     = 130
)

func main() {
	var (
		showVersion  = kingpin.Flag("version", "show version and exit").Default().Bool()
		logLevel     = kingpin.Flag("log-level", "set log level: debug, info, warn, error").Default("info").Envar("LOG_LEVEL").String()
		workers      = kingpin.Flag("workers", "number of parallel file-scan workers").Default("0").Int()
		maxMatches   = kingpin.Flag("max-matches", "stop early after this many matches (0 = unlimited)").Default("0").Int()
		patternsFile = kingpin.Flag("patterns-file", "path to a YAML file of additional patterns").Default("").Envar("AUTOGREP_PATTERNS_FILE").String()
		jsonMode     = kingpin.Flag("json", "stream one JSON event per line to stdout").Default("true").Bool()
		reportMode   = kingpin.Flag("report", "print a human-readable summary table instead of JSON events").Default("false").Bool()
		archivePath  = kingpin.Arg("archive", "path to a tar/tar.gz/tgz/zip support bundle").Required().String()
	)
	kingpin.Parse()
	log.SetLevel(*logLevel)

	if *showVersion {
		fmt.Printf("%s %s %s-%s\n", appName, gitTag, gitCommit, gitBranch)
		os.Exit(exitOK)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := listenSignal()
		log.Warnf("received shutdown signal: %s", sig)
		cancel()
	}()

	opts := autogrep.Options{
		Workers:      *workers,
		MaxMatches:   *maxMatches,
		PatternsFile: *patternsFile,
	}

	rep, err := run(ctx, *archivePath, opts, *reportMode || !*jsonMode)
	cancel()
	if err != nil {
		// The streaming JSON sink (when active) already emitted this as a
		// {"type":"error",...} event; --report/quiet mode never sees that
		// event stream, so log it here too.
		log.Errorf("autogrep: %s", err)
		os.Exit(exitCodeFor(err))
	}
	if *reportMode {
		printReport(rep)
	}
	os.Exit(exitOK)
}

func run(ctx context.Context, archivePath string, opts autogrep.Options, quiet bool) (*report.Report, error) {
	if quiet {
		return autogrep.Analyze(ctx, archivePath, opts)
	}

	enc := json.NewEncoder(os.Stdout)
	return autogrep.AnalyzeStreaming(ctx, archivePath, opts, func(ev report.Event) {
		if err := enc.Encode(ev); err != nil {
			log.Warnf("failed to encode event: %s; ignore", err)
		}
	})
}

// exitCodeFor maps a terminal error from Analyze to the process exit codes.
// Cancellation is checked first via errors.Is against the sentinel context
// errors engine.Run wraps, so exit 130 follows deterministically from the
// error Run actually returned rather than from a race against the signal
// handler. Extraction/archive-format failures are distinguished from
// everything else (bad pattern overlay, disk I/O) by a simple substring
// check on the wrapped error text, since internal/archive and
// internal/patterns don't export sentinel error types.
func exitCodeFor(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return exitCancelled
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "unsupported format"), strings.Contains(msg, "bad tar header"),
		strings.Contains(msg, "bad gzip header"), strings.Contains(msg, "bad zip header"):
		return exitArchiveFormat
	default:
		return exitIOError
	}
}

func listenSignal() os.Signal {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	return <-c
}

// printReport renders the --report CLI mode: a short human-readable summary
// instead of the raw JSON event stream. Thin wrapper, informative only.
func printReport(rep *report.Report) {
	fmt.Printf("files processed: %d\n", rep.Summary.FilesProcessed)
	fmt.Printf("lines processed: %d\n", rep.Summary.LinesProcessed)
	fmt.Printf("errors found:    %d\n", rep.Summary.ErrorsFound)
	fmt.Printf("duration:        %dms\n\n", rep.Summary.DurationMs)

	fmt.Println("by severity:")
	for _, sev := range sortedKeys(rep.TotalsBySeverity) {
		fmt.Printf("  %-10s %d\n", sev, rep.TotalsBySeverity[sev])
	}

	fmt.Println("\nby component:")
	for _, comp := range sortedKeys(rep.TotalsByComponent) {
		fmt.Printf("  %-20s %d\n", comp, rep.TotalsByComponent[comp])
	}

	fmt.Println("\ntop errors:")
	for _, g := range rep.TopErrors {
		fmt.Printf("  [%5d] %-8s %-20s %s\n", g.Count, g.Severity, g.Component, g.FirstMessage)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
