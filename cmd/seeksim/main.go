/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
seeksim - Disk Scheduling Seek Simulator

seeksim replays a stream of track requests against several disk scheduling
policies at once, one goroutine per policy, and reports the seek length and
seek time every policy paid for each request.

Usage:

	seeksim -i input.txt -p FIFO,SSTF,C-SCAN
	seeksim -g alternate -s 53 -b 10 -p SCAN,N-STEP-SCAN,FSCAN -o out.json --format json
	seeksim --config seeksim.conf --compress zstd
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"seeksim/internal/compression"
	"seeksim/internal/config"
	"seeksim/internal/coordinator"
	simerrors "seeksim/internal/errors"
	"seeksim/internal/logging"
	"seeksim/internal/pipe"
	"seeksim/internal/policy"
	"seeksim/internal/report"
	"seeksim/internal/tracks"
	"seeksim/pkg/cli"
)

const version = "1.0.0"

// formatTable prints the box table on stdout and writes a text report file.
const formatTable = "table"

// interactive reports whether missing policies may be asked for on stdin.
var interactive = func() bool { return cli.IsTerminal(os.Stdin) }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// flags holds the parsed command line. Only flags that were set override
// the file and environment configuration.
type flags struct {
	configFile string
	saveConfig string
	input      string
	generate   string
	output     string
	format     string
	compress   string
	policies   string
	logLevel   string
	start      int
	batch      int
	requests   int
	seed       int64
	verbose    bool
	logJSON    bool
	help       bool
	version    bool

	set map[string]bool
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("seeksim", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	str := func(p *string, long, short string) {
		fs.StringVar(p, long, "", "")
		if short != "" {
			fs.StringVar(p, short, "", "")
		}
	}
	num := func(p *int, long, short string) {
		fs.IntVar(p, long, 0, "")
		if short != "" {
			fs.IntVar(p, short, 0, "")
		}
	}
	boolean := func(p *bool, long, short string) {
		fs.BoolVar(p, long, false, "")
		if short != "" {
			fs.BoolVar(p, short, false, "")
		}
	}

	str(&f.input, "input", "i")
	str(&f.generate, "generate", "g")
	str(&f.output, "output", "o")
	str(&f.policies, "policy", "p")
	str(&f.format, "format", "")
	str(&f.compress, "compress", "")
	str(&f.configFile, "config", "")
	str(&f.saveConfig, "save-config", "")
	str(&f.logLevel, "log-level", "")
	num(&f.start, "start", "s")
	num(&f.batch, "batch", "b")
	num(&f.requests, "requests", "")
	fs.Int64Var(&f.seed, "seed", 0, "")
	boolean(&f.verbose, "verbose", "v")
	boolean(&f.logJSON, "log-json", "")
	boolean(&f.help, "help", "h")
	boolean(&f.version, "version", "")

	if err := fs.Parse(args); err != nil {
		return nil, cli.NewCLIError(err.Error()).
			WithSuggestion("Run with --help to see available options").
			WithExitCode(cli.ExitUsage)
	}
	if fs.NArg() > 0 {
		return nil, cli.ErrInvalidValue("argument", fs.Arg(0), "seeksim takes no positional arguments")
	}

	short := map[string]string{"i": "input", "g": "generate", "o": "output", "p": "policy",
		"s": "start", "b": "batch", "v": "verbose", "h": "help"}
	fs.Visit(func(fl *flag.Flag) {
		name := fl.Name
		if long, ok := short[name]; ok {
			name = long
		}
		f.set[name] = true
	})
	return f, nil
}

// resolve layers defaults, the config file, the environment and the
// command line, in that order.
func resolve(f *flags) (*config.Config, bool, error) {
	m := config.NewManager()
	if f.configFile != "" {
		if _, err := os.Stat(f.configFile); err != nil {
			return nil, false, cli.ErrConfigNotFound(f.configFile)
		}
		if err := m.LoadFromFile(f.configFile); err != nil {
			return nil, false, simerrors.NewConfigError("invalid configuration file").WithCause(err)
		}
	}
	m.LoadFromEnv()
	cfg := m.Get()

	table := false
	for name, set := range f.set {
		if !set {
			continue
		}
		switch name {
		case "input":
			cfg.Input = f.input
		case "generate":
			cfg.Generate = f.generate
		case "output":
			cfg.Output = f.output
		case "policy":
			cfg.Policies = cli.SplitList(f.policies)
		case "format":
			cfg.Format = f.format
			if f.format == formatTable {
				cfg.Format = string(report.FormatText)
				table = true
			}
		case "compress":
			cfg.Compression = f.compress
		case "log-level":
			cfg.LogLevel = f.logLevel
		case "start":
			cfg.Start = f.start
		case "batch":
			cfg.Batch = f.batch
		case "requests":
			cfg.Requests = f.requests
		case "seed":
			cfg.Seed = f.seed
		case "verbose":
			cfg.Verbose = f.verbose
		case "log-json":
			cfg.LogJSON = f.logJSON
		}
	}
	return cfg, table, nil
}

func usage() *cli.HelpFormatter {
	h := cli.NewHelpFormatter("seeksim", version)
	h.Description = "Disk Scheduling Seek Simulator"
	h.Usage = "seeksim [-i FILE | -g METHOD] -p POLICIES [flags]"
	h.AddFlag(cli.Flag{Name: "input", Short: "i", Description: "read track requests from FILE", Default: "input.txt"})
	h.AddFlag(cli.Flag{Name: "generate", Short: "g", Description: "generate requests into the input file first",
		Notes: []string{"methods: random, alternate"}})
	h.AddFlag(cli.Flag{Name: "output", Short: "o", Description: "write the report to FILE", Default: "output.txt"})
	h.AddFlag(cli.Flag{Name: "start", Short: "s", Description: "starting track of the head",
		Default: strconv.Itoa(config.DefaultStart)})
	h.AddFlag(cli.Flag{Name: "batch", Short: "b", Description: "requests per batch, must divide --requests",
		Default: strconv.Itoa(config.DefaultBatch)})
	h.AddFlag(cli.Flag{Name: "policy", Short: "p", Description: "comma separated policies to compare", Required: true,
		Notes: []string{"one or more of " + fmt.Sprint(policy.Strings())}})
	h.AddFlag(cli.Flag{Name: "verbose", Short: "v", Description: "trace every head movement"})
	h.AddFlag(cli.Flag{Name: "requests", Description: "number of requests in the stream",
		Default: strconv.Itoa(config.DefaultRequests)})
	h.AddFlag(cli.Flag{Name: "format", Description: "report format: table, text, json or sqlite", Default: "text"})
	h.AddFlag(cli.Flag{Name: "compress", Description: "compress the report: gzip, lz4, snappy or zstd", Default: "none"})
	h.AddFlag(cli.Flag{Name: "seed", Description: "seed for --generate, 0 uses the clock", Default: "0"})
	h.AddFlag(cli.Flag{Name: "config", Description: "load settings from FILE"})
	h.AddFlag(cli.Flag{Name: "save-config", Description: "write the resolved settings to FILE and exit"})
	h.AddFlag(cli.Flag{Name: "log-level", Description: "debug, info, warn or error", Default: "info"})
	h.AddFlag(cli.Flag{Name: "log-json", Description: "emit logs as JSON"})
	h.AddFlag(cli.Flag{Name: "version", Description: "print the version and exit"})
	h.AddFlag(cli.Flag{Name: "help", Short: "h", Description: "show this help"})
	h.AddExample("Compare three policies on a generated stream", "seeksim -g random -p FIFO,SSTF,SCAN")
	h.AddExample("Start at track 53 with batches of 8", "seeksim -i input.txt -s 53 -b 8 -p C-SCAN,LIFO")
	h.AddExample("Store results in SQLite", "seeksim -i input.txt -p SSTF -o results.db --format sqlite")
	return h
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cli.Stdout, cli.Stderr = stdout, stderr

	code, err := execute(ctx, args, stdout, stderr)
	if err == nil {
		return code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, cli.ErrPromptAborted) {
		fmt.Fprintln(stderr, cli.Warning("interrupted"))
		return cli.ExitInterrupted
	}
	cliErr := cli.FromError(err)
	cliErr.Fprint(stderr)
	return cliErr.ExitCode
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) (int, error) {
	f, err := parseFlags(args)
	if err != nil {
		return 0, err
	}
	if f.help {
		usage().PrintUsage(stdout)
		return cli.ExitOK, nil
	}
	if f.version {
		usage().PrintVersion(stdout)
		return cli.ExitOK, nil
	}

	cfg, table, err := resolve(f)
	if err != nil {
		return 0, err
	}
	if f.saveConfig != "" {
		if err := cfg.SaveToFile(f.saveConfig); err != nil {
			return 0, simerrors.OutputFailed(f.saveConfig, err)
		}
		cli.PrintSuccess("Configuration written to %s", f.saveConfig)
		return cli.ExitOK, nil
	}

	if len(cfg.Policies) == 0 {
		if !interactive() {
			return 0, cli.ErrMissingArgument("-p", "seeksim -p FIFO,SSTF")
		}
		cfg.Policies, err = cli.PromptList("policies> ", policy.Strings(), func(items []string) error {
			for _, item := range items {
				if _, err := policy.Parse(item); err != nil {
					return simerrors.UnknownPolicy(item, policy.Strings())
				}
			}
			return nil
		})
		if err != nil {
			return 0, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	logging.SetGlobalOutput(stderr)
	logging.SetJSONMode(cfg.LogJSON)
	logging.SetGlobalLevel(logging.ParseLevel(cfg.LogLevel))
	if cfg.Verbose {
		logging.SetGlobalLevel(logging.DEBUG)
	}
	log := logging.NewLogger("seeksim")
	log.Debug("configuration resolved", "config", cfg.String())

	algo, err := compression.ParseAlgorithm(cfg.Compression)
	if err != nil {
		return 0, simerrors.NewConfigError(err.Error())
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return 0, simerrors.NewConfigError(err.Error())
	}

	if cfg.Generate != "" {
		if err := generate(cfg); err != nil {
			return 0, err
		}
		log.Info("generated requests", "method", cfg.Generate, "count", cfg.Requests, "file", cfg.Input)
	}

	c, err := coordinator.New(coordinator.Config{
		StartTrack: cfg.Start,
		BatchSize:  cfg.Batch,
		Total:      cfg.Requests,
		Policies:   cfg.Policies,
		Verbose:    cfg.Verbose,
		Trace:      stdout,
	})
	if err != nil {
		return 0, err
	}

	src, err := tracks.Open(cfg.Input, cfg.Requests)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	var spinner *cli.Spinner
	if !cfg.Verbose && cli.ColorsEnabled() {
		spinner = cli.NewSpinnerTo(stderr, fmt.Sprintf("Simulating %d requests", cfg.Requests))
		c.WithPhaseHook(progress(spinner, len(c.Policies())))
		spinner.Start()
	}
	rep, err := c.Run(ctx, src)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return 0, err
	}

	path, err := report.WriteFile(ctx, cfg.Output, rep, report.Options{Format: format, Compression: algo})
	if err != nil {
		return 0, err
	}

	if table || cli.ColorsEnabled() {
		if err := printGrid(rep); err != nil {
			return 0, err
		}
	}
	for _, fault := range rep.Faults {
		cli.PrintWarning("%s dropped: %s", fault.Policy, fault.Reason)
	}
	cli.PrintSuccess("Report written to %s", path)

	if len(rep.Faults) > 0 {
		return cli.ExitFailure, nil
	}
	return cli.ExitOK, nil
}

// progress reports each phase a policy enters as one step out of four per
// policy.
func progress(s *cli.Spinner, policies int) coordinator.PhaseHook {
	done := 0
	return func(name policy.Name, phase pipe.Phase) {
		done++
		s.SetProgress(done, 4*policies, fmt.Sprintf("%s: %s", name, phase))
	}
}

func generate(cfg *config.Config) error {
	method, err := tracks.ParseMethod(cfg.Generate)
	if err != nil {
		return err
	}
	list, err := tracks.Generate(method, cfg.Requests, cfg.Seed)
	if err != nil {
		return simerrors.NewConfigError(err.Error())
	}
	if err := tracks.WriteFile(cfg.Input, list); err != nil {
		return simerrors.OutputFailed(cfg.Input, err)
	}
	return nil
}

func printGrid(rep *report.Report) error {
	headers, rows := rep.Grid()
	t := cli.NewTable(headers...)
	t.SetFooter(false)
	for _, row := range rows {
		t.AddRow(row...)
	}
	fmt.Fprintf(cli.Stdout, "%s %d\n", cli.Highlight("Start track:"), rep.StartTrack)
	return t.Print()
}
