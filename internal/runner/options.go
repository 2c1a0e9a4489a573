package runner

import (
	"errors"
	"os"

	"github.com/logrusorgru/aurora/v4"
	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"
	envutil "github.com/projectdiscovery/utils/env"
	fileutil "github.com/projectdiscovery/utils/file"
)

var au = aurora.New(aurora.WithColors(true))

var (
	DefaultTimeout     = envutil.GetEnvOrDefault("PINGX_TIMEOUT", 3)
	DefaultCount       = envutil.GetEnvOrDefault("PINGX_COUNT", 1)
	DefaultConcurrency = envutil.GetEnvOrDefault("PINGX_CONCURRENCY", 10)
	DefaultInterval    = envutil.GetEnvOrDefault("PINGX_INTERVAL", 10)
)

// Options contains the configuration options for a pingx run.
type Options struct {
	ConfigFile string

	Targets    goflags.StringSlice
	TargetFile string

	Timeout     int
	Count       int
	Concurrency int

	Monitor  bool
	Interval int

	Silent  bool
	Verbose bool
	NoColor bool
	Version bool
}

// ParseOptions parses the command line flags provided by a user
func ParseOptions() *Options {
	options := &Options{}
	flagSet := goflags.NewFlagSet()

	flagSet.SetDescription(`pingx checks host reachability with ICMP echo probes across single addresses, ranges and CIDR blocks, one-shot or as a continuous monitor`)

	flagSet.CreateGroup("input", "Input",
		flagSet.StringSliceVarP(&options.Targets, "target", "t", nil, "addresses, ranges or CIDR blocks to check (comma separated)", goflags.CommaSeparatedStringSliceOptions),
		flagSet.StringVarP(&options.TargetFile, "list", "l", "", "file containing targets to check (one per line)"),
	)

	flagSet.CreateGroup("probe", "Probe",
		flagSet.IntVar(&options.Timeout, "timeout", DefaultTimeout, "timeout in seconds for each probe"),
		flagSet.IntVarP(&options.Count, "count", "c", DefaultCount, "number of echo packets to send per probe"),
		flagSet.IntVarP(&options.Concurrency, "concurrency", "w", DefaultConcurrency, "maximum number of concurrent probes"),
	)

	flagSet.CreateGroup("monitor", "Monitor",
		flagSet.BoolVarP(&options.Monitor, "monitor", "m", false, "continuously re-check targets until interrupted"),
		flagSet.IntVarP(&options.Interval, "interval", "i", DefaultInterval, "interval in seconds between monitoring checks"),
	)

	flagSet.CreateGroup("config", "Config",
		flagSet.StringVar(&options.ConfigFile, "config", "", "cli flag configuration file"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&options.Silent, "silent", false, "show only summary output"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "show verbose output"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable output content coloring (ANSI escape codes)"),
		flagSet.BoolVar(&options.Version, "version", false, "show version of the project"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	if options.ConfigFile != "" {
		if err := options.loadConfigFrom(options.ConfigFile); err != nil {
			gologger.Fatal().Msgf("could not read config file %s: %s\n", options.ConfigFile, err)
		}
	}

	options.configureOutput()

	showBanner()

	if options.Version {
		gologger.Info().Msgf("Current Version: %s\n", version)
		os.Exit(0)
	}

	if err := options.validate(); err != nil {
		gologger.Fatal().Msgf("%s\n", err)
	}

	return options
}

// validate rejects configurations that would never produce a useful
// run, before any probe is sent.
func (options *Options) validate() error {
	if len(options.Targets) == 0 && options.TargetFile == "" {
		return errors.New("no targets provided, use -target or -list")
	}
	if options.Timeout < 1 {
		return errors.New("timeout must be at least 1 second")
	}
	if options.Count < 1 {
		return errors.New("count must be at least 1")
	}
	if options.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	if options.Interval < 1 {
		return errors.New("interval must be at least 1 second")
	}
	return nil
}

// configureOutput configures the output on the screen
func (options *Options) configureOutput() {
	// If the user desires verbose output, show verbose output
	if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	if options.NoColor {
		gologger.DefaultLogger.SetFormatter(formatter.NewCLI(true))
		au = aurora.New(aurora.WithColors(false))
	}
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	}
}

func (options *Options) loadConfigFrom(location string) error {
	return fileutil.Unmarshal(fileutil.YAML, []byte(location), options)
}
