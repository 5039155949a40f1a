// Package main is the wordify CLI entry point.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/wordify/internal/cli"
	"github.com/hyperjump/wordify/internal/config"
	"github.com/hyperjump/wordify/internal/extract"
	"github.com/hyperjump/wordify/internal/wordify"
	"github.com/hyperjump/wordify/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/wordify/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if neither exists the
// built-in defaults are used and the returned path is empty.
// Returns the config and the path that was actually loaded (for saving, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return config.Default(), "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches a command and returns the process exit code. Arguments that
// do not name a command are files to scan.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var err error
	command := ""
	if len(args) > 0 {
		command = args[0]
	}
	switch command {
	case "scan":
		err = runScan(args[1:], stdin, stdout, stderr)
	case "convert":
		err = runConvert(args[1:], stdin, stdout, stderr)
	case "extract":
		err = runExtract(args[1:], stdin, stdout, stderr)
	case "server":
		err = runServer(args[1:], stderr)
	case "history":
		err = runHistory(args[1:], stdout, stderr)
	case "status":
		err = runStatus(args[1:], stdout, stderr)
	case "watch":
		err = runWatch(args[1:], stdout, stderr)
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "wordify version %s\n", version)
	case "help", "--help", "-h":
		printUsage(stdout)
	default:
		err = runScan(args, stdin, stdout, stderr)
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "wordify: %v\n", err)
		return 1
	}
	return 0
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseArgs parses args with fs, accepting flags after positional arguments.
// Go's flag package stops at the first non-flag argument, so flags are moved
// to the front first. Negative numbers and "-" stay positional; everything
// after "--" is positional.
func parseArgs(fs *flag.FlagSet, args []string) error {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if !isFlag(a) {
			positional = append(positional, a)
			continue
		}
		flags = append(flags, a)
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil && !isBoolFlag(f) && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return fs.Parse(append(append(flags, "--"), positional...))
}

// isFlag reports whether a looks like a flag rather than a value such as
// "-", "-5" or "-.5".
func isFlag(a string) bool {
	if len(a) < 2 || a[0] != '-' {
		return false
	}
	c := a[1]
	return !(c >= '0' && c <= '9') && c != '.'
}

func isBoolFlag(f *flag.Flag) bool {
	bf, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && bf.IsBoolFlag()
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// commonFlags are shared by the commands that read config and print output.
type commonFlags struct {
	fs           *flag.FlagSet
	configPath   string
	format       string
	encoding     string
	serialCommas bool
	debug        bool
}

func addCommonFlags(fs *flag.FlagSet) *commonFlags {
	c := &commonFlags{fs: fs}
	fs.StringVar(&c.configPath, "config", defaultConfigPath, "config file path")
	fs.StringVar(&c.format, "format", "", "output format: text or json (default from config)")
	fs.StringVar(&c.encoding, "encoding", "", "encoding of plain-text input (default from config, utf-8)")
	fs.BoolVar(&c.serialCommas, "serial-commas", false, "put a comma after a scale word followed by more words")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging")
	return c
}

// env is the resolved configuration of one command invocation.
type env struct {
	cfg        *config.Config
	configPath string
	format     cli.OutputFormat
	logger     *zap.Logger
}

// setup loads config and applies flag overrides on top of it.
func (c *commonFlags) setup() (*env, error) {
	cfg, resolved, err := loadConfig(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if c.format != "" {
		cfg.Output.Format = c.format
	}
	if c.encoding != "" {
		if err := extract.CheckEncoding(c.encoding); err != nil {
			return nil, err
		}
		cfg.Input.Encoding = c.encoding
	}
	if flagWasSet(c.fs, "serial-commas") {
		cfg.Output.SerialCommas = c.serialCommas
	}
	if c.debug {
		cfg.Debug = true
	}
	format, err := cli.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	logger, err := utils.NewCLILogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolved),
		zap.String("format", string(format)),
		zap.String("encoding", cfg.Input.Encoding),
		zap.Bool("serial_commas", cfg.Output.SerialCommas))
	return &env{cfg: cfg, configPath: resolved, format: format, logger: logger}, nil
}

func (e *env) convertOptions() []wordify.Option {
	return []wordify.Option{wordify.WithSerialCommas(e.cfg.Output.SerialCommas)}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `wordify - Convert the numbers in text to English words

Usage:
  wordify [flags] [file...]           Scan files (or stdin) and print the words for each number found
  wordify scan [flags] [path...]      Same as above; directories are walked
  wordify convert [flags] [value...]  Convert values given as arguments (or one per stdin line)
  wordify extract [flags] [file...]   Print the number candidates found, without converting
  wordify server [flags]              Start the HTTP server and directory watcher
  wordify history [flags]             Show recorded conversions
  wordify status [flags]              Show history database status
  wordify watch <add|remove|list>     Manage watched directories
  wordify version                     Show version
  wordify help                        Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/wordify/config.yaml, then ./config.yaml)
  --format string    Output format: text or json
  --encoding string  Encoding of plain-text input, e.g. utf-8, latin1, shift_jis
  --serial-commas    Write "one thousand, two hundred" instead of "one thousand two hundred"
  --debug            Enable debug logging on stderr

Scan Flags:
  --history          Record conversions in the history database
  --recursive        Walk subdirectories of directory arguments (default: true)

History/Status/Watch Flags:
  --server string    Server URL; empty uses the database or config file directly

Examples:
  echo "The number is 87334." | wordify
  wordify report.pdf notes.docx
  wordify convert 123456789 -42
  wordify --format json --history ledger.xlsx
  wordify history --limit 20
  wordify watch add ~/invoices`)
}
