package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/wordify/internal/cli"
	"github.com/hyperjump/wordify/internal/config"
	"github.com/hyperjump/wordify/internal/extract"
	"github.com/hyperjump/wordify/internal/models"
	"github.com/hyperjump/wordify/internal/scanner"
	"github.com/hyperjump/wordify/internal/storage"
)

const (
	defaultServerURL = "http://localhost:8080"
	stdinSource      = "stdin"
	argsSource       = "args"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

func runScan(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("scan", stderr)
	common := addCommonFlags(fs)
	history := fs.Bool("history", false, "record conversions in the history database")
	recursive := fs.Bool("recursive", true, "walk subdirectories of directory arguments")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	e, err := common.setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	opts := []scanner.Option{
		scanner.WithEncoding(e.cfg.Input.Encoding),
		scanner.WithConvertOptions(e.convertOptions()...),
		scanner.WithLogger(e.logger),
	}
	if *history || e.cfg.Storage.History {
		store, err := storage.NewSQLiteStorage(e.cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, scanner.WithStorage(store))
	}
	sc := scanner.New(extract.NewExtractor(), opts...)
	out := cli.NewConversionWriter(stdout, e.format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if fs.NArg() == 0 {
		_, err := sc.ScanReader(ctx, stdinSource, stdin, out.Write)
		return err
	}
	failed := 0
	for _, path := range fs.Args() {
		if err := scanPath(ctx, sc, e, path, *recursive, stdin, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.logger.Warn("scan failed", zap.String("path", path), zap.Error(err))
			fmt.Fprintf(stderr, "wordify: %s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, fs.NArg())
	}
	return nil
}

func scanPath(ctx context.Context, sc *scanner.Scanner, e *env, path string, recursive bool, stdin io.Reader, out *cli.ConversionWriter) error {
	if path == "-" {
		_, err := sc.ScanReader(ctx, stdinSource, stdin, out.Write)
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		n, err := sc.ScanDirectory(ctx, path, e.cfg.Input.Extensions, recursive, out.Write)
		e.logger.Debug("directory scanned", zap.String("path", path), zap.Int("files", n))
		return err
	}
	_, err = sc.ScanFile(ctx, path, out.Write)
	return err
}

func runConvert(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("convert", stderr)
	common := addCommonFlags(fs)
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	e, err := common.setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	sc := scanner.New(nil, scanner.WithConvertOptions(e.convertOptions()...))
	out := cli.NewConversionWriter(stdout, e.format)
	if fs.NArg() > 0 {
		for i, v := range fs.Args() {
			if err := out.Write(sc.ConvertCandidate(argsSource, i+1, v)); err != nil {
				return err
			}
		}
		return nil
	}
	// Each stdin line is one value.
	return extract.Lines(stdin, e.cfg.Input.Encoding, func(n int, line string) error {
		return out.Write(sc.ConvertCandidate(stdinSource, n, line))
	})
}

func runExtract(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("extract", stderr)
	common := addCommonFlags(fs)
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	e, err := common.setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	write := func(source string, r io.Reader, encoding string) error {
		return extract.Lines(r, encoding, func(_ int, line string) error {
			return cli.WriteCandidates(stdout, source, extract.Numbers(line), e.format)
		})
	}
	if fs.NArg() == 0 {
		return write(stdinSource, stdin, e.cfg.Input.Encoding)
	}
	ex := extract.NewExtractor()
	for _, path := range fs.Args() {
		if path == "-" {
			if err := write(stdinSource, stdin, e.cfg.Input.Encoding); err != nil {
				return err
			}
			continue
		}
		if extract.IsDocument(filepath.Ext(path)) {
			text, err := ex.Extract(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if err := write(path, strings.NewReader(text), extract.DefaultEncoding); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		err = write(path, f, e.cfg.Input.Encoding)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func runHistory(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("history", stderr)
	common := addCommonFlags(fs)
	serverURL := fs.String("server", "", "server URL (empty = read the database directly)")
	limit := fs.Int("limit", models.DefaultLimit, "number of conversions to show")
	offset := fs.Int("offset", 0, "number of most recent conversions to skip")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	e, err := common.setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	q := models.ListQuery{Offset: *offset, Limit: *limit}
	if err := q.Validate(); err != nil {
		return err
	}
	var convs []*models.Conversion
	if *serverURL != "" {
		var resp models.ListResponse
		target := fmt.Sprintf("%s/api/v1/conversions?offset=%d&limit=%d", *serverURL, q.Offset, q.Limit)
		if err := getJSON(target, &resp); err != nil {
			return err
		}
		convs = resp.Conversions
	} else {
		store, err := storage.NewSQLiteStorage(e.cfg.Storage.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()
		if convs, err = store.ListConversions(context.Background(), q.Offset, q.Limit); err != nil {
			return err
		}
	}
	return cli.WriteHistory(stdout, convs, e.format)
}

func runStatus(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("status", stderr)
	common := addCommonFlags(fs)
	serverURL := fs.String("server", "", "server URL (empty = read the database directly)")
	if err := parseArgs(fs, args); err != nil {
		return err
	}
	e, err := common.setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.logger.Sync() }()

	var status models.Status
	if *serverURL != "" {
		if err := getJSON(*serverURL+"/api/v1/status", &status); err != nil {
			return err
		}
		return cli.WriteStatus(stdout, &status, e.format)
	}

	store, err := storage.NewSQLiteStorage(e.cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()
	ctx := context.Background()
	status.Database = e.cfg.Storage.DatabasePath
	status.Watching = e.cfg.Watch.Directories
	if status.Conversions, err = store.CountConversions(ctx); err != nil {
		return fmt.Errorf("count conversions: %w", err)
	}
	if status.Sources, err = store.CountSources(ctx); err != nil {
		return fmt.Errorf("count sources: %w", err)
	}
	if status.DiskBytes, err = storage.DiskUsageBytes(e.cfg.Storage.DatabasePath); err != nil {
		e.logger.Warn("disk usage failed", zap.Error(err))
	}
	return cli.WriteStatus(stdout, &status, e.format)
}

func runWatch(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "Usage: wordify watch <add|remove|list> [path]")
		fmt.Fprintln(stderr, "  wordify watch add <path>     Add directory to watch")
		fmt.Fprintln(stderr, "  wordify watch remove <path>  Remove directory from watch")
		fmt.Fprintln(stderr, "  wordify watch list           List watched directories")
		return fmt.Errorf("missing watch subcommand")
	}
	sub := args[0]
	fs := newFlagSet("watch "+sub, stderr)
	configPath := fs.String("config", defaultConfigPath, "config file path (used when --server is empty)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = edit the config file directly)")
	if err := parseArgs(fs, args[1:]); err != nil {
		return err
	}

	var path string
	switch sub {
	case "add", "remove":
		if fs.NArg() < 1 {
			return fmt.Errorf("usage: wordify watch %s <path>", sub)
		}
		abs, err := filepath.Abs(fs.Arg(0))
		if err != nil {
			return err
		}
		path = abs
	case "list":
	default:
		return fmt.Errorf("unknown watch subcommand: %s", sub)
	}

	if *serverURL == "" {
		return watchConfig(sub, path, *configPath, stdout)
	}

	switch sub {
	case "add":
		body, _ := json.Marshal(map[string]any{"path": path, "sync": true})
		resp, err := httpClient.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			return responseError("add", resp)
		}
		fmt.Fprintf(stdout, "Added: %s\n", path)
	case "remove":
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return responseError("remove", resp)
		}
		fmt.Fprintf(stdout, "Removed: %s\n", path)
	case "list":
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := getJSON(*serverURL+"/api/v1/watch/directories", &out); err != nil {
			return err
		}
		for _, d := range out.Directories {
			fmt.Fprintln(stdout, d)
		}
	}
	return nil
}

// watchConfig edits the watch directories in the config file. A running
// server picks the change up on restart.
func watchConfig(sub, path, configPath string, stdout io.Writer) error {
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if resolved == "" {
		resolved = configPath
	}
	dirs := cfg.Watch.Directories
	switch sub {
	case "list":
		for _, d := range dirs {
			fmt.Fprintln(stdout, d)
		}
		return nil
	case "add":
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("not a directory: %s", path)
		}
		for _, d := range dirs {
			if d == path {
				fmt.Fprintf(stdout, "Already watching: %s\n", path)
				return nil
			}
		}
		cfg.Watch.Directories = append(dirs, path)
	case "remove":
		kept := dirs[:0]
		for _, d := range dirs {
			if d != path {
				kept = append(kept, d)
			}
		}
		if len(kept) == len(dirs) {
			return fmt.Errorf("not watching: %s", path)
		}
		cfg.Watch.Directories = kept
	}
	if err := config.Save(resolved, cfg); err != nil {
		return err
	}
	if sub == "add" {
		fmt.Fprintf(stdout, "Added: %s\n", path)
	} else {
		fmt.Fprintf(stdout, "Removed: %s\n", path)
	}
	return nil
}

func getJSON(target string, dst any) error {
	resp, err := httpClient.Get(target)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return responseError("request", resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func responseError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s failed (%d): %s", op, resp.StatusCode, strings.TrimSpace(string(b)))
}
