// Command bencat reads one or more bencoded files, decodes each, and
// prints the result as JSON.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/prxssh/bencat/bencode"
	"github.com/prxssh/bencat/internal/config"
	"github.com/prxssh/bencat/internal/logging"
)

func main() {
	var (
		maxDepth  = flag.Int("max-depth", 0, "maximum container nesting depth (0 = default)")
		maxTokens = flag.Int("max-tokens", 0, "maximum number of tokens to decode (0 = default)")
		compact   = flag.Bool("compact", false, "print compact JSON instead of pretty-printed")
		noColor   = flag.Bool("no-color", false, "disable colorized output")
		verbose   = flag.Bool("v", false, "log decode timing and diagnostics")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] file [file...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	config.Init()
	config.Update(func(c *config.Config) {
		c.DepthLimit = *maxDepth
		c.TokenLimit = *maxTokens
		c.Pretty = !*compact
		c.Color = !*noColor
	})
	cfg := config.Load()

	setupLogger(cfg, *verbose)

	if err := run(flag.Args(), cfg); err != nil {
		printErr(cfg, err)
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config, verbose bool) {
	opts := logging.DefaultOptions()
	opts.UseColor = cfg.Color
	if verbose {
		opts.SlogOpts.Level = slog.LevelDebug
	} else {
		opts.SlogOpts.Level = slog.LevelWarn
	}

	h := logging.NewPrettyHandler(os.Stderr, &opts)
	slog.SetDefault(slog.New(h))
}

// run decodes every path concurrently, one goroutine per file, and prints
// each result in argument order once all have succeeded. If any decode
// fails, nothing is printed and the first error is returned; the other
// decodes still run to completion.
func run(paths []string, cfg *config.Config) error {
	outputs := make([]string, len(paths))

	g := new(errgroup.Group)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			out, err := decodeFile(path, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, out := range outputs {
		fmt.Println(out)
	}
	return nil
}

func decodeFile(path string, cfg *config.Config) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	start := time.Now()
	node, err := bencode.DecodeLimits(data, cfg.DepthLimit, cfg.TokenLimit)
	if err != nil {
		return "", err
	}
	slog.Debug("decoded", "file", path, "bytes", len(data), "elapsed", time.Since(start))

	if cfg.Pretty {
		return node.ToJSONPretty(), nil
	}
	return node.ToJSON(), nil
}

func printErr(cfg *config.Config, err error) {
	if cfg.Color {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprint("error: ")+err.Error())
		return
	}
	fmt.Fprintln(os.Stderr, "error: "+err.Error())
}
