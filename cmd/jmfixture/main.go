// Command jmfixture produces truncated JMdict fixtures for tests.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"jmfixture/config"
	"jmfixture/fetch"
	"jmfixture/fixture"
	"jmfixture/watch"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	app := &cli.App{
		Name:  "jmfixture",
		Usage: "Produce truncated JMdict fixtures for tests",
		Commands: []*cli.Command{
			makeCommand(log),
			fetchCommand(log),
			verifyCommand(log),
			watchCommand(log),
			configCommand(log),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration: the config file when
// given, defaults otherwise, with flags overriding both.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if c.IsSet("in") {
		cfg.JMdict.Path = c.String("in")
	}
	if c.IsSet("out") {
		cfg.Fixture.Path = c.String("out")
	}
	if c.IsSet("entries") {
		cfg.Fixture.Entries = c.Int("entries")
	}
	if c.Bool("no-known-entry") {
		cfg.Fixture.KnownEntry = false
	}
	return cfg, cfg.Validate()
}

func makeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file (.toml, .yaml)"},
		&cli.StringFlag{Name: "in", Usage: "source dictionary (gzip-compressed)"},
		&cli.StringFlag{Name: "out", Usage: "fixture output path"},
		&cli.IntFlag{Name: "entries", Aliases: []string{"n"}, Usage: "entries to copy (0 copies all)"},
		&cli.BoolFlag{Name: "no-known-entry", Usage: "do not append the known test entry"},
	}
}

func runMake(log *slog.Logger, cfg config.Config) error {
	tr := fixture.New().
		WithLimit(cfg.Fixture.Entries).
		WithKnownEntry(cfg.Fixture.KnownEntry)

	stats, err := tr.TruncateFile(cfg.JMdict.Path, cfg.Fixture.Path)
	if err != nil {
		return err
	}
	log.Info("fixture written",
		"path", cfg.Fixture.Path,
		"entries", stats.Entries,
		"known_entry", stats.KnownEntry,
		"truncated", stats.Truncated,
		"bytes_written", stats.BytesWritten,
	)
	return nil
}

func makeCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "make",
		Usage: "Truncate the source dictionary into a fixture",
		Flags: makeFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			return runMake(log, cfg)
		},
	}
}

func fetchCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "fetch",
		Usage: "Download the JMdict distribution",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file (.toml, .yaml)"},
			&cli.StringFlag{Name: "url", Usage: "download URL"},
			&cli.StringFlag{Name: "out", Usage: "destination path"},
			&cli.StringFlag{Name: "sha256", Usage: "expected hex digest of the download"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			url := cfg.JMdict.URL
			if c.IsSet("url") {
				url = c.String("url")
			}
			dest := cfg.JMdict.Path
			if c.IsSet("out") {
				dest = c.String("out")
			}

			var lastPercent int64 = -1
			progress := func(downloaded, total int64) {
				if total <= 0 {
					return
				}
				percent := downloaded * 100 / total
				if percent/10 > lastPercent/10 {
					lastPercent = percent
					log.Info("downloading", "percent", percent, "bytes", downloaded)
				}
			}

			err = fetch.New().Fetch(c.Context, url, dest, &fetch.Options{
				SHA256:   c.String("sha256"),
				Progress: progress,
			})
			if err != nil {
				return err
			}
			log.Info("dictionary downloaded", "url", url, "path", dest)
			return nil
		},
	}
}

func verifyCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check the structure of an existing fixture",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "config file (.toml, .yaml)"},
			&cli.StringFlag{Name: "in", Usage: "fixture to verify (defaults to the configured fixture path)"},
			&cli.IntFlag{Name: "expect-entries", Usage: "expected entry count (0 skips the check)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			path := cfg.Fixture.Path
			if c.IsSet("in") {
				path = c.String("in")
			}

			report, err := fixture.VerifyFile(path)
			if err != nil {
				return err
			}
			if want := c.Int("expect-entries"); want > 0 && report.Entries != want {
				return fmt.Errorf("fixture has %d entries, expected %d", report.Entries, want)
			}
			log.Info("fixture verified",
				"path", path,
				"entries", report.Entries,
				"lines", report.Lines,
				"known_entry", report.KnownEntry,
			)
			return nil
		},
	}
}

func watchCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Regenerate the fixture whenever the source changes",
		Flags: makeFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			// Generate once up front so the fixture exists before the
			// first change arrives.
			if err := runMake(log, cfg); err != nil {
				return err
			}

			log.Info("watching source", "path", cfg.JMdict.Path)
			return watch.New(cfg.JMdict.Path).Run(c.Context, func() error {
				if err := runMake(log, cfg); err != nil {
					// Keep watching; the next write may succeed.
					log.Error("regenerate failed", "error", err)
				}
				return nil
			})
		},
	}
}

func configCommand(log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage the jmfixture configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "path", Value: "jmfixture.toml", Usage: "where to write the config"},
				},
				Action: func(c *cli.Context) error {
					cfg := config.DefaultConfig()
					path := c.String("path")
					if err := cfg.Write(path); err != nil {
						return err
					}
					log.Info("config written", "path", path)
					return nil
				},
			},
			{
				Name:  "schema",
				Usage: "Print the JSON schema for the configuration file",
				Action: func(c *cli.Context) error {
					data, err := config.Schema()
					if err != nil {
						return err
					}
					fmt.Println(string(data))
					return nil
				},
			},
		},
	}
}
