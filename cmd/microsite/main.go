package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/mxmul/microsite"
	"github.com/mxmul/microsite/internal/adapters/cli"
	"github.com/mxmul/microsite/internal/config"
	"github.com/mxmul/microsite/internal/initcmd"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"microsite.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct{} `cmd:"" help:"Build the site into the dist directory"`

	Watch struct {
		Serve string `short:"s" help:"Serve dist over HTTP at this address (e.g. :8080)" optional:""`
	} `cmd:"" help:"Rebuild on source changes"`

	Clean struct{} `cmd:"" help:"Remove build output and the work directory"`

	Init struct {
		Dir   string `arg:"" help:"Project directory" default:"."`
		Force bool   `help:"Scaffold into a non-empty directory"`
	} `cmd:"" help:"Scaffold a starter site"`

	Doctor struct{} `cmd:"" help:"Check that the site directory can build"`
}

func main() {
	kctx := kong.Parse(&CLI)
	out := cli.NewOutput()

	var err error
	switch kctx.Command() {
	case "build":
		err = runBuild()
	case "watch":
		err = runWatch()
	case "clean":
		err = runClean()
	case "init <dir>", "init":
		err = initcmd.Run(CLI.Init.Dir, CLI.Init.Force, out)
	case "doctor":
		err = runDoctor()
	}

	if err != nil {
		out.PrintError("%v", err)
		os.Exit(1)
	}
}

func loadConfig() (*microsite.Config, error) {
	cfg, err := microsite.LoadConfig(CLI.Config)
	if err != nil {
		return nil, err
	}
	if cfg.Root == "." || cfg.Root == "" {
		// Paths in the config file are relative to the file itself.
		cfg.Root = filepath.Dir(CLI.Config)
	}
	config.SetupLogger(cfg.Log, CLI.Verbose)
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runBuild() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return microsite.Build(ctx, cfg)
}

func runWatch() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return microsite.Watch(ctx, cfg, CLI.Watch.Serve)
}

func runClean() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return microsite.Clean(cfg)
}

func runDoctor() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return initcmd.Doctor(cfg, cli.NewOutput())
}
