package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/analogkb/analogkb/internal/analog"
	"github.com/analogkb/analogkb/internal/bridge"
	"github.com/analogkb/analogkb/internal/config"
	analogdbus "github.com/analogkb/analogkb/internal/dbus"
	"github.com/analogkb/analogkb/internal/fallback"
	"github.com/analogkb/analogkb/internal/fileops"
	"github.com/analogkb/analogkb/internal/hidscan"
	"github.com/analogkb/analogkb/internal/logger"
	"github.com/analogkb/analogkb/internal/notification"
	"github.com/analogkb/analogkb/internal/state"
	"github.com/analogkb/analogkb/internal/types"
	"github.com/analogkb/analogkb/internal/watcher"
)

func init() {
	// Set custom usage message to show -- prefix
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Fprintf(out, "  --%s", f.Name)
			name, usage := flag.UnquoteUsage(f)
			if len(name) > 0 {
				fmt.Fprintf(out, " %s", name)
			}
			fmt.Fprintf(out, "\n    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Fprintf(out, " (default %q)", f.DefValue)
			}
			fmt.Fprintf(out, "\n")
		})
	}
}

func main() {
	logLevel := flag.String("log-level", "info", "Set log level (debug|info|warn|error)")
	logFilename := flag.String("log-filename", "", "Log to file instead of stdout")
	configPath := flag.String("config", "", "Path to config file (default ~/.config/analogkb/analogkb.yaml)")
	listDevices := flag.Bool("list-devices", false, "List attached HID devices and exit")
	noBrowser := flag.Bool("no-browser", false, "Do not open the capture page automatically")
	flag.Parse()

	logger.SetLevel(*logLevel)
	if *logFilename != "" {
		if err := logger.SetOutputFile(*logFilename); err != nil {
			fmt.Printf("Error setting log file: %v\n", err)
			os.Exit(1)
		}
		defer logger.CloseLogFile()
	}

	if *listDevices {
		printDevices()
		return
	}

	var cfg *types.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadConfigFile(*configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		logger.Error("Error loading config", err)
		os.Exit(1)
	}
	if *noBrowser {
		cfg.Bridge.DisableBrowser = true
	}

	kb := analog.NewState(cfg.GetVendorID(), cfg.GetProductID())
	state.Init(cfg, kb)

	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		logger.Error("Failed to initialize file operations", err)
		os.Exit(1)
	}
	if err := fileOps.EnsureDirectories(); err != nil {
		logger.Error("Failed to create necessary directories", err)
		os.Exit(1)
	}

	// Check if another instance is running
	if err := fileOps.CheckPID(); err != nil {
		if errors.Is(err, fileops.ErrProcessAlreadyRunning) {
			logger.Error("Another instance of analogkb is already running", err)
			os.Exit(1)
		}
	}
	if err := fileOps.SavePID(); err != nil {
		logger.Error("Failed to save PID file", err)
		os.Exit(1)
	}

	// D-Bus query surface, best effort
	if cfg.GetDBusConfig().Enabled {
		dbusServer := analogdbus.NewServer(kb)
		if err := dbusServer.Start(); err != nil {
			logger.Warnf("D-Bus service unavailable: %v", err)
		} else {
			defer dbusServer.Stop()
		}
	}

	// Digital fallback input, best effort
	if cfg.GetFallbackConfig().Enabled {
		monitor := fallback.New(kb, cfg.GetFallbackConfig().Device)
		if err := monitor.Start(context.Background()); err != nil {
			logger.Warnf("Digital fallback disabled: %v", err)
		}
	}

	cyan := color.New(color.FgCyan)
	cyan.Printf("analogkb - watching for keyboard %04x:%04x\n", kb.VID(), kb.PID())
	logger.Info("💡 The capture page URL is printed once the keyboard is detected")

	// Cleanup PID file on signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Infof("Received signal %v, shutting down...", sig)
		if err := fileOps.CleanupPID(); err != nil {
			logger.Error("Failed to cleanup PID file", err)
		}
		os.Exit(0)
	}()

	notifier := notification.New()
	w := watcher.New(kb, bridge.New(kb, cfg.GetBridgeConfig()), notifier)
	w.Run(context.Background())
}

func printDevices() {
	devices := hidscan.ListDevices()
	if len(devices) == 0 {
		fmt.Println("No HID devices found (or HID access not supported on this platform)")
		return
	}
	for _, d := range devices {
		fmt.Printf("%04x:%04x  %-24s %-32s %s\n", d.VendorID, d.ProductID, d.Manufacturer, d.Product, d.Path)
	}
}
