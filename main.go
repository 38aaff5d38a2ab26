package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	apexlog "github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cfpulse/cfpulse/internal/engine"
	"github.com/cfpulse/cfpulse/internal/logging"
	"github.com/cfpulse/cfpulse/internal/report"
	"github.com/cfpulse/cfpulse/internal/settings"
)

var (
	BuildName       = "\b"
	BuildAnnotation = "git"
)

type cmdOpts struct {
	pingCount  int
	downloadMB int64
	uploadMB   int64
	configPath string
	saveConfig bool
	testIP4    bool
	testIP6    bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := cmdOpts{}

	cmd := &cobra.Command{
		Use:           "cfpulse",
		Short:         "Measure latency, download and upload speed against speed.cloudflare.com",
		Version:       fmt.Sprintf("%s (%s)", BuildName, BuildAnnotation),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.pingCount, "ping-count", 0, "number of latency round trips (5-100, step 5)")
	cmd.Flags().Int64Var(&opts.downloadMB, "download-mb", 0, "download payload size in MB (25-500, step 25)")
	cmd.Flags().Int64Var(&opts.uploadMB, "upload-mb", 0, "upload payload size in MB (25-250, step 25)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a settings file (YAML)")
	cmd.Flags().BoolVar(&opts.saveConfig, "save-config", false, "write the effective settings back to --config")
	cmd.Flags().BoolVarP(&opts.testIP4, "ip4", "4", false, "measure over IPv4")
	cmd.Flags().BoolVarP(&opts.testIP6, "ip6", "6", false, "measure over IPv6")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "enable debug logging")

	return cmd
}

func effectiveSettings(cmd *cobra.Command, opts *cmdOpts) (settings.Settings, error) {
	s := settings.Default()

	if opts.configPath != "" {
		loaded, err := settings.Load(opts.configPath)
		if err != nil {
			return s, err
		}
		s = loaded
	}

	if cmd.Flags().Changed("ping-count") {
		s.PingCount = opts.pingCount
	}
	if cmd.Flags().Changed("download-mb") {
		s.DownloadSizeMB = opts.downloadMB
	}
	if cmd.Flags().Changed("upload-mb") {
		s.UploadSizeMB = opts.uploadMB
	}

	return s.Normalized(), nil
}

func run(cmd *cobra.Command, opts *cmdOpts) error {
	if opts.verbose {
		logging.Logger.Level = apexlog.DebugLevel
	}
	if opts.testIP4 && opts.testIP6 {
		return errors.New("--ip4 and --ip6 are mutually exclusive")
	}

	s, err := effectiveSettings(cmd, opts)
	if err != nil {
		return err
	}
	if opts.saveConfig {
		if opts.configPath == "" {
			return errors.New("--save-config requires --config")
		}
		if err := settings.Save(opts.configPath, s); err != nil {
			return err
		}
	}

	network := "tcp"
	if opts.testIP4 {
		network = "tcp4"
	}
	if opts.testIP6 {
		network = "tcp6"
	}

	printer := log.New(cmd.OutOrStdout(), "", 0)
	printer.Printf("cfpulse %s (%s)\n", BuildName, BuildAnnotation)
	printer.Printf("At: %s\n", time.Now().Format(time.RFC1123Z))
	printer.Println()

	eng := engine.New()
	eng.Network = network
	eng.Start(s)

	stop := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		eng.Cancel()
		close(stop)
	}()

	return report.NewPrinter(printer).Consume(stop, eng.Events())
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Logger.WithError(err).Error("measurement failed")
		os.Exit(1)
	}
}
