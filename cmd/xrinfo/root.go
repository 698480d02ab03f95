package main

import (
	"encoding/json"

	"github.com/devblok/koruxr/core"
	"github.com/devblok/koruxr/device/vulkan"
	"github.com/devblok/koruxr/xr/loader"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	envFile    string
	loaderName string
	logLevel   string
	withVulkan bool
	cfg        core.Configuration
)

var rootCmd = &cobra.Command{
	Use:   "xrinfo",
	Short: "Report OpenXR runtime extensions and API layers",
	Long: `xrinfo opens the OpenXR loader, lists the instance extensions and
API layers the active runtime offers and prints them as JSON.

With --vulkan it also creates a Vulkan instance and lists the instance
extensions and physical devices of the driver.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = core.LoadConfiguration(envFile); err != nil {
			return errors.Wrap(err, "loading configuration")
		}
		if cmd.Flags().Changed("log-level") {
			if cfg.LogLevel, err = log.ParseLevel(logLevel); err != nil {
				return err
			}
		}
		log.SetLevel(cfg.LogLevel)
		if cmd.Flags().Changed("loader") {
			cfg.XR.LoaderLibrary = loaderName
		}
		return nil
	},
	RunE: run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file filling unset KORUXR_* variables")
	rootCmd.PersistentFlags().StringVar(&loaderName, "loader", "", "OpenXR loader library (default "+loader.DefaultLibraryName()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&withVulkan, "vulkan", false, "also report Vulkan instance extensions and physical devices")
}

func run(cmd *cobra.Command, args []string) error {
	lib, err := loader.Open(cfg.XR.LoaderLibrary)
	if err != nil {
		return err
	}
	defer lib.Close()

	report, err := runtimeReport(lib, lib.Name())
	if err != nil {
		return err
	}

	if withVulkan {
		backend, err := vulkan.New()
		if err != nil {
			return err
		}
		if report.Vulkan, err = vulkanReport(backend, cfg.Graphics); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
