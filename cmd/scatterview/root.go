package main

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"scatterview/internal/config"
	"scatterview/internal/logging"
	"scatterview/internal/tui"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "scatterview [file]",
		Short:         "Terminal point cloud viewer",
		Long:          `Draws projected point records from CSV, GeoJSON, KML or WKT files, colored by a selectable attribute.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runViewer,
	}

	addPersistentFlags(rootCmd)
	rootCmd.Flags().String("attr", "", "Attribute to color by (overrides config)")
	rootCmd.AddCommand(NewSnapshotCmd())
	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "scatterview.yaml", "Config file")
	cmd.PersistentFlags().String("log-file", "", "Write debug logs to this file")
}

// setup loads the config and enables logging for a command run. The returned
// func releases the log file.
func setup(cmd *cobra.Command) (*config.Config, func(), error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, nil, err
	}
	if attr, _ := cmd.Flags().GetString("attr"); attr != "" {
		cfg.DefaultAttribute = attr
	}

	done := func() {}
	if logPath, _ := cmd.Flags().GetString("log-file"); logPath != "" {
		f, err := logging.ToFile(logPath, slog.LevelDebug)
		if err != nil {
			return nil, nil, err
		}
		done = func() {
			logging.SetLogger(nil)
			f.Close()
		}
	}
	return cfg, done, nil
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, done, err := setup(cmd)
	if err != nil {
		return err
	}
	defer done()

	var m tui.Model
	if len(args) > 0 {
		m = tui.NewWithPath(cfg, args[0])
	} else {
		m = tui.New(cfg)
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(cmd.Context()))
	final, err := p.Run()
	if fm, ok := final.(tui.Model); ok {
		fm.Close()
	}
	return err
}
