package cmd

import (
	"fmt"

	"github.com/Eursukkul/event-registration/config"
	"github.com/Eursukkul/event-registration/internal/report"
	"github.com/Eursukkul/event-registration/internal/service"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:       "report NAME",
	Short:     "Build the attendance, revenue or sessions report",
	Long:      "Prints the report, or writes it to --out in the format the file extension names (.json, .csv, .yaml).",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{service.ReportAttendance, service.ReportRevenue, service.ReportSessions},
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")

		return withApp(cmd, func(a *app) error {
			if out != "" {
				if err := a.reports.Export(cmd.Context(), afero.NewOsFs(), args[0], out); err != nil {
					return err
				}
				cmd.Printf("wrote %s\n", out)
				return nil
			}
			t, err := a.reports.Build(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			body, err := report.Encode(t, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		})
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the data directory files into the backup directory with a timestamp",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Storage != config.StorageFile {
			return fmt.Errorf("backup needs the file backend, storage is %q", cfg.Storage)
		}
		return withApp(cmd, func(a *app) error {
			if err := a.files.Save(); err != nil {
				return err
			}
			files, err := a.flusher().Backup()
			if err != nil {
				return err
			}
			for _, f := range files {
				cmd.Println(f)
			}
			return nil
		})
	},
}

func init() {
	reportCmd.Flags().StringP("out", "o", "", "write to this file instead of stdout")
	reportCmd.Flags().String("format", "json", "stdout format: json, csv or yaml")
	rootCmd.AddCommand(reportCmd, backupCmd)
}
