package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"snipai/internal/pipeline"
	"snipai/internal/record"
	"snipai/internal/util"
)

func parseFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "text", "txt":
		return record.FormatText, nil
	case "word", "docx":
		return record.FormatWord, nil
	case "excel", "xlsx":
		return record.FormatExcel, nil
	case "powerpoint", "pptx":
		return record.FormatPowerPoint, nil
	default:
		return "", fmt.Errorf("unknown format %q (use word, excel, powerpoint or text)", raw)
	}
}

func newCmd() *cobra.Command {
	var (
		purpose  string
		format   string
		name     string
		captures []string
		runNow   bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a run from capture images and save it",
		Long: `Create a run from capture images and save it.

Examples:
  snipai new --purpose "Summarize the error dialogs" --capture shot1.png --capture shot2.png
  snipai new --purpose "Document the setup flow" --format word --name setup-guide --capture flow.png --run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			docFormat, err := parseFormat(format)
			if err != nil {
				return err
			}
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			// Captures are imported into the run's capture directory under
			// ordered, numbered names.
			names := make([]string, len(captures))
			for i, src := range captures {
				ext := strings.ToLower(filepath.Ext(src))
				if ext == "" {
					ext = ".png"
				}
				names[i] = fmt.Sprintf("%03d%s", i+1, ext)
			}

			rec, err := a.service.CreateRun(purpose, docFormat, name, names)
			if err != nil {
				return err
			}
			for i, src := range captures {
				dst := filepath.Join(a.service.Store.CapturesDir(rec.RunID), names[i])
				if err := util.CopyFile(src, dst, true); err != nil {
					return fmt.Errorf("import capture %s: %w", src, err)
				}
			}

			if !runNow {
				if err := a.service.Save(rec); err != nil {
					return err
				}
				fmt.Printf("saved run %s (%d captures)\n", rec.RunID, len(rec.Captures))
				return nil
			}

			out, err := a.service.Run(cmd.Context(), rec)
			if err != nil {
				return err
			}
			printOutcome(rec.RunID, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&purpose, "purpose", "", "what the AI should do with the captures")
	cmd.Flags().StringVar(&format, "format", "", "output format: word, excel, powerpoint or text")
	cmd.Flags().StringVar(&name, "name", "", "output file name stem")
	cmd.Flags().StringArrayVar(&captures, "capture", nil, "capture image file (repeatable, order matters)")
	cmd.Flags().BoolVar(&runNow, "run", false, "run the pipeline immediately after saving")
	return cmd
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <run-id>",
		Short: "Run a saved record through the pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			rec, err := a.service.Store.Load(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("load run: %w", err)
			}
			out, err := a.service.Run(cmd.Context(), rec)
			if err != nil {
				return err
			}
			printOutcome(rec.RunID, out)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			runs, err := a.service.RecentRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs yet")
				return nil
			}
			for _, r := range runs {
				marker := " "
				if r.Status == record.StatusDone {
					marker = "*"
				}
				format := r.DocFormat
				if format == "" {
					format = "Text"
				}
				fmt.Printf("%s %s  %-10s  %-10s  %s\n", marker, r.RunID, format, r.Status, r.Purpose)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", record.DefaultRecentLimit, "maximum number of runs to list")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage stored credentials",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-key <api-key>",
		Short: "Store the AI provider API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}
			defer a.close()

			creds := a.service.Orchestrator.Credentials
			fc, ok := creds.(interface{ SaveAPIKey(string) error })
			if !ok {
				return fmt.Errorf("credential store does not support updates")
			}
			if err := fc.SaveAPIKey(args[0]); err != nil {
				return err
			}
			fmt.Println("API key stored")
			return nil
		},
	})
	return cmd
}

func printOutcome(runID string, out pipeline.Outcome) {
	fmt.Printf("run %s done\nartifact: %s\n", runID, out.ArtifactPath)
	if out.RemoteID != "" {
		fmt.Println("remote id: " + out.RemoteID)
	}
}
