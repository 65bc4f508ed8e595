package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Liyulingyue/PaddleLabel/internal/database"
	"github.com/Liyulingyue/PaddleLabel/internal/dataset"
	"github.com/Liyulingyue/PaddleLabel/internal/jobs"
	"github.com/Liyulingyue/PaddleLabel/internal/store"

	"github.com/spf13/cobra"
)

func importCommand() *cobra.Command {
	var (
		projectID uint
		format    string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a project's data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(cmd, projectID, dataset.KindImport, format, "")
		},
	}
	cmd.Flags().UintVar(&projectID, "project", 0, "project id")
	cmd.Flags().StringVar(&format, "format", "", "dataset format: coco or voc (default: project setting, then voc)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func exportCommand() *cobra.Command {
	var (
		projectID uint
		format    string
		out       string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a project's tasks to a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(cmd, projectID, dataset.KindExport, format, out)
		},
	}
	cmd.Flags().UintVar(&projectID, "project", 0, "project id")
	cmd.Flags().StringVar(&format, "format", "", "dataset format: coco or voc")
	cmd.Flags().StringVarP(&out, "out", "o", "", "export directory")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// runConversion runs one import or export through the tracker and prints its status as JSON.
func runConversion(cmd *cobra.Command, projectID uint, kind, format, out string) error {
	ctx := cmd.Context()
	s := store.New(database.GetDB())

	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if format == "" {
		format = p.LabelFormat
	}
	format, err = dataset.ResolveFormat(p.TaskCategory, format)
	if err != nil {
		return err
	}

	engine := dataset.NewEngine(s, dataset.DefaultOptions())
	st, runErr := jobs.Default().Run(ctx, projectID, kind, format, func(ctx context.Context) (dataset.RunReport, error) {
		if kind == dataset.KindExport {
			return engine.Export(ctx, projectID, format, out)
		}
		return engine.Import(ctx, projectID, format)
	})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}
