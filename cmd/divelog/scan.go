package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"divelog"
	"divelog/catalog"
	"divelog/csvio"
	"divelog/discover"
	"divelog/pk"
	"divelog/scan"
)

func NewScanCommand() *cobra.Command {
	var (
		recurse bool
		workers int64
		db      string
		prune   bool
	)

	command := &cobra.Command{
		Use:   "scan [flags] PATH...",
		Short: "Summarize log files into the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loggerFor(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()
			fs := afero.NewOsFs()

			files, err := discover.Expand(fs, args, recurse, ".csv")
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return fmt.Errorf("no csv files found")
			}

			cat, err := catalog.Open(db, catalog.WithLogger(logger))
			if err != nil {
				return err
			}
			defer cat.Close()

			scanner := scan.New(scan.Config{
				Open:    openCSV,
				Catalog: cat,
				Workers: workers,
				FS:      fs,
				Logger:  logger,
			})
			run := pk.New()
			entries, errs := scanner.Exec(cmd.Context(), run, files...)

			failed := 0
			for i, err := range errs {
				if err != nil {
					failed++
					logger.Error("scan failed", zap.String("path", files[i]), zap.Error(err))
					continue
				}
				e := entries[i]
				fmt.Fprintf(
					cmd.OutOrStdout(),
					"%s: %d records, %d types, %.3f..%.3f\n",
					e.Path, e.Records, len(e.Types),
					float64(e.Range.Start), float64(e.Range.End),
				)
			}
			if prune && failed == 0 {
				swept, err := cat.Sweep(run)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d stale entries\n", swept)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(files))
			}
			return nil
		},
	}

	command.Flags().BoolVarP(&recurse, "recurse", "r", false, "enter directories looking for csv files")
	command.Flags().Int64Var(&workers, "workers", 8, "files scanned in parallel")
	command.Flags().StringVar(&db, "db", ".divelog", "catalog directory")
	command.Flags().BoolVar(&prune, "prune", false, "drop catalog entries not seen by this scan")
	return command
}

func openCSV(path string) (divelog.Source, error) {
	return csvio.OpenReader(path, csvio.ReaderConfig{StripPrefix: true})
}
