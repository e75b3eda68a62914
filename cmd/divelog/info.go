package main

import (
	"fmt"
	"sort"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"divelog/catalog"
	"divelog/discover"
	"divelog/pk"
	"divelog/scan"
)

func NewInfoCommand() *cobra.Command {
	var (
		recurse   bool
		db        string
		showTypes bool
	)

	command := &cobra.Command{
		Use:   "info [flags] PATH...",
		Short: "Summarize log files, reading the catalog instead of unchanged files",
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
				FS:      fs,
				Logger:  logger,
			})
			entries, errs := scanner.Exec(cmd.Context(), pk.New(), files...)

			out := cmd.OutOrStdout()
			failed := 0
			for i, err := range errs {
				if err != nil {
					failed++
					logger.Error("info failed", zap.String("path", files[i]), zap.Error(err))
					continue
				}
				e := entries[i]
				span := e.Range.Span()
				fmt.Fprintf(
					out,
					"%s\n  %d records over %v (%.3f..%.3f), %d bytes\n",
					e.Path, e.Records, span,
					float64(e.Range.Start), float64(e.Range.End), e.Size,
				)
				if !showTypes {
					continue
				}
				types := make([]string, 0, len(e.Types))
				for t := range e.Types {
					types = append(types, t)
				}
				sort.Strings(types)
				for _, t := range types {
					fmt.Fprintf(out, "  %-24s %d\n", t, e.Types[t])
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(files))
			}
			return nil
		},
	}

	command.Flags().BoolVarP(&recurse, "recurse", "r", false, "enter directories looking for csv files")
	command.Flags().StringVar(&db, "db", ".divelog", "catalog directory")
	command.Flags().BoolVar(&showTypes, "types", false, "break counts down by record type")
	return command
}
