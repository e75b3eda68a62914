package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"divelog"
	"divelog/csvio"
	"divelog/discover"
	"divelog/telem"
)

func NewSessionsCommand() *cobra.Command {
	var (
		recurse   bool
		typeTag   string
		bootField string
		maxGap    float64
	)

	command := &cobra.Command{
		Use:   "sessions [flags] PATH...",
		Short: "Detect boot sessions and print them as segment specs",
		Long: `Detect the device's powered-on stretches from records that pair wall
clock with time since boot. Each session prints as a "start,end,name"
segment spec ready for merge --keep, followed by a clock drift summary.`,
		Args: cobra.MinimumNArgs(1),
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

			opens := make([]divelog.OpenFunc, len(files))
			for i, f := range files {
				opens[i] = csvio.Opener(f, csvio.ReaderConfig{StripPrefix: true})
			}
			chain := divelog.NewLazyChain(opens...)
			defer chain.Close()

			pairs := divelog.CollectTimePairs(chain, typeTag, bootField)
			if err := chain.Err(); err != nil {
				logger.Warn("source ended abnormally", zap.Error(err))
			}
			if len(pairs) == 0 {
				return fmt.Errorf(
					"no %s records carrying %s in %d files", typeTag, bootField, len(files),
				)
			}

			sessions := divelog.DetectSessions(pairs, divelog.SessionConfig{
				MaxGap: telem.TimeSpan(maxGap),
				Logger: logger,
			})

			out := cmd.OutOrStdout()
			for i, s := range sessions {
				seg := s.Segment()
				fmt.Fprintf(
					out,
					"session %d: %.0f,%.0f,%s  span=%v  boot=[%v, %v]  origin=%s\n",
					i+1,
					float64(seg.Start), float64(seg.End), seg.Name,
					s.Wall.Span(), s.BootStart, s.BootEnd, s.Origin,
				)
			}
			if report, ok := divelog.MeasureDrift(pairs); ok {
				fmt.Fprintf(
					out,
					"drift: samples=%d mean=%v std=%v min=%v max=%v net=%v over %v\n",
					report.Samples, report.Mean, report.StdDev,
					report.Min, report.Max, report.Net, report.Span,
				)
			}
			return nil
		},
	}

	command.Flags().BoolVarP(&recurse, "recurse", "r", false, "enter directories looking for csv files")
	command.Flags().StringVar(&typeTag, "type", "SYSTEM_TIME", "record type pairing wall clock with boot time")
	command.Flags().StringVar(&bootField, "boot-field", "time_boot_ms", "field holding milliseconds since boot")
	command.Flags().Float64Var(&maxGap, "max-gap", 5.0, "wall-clock gap in seconds that opens a new session")
	return command
}
