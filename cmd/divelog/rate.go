package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"divelog"
	"divelog/csvio"
	"divelog/discover"
	"divelog/telem"
)

func NewRateCommand() *cobra.Command {
	var (
		typeTag string
		halfN   int
		maxGap  float64
		column  string
		out     string
	)

	command := &cobra.Command{
		Use:   "rate [flags] PATH",
		Short: "Annotate one record type with its estimated message rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loggerFor(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			r, err := csvio.OpenReader(args[0], csvio.ReaderConfig{StripPrefix: true})
			if err != nil {
				return err
			}
			defer r.Close()

			pipe := divelog.New(divelog.WithLogger(logger))
			acc := pipe.NewAccumulator(divelog.AccumulatorConfig{
				Types: []string{typeTag},
			})
			acc.Drain(r)
			tbl := acc.Table(typeTag)
			if tbl == nil || tbl.Len() == 0 {
				return fmt.Errorf("%s has no %s records", args[0], typeTag)
			}

			est := pipe.NewRateEstimator(divelog.RateConfig{
				HalfWindow: halfN,
				MaxGap:     telem.TimeSpan(maxGap),
			})
			if err := est.Annotate(tbl, column); err != nil {
				return err
			}

			if out == "" {
				out = discover.OutName(args[0], "_rate", ".csv")
			}
			return writeTable(afero.NewOsFs(), out, tbl, logger)
		},
	}

	command.Flags().StringVar(&typeTag, "type", "", "record type to annotate")
	command.Flags().IntVar(&halfN, "half-n", 10, "rate window half width")
	command.Flags().Float64Var(&maxGap, "max-gap", 4.0, "gap threshold in seconds")
	command.Flags().StringVar(&column, "column", "", "rate column name, defaults to rate")
	command.Flags().StringVar(&out, "out", "", "output path")
	_ = command.MarkFlagRequired("type")
	return command
}
