package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"divelog"
	"divelog/csvio"
	"divelog/telem"
)

func NewAlignCommand() *cobra.Command {
	var (
		signal        string
		subjectSignal string
		refType       string
		subjectType   string
		window        float64
		steps         int
		base          float64
	)

	command := &cobra.Command{
		Use:   "align [flags] REF SUBJECT",
		Short: "Estimate the clock shift between two logs from a shared signal",
		Long: `Estimate the clock shift that places SUBJECT on REF's timeline by
comparing a physical signal both logs recorded, e.g. barometric pressure.
The coarse shift lines up the first samples (override with --base); a grid
search then refines it to the minimum mean squared error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := loggerFor(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if subjectSignal == "" {
				subjectSignal = signal
			}
			ref, err := collectSignal(args[0], refType, signal, logger)
			if err != nil {
				return err
			}
			subject, err := collectSignal(args[1], subjectType, subjectSignal, logger)
			if err != nil {
				return err
			}

			coarse := telem.Clock{Shift: telem.TimeSpan(base)}
			if !cmd.Flags().Changed("base") {
				if ref.Len() == 0 || subject.Len() == 0 {
					return fmt.Errorf("signal %q yielded no samples", signal)
				}
				coarse = telem.Clock{
					Shift: ref.Range().Start.Sub(subject.Range().Start),
				}
			}
			logger.Info(
				"refining",
				zap.Int("refSamples", ref.Len()),
				zap.Int("subjectSamples", subject.Len()),
				zap.Stringer("coarse", coarse),
			)

			pipe := divelog.New(divelog.WithLogger(logger))
			rec := pipe.NewReconciler(divelog.ReconcileConfig{
				Reference: ref,
				Subject:   subject,
				Window:    telem.TimeSpan(window),
				Steps:     steps,
			})
			a, err := rec.Refine(coarse)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "shift       %v\n", a.Clock.Shift)
			fmt.Fprintf(out, "delta       %v\n", a.Delta)
			fmt.Fprintf(out, "mse         %g (from %g)\n", a.MSE, a.InitialMSE)
			fmt.Fprintf(out, "improvement %.1f%%\n", a.Improvement()*100)
			return nil
		},
	}

	command.Flags().StringVar(&signal, "signal", "", "column both logs share, e.g. press_abs")
	command.Flags().StringVar(&subjectSignal, "subject-signal", "", "subject column when named differently")
	command.Flags().StringVar(&refType, "ref-type", "", "restrict the reference signal to one record type")
	command.Flags().StringVar(&subjectType, "subject-type", "", "restrict the subject signal to one record type")
	command.Flags().Float64Var(&window, "window", 0.2, "search half-window in seconds")
	command.Flags().IntVar(&steps, "steps", 2000, "search grid resolution")
	command.Flags().Float64Var(&base, "base", 0, "base shift in seconds, skipping the coarse estimate")
	_ = command.MarkFlagRequired("signal")
	return command
}

func collectSignal(path, typeTag, field string, logger *zap.Logger) (divelog.Series, error) {
	r, err := csvio.OpenReader(path, csvio.ReaderConfig{StripPrefix: true})
	if err != nil {
		return divelog.Series{}, err
	}
	defer r.Close()
	s := divelog.CollectSeries(r, typeTag, field)
	if err := r.Err(); err != nil {
		logger.Warn("source ended abnormally", zap.String("path", path), zap.Error(err))
	}
	logger.Debug(
		"collected signal",
		zap.String("path", path),
		zap.String("field", field),
		zap.Int("samples", s.Len()),
	)
	return s, nil
}
