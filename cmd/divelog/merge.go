package main

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"divelog"
	"divelog/csvio"
	"divelog/discover"
	"divelog/profile"
	"divelog/telem"
	"divelog/transform"
)

func NewMergeCommand() *cobra.Command {
	var (
		recurse     bool
		types       []string
		profileName string
		profileFile string
		keep        []string
		maxRecords  int
		maxRows     int
		rate        bool
		halfN       int
		maxGap      float64
		sysid       int
		compid      int
		splitSource bool
		intersect   bool
		explode     bool
		noMerge     bool
		hdopMax     float64
		filterBad   bool
		pscu        bool
		out         string
	)

	command := &cobra.Command{
		Use:   "merge [flags] PATH...",
		Short: "Interleave per-type csv logs and write one wide, forward-filled csv",
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
			logger.Info("merging", zap.Int("files", len(files)))

			prof, err := resolveProfile(fs, profileName, profileFile)
			if err != nil {
				return err
			}
			if len(types) == 0 {
				types = prof.Types
			}

			inputs := make([]divelog.Input, 0, len(files))
			for _, f := range files {
				r, err := csvio.OpenReader(f, csvio.ReaderConfig{StripPrefix: true})
				if err != nil {
					return err
				}
				inputs = append(inputs, divelog.Input{Source: r})
			}

			pipe := divelog.New(divelog.WithLogger(logger))
			mode := divelog.ModeUnion
			if intersect {
				mode = divelog.ModeIntersect
			}
			merger, err := pipe.NewMerger(divelog.MergerConfig{Mode: mode}, inputs...)
			if err != nil {
				return err
			}
			defer merger.Close()

			var src divelog.Source = merger
			if sysid != 0 || compid != 0 {
				src = filterSource{Source: src, keep: matchSource(sysid, compid)}
			}

			reg := buildRegistry(transform.GPSConfig{HdopMax: hdopMax, FilterBad: filterBad}, pscu, prof.SubInfo)
			newAcc := func() *divelog.Accumulator {
				return pipe.NewAccumulator(divelog.AccumulatorConfig{
					Types:       types,
					Transforms:  reg,
					SplitSource: splitSource,
					MaxRecords:  maxRecords,
				})
			}

			if out == "" {
				out = discover.OutName(files[0], "_merged", ".csv")
			}

			write := func(acc *divelog.Accumulator, suffix string) error {
				tables := acc.Tables()
				if rate {
					est := pipe.NewRateEstimator(divelog.RateConfig{HalfWindow: halfN, MaxGap: telem.TimeSpan(maxGap)})
					for _, t := range tables {
						if err := est.Annotate(t, t.Type()+".rate"); err != nil {
							return err
						}
					}
				}
				if explode {
					for _, t := range tables {
						if t.Len() == 0 {
							continue
						}
						name := discover.OutName(files[0], suffix+"_"+t.Type(), ".csv")
						if err := writeTable(fs, name, t, logger); err != nil {
							return err
						}
					}
				}
				if noMerge {
					return nil
				}
				frame := pipe.MergeWide(tables, divelog.WideConfig{MaxRows: maxRows})
				if frame == nil {
					logger.Info("nothing to write")
					return nil
				}
				name := out
				if suffix != "" {
					name = discover.OutName(out, suffix, ".csv")
				}
				return writeFrame(fs, name, frame, logger)
			}

			segments := pipe.ParseSegments(keep)
			if len(segments) == 0 {
				acc := newAcc()
				acc.Drain(src)
				return write(acc, "")
			}
			for _, w := range pipe.Windows(src, segments) {
				acc := newAcc()
				acc.Drain(w)
				if err := write(acc, "_"+w.Segment().Name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	command.Flags().BoolVarP(&recurse, "recurse", "r", false, "enter directories looking for csv files")
	command.Flags().StringSliceVar(&types, "types", nil, "comma separated list of record types")
	command.Flags().StringVar(&profileName, "profile", "useful", "named type profile")
	command.Flags().StringVar(&profileFile, "profiles", "", "YAML file with additional type profiles")
	command.Flags().StringArrayVar(&keep, "keep", nil, "keep a segment start,end[,name], repeatable")
	command.Flags().IntVar(&maxRecords, "max-records", 0, "stop accumulating after this many records")
	command.Flags().IntVar(&maxRows, "max-rows", 0, "stop widening after this many rows")
	command.Flags().BoolVar(&rate, "rate", false, "annotate each table with a message rate column")
	command.Flags().IntVar(&halfN, "half-n", 10, "rate window half width")
	command.Flags().Float64Var(&maxGap, "max-gap", 4.0, "rate gap threshold in seconds")
	command.Flags().IntVar(&sysid, "sysid", 0, "keep records from this system id only")
	command.Flags().IntVar(&compid, "compid", 0, "keep records from this component id only")
	command.Flags().BoolVar(&splitSource, "split-source", false, "give each emitting source its own table")
	command.Flags().BoolVar(&intersect, "intersect", false, "merge only the overlapping range of all inputs")
	command.Flags().BoolVar(&explode, "explode", false, "write a csv file for each record type")
	command.Flags().BoolVar(&noMerge, "no-merge", false, "skip the wide merge, useful with --explode")
	command.Flags().Float64Var(&hdopMax, "hdop-max", 100.0, "drop GPS fixes with hdop above this when filtering")
	command.Flags().BoolVar(&filterBad, "filter-bad", false, "drop GPS warm-up rows")
	command.Flags().BoolVar(&pscu, "pscu", false, "flip the position controller down axis into a PSCU table")
	command.Flags().StringVar(&out, "out", "", "merged output path")
	return command
}

// |||||| HELPERS ||||||

// filterSource drops records the predicate rejects, transparently.
type filterSource struct {
	divelog.Source
	keep func(divelog.Record) bool
}

func (f filterSource) Next() bool {
	for f.Source.Next() {
		if f.keep(f.Source.Record()) {
			return true
		}
	}
	return false
}

func matchSource(sysid, compid int) func(divelog.Record) bool {
	return func(rec divelog.Record) bool {
		if sysid != 0 && int(rec.Source.System) != sysid {
			return false
		}
		if compid != 0 && int(rec.Source.Component) != compid {
			return false
		}
		return true
	}
}

func resolveProfile(fs afero.Fs, name, file string) (profile.Profile, error) {
	profiles := profile.Builtin()
	if file != "" {
		loaded, err := profile.Load(fs, file)
		if err != nil {
			return profile.Profile{}, err
		}
		profiles = append(profiles, loaded...)
	}
	prof, ok := profile.Find(profiles, name)
	if !ok {
		names := make([]string, len(profiles))
		for i, p := range profiles {
			names[i] = p.Name
		}
		return profile.Profile{}, fmt.Errorf(
			"unknown profile %q, have %s", name, strings.Join(names, ", "),
		)
	}
	return prof, nil
}

func buildRegistry(gps transform.GPSConfig, pscu bool, subInfo []string) divelog.Registry {
	reg := transform.Telemetry(gps)
	reg.Merge(transform.Dataflash(pscu))
	if len(subInfo) > 0 {
		reg.Register("NAMED_VALUE_FLOAT", transform.NamedValueFloat(subInfo...))
	}
	return reg
}

func writeTable(fs afero.Fs, path string, t *divelog.Table, logger *zap.Logger) error {
	w, err := csvio.Create(path, csvio.WriterConfig{FS: fs})
	if err != nil {
		return err
	}
	logger.Info("writing", zap.String("path", path), zap.Int("rows", t.Len()))
	if err := w.WriteTable(t); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func writeFrame(fs afero.Fs, path string, f *divelog.Frame, logger *zap.Logger) error {
	w, err := csvio.Create(path, csvio.WriterConfig{FS: fs})
	if err != nil {
		return err
	}
	logger.Info("writing", zap.String("path", path), zap.Int("rows", f.Len()))
	if err := w.WriteFrame(f); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
