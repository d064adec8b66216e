package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"flo.znkr.io/diffviewer/config"
	"flo.znkr.io/diffviewer/diff"
	"flo.znkr.io/diffviewer/input"
	"flo.znkr.io/diffviewer/sample"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// inputFlags are the flags shared by all commands that read documents.
type inputFlags struct {
	maxSize int64
	charset string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.maxSize, "max-size", config.DefaultMaxInputSize, "Maximum size of a document in bytes, 0 means unlimited")
	cmd.Flags().StringVar(&f.charset, "charset", "", "Charset of documents without byte order mark (default UTF-8)")
}

func (f *inputFlags) options() input.Options {
	return input.Options{MaxSize: f.maxSize, Charset: f.charset}
}

// warnUnaccepted logs a warning for documents that don't look like text files judging by their
// name. They are compared anyway, it's only a hint in case the result is surprising.
func warnUnaccepted(paths ...string) {
	for _, path := range paths {
		if path != "-" && !input.Accepted(path) {
			logrus.Warnf("%s is not a known text file type, comparing anyway", path)
		}
	}
}

func printStats(w io.Writer, stats diff.Stats, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(stats)
	}
	_, err := fmt.Fprintln(w, stats)
	return err
}

func newStatsCmd() *cobra.Command {
	var (
		flags  inputFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "stats ORIGINAL CHANGED",
		Short: "Print how many lines were added and removed",
		Long: `Print how many lines were added to and removed from ORIGINAL to get CHANGED.

Either file may be "-" to read it from standard input.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			warnUnaccepted(args...)
			p, err := input.LoadPair(args[0], args[1], flags.options())
			if err != nil {
				return err
			}
			start := time.Now()
			stats := p.Stats()
			logrus.Debugf("Compared %d and %d bytes (%v)", len(p.Original), len(p.Changed), time.Since(start))
			return printStats(cmd.OutOrStdout(), stats, asJSON)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")
	return cmd
}

func newSampleCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print the statistics of the bundled sample documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := sample.Pair()
			return printStats(cmd.OutOrStdout(), p.Stats(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")
	return cmd
}
