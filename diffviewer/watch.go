package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"flo.znkr.io/diffviewer/input"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var (
		flags  inputFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "watch ORIGINAL CHANGED",
		Short: "Print statistics whenever one of the files changes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			warnUnaccepted(args...)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			var werr error
			err := watchPair(ctx, args[0], args[1], flags.options(), nil, func(p input.Pair) {
				if err := printStats(out, p.Stats(), asJSON); err != nil && werr == nil {
					werr = err
					stop()
				}
			})
			return cmp.Or(werr, err)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")
	return cmd
}

// watchPair loads the documents at the paths original and changed and calls update with them,
// once initially and again whenever one of them changes on disk. It returns when ctx is done, or
// when an error is received from errc.
func watchPair(ctx context.Context, original, changed string, opts input.Options, errc <-chan error, update func(input.Pair)) error {
	if original == "-" || changed == "-" {
		return errors.New("cannot watch standard input")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %v", err)
	}
	defer watcher.Close()

	// Many editors replace files instead of writing to them, which ends a watch on the file itself.
	// Watching the directories instead catches both.
	files := make(map[string]bool)
	for _, path := range []string{original, changed} {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolving %s: %v", path, err)
		}
		files[abs] = true
		if dir := filepath.Dir(abs); !slices.Contains(watcher.WatchList(), dir) {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("starting watch: %v", err)
			}
		}
	}
	{
		wl := make([]string, 0, len(files))
		for f := range files {
			wl = append(wl, f)
		}
		slices.Sort(wl)
		logrus.Infof("Watching:\n    %v", strings.Join(wl, "\n    "))
	}

	p, err := input.LoadPair(original, changed, opts)
	if err != nil {
		return err
	}
	update(p)

	for {
		select {
		case event := <-watcher.Events:
			// Absolutely no need to react to chmod.
			if event.Has(fsnotify.Chmod) || !files[filepath.Clean(event.Name)] {
				continue
			}

			// A file that is being replaced may be missing or incomplete for a short moment. The
			// next event picks up the final state.
			start := time.Now()
			p, err := input.LoadPair(original, changed, opts)
			if err != nil {
				logrus.Warnf("failed to reload documents: %v", err)
				continue
			}
			update(p)
			logrus.Debugf("Documents reloaded (%v)", time.Since(start))
		case err := <-watcher.Errors:
			return fmt.Errorf("watching: %v", err)
		case err := <-errc:
			return err
		case <-ctx.Done():
			fmt.Fprint(os.Stderr, "\r") // remove Ctrl-C output characters
			logrus.Infof("Shutting down")
			return nil
		}
	}
}
