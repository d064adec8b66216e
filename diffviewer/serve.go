package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"flo.znkr.io/diffviewer/config"
	"flo.znkr.io/diffviewer/input"
	"flo.znkr.io/diffviewer/server"
	"flo.znkr.io/diffviewer/statcache"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		configPath        string
		listen            string
		flags             inputFlags
		original, changed string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diff statistics API via HTTP",
		Long: `Serve the diff statistics API via HTTP.

If --original and --changed are provided, the files are served at /api/documents and reloaded
whenever they change. Otherwise, the sample documents are served.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if cmd.Flags().Changed("max-size") {
				cfg.MaxInputSize = flags.maxSize
			}
			if cmd.Flags().Changed("charset") {
				cfg.Charset = flags.charset
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %v", err)
			}
			if (original == "") != (changed == "") {
				return errors.New("--original and --changed must be used together")
			}

			opts := server.Options{
				Input: input.Options{MaxSize: cfg.MaxInputSize, Charset: cfg.Charset},
			}
			if c := cfg.Cache; c != nil {
				cache, err := statcache.New(statcache.Config{
					NumCounters: c.NumCounters,
					MaxCost:     c.MaxCost,
					BufferItems: c.BufferItems,
				})
				if err != nil {
					return err
				}
				defer cache.Close()
				opts.Cache = cache
			}

			srv, err := server.Run(cfg, opts)
			if err != nil {
				return err
			}
			defer srv.Shutdown(context.Background())
			logrus.Infof("Now serving at %s, press Ctrl-C to shut down", srv.Addr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if original == "" {
				select {
				case err := <-srv.Error():
					return err
				case <-ctx.Done():
					logrus.Infof("Shutting down")
					return nil
				}
			}

			return watchPair(ctx, original, changed, opts.Input, srv.Error(), func(p input.Pair) {
				srv.ReplaceDocuments(p)
				logrus.Infof("Documents updated: %v", p.Stats())
			})
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Location of the server config file (TOML)")
	cmd.Flags().StringVar(&listen, "listen", config.DefaultListen, "Address to listen on")
	cmd.Flags().StringVar(&original, "original", "", "Serve and watch this file as the original document")
	cmd.Flags().StringVar(&changed, "changed", "", "Serve and watch this file as the changed document")
	flags.register(cmd)
	return cmd
}
