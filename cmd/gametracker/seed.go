package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aimd54/gametracker/internal/cache"
	"github.com/aimd54/gametracker/internal/service/library"
)

func newSeedCommand(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Load games and reviews from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := openStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = st.close(context.Background()) }()

			var statsCache library.StatsCache
			if cfg.Cache.Enabled {
				c := cache.New(&cfg.Database.Redis, cfg.Cache.TTL())
				defer c.Close()
				statsCache = c
			}

			svc := library.NewService(st.games, st.reviews, statsCache, cfg.Library, log)
			res, err := svc.SeedFromFile(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d games and %d reviews, skipped %d existing games\n",
				res.Games, res.Reviews, res.Skipped)
			return nil
		},
	}
}
