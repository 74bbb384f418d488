package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"geostore/pkg/app"
	"geostore/pkg/common"
	"geostore/pkg/common/config"
	"geostore/pkg/common/database"
	"geostore/pkg/common/fs"
	"geostore/pkg/common/worker"
	"geostore/pkg/dao"
	"geostore/pkg/fixture"
	"geostore/pkg/schema"
	"geostore/pkg/teardown"
)

func newRootCmd() *cobra.Command {
	var configPath string
	var cfg *config.Config

	root := &cobra.Command{
		Use:          "geostore-fixture",
		Short:        "Bootstrap and reset the GeoStore test database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = common.Init(configPath)
			return err
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "directory containing config.json")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the fixture control API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.RunAPI(cfg)
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Rebuild the schema and purge every table",
			RunE: func(cmd *cobra.Command, args []string) error {
				fc, err := fixture.New(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer fc.Close()
				if err := fc.RemoveAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "database reset")
				return nil
			},
		},
		&cobra.Command{
			Use:   "plan",
			Short: "Print the table creation and purge order",
			RunE: func(cmd *cobra.Command, args []string) error {
				tables, err := schema.CreateOrder()
				if err != nil {
					return err
				}
				purge, err := teardown.GeoStorePlan(dao.NewSet(nil)).Order()
				if err != nil {
					return err
				}
				return printJSON(cmd, map[string][]string{
					"create_order": tables,
					"purge_order":  purge,
				})
			},
		},
		&cobra.Command{
			Use:   "counts",
			Short: "Print the row count of every table",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := worker.Init(cfg.Workers); err != nil {
					return err
				}
				db, err := database.Open(cfg)
				if err != nil {
					return err
				}
				defer database.Close(db)
				counts, err := fixture.CountTables(cmd.Context(), db)
				if err != nil {
					return err
				}
				names := make([]string, 0, len(counts))
				for name := range counts {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(cmd.OutOrStdout(), "%-24s %d\n", name, counts[name])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clean",
			Short: "Delete the sqlite database file",
			RunE: func(cmd *cobra.Command, args []string) error {
				if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "" {
					return fmt.Errorf("clean only applies to the runtime sqlite database")
				}
				fsys, err := fs.New(cfg.Database.Dir)
				if err != nil {
					return err
				}
				path := fsys.DatabasePath(cfg.Database.Name)
				exists, err := fsys.DatabaseExists(cfg.Database.Name)
				if err != nil {
					return err
				}
				if !exists {
					fmt.Fprintf(cmd.OutOrStdout(), "nothing to remove at %s\n", path)
					return nil
				}
				size, err := fsys.DatabaseSize(cfg.Database.Name)
				if err != nil {
					return err
				}
				if err := fsys.RemoveDatabase(cfg.Database.Name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s (%d bytes)\n", path, size)
				return nil
			},
		},
	)
	root.SetContext(context.Background())
	return root
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
