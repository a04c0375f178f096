package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var collectionPrefix string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create the Firestore composite indexes used by the register queries",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("RISKMATRIX_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Value:       "(default)",
				Sources:     cli.EnvVars("RISKMATRIX_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "firestore-collection-prefix",
				Usage:       "Prefix applied to every collection name",
				Sources:     cli.EnvVars("RISKMATRIX_FIRESTORE_COLLECTION_PREFIX"),
				Destination: &collectionPrefix,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()
			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"collectionPrefix", collectionPrefix,
				"dryRun", dryRun)

			cfg := indexConfig(collectionPrefix)

			client, err := fireconf.New(ctx, projectID, databaseID, cfg,
				fireconf.WithLogger(logger),
				fireconf.WithDryRun(dryRun),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if dryRun {
				return logMigrationPlan(ctx, client, cfg)
			}

			if err := client.Migrate(ctx); err != nil {
				return goerr.Wrap(err, "failed to apply migrations")
			}
			logger.Info("Migrations applied")
			return nil
		},
	}
}

func logMigrationPlan(ctx context.Context, client *fireconf.Client, cfg *fireconf.Config) error {
	logger := logging.Default()

	names := make([]string, 0, len(cfg.Collections))
	for _, col := range cfg.Collections {
		names = append(names, col.Name)
	}

	current, err := client.Import(ctx, names...)
	if err != nil {
		return goerr.Wrap(err, "failed to import current indexes")
	}
	diff, err := client.DiffConfigs(current)
	if err != nil {
		return goerr.Wrap(err, "failed to compare index configuration")
	}

	if len(diff.Collections) == 0 {
		logger.Info("No changes required")
		return nil
	}
	for _, col := range diff.Collections {
		logger.Info("Migration step",
			"collection", col.Name,
			"action", col.Action,
			"indexesToAdd", len(col.IndexesToAdd),
			"indexesToDelete", len(col.IndexesToDelete))
	}
	return nil
}

// indexConfig mirrors the equality-plus-order queries of the firestore repository
func indexConfig(prefix string) *fireconf.Config {
	byParent := func(collection, field string) fireconf.Collection {
		return fireconf.Collection{
			Name: collectionName(prefix, collection),
			Indexes: []fireconf.Index{
				{
					Fields: []fireconf.IndexField{
						{Path: field, Order: fireconf.OrderAscending},
						{Path: "id", Order: fireconf.OrderAscending},
					},
				},
			},
		}
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			byParent("action_plans", "risk_id"),
			byParent("org_units", "parent_id"),
		},
	}
}

func collectionName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}
