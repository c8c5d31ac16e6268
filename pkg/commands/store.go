package commands

import (
	"context"
	"fmt"

	"github.com/dadas-io/dadas/pkg/db"
	"github.com/dadas-io/dadas/pkg/pocketbase"
	"github.com/dadas-io/dadas/pkg/store"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

const (
	storeSQL        = "sql"
	storePocketBase = "pocketbase"
)

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "store",
			Usage:   "Where VPS records are kept, sql or pocketbase",
			EnvVars: []string{"DADAS_STORE", "STORE"},
			Value:   storeSQL,
		},
		&cli.StringFlag{
			Name:    "sql-dialect",
			Usage:   "The type of sql to use, sqlite or mysql",
			EnvVars: []string{"DADAS_SQL_DIALECT", "SQL_DIALECT"},
			Value:   "sqlite",
		},
		&cli.StringFlag{
			Name:    "sql-dsn",
			Usage:   "The DSN to use to connect to",
			EnvVars: []string{"DADAS_SQL_DSN", "SQL_DSN"},
			Value:   "file:dadas.sqlite?_pragma=foreign_keys(1)",
		},
		&cli.StringFlag{
			Name:    "pocketbase-url",
			Usage:   "Base URL of the PocketBase server",
			EnvVars: []string{"DADAS_POCKETBASE_URL", "POCKETBASE_URL"},
		},
		&cli.StringFlag{
			Name:    "pocketbase-collection",
			Usage:   "PocketBase collection holding VPS records",
			EnvVars: []string{"DADAS_POCKETBASE_COLLECTION"},
			Value:   store.Collection,
		},
		&cli.StringFlag{
			Name:    "pocketbase-auth-collection",
			Usage:   "PocketBase auth collection used to log in",
			EnvVars: []string{"DADAS_POCKETBASE_AUTH_COLLECTION"},
			Value:   "users",
		},
		&cli.StringFlag{
			Name:    "pocketbase-identity",
			Usage:   "PocketBase login identity; requests are anonymous when empty",
			EnvVars: []string{"DADAS_POCKETBASE_IDENTITY"},
		},
		&cli.StringFlag{
			Name:    "pocketbase-password",
			Usage:   "PocketBase login password",
			EnvVars: []string{"DADAS_POCKETBASE_PASSWORD"},
		},
		&cli.DurationFlag{
			Name:    "request-timeout",
			Usage:   "Timeout for a single request to the PocketBase server",
			EnvVars: []string{"DADAS_REQUEST_TIMEOUT"},
			Value:   pocketbase.DefaultTimeout,
		},
	}
}

// openStore builds the record store selected by the store flags. The returned
// func releases it.
func openStore(ctx context.Context, c *cli.Context) (store.Client, func() error, error) {
	switch c.String("store") {
	case storeSQL:
		database, err := db.New(ctx, c.String("sql-dialect"), c.String("sql-dsn"), &gorm.Config{
			Logger: db.NewLogger(c.String("log-level")),
		})
		if err != nil {
			return nil, nil, err
		}
		return database, database.Close, nil
	case storePocketBase:
		if c.String("pocketbase-url") == "" {
			return nil, nil, fmt.Errorf("--pocketbase-url is required with --store=%s", storePocketBase)
		}
		client := pocketbase.New(pocketbase.Config{
			BaseURL:        c.String("pocketbase-url"),
			Collection:     c.String("pocketbase-collection"),
			AuthCollection: c.String("pocketbase-auth-collection"),
			Identity:       c.String("pocketbase-identity"),
			Password:       c.String("pocketbase-password"),
			Timeout:        c.Duration("request-timeout"),
		})
		return client, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store %q, expected %s or %s", c.String("store"), storeSQL, storePocketBase)
	}
}
