package commands

import (
	"context"
	"fmt"

	"github.com/dadas-io/dadas/pkg/apiserver"
	"github.com/dadas-io/dadas/pkg/health"
	"github.com/dadas-io/dadas/pkg/lock"
	"github.com/dadas-io/dadas/pkg/store"
	"github.com/dadas-io/dadas/pkg/version"
	"github.com/dadas-io/dadas/pkg/vps"
	"github.com/rancher/wrangler/pkg/signals"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type apiServerCommand struct{}

func (s *apiServerCommand) Execute(c *cli.Context) error {
	ctx := signals.SetupSignalContext()

	log := logrus.WithField("command", "api-server")

	log.Infof("version: %v", version.Get())

	client, closeStore, err := openStore(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.WithError(err).Warn("unable to close the record store")
		}
	}()

	locker, closeLocker, err := newLocker(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLocker()
	}()

	prober := health.NewProber(client, c.Duration("probe-interval"), c.Duration("request-timeout"))

	apiServer := apiserver.NewAPIServer(ctx, log, c.Int("port"), c.Int("page-size"))

	if err := apiServer.Start(store.Locked(client, locker), prober); err != nil {
		return err
	}

	return nil
}

// newLocker returns the shared Redis lock when --redis-addr is set and an
// in-process lock otherwise.
func newLocker(ctx context.Context, c *cli.Context) (store.Locker, func() error, error) {
	opts := lock.Options{
		TTL:     c.Duration("lock-ttl"),
		Timeout: c.Duration("lock-timeout"),
	}

	addr := c.String("redis-addr")
	if addr == "" {
		logrus.Debug("using in-process record locks")
		return lock.NewLocal(opts), func() error { return nil }, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: c.String("redis-password"),
		DB:       c.Int("redis-db"),
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}

	logrus.WithField("addr", addr).Info("using redis record locks")
	return lock.NewRedis(rdb, opts), rdb.Close, nil
}

func serverCommand() *cli.Command {
	cmd := apiServerCommand{}

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:    "port",
			Usage:   "Port for the HTTP Server Port",
			EnvVars: []string{"DADAS_PORT", "PORT"},
			Value:   4315,
		},
		&cli.IntFlag{
			Name:    "page-size",
			Usage:   "Number of VPS records per dashboard page",
			EnvVars: []string{"DADAS_PAGE_SIZE"},
			Value:   vps.DefaultPageSize,
		},
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "Redis address for record locks shared between replicas; in-process locks when empty",
			EnvVars: []string{"DADAS_REDIS_ADDR", "REDIS_ADDR"},
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Redis password",
			EnvVars: []string{"DADAS_REDIS_PASSWORD", "REDIS_PASSWORD"},
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "Redis database number",
			EnvVars: []string{"DADAS_REDIS_DB"},
		},
		&cli.DurationFlag{
			Name:    "lock-ttl",
			Usage:   "How long a Redis record lock outlives a crashed holder",
			EnvVars: []string{"DADAS_LOCK_TTL"},
			Value:   lock.DefaultTTL,
		},
		&cli.DurationFlag{
			Name:    "lock-timeout",
			Usage:   "How long an update or delete waits for a busy record",
			EnvVars: []string{"DADAS_LOCK_TIMEOUT"},
			Value:   lock.DefaultTimeout,
		},
		&cli.DurationFlag{
			Name:    "probe-interval",
			Usage:   "Interval between record store readiness probes",
			EnvVars: []string{"DADAS_PROBE_INTERVAL"},
			Value:   health.DefaultInterval,
		},
	}
	flags = append(flags, storeFlags()...)

	return &cli.Command{
		Name:   "api-server",
		Usage:  "serve the VPS dashboard and JSON API",
		Action: cmd.Execute,
		Flags:  append(flags, GlobalFlags()...),
		Before: Before,
	}
}
