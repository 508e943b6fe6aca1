// cmd/expiry-sweeper/main.go
package main

import (
	"context"

	"go.opentelemetry.io/otel"

	"github.com/klausterra/alpha-se-1/internal/pkg/bootstrap"
	"github.com/klausterra/alpha-se-1/internal/pkg/clock"
	"github.com/klausterra/alpha-se-1/internal/pkg/database"
	accountapp "github.com/klausterra/alpha-se-1/internal/service/account/application"
	accountinfra "github.com/klausterra/alpha-se-1/internal/service/account/infrastructure"
	"github.com/klausterra/alpha-se-1/internal/service/expiry/application"
	listingapp "github.com/klausterra/alpha-se-1/internal/service/listing/application"
	listinginfra "github.com/klausterra/alpha-se-1/internal/service/listing/infrastructure"
	"github.com/klausterra/alpha-se-1/internal/service/listing/infrastructure/rule"
	"github.com/klausterra/alpha-se-1/internal/zookeeper"
)

const (
	serviceName = "expiry-sweeper"
	port        = 8085
)

var tracer = otel.Tracer(serviceName)

// main runs the periodic expiry job. Any number of replicas may run; the
// ZooKeeper lock lets one of them sweep per tick.
func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			cfg := appCtx.Config
			clk := clock.System(cfg.Location())

			db, err := database.OpenFromConfig(cfg)
			if err != nil {
				return err
			}

			conn, err := zookeeper.Connect(cfg.Infra.Zookeeper.Servers, cfg.Infra.Zookeeper.Timeout)
			if err != nil {
				return err
			}
			appCtx.Lifecycle.OnStop(func(context.Context) { conn.Close() })
			lockName := cfg.Sweep.LockName
			if lockName == "" {
				lockName = application.LockName
			}
			lock, err := zookeeper.NewDistributedLock(conn, lockName)
			if err != nil {
				return err
			}

			policy, err := rule.NewCELPolicy(cfg.App.ListingVisibility)
			if err != nil {
				return err
			}
			accounts := accountapp.NewAccountService(accountinfra.NewGormUserRepository(db), nil, nil, clk, tracer, accountapp.Options{})
			listings := listingapp.NewListingService(listinginfra.NewGormListingRepository(db), policy, nil, clk, tracer)

			appCtx.Lifecycle.Add(application.NewSweeper(lock, accounts, listings, cfg.Sweep.Interval, tracer))
			return nil
		},
	})
}
