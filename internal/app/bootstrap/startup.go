// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	contactfeature "github.com/dalemusser/adminpanel/internal/app/features/contact"
	deletionsfeature "github.com/dalemusser/adminpanel/internal/app/features/deletions"
	postsfeature "github.com/dalemusser/adminpanel/internal/app/features/posts"
	reportsfeature "github.com/dalemusser/adminpanel/internal/app/features/reports"
	"github.com/dalemusser/adminpanel/internal/app/features/shared/listpage"
	usersfeature "github.com/dalemusser/adminpanel/internal/app/features/users"
	waitlistfeature "github.com/dalemusser/adminpanel/internal/app/features/waitlist"
	"github.com/dalemusser/adminpanel/internal/app/store/records"
	"github.com/dalemusser/adminpanel/internal/app/system/timeouts"
	"github.com/dalemusser/adminpanel/internal/app/system/workers"
	"github.com/dalemusser/adminpanel/internal/app/system/workspace"
	"github.com/dalemusser/adminpanel/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Demo data is generated from a fixed seed so every fresh database looks
// the same.
const (
	demoSeedA = 0x61646d696e
	demoSeedB = 0x70616e656c
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if appCfg.SeedDemoData {
		if err := seedDemoData(ctx, deps.MongoDatabase, time.Now().UTC(), logger); err != nil {
			return err
		}
	}

	rt := deps.Runtime
	rt.Desks = workspace.NewRegistry(logger)
	rt.Sweeper = workers.NewDeskSweeper(rt.Desks, rt.Sessions, logger, appCfg.DeskSweepInterval, appCfg.DeskIdleTimeout)
	rt.Sweeper.Start()
	return nil
}

// seedDemoData fills every empty list collection with generated records.
// Collections that already hold data are left alone.
func seedDemoData(ctx context.Context, db *mongo.Database, now time.Time, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	rng := rand.New(rand.NewPCG(demoSeedA, demoSeedB))
	steps := []func() (string, int, error){
		seedStep(ctx, db, models.CollUsers, usersfeature.Seed(rng, now)),
		seedStep(ctx, db, models.CollPosts, postsfeature.Seed(rng, now)),
		seedStep(ctx, db, models.CollReports, reportsfeature.Seed(rng, now)),
		seedStep(ctx, db, models.CollContacts, contactfeature.Seed(rng, now)),
		seedStep(ctx, db, models.CollDeletions, deletionsfeature.Seed(rng, now)),
		seedStep(ctx, db, models.CollWaitlist, waitlistfeature.Seed(rng, now)),
	}
	for _, step := range steps {
		name, n, err := step()
		if err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		if n > 0 {
			logger.Info("seeded demo data", zap.String("domain", name), zap.Int("count", n))
		}
	}
	return nil
}

func seedStep[F any](ctx context.Context, db *mongo.Database, name string, fields []F) func() (string, int, error) {
	return func() (string, int, error) {
		n, err := records.New[F](db, name).SeedIfEmpty(ctx, listpage.Records(fields))
		return name, n, err
	}
}
