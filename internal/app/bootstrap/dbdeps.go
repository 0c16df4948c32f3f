// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/adminpanel/internal/app/store/audit"
	"github.com/dalemusser/adminpanel/internal/app/store/sessions"
	"github.com/dalemusser/adminpanel/internal/app/system/workers"
	"github.com/dalemusser/adminpanel/internal/app/system/workspace"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Runtime is created in ConnectDB and filled in by Startup. Hooks
	// receive DBDeps by value, so shared state lives behind this pointer.
	Runtime *Runtime
}

// Runtime is the process-wide state shared by Startup, BuildHandler and
// Shutdown.
type Runtime struct {
	Sessions *sessions.Store
	Audit    *audit.Store
	Desks    *workspace.Registry
	Sweeper  *workers.DeskSweeper
}
