// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/crccards/internal/app/system/dbconn"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	// Mongo is the process-wide gateway. It connects on first use and
	// every handler shares the same client.
	Mongo *dbconn.Gateway
}
