// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/garajhub/internal/app/store/audit"
	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auditlog"
	"github.com/dalemusser/garajhub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the back-end dependencies built before the router: the API
// client every feature talks through, the optional audit database and the
// optional backup worker.
type DBDeps struct {
	API *apiclient.Client

	// Nil when mongo_uri is blank.
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	AuditStore    *audit.Store

	AuditLog *auditlog.Logger

	// Nil when backup_schedule is blank.
	Backup *workers.ScheduledBackup
}
