package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/weightdag/dagd/infrastructure/config"
	"github.com/weightdag/dagd/infrastructure/db/database"
	"github.com/weightdag/dagd/infrastructure/db/database/badgerdb"
	"github.com/weightdag/dagd/infrastructure/db/database/ldb"
	"github.com/weightdag/dagd/infrastructure/logger"
	"github.com/weightdag/dagd/infrastructure/os/signal"
	"github.com/weightdag/dagd/util/panics"
	"github.com/weightdag/dagd/version"
)

const databaseDirName = "db"

type dagdApp struct {
	cfg *config.Config
}

// StartApp starts the dagd app, and blocks until it finishes running
func StartApp() error {
	// Load configuration and parse command line. This function also
	// initializes logging and configures it accordingly.
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	logger.InitLog(cfg.LogFile(), cfg.ErrLogFile())
	defer logger.BackendLog.Close()
	defer panics.HandlePanic(log, "MAIN", nil)

	app := &dagdApp{cfg: cfg}
	return app.main(nil)
}

func (app *dagdApp) main(startedChan chan<- struct{}) error {
	// Get a channel that will be closed when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem such as the query server.
	interrupt := signal.InterruptListener()
	defer log.Infof("Shutdown complete")

	// Show version at startup.
	log.Infof("Version %s", version.Version())
	log.Infof("Network %s", app.cfg.NetParams().Name)

	// Open the database
	db, err := openDB(app.cfg)
	if err != nil {
		log.Errorf("Loading database failed: %+v", err)
		return err
	}
	defer func() {
		log.Infof("Gracefully shutting down the database...")
		err := db.Close()
		if err != nil {
			log.Errorf("Failed to close the database: %s", err)
		}
	}()

	// Return now if an interrupt signal was triggered.
	if signal.InterruptRequested(interrupt) {
		return nil
	}

	componentManager, err := NewComponentManager(app.cfg, db)
	if err != nil {
		log.Errorf("Unable to start dagd: %+v", err)
		return err
	}

	defer func() {
		log.Infof("Gracefully shutting down dagd...")

		shutdownDone := make(chan struct{})
		spawn("componentManager.Stop", func() {
			componentManager.Stop()
			shutdownDone <- struct{}{}
		})

		const shutdownTimeout = 2 * time.Minute
		select {
		case <-shutdownDone:
		case <-time.After(shutdownTimeout):
			log.Criticalf("Graceful shutdown timed out %s. Terminating...", shutdownTimeout)
		}
		log.Infof("Dagd shutdown complete")
	}()

	componentManager.Start()

	if startedChan != nil {
		startedChan <- struct{}{}
	}

	// Wait until the interrupt signal is received from an OS signal or
	// shutdown is requested through one of the subsystems.
	<-interrupt
	return nil
}

// openDB opens the database engine selected by cfg, after checking the
// version and engine files kept next to it
func openDB(cfg *config.Config) (database.Database, error) {
	err := os.MkdirAll(cfg.DataDir, 0700)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	versionFileExists, err := checkDatabaseVersion(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	err = checkDatabaseEngine(cfg.DataDir, cfg.DBType)
	if err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cfg.DataDir, databaseDirName)
	log.Infof("Loading %s database from '%s'", cfg.DBType, dbPath)

	var db database.Database
	switch cfg.DBType {
	case config.DBTypeBadger:
		db, err = badgerdb.NewBadgerDB(dbPath, cfg.DatabaseCacheMiB)
	default:
		db, err = ldb.NewLevelDB(dbPath, cfg.DatabaseCacheMiB)
	}
	if err != nil {
		return nil, err
	}

	if !versionFileExists {
		err := createDatabaseVersionFile(cfg.DataDir)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}
