package app

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const currentDatabaseVersion = 1

const databaseEngineFileName = "engine"

// checkDatabaseVersion returns whether the database at dbPath has a version
// file, and an error if that version is not the current one
func checkDatabaseVersion(dbPath string) (doesVersionFileExist bool, err error) {
	versionBytes, err := os.ReadFile(versionFilePath(dbPath))
	if err != nil {
		if os.IsNotExist(err) { // If version file doesn't exist, we assume that the database is new
			return false, nil
		}
		return false, errors.WithStack(err)
	}

	databaseVersion, err := strconv.Atoi(strings.TrimSpace(string(versionBytes)))
	if err != nil {
		return true, errors.Wrapf(err, "malformed database version file %s", versionFilePath(dbPath))
	}

	if databaseVersion != currentDatabaseVersion {
		return true, errors.Errorf("Invalid database version %d. Expected version: %d", databaseVersion, currentDatabaseVersion)
	}

	return true, nil
}

func createDatabaseVersionFile(dbPath string) error {
	versionString := strconv.Itoa(currentDatabaseVersion)
	return errors.WithStack(os.WriteFile(versionFilePath(dbPath), []byte(versionString), 0600))
}

func versionFilePath(dbPath string) string {
	return filepath.Join(dbPath, "version")
}

// checkDatabaseEngine makes sure the database at dbPath is opened with the
// engine that created it. A database without an engine file is stamped with
// dbType.
func checkDatabaseEngine(dbPath string, dbType string) error {
	engineFilePath := filepath.Join(dbPath, databaseEngineFileName)
	engineBytes, err := os.ReadFile(engineFilePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.WithStack(err)
		}
		return errors.WithStack(os.WriteFile(engineFilePath, []byte(dbType), 0600))
	}

	existingType := strings.TrimSpace(string(engineBytes))
	if existingType != dbType {
		return errors.Errorf("the database at %s was created with the %s engine, but %s was requested",
			dbPath, existingType, dbType)
	}
	return nil
}
