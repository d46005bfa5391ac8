// Package appdata locates the per-user application data directory.
package appdata

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// Dir returns the operating system specific directory to store data for
// appName: %LOCALAPPDATA%\AppName on Windows, ~/Library/Application
// Support/AppName on macOS and ~/.appname elsewhere. It returns "." if no
// home directory can be found.
func Dir(appName string) string {
	return dir(runtime.GOOS, appName)
}

func dir(goos string, appName string) string {
	appName = strings.TrimPrefix(appName, ".")
	if appName == "" {
		return "."
	}
	upperName := string(unicode.ToUpper(rune(appName[0]))) + appName[1:]
	lowerName := string(unicode.ToLower(rune(appName[0]))) + appName[1:]

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	switch goos {
	case "windows":
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		if appData != "" {
			return filepath.Join(appData, upperName)
		}
	case "darwin":
		if homeDir != "" {
			return filepath.Join(homeDir, "Library", "Application Support", upperName)
		}
	default:
		if homeDir != "" {
			return filepath.Join(homeDir, "."+lowerName)
		}
	}
	return "."
}
