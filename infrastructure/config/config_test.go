package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/weightdag/dagd/domain/dagconfig"
)

func TestCreateDefaultConfigFile(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "nested", "test.conf")

	err := createDefaultConfigFile(testPath)
	if err != nil {
		t.Fatalf("Failed to create a default config file: %v", err)
	}

	content, err := os.ReadFile(testPath)
	if err != nil {
		t.Fatalf("Failed reading the created config file: %v", err)
	}
	if !strings.HasPrefix(string(content), "[Application Options]") {
		t.Fatalf("TestCreateDefaultConfigFile: the default config file has no application section")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	appDir := t.TempDir()
	cfg, err := loadConfig([]string{"--appdir", appDir})
	if err != nil {
		t.Fatalf("loadConfig: %s", err)
	}

	if cfg.NetParams().Name != dagconfig.MainnetParams.Name {
		t.Fatalf("TestLoadConfigDefaults: expected network %s but got %s",
			dagconfig.MainnetParams.Name, cfg.NetParams().Name)
	}
	expectedDataDir := filepath.Join(appDir, dagconfig.MainnetParams.Name, defaultDataDirname)
	if cfg.DataDir != expectedDataDir {
		t.Fatalf("TestLoadConfigDefaults: expected data dir %s but got %s", expectedDataDir, cfg.DataDir)
	}
	expectedLogDir := filepath.Join(appDir, defaultLogDirname, dagconfig.MainnetParams.Name)
	if cfg.LogDir != expectedLogDir {
		t.Fatalf("TestLoadConfigDefaults: expected log dir %s but got %s", expectedLogDir, cfg.LogDir)
	}
	if cfg.DBType != DBTypeLevelDB {
		t.Fatalf("TestLoadConfigDefaults: expected db type %s but got %s", DBTypeLevelDB, cfg.DBType)
	}
	if cfg.QueryListen != "127.0.0.1:"+dagconfig.MainnetParams.DefaultQueryPort {
		t.Fatalf("TestLoadConfigDefaults: unexpected query listen address %s", cfg.QueryListen)
	}
	if cfg.GenerateInterval != dagconfig.MainnetParams.TargetTimePerBlock {
		t.Fatalf("TestLoadConfigDefaults: expected generate interval %s but got %s",
			dagconfig.MainnetParams.TargetTimePerBlock, cfg.GenerateInterval)
	}
	if _, err := os.Stat(filepath.Join(appDir, defaultConfigFilename)); err != nil {
		t.Fatalf("TestLoadConfigDefaults: the default config file was not created: %s", err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	appDir := t.TempDir()
	configFile := filepath.Join(appDir, "custom.conf")
	content := "[Application Options]\ntestnet=1\ndbtype=badger\ngenerateinterval=3s\n"
	err := os.WriteFile(configFile, []byte(content), 0600)
	if err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	cfg, err := loadConfig([]string{"--appdir", appDir, "--configfile", configFile, "--dbtype", DBTypeLevelDB})
	if err != nil {
		t.Fatalf("loadConfig: %s", err)
	}
	if cfg.NetParams().Name != dagconfig.TestnetParams.Name {
		t.Fatalf("TestLoadConfigFromFile: expected network %s but got %s",
			dagconfig.TestnetParams.Name, cfg.NetParams().Name)
	}
	// Command line options take precedence over the config file
	if cfg.DBType != DBTypeLevelDB {
		t.Fatalf("TestLoadConfigFromFile: expected db type %s but got %s", DBTypeLevelDB, cfg.DBType)
	}
	if cfg.GenerateInterval != 3*time.Second {
		t.Fatalf("TestLoadConfigFromFile: expected generate interval 3s but got %s", cfg.GenerateInterval)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "multiple networks", args: []string{"--testnet", "--devnet"}},
		{name: "unknown db type", args: []string{"--dbtype", "sqlite"}},
		{name: "generate without address", args: []string{"--generate"}},
		{name: "invalid debug level", args: []string{"--debuglevel", "loud"}},
		{name: "invalid query address", args: []string{"--querylisten", "nonsense"}},
		{name: "override params outside devnet", args: []string{"--override-dag-params-file", "params.json"}},
	}

	for _, test := range tests {
		args := append([]string{"--appdir", t.TempDir()}, test.args...)
		_, err := loadConfig(args)
		if err == nil {
			t.Errorf("TestLoadConfigErrors: %s: expected an error", test.name)
		}
	}
}

func TestOverrideDAGParams(t *testing.T) {
	appDir := t.TempDir()
	paramsFile := filepath.Join(appDir, "params.json")
	err := os.WriteFile(paramsFile, []byte(`{"stableHeightLimit": 16, "maxTipHeightDeviation": 15}`), 0600)
	if err != nil {
		t.Fatalf("WriteFile: %s", err)
	}

	cfg, err := loadConfig([]string{"--appdir", appDir, "--devnet", "--override-dag-params-file", paramsFile})
	if err != nil {
		t.Fatalf("loadConfig: %s", err)
	}
	if cfg.NetParams().StableHeightLimit != 16 || cfg.NetParams().MaxTipHeightDeviation != 15 {
		t.Fatalf("TestOverrideDAGParams: params were not overridden: %d, %d",
			cfg.NetParams().StableHeightLimit, cfg.NetParams().MaxTipHeightDeviation)
	}
	if dagconfig.DevnetParams.StableHeightLimit == 16 {
		t.Fatalf("TestOverrideDAGParams: overriding modified the registered devnet params")
	}

	err = os.WriteFile(paramsFile, []byte(`{"maxTipHeightDeviation": 8}`), 0600)
	if err != nil {
		t.Fatalf("WriteFile: %s", err)
	}
	_, err = loadConfig([]string{"--appdir", appDir, "--devnet", "--override-dag-params-file", paramsFile})
	if err == nil {
		t.Fatalf("TestOverrideDAGParams: expected overridden params that break validation to be rejected")
	}
}
