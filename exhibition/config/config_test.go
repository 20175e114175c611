package config

import (
	"os"
	"path/filepath"
	"testing"

	internal "github.com/EvelinyStark/vides-makslas-sarunas/exhibition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite tests the config package functionality
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
	origDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	var err error
	suite.origDir, err = os.Getwd()
	require.NoError(suite.T(), err)

	tempDir, err := os.MkdirTemp("", "sarunas-config-test-*")
	require.NoError(suite.T(), err)
	suite.tempDir = tempDir

	err = os.Chdir(tempDir)
	require.NoError(suite.T(), err)
}

func (suite *ConfigTestSuite) TearDownTest() {
	if suite.origDir != "" {
		os.Chdir(suite.origDir)
	}
	if suite.tempDir != "" {
		os.RemoveAll(suite.tempDir)
	}
	os.Unsetenv("API_KEY")
	os.Unsetenv("PORT")
}

func (suite *ConfigTestSuite) TestLoadConfigWithDefaults() {
	cfg, err := LoadConfig("")

	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), cfg)

	assert.Equal(suite.T(), "", cfg.Exhibition.APIKey)
	assert.Equal(suite.T(), internal.DefaultListenAddr, cfg.Exhibition.ListenAddr)
	assert.Equal(suite.T(), internal.DefaultDatabasePath, cfg.Exhibition.Database.Path)
	assert.Equal(suite.T(), internal.DefaultHistoryLimit, cfg.Exhibition.HistoryLimit)
	assert.Equal(suite.T(), "info", cfg.Exhibition.Log.Level)
	assert.False(suite.T(), cfg.Exhibition.Log.Pretty)
}

func (suite *ConfigTestSuite) TestLoadConfigWithFile() {
	configContent := `
exhibition:
  api_key: "file-secret"
  listen_addr: ":9090"
  database:
    path: "state/conv.db"
  history_limit: 25
  log:
    level: "debug"
    pretty: true
`
	configPath := filepath.Join(suite.tempDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(configContent), 0o644)
	require.NoError(suite.T(), err)

	cfg, err := LoadConfig(configPath)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "file-secret", cfg.Exhibition.APIKey)
	assert.Equal(suite.T(), ":9090", cfg.Exhibition.ListenAddr)
	assert.Equal(suite.T(), filepath.Clean("state/conv.db"), cfg.Exhibition.Database.Path)
	assert.Equal(suite.T(), 25, cfg.Exhibition.HistoryLimit)
	assert.Equal(suite.T(), "debug", cfg.Exhibition.Log.Level)
	assert.True(suite.T(), cfg.Exhibition.Log.Pretty)
}

func (suite *ConfigTestSuite) TestEnvironmentOverrides() {
	os.Setenv("API_KEY", "env-secret")
	os.Setenv("PORT", "3000")

	cfg, err := LoadConfig("")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "env-secret", cfg.Exhibition.APIKey)
	assert.Equal(suite.T(), ":3000", cfg.Exhibition.ListenAddr)
}

func (suite *ConfigTestSuite) TestHistoryLimitFallsBackWhenNonPositive() {
	configContent := `
exhibition:
  history_limit: -3
`
	configPath := filepath.Join(suite.tempDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(configContent), 0o644)
	require.NoError(suite.T(), err)

	cfg, err := LoadConfig(configPath)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), internal.DefaultHistoryLimit, cfg.Exhibition.HistoryLimit)
}
