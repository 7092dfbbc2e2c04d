package config

import (
	"math"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type LoadConfigTestSuite struct {
	suite.Suite
	fs   afero.Fs
	path string
}

func (suite *LoadConfigTestSuite) SetupSuite() {
	suite.fs = afero.NewMemMapFs()
	suite.path = "/etc/motionposter/motion.yaml"

	// use in memory FS in implementation for tests
	fs = suite.fs
}

func (suite *LoadConfigTestSuite) TearDownSuite() {
	fs = afero.NewOsFs()
}

func (suite *LoadConfigTestSuite) writeConfig(content string) {
	require.NoError(suite.T(), afero.WriteFile(suite.fs, suite.path, []byte(content), 0644))
}

func (suite *LoadConfigTestSuite) TestLoadOverridesDefaults() {
	suite.writeConfig("effect: zoom\nduration: 2.5\nfps: 30\nintensity: 1.5\n")

	cfg, err := Load(suite.path)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "zoom", cfg.Effect)
	assert.Equal(suite.T(), 2.5, cfg.Duration)
	assert.Equal(suite.T(), 30, cfg.FPS)
	assert.Equal(suite.T(), 1.5, cfg.Intensity)
	assert.Equal(suite.T(), 1024, cfg.MaxWidth)
	assert.True(suite.T(), cfg.SaveDepth)
}

func (suite *LoadConfigTestSuite) TestLoadRejectsUnknownEffect() {
	suite.writeConfig("effect: spin\n")

	_, err := Load(suite.path)
	assert.Error(suite.T(), err)
}

func (suite *LoadConfigTestSuite) TestLoadRejectsNegativeIntensity() {
	suite.writeConfig("intensity: -1\n")

	_, err := Load(suite.path)
	assert.Error(suite.T(), err)
}

func (suite *LoadConfigTestSuite) TestLoadRejectsBrokenYAML() {
	suite.writeConfig("effect: [zoom\n")

	_, err := Load(suite.path)
	assert.Error(suite.T(), err)
}

func (suite *LoadConfigTestSuite) TestLoadMissingFile() {
	_, err := Load("/nowhere.yaml")
	assert.Error(suite.T(), err)
}

func (suite *LoadConfigTestSuite) TestSaveRoundTrip() {
	cfg := Default()
	cfg.Effect = "sway"
	cfg.Workers = 3
	require.NoError(suite.T(), Save(suite.path, cfg))

	loaded, err := Load(suite.path)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), cfg, loaded)
}

func TestLoadConfigTestSuite(t *testing.T) {
	suite.Run(t, new(LoadConfigTestSuite))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero duration", func(c *Config) { c.Duration = 0 }, true},
		{"zero fps", func(c *Config) { c.FPS = 0 }, true},
		{"zero intensity freezes", func(c *Config) { c.Intensity = 0 }, false},
		{"large intensity", func(c *Config) { c.Intensity = 5 }, false},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"unknown model", func(c *Config) { c.Model = "tiny" }, true},
		{"identity", func(c *Config) { c.Effect = "identity" }, false},
		{"nan intensity", func(c *Config) { c.Intensity = math.NaN() }, true},
		{"infinite intensity", func(c *Config) { c.Intensity = math.Inf(1) }, true},
		{"infinite duration", func(c *Config) { c.Duration = math.Inf(1) }, true},
		{"nan duration", func(c *Config) { c.Duration = math.NaN() }, true},
		{"contrast heuristic", func(c *Config) { c.Model = "contrast" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.RunValidate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateHookAlone(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Effect = "spin"
	assert.Error(t, cfg.Validate())
}

func TestWorkerCount(t *testing.T) {
	cfg := Default()
	assert.Greater(t, cfg.WorkerCount(), 0)
	cfg.Workers = 3
	assert.Equal(t, 3, cfg.WorkerCount())
}
