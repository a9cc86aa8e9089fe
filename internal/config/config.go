package config

import (
	"fmt"
	"os"

	"github.com/analogkb/analogkb/internal/fileops"
	"github.com/analogkb/analogkb/internal/logger"
	"github.com/analogkb/analogkb/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	configFilename = "analogkb.yaml"
)

// LoadConfig reads the config file from the analogkb config directory.
// A missing file is not an error: the zero config is returned and every
// getter falls back to its default.
func LoadConfig() (*types.Config, error) {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file operations: %w", err)
	}

	if err := fileOps.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := fileOps.LoadConfig(configFilename)
	if err != nil {
		if err == fileops.ErrConfigNotFound {
			logger.Debugf("No config file found, using defaults")
			return &types.Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return parse(data)
}

// LoadConfigFile reads a config file from an explicit path.
func LoadConfigFile(path string) (*types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*types.Config, error) {
	var config types.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Malformed ids silently become the defaults in the getters; warn here
	// once so the user can find the typo.
	if config.Device.VendorID != "" {
		if _, err := types.ParseUSBID(config.Device.VendorID); err != nil {
			logger.Warnf("Invalid vendor_id %q, using default 0x%04x", config.Device.VendorID, types.DefaultVendorID)
		}
	}
	if config.Device.ProductID != "" {
		if _, err := types.ParseUSBID(config.Device.ProductID); err != nil {
			logger.Warnf("Invalid product_id %q, using default 0x%04x", config.Device.ProductID, types.DefaultProductID)
		}
	}

	return &config, nil
}

// SaveConfig writes the config to the analogkb config directory.
func SaveConfig(config *types.Config) error {
	fileOps, err := fileops.NewDefaultFileOps()
	if err != nil {
		return fmt.Errorf("failed to initialize file operations: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fileOps.SaveConfig(configFilename, data); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}
