// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/rokkenjima/watchface/internal/platform"
)

const (
	defaultShutDownTime = 5
	defaultKVTable      = "watchface_blobs"
	defaultNATSPort     = 4222
)

// EnvConfigJSON names the environment variable holding a JSON config override.
const EnvConfigJSON = "WATCHFACE_CONFIG_JSON"

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(filepath.Join(path, "main.toml"), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate fills in defaults and checks the settings the daemon cannot start without.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Storage.Engine == "" {
		c.Storage.Engine = EngineSQLite
	}

	if c.Storage.Table == "" {
		c.Storage.Table = defaultKVTable
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	if _, err := platform.Lookup(c.Platform); err != nil {
		return errors.Wrap(err, invalidErrMessage)
	}

	// validate webserver listening port
	if c.Webserver.Enabled && c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	switch c.Storage.Engine {
	case EngineSQLite:
		if c.Storage.Path == "" {
			return errors.Wrap(ErrSQLitePathEmpty, invalidErrMessage)
		}
	case EngineMySQL, EnginePostgres, EngineKVMySQL, EngineKVPostgres:
		if c.Storage.Host == "" {
			return errors.Wrap(ErrStorageHostEmpty, invalidErrMessage)
		}
	}

	if c.Channel.EmbedNATS && c.Channel.NATSURL == "" {
		if c.Channel.NATSPort == 0 {
			c.Channel.NATSPort = defaultNATSPort
		}

		c.Channel.NATSURL = fmt.Sprintf("nats://127.0.0.1:%d", c.Channel.NATSPort)
	}

	if c.Channel.NATSURL != "" && c.Channel.NATSSubject == "" {
		return errors.Wrap(ErrNATSSubjectEmpty, invalidErrMessage)
	}

	return nil
}
