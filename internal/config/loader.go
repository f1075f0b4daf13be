package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/climbe/ri-backend/pkg/catalog"
)

const envPrefix = "CLIMBE"

// Load builds the configuration from defaults, the optional config file at
// path (or config.yaml on the search path when empty), and environment
// variables. Call Validate on the result before serving.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/ri-backend")
		if err := v.ReadInConfig(); err != nil {
			// The file is optional; env and defaults may be enough.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("config: read config file: %w", err)
			}
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logging.level", "info")

	v.SetDefault("drive.credentials_file", "")
	v.SetDefault("drive.call_timeout", "15s")
	v.SetDefault("drive.rate_limit", 10.0)

	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from_name", "Site Climbe")
	v.SetDefault("mail.to", "contato@climbe.com.br")

	v.SetDefault("cors.allowed_origins", []string{
		"https://climbe.com.br",
		"https://www.climbe.com.br",
	})

	// Registering every category key lets folder ids arrive via environment
	// variables (e.g. CLIMBE_FOLDERS_RESULTADOS) as well as the config file.
	for _, name := range catalog.CategoryNames() {
		v.SetDefault("folders."+strings.ToLower(name), "")
	}
}
