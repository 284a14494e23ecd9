package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data   DataConfig   `yaml:"data" mapstructure:"data"`
	Map    MapConfig    `yaml:"map" mapstructure:"map"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the three startup sources. Each source is a local path
// or an http(s) or ftp URL.
type DataConfig struct {
	Incidents        string `yaml:"incidents" mapstructure:"incidents"`
	Boundaries       string `yaml:"boundaries" mapstructure:"boundaries"`
	Aggregates       string `yaml:"aggregates" mapstructure:"aggregates"`
	DistrictProperty string `yaml:"district_property" mapstructure:"district_property"`
	Charset          string `yaml:"charset" mapstructure:"charset"`
	Sheet            string `yaml:"sheet" mapstructure:"sheet"`
	Table            string `yaml:"table" mapstructure:"table"`
	AggregateTable   string `yaml:"aggregate_table" mapstructure:"aggregate_table"`
	TempDir          string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// MapConfig configures the rendered map document.
type MapConfig struct {
	CenterLat     float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon     float64 `yaml:"center_lon" mapstructure:"center_lon"`
	Zoom          int     `yaml:"zoom" mapstructure:"zoom"`
	Width         int     `yaml:"width" mapstructure:"width"`
	Height        int     `yaml:"height" mapstructure:"height"`
	FillOpacity   float64 `yaml:"fill_opacity" mapstructure:"fill_opacity"`
	Palette       string  `yaml:"palette" mapstructure:"palette"`
	PaletteFile   string  `yaml:"palette_file" mapstructure:"palette_file"`
	ClusterRadius float64 `yaml:"cluster_radius" mapstructure:"cluster_radius"`
	Title         string  `yaml:"title" mapstructure:"title"`
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	Warm        bool     `yaml:"warm" mapstructure:"warm"`
}

// FetchConfig configures downloads of remote sources.
type FetchConfig struct {
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CRIMEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.incidents", "fixed_data.csv")
	v.SetDefault("data.boundaries", "san-francisco.geojson")
	v.SetDefault("data.aggregates", "crime_level.csv")
	v.SetDefault("data.district_property", "DISTRICT")
	v.SetDefault("data.charset", "")
	v.SetDefault("data.sheet", "")
	v.SetDefault("data.table", "incidents")
	v.SetDefault("data.aggregate_table", "crime_level")
	v.SetDefault("data.temp_dir", "/tmp/crime-map")
	v.SetDefault("map.center_lat", 37.77)
	v.SetDefault("map.center_lon", -122.42)
	v.SetDefault("map.zoom", 12)
	v.SetDefault("map.width", 1000)
	v.SetDefault("map.height", 600)
	v.SetDefault("map.fill_opacity", 0.8)
	v.SetDefault("map.palette", "PuRd_09")
	v.SetDefault("map.palette_file", "")
	v.SetDefault("map.cluster_radius", 80)
	v.SetDefault("map.title", "San Francisco crime by police district")
	v.SetDefault("server.port", 8005)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.warm", true)
	v.SetDefault("fetch.user_agent", "crime-map/1.0")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// Validate checks the configuration for the given command mode ("render" or
// "serve"). All problems are reported together.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "render", "serve":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Data.Incidents == "" {
		problems = append(problems, "data.incidents is required")
	}
	if c.Data.Boundaries == "" {
		problems = append(problems, "data.boundaries is required")
	}
	if c.Data.Aggregates == "" {
		problems = append(problems, "data.aggregates is required")
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 20 {
		problems = append(problems, "map.zoom must be between 0 and 20")
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		problems = append(problems, "map.width and map.height must be > 0")
	}
	if c.Map.FillOpacity < 0 || c.Map.FillOpacity > 1 {
		problems = append(problems, "map.fill_opacity must be between 0 and 1")
	}
	if c.Map.ClusterRadius < 0 {
		problems = append(problems, "map.cluster_radius must be >= 0")
	}

	if mode == "serve" {
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
			problems = append(problems, "server.rate_limit and server.rate_burst must be >= 0")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}
