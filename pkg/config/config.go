// Package config loads the service configuration from config.yaml, a .env
// file and the environment (MODEL_PATH, HTTP_PORT, ...), in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chenBenjamin97/distraction-detector/pkg/logger"
	"github.com/chenBenjamin97/distraction-detector/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP   HTTPConfig   `mapstructure:"http"`
	Model  ModelConfig  `mapstructure:"model"`
	Upload UploadConfig `mapstructure:"upload"`
	Video  VideoConfig  `mapstructure:"video"`
	CORS   CORSConfig   `mapstructure:"cors"`
	Log    LogConfig    `mapstructure:"log"`

	EnvFileLoaded bool `mapstructure:"-"`
}

type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ModelConfig struct {
	Path      string `mapstructure:"path"`
	InputSize int    `mapstructure:"input_size"`
	Backend   string `mapstructure:"backend"`
	Target    string `mapstructure:"target"`
}

type UploadConfig struct {
	MaxImageMB int    `mapstructure:"max_image_mb"`
	MaxVideoMB int    `mapstructure:"max_video_mb"`
	TempDir    string `mapstructure:"temp_dir"`
}

type VideoConfig struct {
	SampleRate float64 `mapstructure:"sample_rate"`
}

type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "3000")
	v.SetDefault("http.mode", "release")
	v.SetDefault("http.shutdown_timeout", "10s")

	v.SetDefault("model.path", "models/efficientnet_b3_final.onnx")
	v.SetDefault("model.input_size", utils.DefaultInputSize)
	v.SetDefault("model.backend", "default")
	v.SetDefault("model.target", "cpu")

	v.SetDefault("upload.max_image_mb", utils.MaxImageSizeMB)
	v.SetDefault("upload.max_video_mb", utils.MaxVideoSizeMB)
	v.SetDefault("upload.temp_dir", os.TempDir())

	v.SetDefault("video.sample_rate", utils.DefaultSampleRate)

	v.SetDefault("cors.origins", []string{"http://localhost:5173", "http://localhost:5174"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.max_backups", 3)
}

// Load reads config.yaml from the given directories (default "." and "./config").
// A missing file is fine, every key has a default.
func Load(searchPaths ...string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err == nil { //.env only fills variables that are not already set
		cfg.EnvFileLoaded = true
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(searchPaths) == 0 {
		searchPaths = []string{".", "./config"}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: could not read config file, got '%v'", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: could not decode configuration, got '%v'", err)
	}
	cfg.CORS.Origins = splitOrigins(cfg.CORS.Origins)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// httpModes are the values gin.SetMode accepts.
var httpModes = []string{"debug", "release", "test"}

// Validate rejects values the service cannot run with.
func (c Config) Validate() error {
	switch {
	case c.HTTP.Port == "":
		return errors.New("config: http.port is required")
	case !utils.InSlice(c.HTTP.Mode, httpModes):
		return fmt.Errorf("config: http.mode must be one of %v, got '%s'", httpModes, c.HTTP.Mode)
	case c.Model.Path == "":
		return errors.New("config: model.path is required")
	case c.Model.InputSize <= 0:
		return fmt.Errorf("config: model.input_size must be positive, got %d", c.Model.InputSize)
	case c.Upload.MaxImageMB <= 0 || c.Upload.MaxVideoMB <= 0:
		return errors.New("config: upload limits must be positive")
	case c.Video.SampleRate <= 0:
		return fmt.Errorf("config: video.sample_rate must be positive, got %v", c.Video.SampleRate)
	}
	return nil
}

// LoggerOptions adapts the log section for logger.New.
func (c Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxAgeDays: c.Log.MaxAgeDays,
		MaxBackups: c.Log.MaxBackups,
	}
}

// MaxImageBytes is the image upload limit in bytes.
func (c Config) MaxImageBytes() int64 {
	return utils.MegaBytes(c.Upload.MaxImageMB)
}

// MaxVideoBytes is the video upload limit in bytes.
func (c Config) MaxVideoBytes() int64 {
	return utils.MegaBytes(c.Upload.MaxVideoMB)
}

// splitOrigins accepts both a YAML list and a comma separated CORS_ORIGINS value
func splitOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}
