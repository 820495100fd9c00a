package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config mengumpulkan semua setting runtime. Nilai dari ENV selalu menang,
// file YAML (LMS_CONFIG_FILE) hanya mengisi yang masih kosong.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Remote   RemoteConfig   `yaml:"remote"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Dialect      string `yaml:"dialect"` // sqlite | postgres | mysql
	DSN          string `yaml:"dsn"`     // sqlite: path file
	MaxOpenConns int    `yaml:"max_open_conns"`
	LogLevel     string `yaml:"log_level"` // silent | error | warn | info
}

type RemoteConfig struct {
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
	} else {
		log.Println("✅ .env file berhasil dimuat!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// Load membaca ENV (plus .env) lalu overlay YAML opsional, kemudian isi default.
func Load() (*Config, error) {
	LoadEnv()

	cfg := &Config{
		Server: ServerConfig{Port: GetEnv("PORT")},
		Database: DatabaseConfig{
			Dialect:  GetEnv("DB_DIALECT"),
			DSN:      GetEnv("DB_DSN", GetEnv("DB_PATH")),
			LogLevel: GetEnv("DB_LOG_LEVEL"),
		},
		Remote: RemoteConfig{
			BaseURL: GetEnv("REMOTE_BASE_URL"),
			Token:   GetEnv("REMOTE_TOKEN"),
		},
	}

	if v := GetEnv("DB_MAX_OPEN_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("DB_MAX_OPEN_CONNS tidak valid: %w", err)
		}
		cfg.Database.MaxOpenConns = n
	}
	if v := GetEnv("REMOTE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("REMOTE_TIMEOUT tidak valid: %w", err)
		}
		cfg.Remote.Timeout = d
	}

	if path := GetEnv("LMS_CONFIG_FILE"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg.fillFrom(fileCfg)
		log.Printf("✅ Config file %s dimuat", path)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadFile decode satu file YAML tanpa menyentuh ENV.
func LoadFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", filename, err)
	}
	defer file.Close()

	cfg := &Config{}
	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", filename, err)
	}
	return cfg, nil
}

func (c *Config) fillFrom(o *Config) {
	if c.Server.Port == "" {
		c.Server.Port = o.Server.Port
	}
	if c.Database.Dialect == "" {
		c.Database.Dialect = o.Database.Dialect
	}
	if c.Database.DSN == "" {
		c.Database.DSN = o.Database.DSN
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = o.Database.MaxOpenConns
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = o.Database.LogLevel
	}
	if c.Remote.BaseURL == "" {
		c.Remote.BaseURL = o.Remote.BaseURL
	}
	if c.Remote.Token == "" {
		c.Remote.Token = o.Remote.Token
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = o.Remote.Timeout
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "3000"
	}
	c.Database.Dialect = strings.ToLower(strings.TrimSpace(c.Database.Dialect))
	if c.Database.Dialect == "" {
		c.Database.Dialect = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Dialect == "sqlite" {
		c.Database.DSN = "lms_cache.db"
	}
	if c.Database.LogLevel == "" {
		c.Database.LogLevel = "warn"
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = 15 * time.Second
	}
}
