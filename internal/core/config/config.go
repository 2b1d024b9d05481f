package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	RequestTimeoutSec int
}

type App struct {
	Name      string
	Env       string
	ClientURL string
	HTTP      HTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret   string
	TTLHours int
}

type Auth struct {
	AdminEmail string
	BcryptCost int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string // postgres | mysql | sqlite | mongo
	DSN                string
	Username           string
	Password           string
	Database           string // mongo database name
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type S3 struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string
}

type Storage struct {
	Disk      string // local | s3
	LocalRoot string
	S3        S3
}

type Limits struct {
	RateLimitMax       int
	RateLimitWindowMin int
	GlobalRPS          float64
	GlobalBurst        int
	MaxConcurrent      int64
	UploadMaxMB        int64
	JSONMaxMB          int64
}

type Cache struct {
	AnalyticsTTLSec int
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	Auth    Auth
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Storage Storage
	Limits  Limits
	Cache   Cache
}

// legacy env names accepted next to the APP_ prefixed ones
var aliases = map[string]string{
	"db.dsn":          "MONGO_URI",
	"jwt.secret":      "JWT_SECRET",
	"auth.adminemail": "ADMIN_EMAIL",
	"app.clienturl":   "CLIENT_URL",
	"app.http.port":   "PORT",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sheetboard")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.clienturl", "http://localhost:3000")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readtimeoutsec", 30)
	v.SetDefault("app.http.writetimeoutsec", 60)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.http.requesttimeoutsec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/sheetboard.log")
	v.SetDefault("log.file.maxsizemb", 100)
	v.SetDefault("log.file.maxbackups", 5)
	v.SetDefault("log.file.maxagedays", 30)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttlhours", 7*24)

	v.SetDefault("auth.adminemail", "")
	v.SetDefault("auth.bcryptcost", 10)

	v.SetDefault("db.driver", "mongo")
	v.SetDefault("db.dsn", "mongodb://localhost:27017")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.database", "sheetboard")
	v.SetDefault("db.maxopenconns", 25)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 5)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.disk", "local")
	v.SetDefault("storage.localroot", "storage")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.key", "")
	v.SetDefault("storage.s3.secret", "")
	v.SetDefault("storage.s3.endpoint", "")

	v.SetDefault("limits.ratelimitmax", 100)
	v.SetDefault("limits.ratelimitwindowmin", 15)
	v.SetDefault("limits.globalrps", 200)
	v.SetDefault("limits.globalburst", 400)
	v.SetDefault("limits.maxconcurrent", 300)
	v.SetDefault("limits.uploadmaxmb", 50)
	v.SetDefault("limits.jsonmaxmb", 10)

	v.SetDefault("cache.analyticsttlsec", 15)
}

// Load reads the optional YAML file at path (or CONFIG_PATH, or ./configs/config.local.yaml)
// and overlays APP_* environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range aliases {
		envKey := "APP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// MustLoad is Load for main packages.
func MustLoad(path string) *Config {
	c, err := Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return c
}
