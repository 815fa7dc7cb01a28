// Package config loads application settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvDev = "dev"

var ErrMissingSessionSecret = errors.New("session.secret (SESSION_SECRET) must be set outside dev")

type Config struct {
	Env      string
	LogLevel string
	HTTP     HTTP
	Database Database
	Session  Session
}

type HTTP struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type Database struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns URL when set, otherwise a lib/pq key=value connection string.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type Session struct {
	HashKey   []byte
	BlockKey  []byte
	MaxAge    int
	Secure    bool
	Generated bool // HashKey was generated for this process only
}

func (c Config) IsDev() bool {
	return c.Env == EnvDev
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("env", EnvDev)
	v.SetDefault("log.level", "info")
	v.SetDefault("port", "")

	v.SetDefault("http.addr", ":5097")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "attendance_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 25)
	v.SetDefault("db.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("session.secret", "")
	v.SetDefault("session.encryption_key", "")
	v.SetDefault("session.max_age", 86400*30)
	v.SetDefault("session.secure", false)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env (if present in the working directory) and then the process environment.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	return fromViper(newViper())
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "stat %s", path)
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "load %s", path)
	}
	return nil
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Env:      strings.ToLower(v.GetString("env")),
		LogLevel: v.GetString("log.level"),
		HTTP: HTTP{
			Addr:            v.GetString("http.addr"),
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			IdleTimeout:     v.GetDuration("http.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
		Database: Database{
			URL:             v.GetString("database.url"),
			Host:            v.GetString("db.host"),
			Port:            v.GetString("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			DBName:          v.GetString("db.name"),
			SSLMode:         v.GetString("db.sslmode"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		},
		Session: Session{
			MaxAge: v.GetInt("session.max_age"),
			Secure: v.GetBool("session.secure"),
		},
	}

	// PORT wins over http.addr, like most PaaS setups expect
	if port := v.GetString("port"); port != "" {
		cfg.HTTP.Addr = ":" + port
	}

	secret := v.GetString("session.secret")
	switch {
	case secret != "":
		cfg.Session.HashKey = []byte(secret)
	case cfg.IsDev():
		cfg.Session.HashKey = securecookie.GenerateRandomKey(64)
		cfg.Session.Generated = true
	default:
		return Config{}, ErrMissingSessionSecret
	}

	if key := v.GetString("session.encryption_key"); key != "" {
		switch len(key) {
		case 16, 24, 32:
			cfg.Session.BlockKey = []byte(key)
		default:
			return Config{}, errors.Errorf("session.encryption_key must be 16, 24 or 32 bytes, got %d", len(key))
		}
	}

	return cfg, nil
}
