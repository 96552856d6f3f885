package config

import (
	"time"

	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"ats" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Redis struct {
		URL          string `default:"redis://127.0.0.1:6379/0" env:"REDIS_URL"`
		AuditChannel string `default:"application.status_changed" env:"REDIS_AUDIT_CHANNEL"`
	}
	Auth struct {
		JWTSecret string `default:"" env:"JWT_SECRET"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          bool   `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"resumes" env:"S3_BUCKET_NAME"`
		PresignTTLSec   int    `default:"900" env:"S3_PRESIGN_TTL_SEC"`
	}
	NotifyBot struct {
		AddrErr   string `default:"" env:"NOTIFY_BOT_ADDR_ERR"`
		AddrAudit string `default:"" env:"NOTIFY_BOT_ADDR_AUDIT"`
	}
	Export struct {
		FontDir string `default:"static/font/" env:"EXPORT_FONT_DIR"`
	}
	Lifecycle struct {
		LockWaitSec       int `default:"5" env:"LIFECYCLE_LOCK_WAIT_SEC"`
		ReloadIntervalSec int `default:"300" env:"LIFECYCLE_RELOAD_INTERVAL_SEC"`
	}
}

func (c Configuration) LockWait() time.Duration {
	return time.Duration(c.Lifecycle.LockWaitSec) * time.Second
}

func (c Configuration) ReloadInterval() time.Duration {
	return time.Duration(c.Lifecycle.ReloadIntervalSec) * time.Second
}

func (c Configuration) PresignTTL() time.Duration {
	return time.Duration(c.S3.PresignTTLSec) * time.Second
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
