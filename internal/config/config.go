package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `yaml:"env" env:"ENV" env-default:"local"`
	Host     string `yaml:"host" env:"HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"PORT" env-default:"9000"`
	Protocol string `yaml:"protocol" env:"PROTOCOL" env-default:"http"`
	// Local disables the HTTPS redirect.
	Local bool   `yaml:"local" env:"LOCAL" env-default:"false"`
	GaUA  string `yaml:"ga_ua" env:"GA_UA" env-default:""`

	Auth struct {
		UserGroup  string `yaml:"user_group" env:"AUTHORISED_USER_GROUP" env-default:""`
		AdminGroup string `yaml:"admin_group" env:"AUTHORISED_ADMIN_GROUP" env-default:""`
		TokenName  string `yaml:"token_name" env:"TOKEN_NAME" env-default:"hackneyToken"`
		JwtSecret  string `yaml:"jwt_secret" env:"HACKNEY_JWT_SECRET" env-default:""`
	} `yaml:"auth"`

	SupportApi struct {
		Url     string        `yaml:"url" env:"RESIDENT_SUPPORT_REQUESTS_API_URL" env-default:""`
		ApiKey  string        `yaml:"api_key" env:"RESIDENT_SUPPORT_REQUESTS_API_KEY" env-default:""`
		Timeout time.Duration `yaml:"timeout" env:"RESIDENT_SUPPORT_REQUESTS_API_TIMEOUT" env-default:"10s"`
		Retries uint          `yaml:"retries" env:"RESIDENT_SUPPORT_REQUESTS_API_RETRIES" env-default:"3"`
	} `yaml:"support_api"`

	AddressesApi struct {
		Url    string `yaml:"url" env:"ADDRESSES_API_URL" env-default:""`
		ApiKey string `yaml:"api_key" env:"ADDRESSES_API_KEY" env-default:""`
	} `yaml:"addresses_api"`

	Notify struct {
		ApiKey     string        `yaml:"api_key" env:"NOTIFY_API_KEY" env-default:""`
		TemplateId string        `yaml:"template_id" env:"EMAIL_TEMPLATE_ID" env-default:""`
		BaseUrl    string        `yaml:"base_url" env:"NOTIFY_BASE_URL" env-default:"https://api.notifications.service.gov.uk"`
		SendEmails bool          `yaml:"send_emails" env:"SEND_EMAILS" env-default:"false"`
		Timeout    time.Duration `yaml:"timeout" env:"NOTIFY_TIMEOUT" env-default:"10s"`
	} `yaml:"notify"`

	Wizard struct {
		// LocalArea is the gazetteer value of addresses inside the service area.
		LocalArea   string `yaml:"local_area" env:"LOCAL_AREA" env-default:"LOCAL"`
		MappingPath string `yaml:"mapping_path" env:"MAPPING_PATH" env-default:""`
	} `yaml:"wizard"`

	Outbox struct {
		Enabled     bool          `yaml:"enabled" env:"OUTBOX_ENABLED" env-default:"true"`
		Interval    time.Duration `yaml:"interval" env:"OUTBOX_INTERVAL" env-default:"1m"`
		MaxAttempts int           `yaml:"max_attempts" env:"OUTBOX_MAX_ATTEMPTS" env-default:"10"`
		Workers     int           `yaml:"workers" env:"OUTBOX_WORKERS" env-default:"4"`
	} `yaml:"outbox"`

	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:""`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"heretohelp"`
	} `yaml:"mongo"`

	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		AdminId int64  `yaml:"admin_id" env:"TELEGRAM_ADMIN_ID" env-default:"0"`
		BotName string `yaml:"bot_name" env:"TELEGRAM_BOT_NAME" env-default:"HereToHelpBot"`
		Enabled bool   `yaml:"enabled" env:"TELEGRAM_ENABLED" env-default:"false"`
	} `yaml:"telegram"`

	Listen struct {
		BindIP string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		// Timeout bounds a whole request, including the outbound submission.
		Timeout time.Duration `yaml:"timeout" env:"REQUEST_TIMEOUT" env-default:"60s"`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

// MustLoad reads the yaml file at path when it exists and the environment otherwise.
// Environment variables override yaml values in both cases; a .env file is honoured.
func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance, err = Load(path)
		if err != nil {
			log.Fatal(err)
		}
	})
	return instance
}

func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	conf := &Config{}
	var err error
	if _, statErr := os.Stat(path); path != "" && statErr == nil {
		err = cleanenv.ReadConfig(path, conf)
	} else {
		err = cleanenv.ReadEnv(conf)
	}
	if err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("%s; %s", err, desc)
	}
	return conf, nil
}

// ListenAddress is the host:port the http server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%s", c.Listen.BindIP, c.Port)
}
