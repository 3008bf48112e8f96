package config

import (
	"regexp"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"pkg.twizy.sh/konikotaka/internal/config/hook"
)

type Config struct {
	Discord struct {
		Token  string
		Guilds []int64
		Owner  int64
	}

	Bot struct {
		// Messages matching IgnoreRegexp earn no XP and are skipped by the
		// word counter (prefix commands, bot chatter and the like).
		IgnoreRegexp *regexp.Regexp
		Activities   []string
	}

	Storage struct {
		PostgresDSN string
	}

	Api struct {
		Port uint16
		Key  string
	}

	Logging struct {
		Level zapcore.Level
	}

	Twitch struct {
		ClientID     string
		ClientSecret string
		Streamer     string
		// AnnounceChannel receives the go-live message.
		AnnounceChannel int64
	}

	OpenAI struct {
		Gateway string
		Key     string
		Model   string
	}

	Rcon struct {
		Host     string
		Port     uint16
		Password string
	}

	Tasks struct {
		HealthcheckURL      string
		HealthcheckInterval time.Duration
		ActivityInterval    time.Duration
		PingInterval        time.Duration
		DecayInterval       time.Duration
		HappinessInterval   time.Duration
		StreamInterval      time.Duration
		WordRefreshInterval time.Duration
	}
}

func Read() (*Config, error) {
	v := viper.New()
	configureEnv(v)
	configureLocation(v)
	configureDefaults(v)
	return readUnmarshalConfig(v)
}

func configureEnv(v *viper.Viper) {
	v.AutomaticEnv()
	v.SetEnvPrefix("conf")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func configureLocation(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
}

func configureDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8000)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("tasks.healthcheckinterval", time.Hour)
	v.SetDefault("tasks.activityinterval", time.Minute)
	v.SetDefault("tasks.pinginterval", 5*time.Minute)
	v.SetDefault("tasks.decayinterval", 30*time.Minute)
	v.SetDefault("tasks.happinessinterval", 15*time.Minute)
	v.SetDefault("tasks.streaminterval", time.Minute)
	v.SetDefault("tasks.wordrefreshinterval", 5*time.Minute)
}

func readUnmarshalConfig(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	c := &Config{}
	if err := v.Unmarshal(c, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		hook.Regexp(), hook.Level(), mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, err
	}
	return c, nil
}
