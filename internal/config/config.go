package config

import (
	"cinequiz/internal/rooms"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "CINEQUIZ"

type Config struct {
	Bind        string `validate:"required"`
	Port        int    `validate:"min=1,max=65535"`
	DatabaseURL string `validate:"omitempty,url"`
	RedisURL    string `validate:"omitempty,url"`

	MaxUsers          int           `validate:"min=1"`
	ChatMaxUsers      int           `validate:"min=1"`
	ChatPrefix        string
	QuestionCount     int           `validate:"min=1,max=100"`
	QuestionTimeLimit time.Duration `validate:"min=1s"`
	ReminderInterval  time.Duration `validate:"min=0s"`
	SendBuffer        int           `validate:"min=1"`

	Verbose bool
}

// Addr is the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

func (c Config) Rooms() rooms.Config {
	return rooms.Config{
		MaxUsers:         c.MaxUsers,
		ChatMaxUsers:     c.ChatMaxUsers,
		ChatPrefix:       c.ChatPrefix,
		QuestionCount:    c.QuestionCount,
		TimeLimit:        c.QuestionTimeLimit,
		ReminderInterval: c.ReminderInterval,
	}
}

// RegisterFlags defines every setting on fs with its default.
func RegisterFlags(fs *pflag.FlagSet) {
	def := rooms.DefaultConfig()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringP("bind", "b", "0.0.0.0", "address to bind to (env: CINEQUIZ_BIND)")
	fs.IntP("port", "p", 8080, "port to listen on (env: CINEQUIZ_PORT)")
	fs.String("database-url", "", "postgres url for game history, disabled when empty (env: CINEQUIZ_DATABASE_URL)")
	fs.String("redis-url", "", "redis url for published results, disabled when empty (env: CINEQUIZ_REDIS_URL)")
	fs.Int("max-users", def.MaxUsers, "players per room (env: CINEQUIZ_MAX_USERS)")
	fs.Int("chat-max-users", def.ChatMaxUsers, "users per chat room (env: CINEQUIZ_CHAT_MAX_USERS)")
	fs.String("chat-prefix", def.ChatPrefix, "room name prefix marking chat rooms (env: CINEQUIZ_CHAT_PREFIX)")
	fs.Int("question-count", def.QuestionCount, "questions per quiz (env: CINEQUIZ_QUESTION_COUNT)")
	fs.Duration("question-time-limit", def.TimeLimit, "time to answer each question (env: CINEQUIZ_QUESTION_TIME_LIMIT)")
	fs.Duration("reminder-interval", def.ReminderInterval, "interval of the ready-up reminder, 0 to disable (env: CINEQUIZ_REMINDER_INTERVAL)")
	fs.Int("send-buffer", 32, "outbound events queued per connection (env: CINEQUIZ_SEND_BUFFER)")
	fs.BoolP("verbose", "v", false, "display additional output (env: CINEQUIZ_VERBOSE)")
}

// Load resolves the settings from flags, CINEQUIZ_* environment variables
// and defaults, in that order, and validates them.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("binding flags: %w", err)
	}

	cfg := Config{
		Bind:              v.GetString("bind"),
		Port:              v.GetInt("port"),
		DatabaseURL:       v.GetString("database-url"),
		RedisURL:          v.GetString("redis-url"),
		MaxUsers:          v.GetInt("max-users"),
		ChatMaxUsers:      v.GetInt("chat-max-users"),
		ChatPrefix:        v.GetString("chat-prefix"),
		QuestionCount:     v.GetInt("question-count"),
		QuestionTimeLimit: v.GetDuration("question-time-limit"),
		ReminderInterval:  v.GetDuration("reminder-interval"),
		SendBuffer:        v.GetInt("send-buffer"),
		Verbose:           v.GetBool("verbose"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
