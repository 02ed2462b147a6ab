package rooms

import (
	"cinequiz/internal/quiz"
	"strings"
	"time"
)

const (
	ReminderUser = "Bot botesque"
	ReminderText = "The game will start soon, ready up !"
)

type Config struct {
	MaxUsers int
	// ChatMaxUsers applies to rooms whose name starts with ChatPrefix.
	ChatMaxUsers     int
	ChatPrefix       string
	QuestionCount    int
	TimeLimit        time.Duration
	ReminderInterval time.Duration // zero disables the reminder
}

func DefaultConfig() Config {
	return Config{
		MaxUsers:         5,
		ChatMaxUsers:     20,
		ChatPrefix:       "chat:",
		QuestionCount:    quiz.DefaultQuestionCount,
		TimeLimit:        quiz.DefaultTimeLimit,
		ReminderInterval: 50 * time.Second,
	}
}

func (c Config) capacity(roomName string) int {
	if c.ChatPrefix != "" && c.ChatMaxUsers > c.MaxUsers && strings.HasPrefix(roomName, c.ChatPrefix) {
		return c.ChatMaxUsers
	}
	return c.MaxUsers
}
