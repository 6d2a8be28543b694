package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BotToken string

	AirtableAPIKey string
	AirtableBaseID string
	// ID таблиц в базе (tblXXXX) либо их имена
	ParticipantsTable   string
	BibleReadersTable   string
	ROETable            string
	AccessRequestsTable string
	AirtableRPS         float64

	AdminIDs    []int64
	Location    *time.Location
	HTTPAddr    string
	LogLevel    string
	Env         string // dev|prod
	SentryDSN   string
	ExportDir   string // пусто — системный temp
	DefaultLang string // ru|en
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Europe/Moscow")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	adminIDs, err := parseIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS: %w", err)
	}

	rps, err := parseRPS(getenv("AIRTABLE_RPS", "5"))
	if err != nil {
		return nil, fmt.Errorf("AIRTABLE_RPS: %w", err)
	}

	cfg := &Config{
		BotToken:            mustEnv("BOT_TOKEN"),
		AirtableAPIKey:      mustEnv("AIRTABLE_API_KEY"),
		AirtableBaseID:      mustEnv("AIRTABLE_BASE_ID"),
		ParticipantsTable:   getenv("AIRTABLE_PARTICIPANTS_TABLE", "Participants"),
		BibleReadersTable:   getenv("AIRTABLE_BIBLE_READERS_TABLE", "BibleReaders"),
		ROETable:            getenv("AIRTABLE_ROE_TABLE", "ROE"),
		AccessRequestsTable: getenv("AIRTABLE_ACCESS_REQUESTS_TABLE", "AccessRequests"),
		AirtableRPS:         rps,
		AdminIDs:            adminIDs,
		Location:            loc,
		HTTPAddr:            getenv("HTTP_ADDR", ":8080"),
		LogLevel:            getenv("LOG_LEVEL", "info"),
		Env:                 getenv("ENV", "dev"),
		SentryDSN:           os.Getenv("SENTRY_DSN"),
		ExportDir:           os.Getenv("EXPORT_DIR"),
		DefaultLang:         getenv("DEFAULT_LANG", "ru"),
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseRPS(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 || v > 50 {
		return 0, fmt.Errorf("out of range: %v", v)
	}
	return v, nil
}

func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}
