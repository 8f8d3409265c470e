package config

import (
	"errors"
	"os"
	"strings"
)

// Config contains runtime configuration required by the service.
// All values are read once at startup; the struct is never mutated afterwards.
type Config struct {
	Port  string
	DBURL string

	// AuthToken is the shared bearer secret. Empty means auth is disabled
	// and every request passes.
	AuthToken string

	// WhatsApp Cloud API credentials. The dispatcher is a no-op unless all
	// three are set.
	WhatsAppPhoneID string
	WhatsAppToken   string
	WhatsAppTo      string
}

// Load reads required values from environment variables.
func Load() (Config, error) {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return Config{}, errors.New("DB_URL required")
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	return Config{
		Port:            port,
		DBURL:           dbURL,
		AuthToken:       strings.TrimSpace(os.Getenv("AUTH_TOKEN")),
		WhatsAppPhoneID: strings.TrimSpace(os.Getenv("WHATSAPP_PHONE_ID")),
		WhatsAppToken:   strings.TrimSpace(os.Getenv("WHATSAPP_TOKEN")),
		WhatsAppTo:      strings.TrimSpace(os.Getenv("WHATSAPP_TO")),
	}, nil
}
