package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the service reads from the environment.
type Config struct {
	ServiceHost string
	ServicePort int

	JWTSecret string

	// IDSalt seeds the id codec; it must match every peer service that
	// exchanges encoded ids.
	IDSalt string

	// NotificationURL is the endpoint of the messaging service that pushes
	// the "new job posted" notification. Empty disables dispatch.
	NotificationURL string
}

// NewConfig loads configuration from the environment with sane defaults.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_HOST", "0.0.0.0")
	v.SetDefault("SERVICE_PORT", 3000)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ID_SALT", "cgl-op")
	v.SetDefault("NOTIFICATION_URL", "")

	return &Config{
		ServiceHost:     v.GetString("SERVICE_HOST"),
		ServicePort:     v.GetInt("SERVICE_PORT"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		IDSalt:          v.GetString("ID_SALT"),
		NotificationURL: v.GetString("NOTIFICATION_URL"),
	}, nil
}
