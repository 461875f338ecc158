package config

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var (
	once     sync.Once
	instance *Config
)

// Keys that must carry real deployment values before the service
// is allowed to open any connection.
var requiredKeys = []string{
	"POSTGRES_DB_ADDRESS",
	"POSTGRES_USER",
	"POSTGRES_PASSWORD",
	"POSTGRES_DB",
	"JWT_SECRET",
	"API_ADDRESS",
}

// Sentinels left behind by the deployment scaffold.
var placeholderMarkers = []string{"your-", "changeme"}

type Config struct {
}

func New() *Config {
	once.Do(func() {
		err := godotenv.Load("./configs/.env")
		if err != nil {
			log.Println("no env file loaded: " + err.Error())
		}
		instance = &Config{}
	})
	return instance
}

func (c *Config) GetString(key string) string {
	return os.Getenv(key)
}

// Placeholders reports required keys that are empty or still hold
// scaffold values. A non-empty result means the deployment is not
// configured and the process must not attempt any network call.
func (c *Config) Placeholders() []string {
	var bad []string
	for _, key := range requiredKeys {
		val := os.Getenv(key)
		if val == "" || isPlaceholder(val) {
			bad = append(bad, key)
		}
	}
	return bad
}

func isPlaceholder(val string) bool {
	lowered := strings.ToLower(val)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
