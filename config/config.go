package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver        string
	MongoURI        string
	MongoDB         string
	UsersCollection string
	SQLDSN          string

	LogLevel      string
	LogFile       string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int

	SweepSchedule           string
	DefaultRadiusKm         float64
	LeaderboardDefaultLimit int

	ConsulEnabled        bool
	ConsulAddress        string
	ServiceName          string
	ServiceHost          string
	DirectoryServiceName string
	DependencyWait       time.Duration

	FirebaseCredentials string

	KafkaBrokers []string
	KafkaTopic   string

	ShutdownTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DB_DRIVER", "mongo")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017/?replicaSet=rs0")
	v.SetDefault("MONGO_DB", "sos")
	v.SetDefault("USERS_COLLECTION", "users")
	v.SetDefault("SQL_DSN", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 5)
	v.SetDefault("LOG_MAX_AGE", 30)
	v.SetDefault("SWEEP_SCHEDULE", "0 0 * * * *")
	v.SetDefault("DEFAULT_RADIUS_KM", 50.0)
	v.SetDefault("LEADERBOARD_DEFAULT_LIMIT", 50)
	v.SetDefault("CONSUL_ENABLED", false)
	v.SetDefault("CONSUL_ADDRESS", "localhost:8500")
	v.SetDefault("SERVICE_NAME", "sos-service")
	v.SetDefault("SERVICE_HOST", "localhost")
	v.SetDefault("DIRECTORY_SERVICE_NAME", "go-main-service")
	v.SetDefault("DEPENDENCY_WAIT", "60s")
	v.SetDefault("FIREBASE_CREDENTIALS", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "sos-events")
	v.SetDefault("SHUTDOWN_TIMEOUT", "5s")
}

// LoadConfig reads the environment, and CONFIG_FILE when it is set. Environment wins.
func LoadConfig() *Config {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		_ = v.ReadInConfig()
	}

	return &Config{
		Port:    v.GetString("PORT"),
		GinMode: v.GetString("GIN_MODE"),

		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		MongoURI:        v.GetString("MONGO_URI"),
		MongoDB:         v.GetString("MONGO_DB"),
		UsersCollection: v.GetString("USERS_COLLECTION"),
		SQLDSN:          v.GetString("SQL_DSN"),

		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFile:       v.GetString("LOG_FILE"),
		LogMaxSize:    v.GetInt("LOG_MAX_SIZE"),
		LogMaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		LogMaxAge:     v.GetInt("LOG_MAX_AGE"),

		SweepSchedule:           v.GetString("SWEEP_SCHEDULE"),
		DefaultRadiusKm:         v.GetFloat64("DEFAULT_RADIUS_KM"),
		LeaderboardDefaultLimit: v.GetInt("LEADERBOARD_DEFAULT_LIMIT"),

		ConsulEnabled:        v.GetBool("CONSUL_ENABLED"),
		ConsulAddress:        v.GetString("CONSUL_ADDRESS"),
		ServiceName:          v.GetString("SERVICE_NAME"),
		ServiceHost:          v.GetString("SERVICE_HOST"),
		DirectoryServiceName: v.GetString("DIRECTORY_SERVICE_NAME"),
		DependencyWait:       v.GetDuration("DEPENDENCY_WAIT"),

		FirebaseCredentials: v.GetString("FIREBASE_CREDENTIALS"),

		KafkaBrokers: splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:   v.GetString("KAFKA_TOPIC"),

		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
