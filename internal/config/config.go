package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI   string
	DBName     string
	Port       string
	RedisAddr  string
	BcryptCost int
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:   getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:     getEnvOrDefault("DB_NAME", "inventory"),
		Port:       getEnvOrDefault("PORT", "8080"),
		RedisAddr:  getEnvOrDefault("REDIS_ADDR", ""),
		BcryptCost: getIntEnv("BCRYPT_COST", 10),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
