package config

import (
	"log"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  No .env file found, continuing with system environment variables")
	} else {
		log.Println("✅ .env file loaded")
	}
}
