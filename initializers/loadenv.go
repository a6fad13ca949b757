package initializers

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
)

func LoadEnv() error {
	log.Println("Loading env file")
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found")
		return fmt.Errorf("could not load .env file: %w", err)
	}
	log.Println("Env loaded successfully")
	return nil
}
