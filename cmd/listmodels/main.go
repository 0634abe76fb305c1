// Command listmodels prints the Gemini models available to GEMINI_API_KEY.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/bryanwahyu/explain-my-mess/internal/infra/ai/gemini"
	"github.com/bryanwahyu/explain-my-mess/internal/logger"
)

func main() {
	_ = godotenv.Load()
	log := logger.Init("info", "text")

	if err := run(); err != nil {
		log.Error("list models", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if key == "" {
		return errors.New("GEMINI_API_KEY is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := gemini.New(ctx, gemini.Options{APIKey: key})
	if err != nil {
		return err
	}
	defer client.Close()

	models, err := client.ListModels(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Available models:")
	for _, m := range models {
		fmt.Printf("- %s (%s)\n", m.Name, strings.Join(m.Methods, ", "))
	}
	return nil
}
