package main

import (
	"context"
	"log"

	"taskflow/internal/app"
	"taskflow/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	application := app.New(cfg)
	if err := application.Init(context.Background()); err != nil {
		log.Fatalf("инициализация: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("сервер: %v", err)
	}
}
