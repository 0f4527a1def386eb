package main

import (
	"context"
	"log"
	"os"

	"github.com/hugohenrick/erp-vendas/internal/config"
	"github.com/hugohenrick/erp-vendas/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro na configuração: %v", err)
	}

	zl, err := logger.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Erro ao criar logger: %v", err)
	}
	defer zl.Sync()

	app, err := NewApp(context.Background(), cfg, zl)
	if err != nil {
		zl.Error("erro ao iniciar aplicação", "error", err)
		_ = zl.Sync()
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Start(); err != nil {
		zl.Error("erro no servidor HTTP", "error", err)
	}
}
