package main

import (
	"flag"
	"log"
	"os"

	"github.com/hugohenrick/erp-vendas/internal/config"
	"github.com/hugohenrick/erp-vendas/internal/infrastructure/database"
	"github.com/hugohenrick/erp-vendas/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	down := flag.Int("down", 0, "número de migrações a desfazer (0 aplica as pendentes)")
	flag.Parse()

	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro na configuração: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL ou DB_HOST deve ser informado para executar migrações")
	}

	zl, err := logger.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Erro ao criar logger: %v", err)
	}
	defer zl.Sync()

	var version uint
	if *down > 0 {
		version, err = database.RollbackMigrations(cfg.DatabaseURL, *down)
	} else {
		version, err = database.RunMigrations(cfg.DatabaseURL)
	}
	if err != nil {
		zl.Error("erro ao executar migrações", "error", err)
		_ = zl.Sync()
		os.Exit(1)
	}

	zl.Info("migrações executadas com sucesso", "version", version)
}
