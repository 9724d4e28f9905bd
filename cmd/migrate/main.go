package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"sghss/config"
	"sghss/internal/pkg/database"
	"sghss/internal/pkg/logger"
	"sghss/migrations"
)

// gooseLogger encaminha as mensagens do goose para o logger da aplicação.
type gooseLogger struct {
	log logger.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal("goose", fmt.Errorf(format, v...))
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Migrações do banco de dados do SGHSS (goose)",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "diretório com as migrações (padrão: migrações embutidas no binário)")

	for _, c := range []struct {
		use, short string
	}{
		{"up", "Aplica todas as migrações pendentes"},
		{"down", "Desfaz a última migração"},
		{"status", "Mostra o estado de cada migração"},
		{"version", "Mostra a versão atual do schema"},
		{"redo", "Desfaz e reaplica a última migração"},
		{"reset", "Desfaz todas as migrações"},
	} {
		command := c.use
		cmd.AddCommand(&cobra.Command{
			Use:   command,
			Short: c.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd.Context(), command, dir)
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Cria um arquivo SQL de migração em --dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := dir
			if target == "" {
				target = "./migrations"
			}
			goose.SetSequential(true)
			return goose.Run("create", nil, target, args[0], "sql")
		},
	})

	return cmd
}

// run conecta no banco da configuração e executa o comando goose.
func run(ctx context.Context, command, dir string) error {
	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL não definida")
	}

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, cfg.DBTimeout, database.DefaultPool, appLog)
	if err != nil {
		return fmt.Errorf("goose: falha ao conectar no DB: %w", err)
	}
	defer db.Close()

	goose.SetLogger(gooseLogger{log: appLog})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if dir == "" {
		goose.SetBaseFS(migrations.FS)
		dir = "."
	}

	if err := goose.RunContext(ctx, command, db, dir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}

	appLog.Info("goose "+command+" concluído", nil)
	return nil
}
