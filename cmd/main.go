package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	// Nossos pacotes de infraestrutura e utilitários
	"sghss/config"
	_ "sghss/docs" // Registra a especificação Swagger
	"sghss/internal/pkg/cache"
	"sghss/internal/pkg/database"
	"sghss/internal/pkg/logger"
	"sghss/internal/pkg/reqmeta"
	"sghss/internal/pkg/token"

	// Camadas para Injeção de Dependências
	"sghss/internal/api/auth"    // Handlers
	"sghss/internal/api/patient" // Handlers
	"sghss/internal/api/router"  // Roteador central
	"sghss/internal/repository/auditrepo"
	"sghss/internal/repository/patientrepo" // Acesso a Dados
	"sghss/internal/repository/userrepo"
	"sghss/internal/service/auditservice"
	"sghss/internal/service/authservice" // Lógica de Negócio
	"sghss/internal/service/patientservice"
)

// @title SGHSS API
// @version 1.0
// @description Sistema de Gestão Hospitalar e de Serviços de Saúde: autenticação e perfis de paciente.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	// Sem .env seguimos apenas com as variáveis do ambiente (ex: Docker).
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	// 1. Configuração e Inicialização
	cfg := config.LoadConfig()
	appLog := logger.NewLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		appLog.Fatal("Configuração inválida.", err)
	}
	appLog.Info("⚡ Inicializando serviço SGHSS...", map[string]interface{}{"env": cfg.Environment})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, cfg.DBTimeout, database.DefaultPool, appLog)
	if err != nil {
		appLog.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	appLog.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis). Sem Redis a API segue com o cache em memória do processo.
	var cacheClient cache.Client
	redisClient, err := cache.NewRedisClient(cfg.RedisAddr, cfg.CacheTimeout)
	if err != nil {
		appLog.Warn("Redis indisponível; usando cache em memória.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		cacheClient = cache.NewMemoryClient()
	} else {
		defer redisClient.Close()
		cacheClient = redisClient
		appLog.Info("Conexão Redis estabelecida.", nil)
	}

	// C. Serviço de Tokens (JWT) e lista de revogação
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry, cfg.RefreshTokenExpiry)
	revocations := token.NewRevocationStore(cacheClient)
	appLog.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, appLog)
	patientRepo := patientrepo.NewPatientRepository(db, cacheClient, cfg.DBTimeout, cfg.CacheTTL, appLog)
	auditRepo := auditrepo.NewAuditRepository(db, cfg.DBTimeout, appLog)
	appLog.Debug("Repositórios inicializados.", nil)

	// B. Serviços
	auditRecorder := auditservice.NewRecorder(auditRepo, appLog)
	authSvc := authservice.NewService(authservice.Dependencies{
		Users:            userRepo,
		Profiles:         patientRepo,
		Tokens:           tokenSvc,
		Revoker:          revocations,
		Attempts:         authservice.NewCacheAttemptStore(cacheClient, cfg.LoginLockout),
		Audit:            auditRecorder,
		MaxLoginAttempts: cfg.LoginMaxAttempts,
	}, appLog)
	patientSvc := patientservice.NewService(patientRepo, userRepo, auditRecorder, appLog)
	appLog.Debug("Serviços inicializados.", nil)

	// C. Handlers
	authHandler := auth.NewHandler(authSvc, appLog)
	patientHandler := patient.NewHandler(patientSvc, appLog)

	// 4. Configuração do Roteador/Servidor
	proxies, err := reqmeta.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		appLog.Fatal("TRUSTED_PROXIES inválido.", err)
	}

	r := router.NewRouter(router.Dependencies{
		AuthHandler:          authHandler,
		PatientHandler:       patientHandler,
		Tokens:               tokenSvc,
		Revocations:          revocations,
		Cache:                cacheClient,
		Logger:               appLog,
		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
		RateLimitPeriod:      cfg.RateLimitPeriod,
		AllowedOrigins:       cfg.CORSAllowedOrigins,
		TrustedProxies:       proxies,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLog.Info("Servidor SGHSS ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLog.Error("Servidor encerrado com erro.", err)
		os.Exit(1)
	}

	appLog.Info("Servidor encerrado com sucesso.", nil)
}
