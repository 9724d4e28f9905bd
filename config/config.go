package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config armazena todas as configurações do SGHSS.
// Os campos são agrupados por requisito (DB, Cache, Segurança, Robustez).
type Config struct {
	// Geral
	Port        string `validate:"required,numeric"`
	Environment string `validate:"oneof=development testing production"`
	LogLevel    string `validate:"oneof=debug info warn error"`

	// Banco de Dados (PostgreSQL)
	DatabaseURL string        `validate:"required"`
	DBTimeout   time.Duration `validate:"gt=0"`

	// Cache (Redis)
	RedisAddr    string        `validate:"required,hostname_port"`
	CacheTimeout time.Duration `validate:"gt=0"`
	CacheTTL     time.Duration `validate:"gt=0"`

	// Segurança (JWT)
	JWTSecretKey       string        `validate:"required,min=16"`
	TokenExpiry        time.Duration `validate:"gt=0"`
	RefreshTokenExpiry time.Duration `validate:"gtfield=TokenExpiry"`

	// Bloqueio de login após tentativas falhas
	LoginMaxAttempts int           `validate:"gte=1"`
	LoginLockout     time.Duration `validate:"gt=0"`

	// Rate Limiting
	RateLimitMaxRequests int           `validate:"gte=1"`
	RateLimitPeriod      time.Duration `validate:"gt=0"`

	// CORS
	CORSAllowedOrigins []string `validate:"min=1,dive,required"`

	// Proxies reversos cujo X-Forwarded-For é aceito (IP ou CIDR)
	TrustedProxies []string `validate:"dive,ip|cidr"`
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// DATABASE_URL e JWT_SECRET_KEY não têm padrão; a ausência é reportada por Validate.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Banco de Dados (PostgreSQL)
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		// 3. Cache (Redis)
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTimeout: getDurationEnv("CACHE_TIMEOUT_SEC", 10) * time.Second,
		CacheTTL:     getDurationEnv("CACHE_TTL_MIN", 5) * time.Minute,

		// 4. Segurança (JWT)
		JWTSecretKey:       getEnv("JWT_SECRET_KEY", ""),
		TokenExpiry:        getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,
		RefreshTokenExpiry: getDurationEnv("JWT_REFRESH_EXPIRY_DAYS", 30) * 24 * time.Hour,

		// 5. Bloqueio de login
		LoginMaxAttempts: getIntEnv("LOGIN_MAX_ATTEMPTS", 5),
		LoginLockout:     getDurationEnv("LOGIN_LOCKOUT_MIN", 30) * time.Minute,

		// 6. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,

		// 7. CORS
		CORSAllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),

		// 8. Proxies confiáveis
		TrustedProxies: getListEnv("TRUSTED_PROXIES", nil),
	}

	return cfg
}

// Validate verifica as regras declaradas nas tags `validate` e devolve
// uma mensagem por campo inválido.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	problems := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		problems = append(problems, fmt.Sprintf("%s (regra %s)", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("configuração inválida: %s", strings.Join(problems, "; "))
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration (sem unidade).
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getListEnv lê uma lista separada por vírgulas, descartando itens vazios.
func getListEnv(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
