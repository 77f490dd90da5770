package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config armazena todas as configurações do serviço GoWMS.
// Os campos cobrem DB, Cache, Segurança, Mensageria e Observabilidade.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string
	ServiceName string

	// Banco de Dados (PostgreSQL)
	DatabaseURL string
	DBDriver    string        // "postgres" (lib/pq) ou "pgx" (jackc/pgx stdlib)
	DBTimeout   time.Duration // Timeout por comando SQL
	TxTimeout   time.Duration // Timeout da unidade de trabalho inteira

	// Cache (Redis)
	RedisAddr string
	CacheTTL  time.Duration

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
	TrustProxy           bool // usa X-Forwarded-For/X-Real-IP como IP do cliente

	// Eventos (Kafka). Lista vazia desativa a publicação.
	KafkaBrokers []string
	KafkaTopic   string

	// Tracing (OTLP/HTTP). Endpoint vazio mantém apenas o provider local.
	OtelEndpoint string
	OtelInsecure bool
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		ServiceName: getEnv("SERVICE_NAME", "gowms-api"),

		// 2. Banco de Dados
		// mustGetEnv garante que a aplicação não inicie sem credenciais de DB
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,
		TxTimeout:   getDurationEnv("TX_TIMEOUT_SEC", 15) * time.Second,

		// 3. Cache (Redis)
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:  getDurationEnv("CACHE_TTL_SEC", 300) * time.Second,

		// 4. Segurança (JWT)
		JWTSecretKey: mustGetEnv("JWT_SECRET_KEY"),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,

		// 5. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
		TrustProxy:           getBoolEnv("TRUST_PROXY", false),

		// 6. Eventos
		KafkaBrokers: getListEnv("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "gowms.orders"),

		// 7. Tracing
		OtelEndpoint: getEnv("OTEL_ENDPOINT", ""),
		OtelInsecure: getBoolEnv("OTEL_INSECURE", true),
	}

	return cfg
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
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

func getBoolEnv(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é booleano. Usando padrão (%t).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getListEnv lê uma lista separada por vírgulas, ignorando itens vazios.
func getListEnv(key string) []string {
	var items []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}
