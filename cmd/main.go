package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gowms/config"
	_ "gowms/docs"
	"gowms/internal/pkg/cache"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/events"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/telemetry"
	"gowms/internal/pkg/token"

	"gowms/internal/api/customer"
	"gowms/internal/api/inventory"
	"gowms/internal/api/order"
	"gowms/internal/api/product"
	"gowms/internal/api/router"
	"gowms/internal/api/shipment"
	"gowms/internal/api/user"
	"gowms/internal/api/warehouse"
	"gowms/internal/repository/customerrepo"
	"gowms/internal/repository/inventoryrepo"
	"gowms/internal/repository/orderrepo"
	"gowms/internal/repository/productrepo"
	"gowms/internal/repository/shipmentrepo"
	"gowms/internal/repository/uow"
	"gowms/internal/repository/userrepo"
	"gowms/internal/repository/warehouserepo"
	"gowms/internal/service/customerservice"
	"gowms/internal/service/inventoryservice"
	"gowms/internal/service/orderservice"
	"gowms/internal/service/productservice"
	"gowms/internal/service/shipmentservice"
	"gowms/internal/service/userservice"
	"gowms/internal/service/warehouseservice"
)

// @title GoWMS API
// @version 1.0
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("⚡ Inicializando serviço GoWMS...")
	if err := godotenv.Load(); err != nil {
		// As variáveis podem vir do ambiente do sistema (ex: Docker).
		log.Println("⚠️ Aviso: Arquivo .env não encontrado. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment, "db_driver": cfg.DBDriver})

	shutdownTracing, err := telemetry.SetupTracing(context.Background(), telemetry.Options{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
	})
	if err != nil {
		log.Fatal("Falha ao configurar o tracing.", err)
	}

	metrics, err := telemetry.SetupMetrics(context.Background(), telemetry.Options{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
	})
	if err != nil {
		log.Fatal("Falha ao configurar as métricas.", err)
	}

	// 1. Infraestrutura
	db, err := database.NewPostgresDB(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	queryMetrics, err := database.NewQueryMetrics(metrics.Meter)
	if err != nil {
		log.Warn("Métricas de banco desativadas.", map[string]interface{}{"error": err.Error()})
	}
	dbq := queryMetrics.Wrap(db)

	var cacheClient cache.Client
	if c, err := cache.NewRedisClient(cfg.RedisAddr); err != nil {
		log.Warn("Redis indisponível. Seguindo sem cache e sem rate limit.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
	} else {
		defer c.Close()
		cacheClient = c
		log.Info("Conexão Redis estabelecida.", nil)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(events.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic))
		log.Info("Publicação de eventos no Kafka ativada.", map[string]interface{}{"topic": cfg.KafkaTopic})
	}
	defer publisher.Close()

	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)

	// 2. Repository -> Service -> Handler
	productRepo := productrepo.NewProductRepository(dbq, cacheClient, cfg.DBTimeout, cfg.CacheTTL, log)
	warehouseRepo := warehouserepo.NewWarehouseRepository(dbq, cfg.DBTimeout, log)
	inventoryRepo := inventoryrepo.NewInventoryRepository(dbq, cfg.DBTimeout, log)
	customerRepo := customerrepo.NewCustomerRepository(dbq, cfg.DBTimeout, log)
	orderRepo := orderrepo.NewOrderRepository(dbq, cfg.DBTimeout, log)
	shipmentRepo := shipmentrepo.NewShipmentRepository(dbq, cfg.DBTimeout, log)
	userRepo := userrepo.NewUserRepository(dbq, cfg.DBTimeout, log)
	unitOfWork := uow.New(db, cfg.DBTimeout, cfg.TxTimeout, log).WithMetrics(queryMetrics)

	productSvc := productservice.NewService(productRepo, log)
	warehouseSvc := warehouseservice.NewService(warehouseRepo, log)
	inventorySvc := inventoryservice.NewService(inventoryRepo, productRepo, warehouseRepo, unitOfWork, log)
	customerSvc := customerservice.NewService(customerRepo, log)
	orderSvc := orderservice.NewService(unitOfWork, orderRepo, publisher, log)
	shipmentSvc := shipmentservice.NewService(unitOfWork, shipmentRepo, publisher, log)
	userSvc := userservice.NewService(userRepo, tokenSvc, log)
	log.Debug("Serviços inicializados.", nil)

	handler := router.NewRouter(router.Handlers{
		Product:   product.NewHandler(productSvc, log),
		Warehouse: warehouse.NewHandler(warehouseSvc, log),
		Inventory: inventory.NewHandler(inventorySvc, log),
		Customer:  customer.NewHandler(customerSvc, log),
		Order:     order.NewHandler(orderSvc, log),
		Shipment:  shipment.NewHandler(shipmentSvc, log),
		User:      user.NewHandler(userSvc, log),
	}, router.Options{
		TokenService:    tokenSvc,
		Cache:           cacheClient,
		RateLimit:       cfg.RateLimitMaxRequests,
		RateLimitWindow: cfg.RateLimitPeriod,
		TrustProxy:      cfg.TrustProxy,
		Meter:           metrics.Meter,
		MetricsHandler:  metrics.Handler,
		Logger:          log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 3. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor GoWMS ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Error("Falha ao encerrar o tracing.", err)
	}
	if err := metrics.Shutdown(ctx); err != nil {
		log.Error("Falha ao encerrar as métricas.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
