package api

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	db "github.com/KoboPoint/KoboPoint-Backend/db/sqlc"
	"github.com/KoboPoint/KoboPoint-Backend/models"
	"github.com/KoboPoint/KoboPoint-Backend/providers"
	"github.com/KoboPoint/KoboPoint-Backend/providers/bills"
	"github.com/KoboPoint/KoboPoint-Backend/services/catalog"
	"github.com/KoboPoint/KoboPoint-Backend/services/fulfillment"
	"github.com/KoboPoint/KoboPoint-Backend/services/monitoring/logging"
	"github.com/KoboPoint/KoboPoint-Backend/services/pricing"
	redisservice "github.com/KoboPoint/KoboPoint-Backend/services/redis"
	"github.com/KoboPoint/KoboPoint-Backend/services/transaction"
	"github.com/KoboPoint/KoboPoint-Backend/services/wallet"
	"github.com/KoboPoint/KoboPoint-Backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
)

// / If there's a better place to access this
// / TODO, I feel the config should be the one accessible like this
var TokenController *utils.JWTToken

type Server struct {
	router   *gin.Engine
	store    *db.Store
	config   *utils.Config
	logger   *logging.Logger
	provider *providers.ProviderService
	redis    *redisservice.RedisService

	walletService      *wallet.WalletService
	transactionService *transaction.TransactionService
	fulfillmentService *fulfillment.FulfillmentService
	syncService        *catalog.SyncService
}

func NewServer(envPath string) *Server {
	c, err := utils.LoadConfig(envPath)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	conn, err := sql.Open(c.DBDriver, utils.GetDBSource(c, c.DBName))
	if err != nil {
		panic(fmt.Sprintf("Could not load DB: %v", err))
	}

	m, err := migrate.New(
		"file://db/migrations",
		utils.GetDBSource(c, c.DBName),
	)
	if err != nil {
		log.Fatalf("Unable to instantiate the database schema migrator - %v", err)
	}

	if err := m.Up(); err != nil {
		if err != migrate.ErrNoChange {
			log.Fatalf("Unable to migrate up to the latest database schema - %v", err)
		}
	}

	store := db.NewStore(conn)
	g := gin.Default()
	l := logging.NewLogger()
	l.Info(fmt.Sprintf("Loaded configuration: %+v", c.Redact()))
	p := providers.NewProviderService()

	// Set up the bill provider
	billConfig, err := bills.LoadBillConfig()
	if err != nil {
		panic(fmt.Sprintf("Could not load bill provider config: %v", err))
	}
	billProvider := bills.NewBillProvider(billConfig, l)
	p.AddProvider(billProvider)

	// Redis is optional; without it plan reads just hit the database.
	var r *redisservice.RedisService
	if c.RedisHost != "" {
		r, err = redisservice.NewRedisService(&redisservice.RedisConfig{
			Host:     c.RedisHost,
			Port:     c.RedisPort,
			Password: c.RedisPassword,
		})
		if err != nil {
			l.Error(fmt.Sprintf("Redis unavailable, plan cache disabled: %v", err))
			r = nil
		}
	}

	walletService := wallet.NewWalletService(store, l)
	pricingService := pricing.NewPricingService(store, l)
	transactionService, err := transaction.NewTransactionService(store, l, c.HashSalt)
	if err != nil {
		panic(fmt.Sprintf("Could not set up transaction service: %v", err))
	}

	fulfillmentService := fulfillment.NewFulfillmentService(
		pricingService,
		walletService,
		billProvider,
		transactionService,
		l,
	)

	markup := decimal.Zero
	if c.PlanMarkup != "" {
		markup, err = decimal.NewFromString(c.PlanMarkup)
		if err != nil {
			panic(fmt.Sprintf("Invalid PLAN_MARKUP: %v", err))
		}
	}

	var planCache catalog.PlanCache
	if r != nil {
		planCache = r
	}
	syncService := catalog.NewSyncService(store, billProvider, planCache, l, markup)

	g.Use(CORSMiddleware())
	g.Use(l.LoggingMiddleWare())

	TokenController = utils.NewJWTToken(c)

	return &Server{
		router:             g,
		store:              store,
		config:             c,
		logger:             l,
		provider:           p,
		redis:              r,
		walletService:      walletService,
		transactionService: transactionService,
		fulfillmentService: fulfillmentService,
		syncService:        syncService,
	}
}

func (s *Server) Start() {

	dr := models.SuccessResponse{
		Status:  "success",
		Message: "Welcome to KoboPoint!",
		Version: utils.REVISION,
	}

	s.router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dr)
	})

	/// Register Object Routers Below
	Bills{}.router(s)
	Wallets{}.router(s)

	s.router.Run(fmt.Sprintf(":%v", s.config.ServerPort))
}
