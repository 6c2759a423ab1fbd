package restapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter wires the HTTP surface: the versioned API, the Prometheus
// endpoint and a liveness probe.
func SetupRouter(
	wallet *WalletHandler,
	chain *ChainDataHandler,
	mutation *MutationHandler,
	settings *SettingsHandler,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger.Named("http")))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		w := v1.Group("/wallet")
		{
			w.POST("/connect", wallet.Connect)
			w.POST("/disconnect", wallet.Disconnect)
			w.GET("/session", wallet.Session)
			w.POST("/sign", wallet.Sign)
			w.POST("/import", wallet.Import)
			w.GET("/export", wallet.Export)
			w.POST("/conflicts", wallet.Conflicts)
		}

		accounts := v1.Group("/accounts")
		{
			accounts.GET("/:address/assets", chain.Assets)
			accounts.GET("/:address/balance-summary", chain.BalanceSummary)
			accounts.GET("/:address/transactions", chain.Transactions)
		}

		pools := v1.Group("/pools")
		{
			pools.GET("", chain.Pools)
			pools.GET("/stats", chain.PoolStats)
			pools.GET("/:address", chain.PoolInfo)
			pools.GET("/:address/positions/:account", chain.UserPosition)
		}

		v1.GET("/contract-info", chain.ContractInfo)

		v1.GET("/recent-tokens", chain.RecentTokens)
		v1.DELETE("/recent-tokens", chain.ClearRecentTokens)

		ops := v1.Group("/operations")
		{
			ops.POST("/supply", mutation.Supply)
			ops.POST("/borrow", mutation.Borrow)
			ops.POST("/repay", mutation.Repay)
			ops.POST("/withdraw", mutation.Withdraw)
		}

		deploy := v1.Group("/deployments")
		{
			deploy.POST("/token", mutation.DeployToken)
			deploy.POST("/pool", mutation.DeployPool)
		}

		v1.GET("/notifications", mutation.Notifications)

		s := v1.Group("/settings")
		{
			s.GET("", settings.Get)
			s.PATCH("", settings.Update)
			s.POST("/reset", settings.Reset)
		}
	}

	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
