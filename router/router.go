package router

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/cafe-api/config"
	"github.com/yeremiapane/cafe-api/controllers"
	"github.com/yeremiapane/cafe-api/kds"
	"github.com/yeremiapane/cafe-api/middlewares"
	"github.com/yeremiapane/cafe-api/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

func SetupRouter(cfg *config.Config, store *services.CafeStore, hub *kds.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORS.AllowedOrigins))
	r.Use(middlewares.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst).RateLimit())

	cafeCtrl := controllers.NewCafeController(store, hub)

	r.GET("/", cafeCtrl.Home)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// READ
	r.GET("/random", cafeCtrl.GetRandomCafe)
	r.GET("/all", cafeCtrl.GetAllCafes)
	r.GET("/search", cafeCtrl.SearchCafes)
	r.GET("/cafes/:cafe_id", cafeCtrl.GetCafeByID)

	// CREATE
	r.POST("/add", cafeCtrl.AddCafe)

	// UPDATE
	r.PATCH("/update-price/:cafe_id", cafeCtrl.UpdatePrice)

	// DELETE
	closed := r.Group("/report-closed")
	closed.Use(middlewares.ClosureLoggerMiddleware(), middlewares.APIKeyMiddleware(cfg.Security))
	{
		closed.DELETE("/:cafe_id", cafeCtrl.ReportClosed)
	}

	r.GET("/ws", controllers.FeedHandler(hub))

	return r
}
