package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"todo-server/internal/controller"
	"todo-server/internal/middleware"
)

// Handlers groups the controllers mounted on the router.
type Handlers struct {
	Users  *controller.UserController
	Todos  *controller.TodoController
	Health *controller.HealthController
}

// Router builds the gin engine. allowedOrigins configures CORS.
func Router(h Handlers, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(), middleware.AccessLog())
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/", controller.Root)

	// Health for load balancers and K8s probes
	if h.Health != nil {
		router.GET("/health", h.Health.Health)
		router.GET("/ready", h.Health.Ready)
	}

	users := router.Group("/users")
	{
		users.POST("", h.Users.CreateUser)
		users.GET("", h.Users.GetUsers)
		users.GET("/:id", h.Users.GetUser)
		users.PUT("/:id", h.Users.UpdateUser)
		users.DELETE("/:id", h.Users.DeleteUser)
	}

	todos := router.Group("/todos")
	{
		todos.POST("", h.Todos.CreateTodo)
		todos.GET("", h.Todos.GetTodos)
		todos.GET("/:id", h.Todos.GetTodo)
		todos.PUT("/:id", h.Todos.UpdateTodo)
		todos.DELETE("/:id", h.Todos.DeleteTodo)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
