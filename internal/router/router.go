package router

import (
	"github.com/gin-gonic/gin"
	"github.com/viptalca/viptalca-backend/config"
	"github.com/viptalca/viptalca-backend/internal/app/controller"
	"github.com/viptalca/viptalca-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	tiendaController     *controller.TiendaController
	clienteController    *controller.ClienteController
	asociacionController *controller.AsociacionController
	vipController        *controller.VipRegistrationController
	exportController     *controller.ExportController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	tiendaController *controller.TiendaController,
	clienteController *controller.ClienteController,
	asociacionController *controller.AsociacionController,
	vipController *controller.VipRegistrationController,
	exportController *controller.ExportController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		tiendaController:     tiendaController,
		clienteController:    clienteController,
		asociacionController: asociacionController,
		vipController:        vipController,
		exportController:     exportController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "VIP Talca API is running",
		})
	})

	// Confirmation links from emails land directly here, outside /api.
	router.GET("/confirm-vip-store", r.vipController.Confirm)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/forgot-password", r.authController.ForgotPassword)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		// Public self-registration for VIP stores
		v1.POST("/vip-registrations", r.vipController.Register)

		admin := v1.Group("/admin",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole("admin"),
		)
		{
			tiendas := admin.Group("/tiendas")
			{
				tiendas.GET("", r.tiendaController.ListTiendas)
				tiendas.POST("", r.tiendaController.CreateTienda)
				tiendas.GET("/:id", r.tiendaController.GetTienda)
				tiendas.PUT("/:id", r.tiendaController.UpdateTienda)
				tiendas.DELETE("/:id", r.tiendaController.DeleteTienda)
				tiendas.GET("/:id/clientes", r.tiendaController.ListClientes)
			}

			clientes := admin.Group("/clientes")
			{
				clientes.GET("", r.clienteController.ListClientes)
				clientes.POST("", r.clienteController.CreateCliente)
				clientes.GET("/:id", r.clienteController.GetCliente)
				clientes.PUT("/:id", r.clienteController.UpdateCliente)
				clientes.DELETE("/:id", r.clienteController.DeleteCliente)
				clientes.PUT("/:id/rfid", r.clienteController.AssignRfid)
				clientes.DELETE("/:id/rfid", r.clienteController.ClearRfid)
				clientes.GET("/:id/tiendas", r.clienteController.ListTiendas)
			}

			asociaciones := admin.Group("/asociaciones")
			{
				asociaciones.POST("", r.asociacionController.Associate)
				asociaciones.DELETE("", r.asociacionController.Dissociate)
			}

			admin.GET("/vip-registrations", r.vipController.ListRegistrations)
			admin.GET("/export/clientes", r.exportController.ExportClientes)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
