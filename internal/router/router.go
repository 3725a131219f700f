package router

import (
	"time"

	"github.com/Fer-Psy/tr4cking/internal/config"
	"github.com/Fer-Psy/tr4cking/internal/handler"
	"github.com/Fer-Psy/tr4cking/internal/middleware"
	"github.com/Fer-Psy/tr4cking/internal/repository"
	"github.com/Fer-Psy/tr4cking/internal/service"
	"github.com/Fer-Psy/tr4cking/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	personaRepo := repository.NewPersonaRepository(db)
	flotaRepo := repository.NewFlotaRepository(db)
	viajeRepo := repository.NewViajeRepository(db)
	pasajeRepo := repository.NewPasajeRepository(db)
	encomiendaRepo := repository.NewEncomiendaRepository(db)
	timbradoRepo := repository.NewTimbradoRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	personaSvc := service.NewPersonaService(personaRepo)
	flotaSvc := service.NewFlotaService(flotaRepo)
	timbradoSvc := service.NewTimbradoService(timbradoRepo)
	cajaSvc := service.NewCajaService(cajaRepo)
	viajeSvc := service.NewViajeService(viajeRepo, flotaRepo, pasajeRepo)
	pasajeSvc := service.NewPasajeService(pasajeRepo, viajeRepo, personaRepo, cajaRepo,
		time.Duration(cfg.ReservaTTLMinutos)*time.Minute)
	encomiendaSvc := service.NewEncomiendaService(encomiendaRepo, personaRepo, viajeRepo, cajaRepo)

	// Worker dispatcher, injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	facturacionSvc := service.NewFacturacionService(
		facturaRepo, timbradoSvc, cajaRepo, pasajeRepo, encomiendaRepo, personaRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	personasH := handler.NewPersonasHandler(personaSvc)
	flotaH := handler.NewFlotaHandler(flotaSvc)
	viajesH := handler.NewViajesHandler(viajeSvc, pasajeSvc)
	pasajesH := handler.NewPasajesHandler(pasajeSvc)
	encomiendasH := handler.NewEncomiendasHandler(encomiendaSvc)
	trackingH := handler.NewTrackingHandler(encomiendaSvc, rdb)
	timbradosH := handler.NewTimbradosHandler(timbradoSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	facturasH := handler.NewFacturasHandler(facturacionSvc, timbradoSvc, facturaRepo, cfg.PDFStoragePath)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Parcel tracking: no auth, clients follow their envío by código
	r.GET("/v1/tracking/:codigo", trackingH.Rastrear)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles (cajero, supervisor, administrador) are declared per-endpoint
		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Abrir)
			caja.POST("/cerrar", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Cerrar)
			caja.POST("/movimientos", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.RegistrarMovimiento)
			caja.GET("/actual", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.SesionActiva)
			caja.GET("/sesiones", middleware.RequireRole("supervisor", "administrador"), cajaH.ListarSesiones)
			caja.GET("/sesiones/:id/reporte", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.ObtenerReporte)
		}

		facturas := v1.Group("/facturas", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			facturas.POST("", facturasH.Crear)
			facturas.GET("", facturasH.Listar)
			facturas.GET("/proximo-numero", facturasH.ProximoNumero)
			facturas.GET("/:id", facturasH.Obtener)
			facturas.GET("/:id/pdf", facturasH.DescargarPDF)
			facturas.GET("/:id/qr", facturasH.ObtenerQR)
			facturas.GET("/:id/ticket", facturasH.Ticket)
		}
		// Anulación reverses fiscal state: supervisor or administrador only
		v1.POST("/facturas/:id/anular", middleware.RequireRole("supervisor", "administrador"), facturasH.Anular)

		pasajes := v1.Group("/pasajes", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			pasajes.POST("/vender", pasajesH.Vender)
			pasajes.POST("/reservar", pasajesH.Reservar)
			pasajes.POST("/:id/confirmar", pasajesH.Confirmar)
			pasajes.POST("/:id/abordar", pasajesH.Abordar)
			pasajes.POST("/:id/no-show", pasajesH.NoShow)
			pasajes.POST("/:id/cancelar", pasajesH.Cancelar)
			pasajes.GET("", pasajesH.Listar)
			pasajes.GET("/:id", pasajesH.Obtener)
			pasajes.GET("/codigo/:codigo", pasajesH.PorCodigo)
		}

		encomiendas := v1.Group("/encomiendas", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			encomiendas.POST("", encomiendasH.Registrar)
			encomiendas.POST("/:id/estado", encomiendasH.CambiarEstado)
			encomiendas.POST("/:id/entregar", encomiendasH.Entregar)
			encomiendas.GET("", encomiendasH.Listar)
			encomiendas.GET("/:id", encomiendasH.Obtener)
		}

		personas := v1.Group("/personas", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			personas.POST("", personasH.Crear)
			personas.GET("", personasH.Buscar)
			personas.GET("/:id", personasH.Obtener)
			personas.GET("/cedula/:cedula", personasH.PorCedula)
			personas.PUT("/:id", personasH.Actualizar)
		}

		// Viajes: all roles can read, supervisor+ creates and transitions
		v1.GET("/viajes", middleware.RequireRole("cajero", "supervisor", "administrador"), viajesH.Listar)
		v1.GET("/viajes/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), viajesH.Obtener)
		v1.GET("/viajes/:id/pasajes", middleware.RequireRole("cajero", "supervisor", "administrador"), viajesH.Pasajes)
		v1.POST("/viajes", middleware.RequireRole("supervisor", "administrador"), viajesH.Crear)
		v1.POST("/viajes/:id/estado", middleware.RequireRole("supervisor", "administrador"), viajesH.CambiarEstado)

		// Flota: all roles can read (sales screens), supervisor+ writes
		v1.GET("/empresas", middleware.RequireRole("cajero", "supervisor", "administrador"), flotaH.ListarEmpresas)
		v1.GET("/buses", middleware.RequireRole("cajero", "supervisor", "administrador"), flotaH.ListarBuses)
		v1.GET("/paradas", middleware.RequireRole("cajero", "supervisor", "administrador"), flotaH.ListarParadas)
		v1.POST("/empresas", middleware.RequireRole("supervisor", "administrador"), flotaH.CrearEmpresa)
		v1.POST("/buses", middleware.RequireRole("supervisor", "administrador"), flotaH.CrearBus)
		v1.POST("/paradas", middleware.RequireRole("supervisor", "administrador"), flotaH.CrearParada)

		timbrados := v1.Group("/timbrados", middleware.RequireRole("administrador"))
		{
			timbrados.POST("", timbradosH.Crear)
			timbrados.GET("", timbradosH.Listar)
			timbrados.GET("/:id", timbradosH.Obtener)
			timbrados.POST("/:id/activar", timbradosH.Activar)
			timbrados.POST("/:id/desactivar", timbradosH.Desactivar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.POST("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI, disabled in production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
