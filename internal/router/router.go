package router

import (
	"time"

	"bizzops/internal/config"
	"bizzops/internal/handler"
	"bizzops/internal/infra"
	"bizzops/internal/middleware"
	"bizzops/internal/repository"
	"bizzops/internal/service"
	"bizzops/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	ownerRepo := repository.NewOwnerRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	crmRepo := repository.NewCRMRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(ownerRepo, cfg)
	invoiceSvc := service.NewInvoiceService(invoiceRepo)
	saleSvc := service.NewSaleService(saleRepo, inventoryRepo, customerRepo, invoiceSvc, ownerRepo, dispatcher)
	inventorySvc := service.NewInventoryService(inventoryRepo, vendorRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	vendorSvc := service.NewVendorService(vendorRepo)
	expenseSvc := service.NewExpenseService(expenseRepo)
	staffSvc := service.NewStaffService(staffRepo)
	crmSvc := service.NewCRMService(crmRepo)
	// A typed-nil *RedisCache in the interface would defeat the service's
	// nil check, so only wrap when a client exists.
	var cache service.Cache
	if rdb != nil {
		cache = infra.NewRedisCache(rdb)
	}
	dashboardSvc := service.NewDashboardService(saleRepo, inventoryRepo, customerRepo, invoiceRepo, expenseRepo, crmRepo, cache, cfg)
	importExportSvc := service.NewImportExportService(inventorySvc, customerSvc, expenseSvc, inventoryRepo, saleRepo, customerRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	vendorsH := handler.NewVendorsHandler(vendorSvc)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc)
	expensesH := handler.NewExpensesHandler(expenseSvc)
	staffH := handler.NewStaffHandler(staffSvc)
	crmH := handler.NewCRMHandler(crmSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	importExportH := handler.NewImportExportHandler(importExportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/register", middleware.LoginRateLimiter(), authH.Register)
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes — everything below is scoped to the authenticated owner
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		v1.GET("/profile", authH.Profile)
		v1.GET("/dashboard", dashboardH.Get)

		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.CreateSale)
			sales.GET("", salesH.ListSales)
			sales.GET("/:id", salesH.GetSale)
			sales.DELETE("/:id", salesH.DeleteSale)
		}

		inv := v1.Group("/inventory")
		{
			inv.POST("", inventoryH.AddInventory)
			inv.GET("", inventoryH.ListItems)
			inv.GET("/:id", inventoryH.GetItem)
			inv.PUT("/:id", inventoryH.UpdateItem)
			inv.DELETE("/:id", inventoryH.DeleteItem)
		}

		customers := v1.Group("/customers")
		{
			customers.POST("", customersH.Create)
			customers.GET("", customersH.List)
			customers.GET("/:id", customersH.Get)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Delete)
			customers.POST("/:id/payments", customersH.RecordPayment)
			customers.GET("/:id/transactions", customersH.ListTransactions)
		}

		vendors := v1.Group("/vendors")
		{
			vendors.POST("", vendorsH.Create)
			vendors.GET("", vendorsH.List)
			vendors.GET("/:id", vendorsH.Get)
			vendors.PUT("/:id", vendorsH.Update)
			vendors.DELETE("/:id", vendorsH.Delete)
			vendors.POST("/:id/payments", vendorsH.RecordPayment)
			vendors.POST("/:id/adjustments", vendorsH.Adjust)
			vendors.GET("/:id/transactions", vendorsH.ListTransactions)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.GET("", invoicesH.List)
			invoices.GET("/:id", invoicesH.Get)
			invoices.PATCH("/:id/paid", invoicesH.MarkPaid)
			invoices.GET("/:id/pdf", invoicesH.DownloadPDF)
		}

		expenses := v1.Group("/expenses")
		{
			expenses.POST("", expensesH.Create)
			expenses.GET("", expensesH.List)
			expenses.PUT("/:id", expensesH.Update)
			expenses.DELETE("/:id", expensesH.Delete)
		}

		staff := v1.Group("/staff")
		{
			staff.POST("", staffH.Create)
			staff.GET("", staffH.List)
			staff.PUT("/:id", staffH.Update)
			staff.PATCH("/:id/active", staffH.SetActive)
			staff.DELETE("/:id", staffH.Delete)
		}

		tasks := v1.Group("/tasks")
		{
			tasks.POST("", crmH.CreateTask)
			tasks.GET("", crmH.ListTasks)
			tasks.PATCH("/:id/done", crmH.SetTaskDone)
			tasks.DELETE("/:id", crmH.DeleteTask)
		}

		appointments := v1.Group("/appointments")
		{
			appointments.POST("", crmH.CreateAppointment)
			appointments.GET("", crmH.ListAppointments)
			appointments.DELETE("/:id", crmH.DeleteAppointment)
		}

		deals := v1.Group("/deals")
		{
			deals.POST("", crmH.CreateDeal)
			deals.GET("", crmH.ListDeals)
			deals.PATCH("/:id/stage", crmH.UpdateDealStage)
			deals.DELETE("/:id", crmH.DeleteDeal)
		}

		imports := v1.Group("/import")
		{
			imports.POST("/inventory", importExportH.ImportInventory)
			imports.POST("/customers", importExportH.ImportCustomers)
			imports.POST("/expenses", importExportH.ImportExpenses)
		}

		exports := v1.Group("/export")
		{
			exports.GET("/inventory", importExportH.ExportInventory)
			exports.GET("/sales", importExportH.ExportSales)
			exports.GET("/customers", importExportH.ExportCustomers)
		}
	}

	return r
}
