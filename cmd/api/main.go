package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cruisehub/reseller-backend-go/internal/config"
	"github.com/cruisehub/reseller-backend-go/internal/domain/commission"
	appHTTP "github.com/cruisehub/reseller-backend-go/internal/handler/http"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/cron"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/database"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/docrender"
	"github.com/cruisehub/reseller-backend-go/internal/pkg/jwt"
	"github.com/cruisehub/reseller-backend-go/internal/repository/postgresql"
	notificationService "github.com/cruisehub/reseller-backend-go/internal/service/notification"
	payslipService "github.com/cruisehub/reseller-backend-go/internal/service/payslip"
	profileService "github.com/cruisehub/reseller-backend-go/internal/service/profile"
	saleService "github.com/cruisehub/reseller-backend-go/internal/service/sale"
	"github.com/cruisehub/reseller-backend-go/internal/service/scope"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	profileRepo := postgresql.NewProfileRepository(db)
	relationRepo := postgresql.NewRelationRepository(db)
	leadRepo := postgresql.NewLeadRepository(db)
	saleRepo := postgresql.NewSaleRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	renderer := docrender.NewClient(cfg.Render.BaseURL, cfg.Render.APIKey, cfg.Render.Timeout)

	notificationSvc := notificationService.NewNotificationService(notificationRepo, notificationService.Config{})
	defer notificationSvc.Shutdown()

	scopeResolver := scope.NewResolver(profileRepo, relationRepo)
	calculator := commission.NewCalculator(saleRepo)

	profileSvc := profileService.NewProfileService(profileRepo, relationRepo, notificationSvc)
	saleSvc := saleService.NewSaleService(txManager, saleRepo, leadRepo, scopeResolver, notificationSvc)
	payslipSvc := payslipService.NewPayslipService(payslipRepo, profileRepo, relationRepo, calculator, renderer, notificationSvc)

	profileHandler := appHTTP.NewProfileHandler(profileSvc)
	saleHandler := appHTTP.NewSaleHandler(saleSvc)
	payslipHandler := appHTTP.NewPayslipHandler(payslipSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notificationSvc)

	router := appHTTP.NewRouter(
		jwtService,
		profileHandler,
		saleHandler,
		payslipHandler,
		notificationHandler,
	)

	if cfg.Scheduler.Enabled {
		scheduler := cron.NewScheduler()
		payslipJobs := cron.NewPayslipJobs(payslipSvc, cfg.Scheduler.PayslipGenerationDay)
		payslipJobs.RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	// Block until interrupted, then let the deferred shutdowns drain the
	// notification queues and stop the scheduler.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	_ = server.Close()
}
