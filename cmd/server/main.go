package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/smarttechsol/stockdesk/internal/config"
	"github.com/smarttechsol/stockdesk/internal/repository/mongodb"
	"github.com/smarttechsol/stockdesk/internal/repository/sheets"
	"github.com/smarttechsol/stockdesk/internal/scheduler"
	"github.com/smarttechsol/stockdesk/internal/server/handlers"
	"github.com/smarttechsol/stockdesk/internal/server/router"
	adminsvc "github.com/smarttechsol/stockdesk/internal/service/admin"
	customersvc "github.com/smarttechsol/stockdesk/internal/service/customer"
	inventorysvc "github.com/smarttechsol/stockdesk/internal/service/inventory"
	quotationsvc "github.com/smarttechsol/stockdesk/internal/service/quotation"
	reportingsvc "github.com/smarttechsol/stockdesk/internal/service/reporting"
	"github.com/smarttechsol/stockdesk/pkg/clients/mailer"
	"github.com/smarttechsol/stockdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	componentRepo := mongodb.NewComponentRepository(store)
	historyRepo := mongodb.NewHistoryRepository(store)
	customerRepo := mongodb.NewCustomerRepository(store)
	quotationRepo := mongodb.NewQuotationRepository(store)
	commentRepo := mongodb.NewCommentRepository(store)
	adminRepo := mongodb.NewAdminRepository(store)

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Warn("sheets credentials missing, snapshot export disabled")
	}

	var mailClient mailer.Client
	if cfg.Mailer.Enabled() {
		mailClient = mailer.NewClient(cfg.Mailer)
		baseLogger.Info("mail client enabled")
	} else {
		baseLogger.Warn("mailer config missing, email otp flow disabled")
	}

	ledgerSvc := inventorysvc.NewService(componentRepo, historyRepo, baseLogger.Named("svc.inventory"))
	customerSvc := customersvc.NewService(customerRepo, quotationRepo, commentRepo, baseLogger.Named("svc.customer"))
	quotationSvc := quotationsvc.NewService(quotationRepo, baseLogger.Named("svc.quotation"))
	adminSvc := adminsvc.NewService(adminRepo, mailClient, baseLogger.Named("svc.admin"))
	reportingSvc := reportingsvc.NewService(componentRepo, sheetsRepo, baseLogger.Named("svc.reporting"))

	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 10*time.Second)
	if err := adminSvc.Bootstrap(bootstrapCtx, cfg.Bootstrap); err != nil {
		baseLogger.Error("failed to bootstrap default admin", zap.Error(err))
	}
	cancelBootstrap()

	engine := router.New(router.Handlers{
		Components: handlers.NewComponentHandler(ledgerSvc, baseLogger.Named("handlers.components")),
		Customers:  handlers.NewCustomerHandler(customerSvc, baseLogger.Named("handlers.customers")),
		Quotations: handlers.NewQuotationHandler(quotationSvc, baseLogger.Named("handlers.quotations")),
		Admins:     handlers.NewAdminHandler(adminSvc, baseLogger.Named("handlers.admins")),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
