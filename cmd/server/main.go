package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/peterbourgon/ff/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/skolverk/betyg/internal/app"
	"github.com/skolverk/betyg/internal/handlers"
)

func main() {
	fs := flag.NewFlagSet("betyg-server", flag.ExitOnError)
	configPath := fs.String("config", "config.toml", "path to TOML config file")
	if err := ff.Parse(fs, os.Args[1:], ff.WithEnvVarPrefix("BETYG")); err != nil {
		logger.Error.Fatalf("Failed to parse flags: %v", err)
	}

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start service: %v", err)
	}
	defer service.Close()

	if err := service.Store.ApplyMigrations(service.Config.Database.MigrationsDir); err != nil {
		logger.Error.Fatalf("Failed to apply migrations: %v", err)
	}

	gradeHandler := handlers.NewGradeHandler(service)
	reportHandler := handlers.NewReportHandler(service)

	http.HandleFunc("GET /api/health", gradeHandler.HandleHealth)
	http.HandleFunc("GET /api/test/calculation", gradeHandler.HandleTestCalculation)
	http.HandleFunc("GET /api/grading/policies", gradeHandler.HandleListPolicies)
	http.HandleFunc("POST /api/calculate/grades", gradeHandler.HandleCalculateGrades)
	http.HandleFunc("POST /api/generate/report", reportHandler.HandleGenerateReport)
	http.HandleFunc("GET /api/reports/usage", reportHandler.HandleReportUsage)
	http.HandleFunc("GET /api/reports/recent", reportHandler.HandleRecentRenders)

	http.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting betyg server on %s", service.Config.Server.Port)
	logger.Debug.Println("Available policies:")
	for _, p := range service.Registry.List() {
		logger.Debug.Printf("  %s: %v", p.ID, p.Grades)
	}
	if err := http.ListenAndServe(service.Config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Betyg server failed: %v", err)
	}
}
