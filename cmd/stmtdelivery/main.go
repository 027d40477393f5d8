package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/meridianfcu/stmtdelivery/internal/app"
	"github.com/meridianfcu/stmtdelivery/internal/delivery"
	jobmetrics "github.com/meridianfcu/stmtdelivery/internal/jobs"
)

func main() {
	_ = godotenv.Load()

	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	var (
		serviceName  = flag.String("tns-service-name", "", "database service identifier")
		configPath   = flag.String("config-file-path", "", "path to the job YAML config")
		outputPath   = flag.String("output-file-path", "", "directory for the CSV report")
		outputName   = flag.String("output-file-name", "", "file name for the CSV report")
		runDate      = flag.String("run-date", "", "close date cohort, MM-DD-YYYY (mutually exclusive with -full-cleanup)")
		reportOnly   = flag.Bool("rpt-only", false, "stage updates in a transaction that is rolled back")
		fullCleanup  = flag.Bool("full-cleanup", false, "process all historically closed accounts")
		sendEmail    = flag.Bool("send-email", false, "allow the failure alert email")
		recipients   = flag.String("email-recipients", "", "comma separated alert recipients")
		fromAddr     = flag.String("from-email-addr", "", "alert from-address")
		testAddr     = flag.String("test-email-addr", "", "divert alerts to this address")
		smtpServer   = flag.String("smtp-server", "", "SMTP host (overrides SMTP_HOST)")
		smtpPort     = flag.Int("smtp-port", 0, "SMTP port (overrides SMTP_PORT)")
		smtpUser     = flag.String("smtp-user", "", "SMTP user (overrides SMTP_USER)")
		smtpPassword = flag.String("smtp-password", "", "SMTP password (overrides SMTP_PASSWORD)")
	)
	flag.Parse()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	if *smtpServer != "" {
		cfg.SMTPHost = *smtpServer
	}
	if *smtpPort != 0 {
		cfg.SMTPPort = *smtpPort
	}
	if *smtpUser != "" {
		cfg.SMTPUser = *smtpUser
	}
	if *smtpPassword != "" {
		cfg.SMTPPassword = *smtpPassword
	}

	logger := app.NewLogger(cfg)

	params := delivery.Params{
		ServiceName:    *serviceName,
		ConfigFilePath: *configPath,
		OutputFilePath: *outputPath,
		OutputFileName: *outputName,
		RunDate:        *runDate,
		ReportOnly:     *reportOnly,
		FullCleanup:    *fullCleanup,
		SendEmail:      *sendEmail,
		Recipients:     splitRecipients(*recipients),
		FromAddr:       *fromAddr,
		TestAddr:       *testAddr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := delivery.Run(ctx, cfg, params, logger, jobmetrics.NewMetrics(nil)); err != nil {
		logger.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func splitRecipients(list string) []string {
	var out []string
	for _, addr := range strings.Split(list, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
