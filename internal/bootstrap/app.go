// Package bootstrap wires configuration, storage, external tools and feature
// services into a runnable application.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"labreport-backend/internal/ai"
	"labreport-backend/internal/analyses"
	"labreport-backend/internal/feedback"
	"labreport-backend/internal/llm"
	openai "labreport-backend/internal/llm/openai"
	"labreport-backend/internal/ocr"
	"labreport-backend/internal/questionnaire"
	"labreport-backend/internal/reminders"
	"labreport-backend/internal/shared/config"
	"labreport-backend/internal/shared/server"
	"labreport-backend/internal/shared/storage/db"
	"labreport-backend/internal/shared/storage/object"
	localstore "labreport-backend/internal/shared/storage/object/local"
	s3store "labreport-backend/internal/shared/storage/object/s3"
	"labreport-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	UsersRepo         users.Repo
	AnalysesRepo      analyses.Repo
	QuestionnaireRepo questionnaire.Repo
	RemindersRepo     reminders.Repo

	UsersService         *users.Service
	AnalysesService      *analyses.Service
	QuestionnaireService *questionnaire.Service
	RemindersService     *reminders.Service

	LLM       llm.Client
	Feedback  *feedback.Generator
	OCR       *ocr.Adapter
	Converter *ocr.Converter
	Scheduler *reminders.Scheduler
}

// Build prepares shared dependencies and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			if cfg.Env == "production" {
				return nil, fmt.Errorf("connect database: %w", err)
			}
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else if err := db.RunMigrations(ctx, conn); err != nil {
			conn.Close()
			if cfg.Env == "production" {
				return nil, fmt.Errorf("run migrations: %w", err)
			}
			log.Printf("failed to run migrations, falling back to memory: %v", err)
		} else {
			app.DB = conn
		}
	} else if cfg.Env == "production" {
		return nil, fmt.Errorf("DATABASE_URL is required in production")
	}

	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.AnalysesRepo = &analyses.PGRepo{DB: app.DB}
		app.QuestionnaireRepo = &questionnaire.PGRepo{DB: app.DB}
		app.RemindersRepo = &reminders.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.AnalysesRepo = analyses.NewMemoryRepo()
		app.QuestionnaireRepo = questionnaire.NewMemoryRepo()
		app.RemindersRepo = reminders.NewMemoryRepo()
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store

	ocrCfg := ocr.Config{
		Tesseract: cfg.Tesseract,
		Pdftoppm:  cfg.Pdftoppm,
		Language:  cfg.OCRLanguage,
		DPI:       cfg.RasterizeDPI,
		MaxPages:  cfg.MaxPDFPages,
	}
	app.OCR = ocr.NewAdapter(ocrCfg)
	app.Converter = ocr.NewConverter(ocrCfg)

	app.LLM = buildLLM(cfg)
	app.Feedback = feedback.New(app.LLM)

	app.UsersService = users.NewService(app.UsersRepo, cfg.JWTSecret)
	app.QuestionnaireService = questionnaire.NewService(app.QuestionnaireRepo)
	app.AnalysesService = analyses.NewService(app.AnalysesRepo, app.Store, app.OCR, app.Converter, app.Feedback, app.QuestionnaireService)
	app.RemindersService = reminders.NewService(app.RemindersRepo, app.UsersRepo)

	mailer := &reminders.SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.MailFrom,
	}
	app.Scheduler = reminders.NewScheduler(app.RemindersRepo, app.UsersRepo, mailer, 0)

	app.Router = server.NewRouter(server.RouterDeps{
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		Users:           users.NewHandler(app.UsersService),
		Analyses:        analyses.NewHandler(app.AnalysesService),
		Questionnaire:   questionnaire.NewHandler(app.QuestionnaireService),
		Reminders:       reminders.NewHandler(app.RemindersService),
		AI:              ai.NewHandler(app.OCR, cfg.UploadDir),
	})

	return app, nil
}

// Close releases held resources.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			return nil, fmt.Errorf("init s3 store: %w", err)
		}
		return store, nil
	default:
		return localstore.New(cfg.UploadDir), nil
	}
}

func buildLLM(cfg config.Config) llm.Client {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if cfg.LLMProvider != "openai" || apiKey == "" {
		log.Printf("LLM provider %q not configured, feedback will be degraded", cfg.LLMProvider)
		return llm.PlaceholderClient{}
	}
	client, err := openai.NewClient(apiKey, cfg.LLMModel)
	if err != nil {
		log.Printf("openai client init failed, feedback will be degraded: %v", err)
		return llm.PlaceholderClient{}
	}
	return client
}
