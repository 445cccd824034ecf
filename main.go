package main

import (
	"flag"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/studyforge/studyforge/auth"
	"github.com/studyforge/studyforge/config"
	"github.com/studyforge/studyforge/database"
	"github.com/studyforge/studyforge/githubapi"
	"github.com/studyforge/studyforge/handlers"
	"github.com/studyforge/studyforge/llm"
	"github.com/studyforge/studyforge/llm/provider/gemini"
	"github.com/studyforge/studyforge/llm/provider/groq"
	"github.com/studyforge/studyforge/llm/provider/ollama"
	"github.com/studyforge/studyforge/logging"
	"github.com/studyforge/studyforge/storage"
)

func main() {
	configPath := flag.String("config", "studyforge.yaml", "path to the config file")
	flag.Parse()

	logger := logging.New()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("migrate database")
	}

	files, err := storage.NewFileStore(cfg.Storage.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("init file store")
	}

	registry := llm.NewRegistry(cfg.AI.DefaultProvider,
		ollama.New(cfg.AI.Ollama.BaseURL, cfg.AI.Ollama.Model, cfg.AI.Ollama.Timeout.Std(), logger),
		gemini.New(cfg.AI.Gemini.BaseURL, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model, cfg.AI.Gemini.Timeout.Std(), logger),
		groq.New(cfg.AI.Groq.BaseURL, cfg.AI.Groq.APIKey, cfg.AI.Groq.Model, cfg.AI.Groq.Timeout.Std(), logger),
	)

	h := &handlers.Handlers{
		DB:         db,
		Logger:     logger,
		Auth:       auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Std()),
		Dispatcher: llm.NewDispatcher(registry),
		Proposals:  llm.NewProposalCache(),
		Files:      files,
		GitHub: githubapi.NewClient(cfg.GitHub.ClientID, cfg.GitHub.ClientSecret,
			cfg.GitHub.APIBaseURL, cfg.GitHub.OAuthBaseURL, logger),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	handlers.Register(r, h)

	logger.Info().Str("address", cfg.Server.Address).Msg("studyforge listening")
	if err := r.Run(cfg.Server.Address); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
