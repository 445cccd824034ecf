package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all StudyForge server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	AI       AIConfig       `yaml:"ai"`
	Storage  StorageConfig  `yaml:"storage"`
	GitHub   GitHubConfig   `yaml:"github"`
}

type ServerConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret string   `yaml:"jwt_secret"`
	TokenTTL  Duration `yaml:"token_ttl"`
}

// AIConfig configures the LLM providers and dispatch defaults.
type AIConfig struct {
	DefaultProvider string         `yaml:"default_provider"`
	Ollama          ProviderConfig `yaml:"ollama"`
	Gemini          ProviderConfig `yaml:"gemini"`
	Groq            ProviderConfig `yaml:"groq"`
}

type ProviderConfig struct {
	BaseURL string   `yaml:"base_url"`
	APIKey  string   `yaml:"api_key"`
	Model   string   `yaml:"model"`
	Timeout Duration `yaml:"timeout"`
}

type StorageConfig struct {
	UploadDir string `yaml:"upload_dir"`
}

type GitHubConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	APIBaseURL   string `yaml:"api_base_url"`
	OAuthBaseURL string `yaml:"oauth_base_url"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Address: ":8080"},
		Database: DatabaseConfig{Path: "data/studyforge.db"},
		Auth: AuthConfig{
			JWTSecret: "",
			TokenTTL:  Duration(24 * time.Hour),
		},
		AI: AIConfig{
			DefaultProvider: "ollama",
			Ollama: ProviderConfig{
				BaseURL: "http://localhost:11434",
				Model:   "llama3.1",
				Timeout: Duration(120 * time.Second),
			},
			Gemini: ProviderConfig{
				BaseURL: "https://generativelanguage.googleapis.com",
				Model:   "gemini-2.0-flash",
				Timeout: Duration(60 * time.Second),
			},
			Groq: ProviderConfig{
				BaseURL: "https://api.groq.com/openai/v1",
				Model:   "llama-3.3-70b-versatile",
				Timeout: Duration(60 * time.Second),
			},
		},
		Storage: StorageConfig{UploadDir: "data/uploads"},
		GitHub: GitHubConfig{
			APIBaseURL:   "https://api.github.com",
			OAuthBaseURL: "https://github.com",
		},
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Environment variables override secrets so they
// never need to live on disk.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required (set STUDYFORGE_JWT_SECRET)")
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = Duration(24 * time.Hour)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrides := map[string]*string{
		"STUDYFORGE_ADDRESS":     &cfg.Server.Address,
		"STUDYFORGE_DB_PATH":     &cfg.Database.Path,
		"STUDYFORGE_JWT_SECRET":  &cfg.Auth.JWTSecret,
		"STUDYFORGE_UPLOAD_DIR":  &cfg.Storage.UploadDir,
		"STUDYFORGE_AI_PROVIDER": &cfg.AI.DefaultProvider,
		"OLLAMA_BASE_URL":        &cfg.AI.Ollama.BaseURL,
		"GEMINI_API_KEY":         &cfg.AI.Gemini.APIKey,
		"GROQ_API_KEY":           &cfg.AI.Groq.APIKey,
		"GITHUB_CLIENT_ID":       &cfg.GitHub.ClientID,
		"GITHUB_CLIENT_SECRET":   &cfg.GitHub.ClientSecret,
	}
	for key, target := range overrides {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
}

// Duration is a time.Duration that unmarshals from yaml strings like "60s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
