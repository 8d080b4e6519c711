package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Pipeline *pipelineConfig
	LLM      *llmConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"litreview"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address           string   `envconfig:"LITREVIEW_ADDRESS" default:":8080"`
	MetricsAddress    string   `envconfig:"LITREVIEW_METRICS_ADDRESS" default:":8081"`
	BaseUrl           string   `envconfig:"LITREVIEW_BASE_URL" default:"http://localhost:8080"`
	LogLevel          string   `envconfig:"LITREVIEW_LOG_LEVEL" default:"info"`
	CorsOrigins       []string `envconfig:"LITREVIEW_CORS_ORIGINS" default:"*"`
	JournalImpactFile string   `envconfig:"LITREVIEW_JOURNAL_IMPACT_FILE" default:""`
}

type pipelineConfig struct {
	// Concurrency bounds simultaneous in-flight extraction calls; the
	// extraction backend is the rate-limited resource.
	Concurrency    int           `envconfig:"LITREVIEW_PIPELINE_CONCURRENCY" default:"4"`
	ArticleTimeout time.Duration `envconfig:"LITREVIEW_PIPELINE_ARTICLE_TIMEOUT" default:"2m"`
	SessionTimeout time.Duration `envconfig:"LITREVIEW_PIPELINE_SESSION_TIMEOUT" default:"30m"`
	MaxArticles    int           `envconfig:"LITREVIEW_PIPELINE_MAX_ARTICLES" default:"50"`
}

type llmConfig struct {
	Endpoint      string        `envconfig:"LITREVIEW_LLM_ENDPOINT" default:"http://localhost:9090/v1/generate"`
	Model         string        `envconfig:"LITREVIEW_LLM_MODEL" default:"gemini-2.0-flash-001"`
	Timeout       time.Duration `envconfig:"LITREVIEW_LLM_TIMEOUT" default:"2m"`
	SourceAddress string        `envconfig:"LITREVIEW_ARTICLE_SOURCE_URL" default:"http://localhost:9091/v1/search"`
	SourceTimeout time.Duration `envconfig:"LITREVIEW_ARTICLE_SOURCE_TIMEOUT" default:"1m"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a config populated with defaults only, ignoring the
// environment. Used by tests.
func NewDefault() *Config {
	return &Config{
		Database: &dbConfig{
			Type: "sqlite",
			Name: ":memory:",
		},
		Service: &svcConfig{
			Address:        ":8080",
			MetricsAddress: ":8081",
			BaseUrl:        "http://localhost:8080",
			LogLevel:       "info",
			CorsOrigins:    []string{"*"},
		},
		Pipeline: &pipelineConfig{
			Concurrency:    4,
			ArticleTimeout: 2 * time.Minute,
			SessionTimeout: 30 * time.Minute,
			MaxArticles:    50,
		},
		LLM: &llmConfig{
			Endpoint:      "http://localhost:9090/v1/generate",
			Model:         "gemini-2.0-flash-001",
			Timeout:       2 * time.Minute,
			SourceAddress: "http://localhost:9091/v1/search",
			SourceTimeout: time.Minute,
		},
	}
}
