package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"jobradar/internal/logging/types"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Pipeline struct {
		Concurrency int           `yaml:"concurrency" default:"4"`
		RunTimeout  time.Duration `yaml:"run_timeout" default:"10m"`
	} `yaml:"pipeline"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"claude"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"claude-3-5-haiku-latest"`
		MaxTokens   int           `yaml:"max_tokens" default:"8192"`
		Temperature float32       `yaml:"temperature" default:"0.0"`
		Timeout     time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"llm"`

	Fetcher struct {
		UserAgent      string        `yaml:"user_agent"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"60s"`
		MaxRetries     int           `yaml:"max_retries" default:"3"`
		RetryBaseDelay time.Duration `yaml:"retry_base_delay" default:"2s"`
		RetryMaxDelay  time.Duration `yaml:"retry_max_delay" default:"30s"`
		HostRateLimit  int           `yaml:"host_rate_limit" default:"30"` // requests per minute per host
		HostBurst      int           `yaml:"host_burst" default:"3"`
		MaxBodyBytes   int64         `yaml:"max_body_bytes" default:"5242880"`
	} `yaml:"fetcher"`

	Firecrawl struct {
		APIKey  string        `yaml:"api_key"`
		APIURL  string        `yaml:"api_url" default:"https://api.firecrawl.dev"`
		Timeout time.Duration `yaml:"timeout" default:"60s"`
	} `yaml:"firecrawl"`

	Redis struct {
		Enabled  bool          `yaml:"enabled" default:"false"`
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		CacheTTL time.Duration `yaml:"cache_ttl" default:"30m"`
	} `yaml:"redis"`

	Database struct {
		URL            string        `yaml:"url"`
		MaxConns       int           `yaml:"max_conns" default:"8"`
		ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s"`
	} `yaml:"database"`

	Notifications struct {
		MaxAttempts    int           `yaml:"max_attempts" default:"3"`
		RetryBaseDelay time.Duration `yaml:"retry_base_delay" default:"1s"`
		Timeout        time.Duration `yaml:"timeout" default:"30s"`

		Email struct {
			SMTPHost  string `yaml:"smtp_host" default:"smtp.gmail.com"`
			SMTPPort  int    `yaml:"smtp_port" default:"587"`
			Username  string `yaml:"username"`
			Password  string `yaml:"password"`
			Recipient string `yaml:"recipient"`
		} `yaml:"email"`

		Slack struct {
			WebhookURL string `yaml:"webhook_url"`
		} `yaml:"slack"`

		Discord struct {
			WebhookURL string `yaml:"webhook_url"`
		} `yaml:"discord"`
	} `yaml:"notifications"`

	Scheduler struct {
		Enabled bool   `yaml:"enabled" default:"false"`
		Spec    string `yaml:"spec" default:"@every 6h"`
	} `yaml:"scheduler"`

	Logging struct {
		Level    string                `yaml:"level" default:"info"`
		Format   string                `yaml:"format" default:"json"`
		Adapters []types.AdapterConfig `yaml:"adapters"`
	} `yaml:"logging"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}
	config.setDefaults()

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))
			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

func (c *Config) setDefaults() {
	c.Server.Port = 8080
	c.Server.Host = "0.0.0.0"
	c.Server.ReadTimeout = 30 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.IdleTimeout = 60 * time.Second

	c.Pipeline.Concurrency = 4
	c.Pipeline.RunTimeout = 10 * time.Minute

	c.LLM.Provider = "claude"
	c.LLM.Model = "claude-3-5-haiku-latest"
	c.LLM.MaxTokens = 8192
	c.LLM.Temperature = 0.0
	c.LLM.Timeout = 120 * time.Second

	c.Fetcher.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
	c.Fetcher.RequestTimeout = 60 * time.Second
	c.Fetcher.MaxRetries = 3
	c.Fetcher.RetryBaseDelay = 2 * time.Second
	c.Fetcher.RetryMaxDelay = 30 * time.Second
	c.Fetcher.HostRateLimit = 30
	c.Fetcher.HostBurst = 3
	c.Fetcher.MaxBodyBytes = 5 << 20

	c.Firecrawl.APIURL = "https://api.firecrawl.dev"
	c.Firecrawl.Timeout = 60 * time.Second

	c.Redis.URL = "redis://localhost:6379"
	c.Redis.CacheTTL = 30 * time.Minute

	c.Database.MaxConns = 8
	c.Database.ConnectTimeout = 10 * time.Second

	c.Notifications.MaxAttempts = 3
	c.Notifications.RetryBaseDelay = time.Second
	c.Notifications.Timeout = 30 * time.Second
	c.Notifications.Email.SMTPHost = "smtp.gmail.com"
	c.Notifications.Email.SMTPPort = 587

	c.Scheduler.Spec = "@every 6h"

	c.Logging.Level = "info"
	c.Logging.Format = "json"
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		c.Database.URL = dbURL
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
		c.Redis.Enabled = true
	}

	if firecrawlKey := os.Getenv("FIRECRAWL_API_KEY"); firecrawlKey != "" {
		c.Firecrawl.APIKey = firecrawlKey
	}

	if firecrawlURL := os.Getenv("FIRECRAWL_API_URL"); firecrawlURL != "" {
		c.Firecrawl.APIURL = firecrawlURL
	}

	if user := os.Getenv("SMTP_USER"); user != "" {
		c.Notifications.Email.Username = user
	}

	if password := os.Getenv("SMTP_PASSWORD"); password != "" {
		c.Notifications.Email.Password = password
	}

	if recipient := os.Getenv("NOTIFICATION_EMAIL"); recipient != "" {
		c.Notifications.Email.Recipient = recipient
	}

	if slack := os.Getenv("SLACK_WEBHOOK_URL"); slack != "" {
		c.Notifications.Slack.WebhookURL = slack
	}

	if discord := os.Getenv("DISCORD_WEBHOOK_URL"); discord != "" {
		c.Notifications.Discord.WebhookURL = discord
	}

	if spec := os.Getenv("SCHEDULER_SPEC"); spec != "" {
		c.Scheduler.Spec = spec
		c.Scheduler.Enabled = true
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}
}
