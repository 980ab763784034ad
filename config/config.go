package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderAWS = "aws"
	ProviderGCP = "gcp"

	SummarizerHuggingFace = "huggingface"
	SummarizerVertex      = "vertex"

	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Port     string
	LogLevel string
	AppEnv   string

	CloudProvider      string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	GoogleCredentials  string
	BucketName         string

	LanguageCode       string
	DiarizationEnabled bool
	MaxSpeakers        int

	PollInterval   time.Duration
	PollTimeout    time.Duration
	PollRatePerSec float64

	Summarizer          string
	HuggingFaceAPIKey   string
	HuggingFaceEndpoint string
	SummarizerTimeout   time.Duration
	VertexProjectID     string
	VertexLocation      string
	VertexModel         string

	DBDriver        string
	MongoURI        string
	MongoDB         string
	PostgresURI     string
	RedisAddr       string
	SummaryCacheTTL time.Duration

	AuthJWTSecret   string
	AuthJWTIssuer   string
	AuthJWTAudience string

	MaxUploadBytes int64
}

// Load reads the process environment. Call godotenv.Load first to pick up
// a .env file.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	p := &parser{getenv: getenv}

	c := &Config{
		Port:     p.str("PORT", "8080"),
		LogLevel: p.str("LOG_LEVEL", "info"),
		AppEnv:   p.str("APP_ENV", "production"),

		CloudProvider:      strings.ToLower(p.str("CLOUD_PROVIDER", ProviderAWS)),
		AWSRegion:          p.str("AWS_REGION", ""),
		AWSAccessKeyID:     p.str("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: p.str("AWS_SECRET_ACCESS_KEY", ""),
		GoogleCredentials:  p.str("GOOGLE_APPLICATION_CREDENTIALS", ""),
		BucketName:         p.str("BUCKET_NAME", ""),

		LanguageCode:       p.str("TRANSCRIBE_LANGUAGE", "en-US"),
		DiarizationEnabled: p.boolean("DIARIZATION_ENABLED", true),
		MaxSpeakers:        p.integer("MAX_SPEAKERS", 2),

		PollInterval:   p.duration("POLL_INTERVAL", 5*time.Second),
		PollTimeout:    p.duration("POLL_TIMEOUT", 15*time.Minute),
		PollRatePerSec: p.float("POLL_RATE_PER_SEC", 5),

		Summarizer:          strings.ToLower(p.str("SUMMARIZER", SummarizerHuggingFace)),
		HuggingFaceAPIKey:   p.str("HUGGING_FACE_API_KEY", ""),
		HuggingFaceEndpoint: p.str("HUGGING_FACE_ENDPOINT", ""),
		SummarizerTimeout:   p.duration("SUMMARIZER_TIMEOUT", 2*time.Minute),
		VertexProjectID:     p.str("VERTEX_PROJECT_ID", ""),
		VertexLocation:      p.str("VERTEX_LOCATION", "us-central1"),
		VertexModel:         p.str("VERTEX_MODEL", "gemini-1.5-flash"),

		DBDriver:        strings.ToLower(p.str("DB_DRIVER", DriverMongo)),
		MongoURI:        p.str("MONGO_URI", ""),
		MongoDB:         p.str("MONGO_DB", "ayuda"),
		PostgresURI:     p.str("POSTGRES_URI", ""),
		RedisAddr:       p.first("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),
		SummaryCacheTTL: p.duration("SUMMARY_CACHE_TTL", time.Minute),

		AuthJWTSecret:   p.str("AUTH_JWT_SECRET", ""),
		AuthJWTIssuer:   p.str("AUTH_JWT_ISSUER", ""),
		AuthJWTAudience: p.str("AUTH_JWT_AUDIENCE", ""),

		MaxUploadBytes: int64(p.integer("MAX_UPLOAD_BYTES", 100<<20)),
	}

	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs...)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the options required by the selected providers are set.
func (c *Config) Validate() error {
	var errs []error
	missing := func(name string) { errs = append(errs, fmt.Errorf("%s environment variable is not set", name)) }

	if c.BucketName == "" {
		missing("BUCKET_NAME")
	}

	switch c.CloudProvider {
	case ProviderAWS:
		if c.AWSRegion == "" {
			missing("AWS_REGION")
		}
		if (c.AWSAccessKeyID == "") != (c.AWSSecretAccessKey == "") {
			errs = append(errs, errors.New("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together"))
		}
	case ProviderGCP:
	default:
		errs = append(errs, fmt.Errorf("CLOUD_PROVIDER %q is not one of aws, gcp", c.CloudProvider))
	}

	switch c.Summarizer {
	case SummarizerHuggingFace:
		if c.HuggingFaceAPIKey == "" {
			missing("HUGGING_FACE_API_KEY")
		}
	case SummarizerVertex:
		if c.VertexProjectID == "" {
			missing("VERTEX_PROJECT_ID")
		}
	default:
		errs = append(errs, fmt.Errorf("SUMMARIZER %q is not one of huggingface, vertex", c.Summarizer))
	}

	switch c.DBDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			missing("MONGO_URI")
		}
	case DriverPostgres:
		if c.PostgresURI == "" {
			missing("POSTGRES_URI")
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of mongo, postgres", c.DBDriver))
	}

	if c.LanguageCode == "" {
		missing("TRANSCRIBE_LANGUAGE")
	}
	if c.MaxSpeakers < 2 && c.DiarizationEnabled {
		errs = append(errs, errors.New("MAX_SPEAKERS must be at least 2 when diarization is enabled"))
	}
	if c.PollInterval <= 0 || c.PollTimeout <= 0 {
		errs = append(errs, errors.New("POLL_INTERVAL and POLL_TIMEOUT must be positive"))
	}
	// a zero limiter admits one status query per process and then blocks forever
	if c.PollRatePerSec <= 0 {
		errs = append(errs, errors.New("POLL_RATE_PER_SEC must be positive"))
	}
	return errors.Join(errs...)
}

type parser struct {
	getenv func(string) string
	errs   []error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(p.getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) first(keys ...string) string {
	for _, k := range keys {
		if v := p.str(k, ""); v != "" {
			return v
		}
	}
	return ""
}

func (p *parser) boolean(key string, def bool) bool {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (p *parser) integer(key string, def int) int {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}
