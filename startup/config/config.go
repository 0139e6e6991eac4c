package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8000"`

	MongoHost string `envconfig:"MONGO_HOST" default:"localhost"`
	MongoPort string `envconfig:"MONGO_PORT" default:"27017"`
	MongoDB   string `envconfig:"MONGO_DB" default:"urban_stay"`

	RedisHost string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort string `envconfig:"REDIS_PORT" default:"6379"`

	SecretKey string        `envconfig:"SECRET_KEY" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"168h"`

	SMTPHost     string `envconfig:"SMTP_HOST" default:"smtp.office365.com"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPEmail    string `envconfig:"SMTP_AUTH_MAIL"`
	SMTPPassword string `envconfig:"SMTP_AUTH_PASSWORD"`

	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"urban_stay"`

	JaegerAddress string `envconfig:"JAEGER_ADDRESS"`
	LogFilePath   string `envconfig:"LOG_FILE_PATH"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`

	CasbinModel    string   `envconfig:"CASBIN_MODEL" default:"./rbac_model.conf"`
	CasbinPolicy   string   `envconfig:"CASBIN_POLICY" default:"./policy.csv"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

func NewConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return &cfg
}
