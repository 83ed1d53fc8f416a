package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DefaultDatabaseName = "StyleDecorDB"
	HomeServicesLimit   = 8
)

type Database struct {
	MongoConnString string        `envconfig:"MONGODB_CONNSTRING"`
	DBUser          string        `envconfig:"DB_USER"`
	DBPass          string        `envconfig:"DB_PASS"`
	DBCluster       string        `envconfig:"DB_CLUSTER" default:"cluster0.qyacehm.mongodb.net"`
	DBName          string        `envconfig:"DB_NAME" default:"StyleDecorDB"`
	StorageTimeout  time.Duration `envconfig:"STORAGE_TIMEOUT" default:"5s"`
}

type Server struct {
	Port            string        `envconfig:"PORT" default:"3000"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

type Checkout struct {
	StripeSecret    string        `envconfig:"STRIPE_SECRET" required:"true"`
	SiteDomain      string        `envconfig:"SITE_DOMAIN" required:"true"`
	Currency        string        `envconfig:"CHECKOUT_CURRENCY" default:"bdt"`
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"10s"`
}

type Identity struct {
	SigningKey string `envconfig:"SIGN" required:"true"`
}

type Events struct {
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	PaymentTopic string   `envconfig:"KAFKA_PAYMENT_TOPIC" default:"payment.confirmed"`
}

// Config is the full configuration of the serve command. Sections are embedded
// so that every variable keeps its bare name.
type Config struct {
	Database
	Server
	Checkout
	Identity
	Events
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	loadDotEnv()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("cannot read configuration: %w", err)
	}
	if _, err := cfg.MongoURI(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDatabase reads only the database section, for commands that never talk
// to the payment or identity providers.
func LoadDatabase() (*Database, error) {
	loadDotEnv()

	var db Database
	if err := envconfig.Process("", &db); err != nil {
		return nil, fmt.Errorf("cannot read database configuration: %w", err)
	}
	if _, err := db.MongoURI(); err != nil {
		return nil, err
	}
	return &db, nil
}

// MongoURI returns MONGODB_CONNSTRING when set, otherwise an Atlas SRV URI
// assembled from the credential parts.
func (d Database) MongoURI() (string, error) {
	if d.MongoConnString != "" {
		return d.MongoConnString, nil
	}
	if d.DBUser == "" || d.DBPass == "" {
		return "", errors.New("no MONGODB_CONNSTRING and no DB_USER/DB_PASS in the environment")
	}

	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(d.DBUser, d.DBPass),
		Host:     d.DBCluster,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority&appName=Cluster0",
	}
	return u.String(), nil
}

func (s Server) Addr() string {
	return ":" + s.Port
}

func (e Events) KafkaEnabled() bool {
	return len(e.KafkaBrokers) > 0
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "cannot parse .env file: %v\n", err)
	}
}
