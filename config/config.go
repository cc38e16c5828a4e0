// Package config loads the application configuration from YAML files with
// environment variable overrides, following a koanf-based loading pipeline.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultDeliveryFee    = 5000
	defaultGatewayTimeout = 10 * time.Second
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port int `json:"port" yaml:"port"`
	} `json:"http" yaml:"http"`

	Postgres PostgresConfig `json:"postgres" yaml:"postgres"`

	SecretKey struct {
		Access  string `json:"access" yaml:"access"`
		Refresh string `json:"refresh" yaml:"refresh"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// Orders configuration for the order lifecycle subsystem.
	Orders *OrdersConfig `json:"orders" yaml:"orders"`

	// Beyonic configuration for the mobile-money collection gateway.
	Beyonic *BeyonicConfig `json:"beyonic" yaml:"beyonic"`

	// Firebase configuration for push notifications (optional).
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`

	// PubSub configuration for order event publishing (optional).
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// QRCode configuration for tracking-number QR rendering.
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`
}

// Log defines logger output options.
type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// PostgresConfig defines the PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	DBName   string `json:"dbName" yaml:"dbName"`
	SSLMode  string `json:"sslMode" yaml:"sslMode"`

	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}

// AuthConfig defines authentication-related configuration.
type AuthConfig struct {
	BcryptCost int           `json:"bcryptCost" yaml:"bcryptCost"`
	AccessTTL  time.Duration `json:"accessTtl" yaml:"accessTtl"`
	RefreshTTL time.Duration `json:"refreshTtl" yaml:"refreshTtl"`
}

// OrdersConfig defines configuration for the order lifecycle subsystem.
type OrdersConfig struct {
	// Flat delivery fee in currency minor units. The fee policy is a
	// pluggable strategy; this is the default quote.
	DefaultDeliveryFee int64 `json:"defaultDeliveryFee" yaml:"defaultDeliveryFee"`
}

// BeyonicConfig defines settings for the outbound collection gateway and its webhook.
type BeyonicConfig struct {
	BaseURL  string        `json:"baseUrl" yaml:"baseUrl"`
	APIKey   string        `json:"apiKey" yaml:"apiKey"`
	Currency string        `json:"currency" yaml:"currency"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`

	// CallbackURL is passed on every collection request so the gateway
	// knows where to deliver webhooks.
	CallbackURL string `json:"callbackUrl" yaml:"callbackUrl"`

	// WebhookSecret enables HMAC verification of webhook deliveries when set.
	WebhookSecret string `json:"webhookSecret" yaml:"webhookSecret"`
}

// FirebaseConfig defines Firebase configuration for push notifications.
type FirebaseConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
}

// PubSubConfig defines Pub/Sub configuration for order event publishing.
type PubSubConfig struct {
	// Provider type: "google" for Google Pub/Sub, empty for no-op.
	Provider  string `json:"provider" yaml:"provider"`
	ProjectID string `json:"projectId" yaml:"projectId"`
	TopicID   string `json:"topicId" yaml:"topicId"`
}

// QRCodeConfig defines QR code generation configuration.
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// LoadWithEnv loads the YAML config for the current environment (ENV, default
// the given fallback) from the provided search paths, then applies environment
// variable overrides aligned against the YAML key structure.
func LoadWithEnv[T any](fallbackEnv string, searchPaths ...string) (*T, error) {
	cfg := new(T)

	currEnv := os.Getenv("ENV")
	if currEnv == "" {
		currEnv = fallbackEnv
	}

	koanfInstance := koanf.New(".")

	var configFile string
	found := false
	for _, searchPath := range searchPaths {
		candidate := filepath.Join(searchPath, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}
	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to a dotted path and align each segment
			// with existing YAML keys, e.g. POSTGRES_SSLMODE -> postgres.sslMode.
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides.
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads the application config and applies defaults.
func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if cfg.Orders == nil {
		cfg.Orders = &OrdersConfig{}
	}
	if cfg.Orders.DefaultDeliveryFee == 0 {
		cfg.Orders.DefaultDeliveryFee = defaultDeliveryFee
	}
	if cfg.Beyonic != nil && cfg.Beyonic.Timeout == 0 {
		cfg.Beyonic.Timeout = defaultGatewayTimeout
	}

	return cfg, nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
