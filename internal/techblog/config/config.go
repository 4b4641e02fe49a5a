// Управление конфигурацией сервиса из переменных окружения.
// Содержит структуру Config для хранения параметров и функцию ReadConfig для их загрузки.
//
// Основные возможности:
//   - Загрузка конфигурации из переменных окружения по тегам struct.
//   - Валидация обязательных переменных.
//   - Преобразование типов из строк (string, int, bool).
//   - Маскировка секретных значений в логах.
//   - Значения по умолчанию для необязательных параметров.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"reflect"
	"strings"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DefaultBucketName  = "article-images"
	DefaultMediaPrefix = "media"
	DefaultMaxDepth    = 64
	DefaultHTTPAddr    = ":8080"
	DefaultMetricsAddr = ":2112"
)

var ErrWebURLRequired = errors.New("WEB_URL is required")

type Config struct {
	WebURLRaw string `env:"WEB_URL"`
	WebURL    *url.URL

	DatabaseDriver string `env:"DATABASE_DRIVER"`
	DatabaseDSN    string `env:"DATABASE_URL"`

	AWSEndpoint   string `env:"AWS_S3_ENDPOINT_URL"`
	AWSAccessKey  string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey  string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSBucketName string `env:"AWS_S3_BUCKET_NAME"`
	AWSUseSSL     bool   `env:"AWS_S3_USE_SSL"`

	MediaPublicURL string `env:"MEDIA_PUBLIC_URL"`
	MediaPrefix    string `env:"MEDIA_PREFIX"`

	AdminToken string `env:"ADMIN_TOKEN"`

	RenderMaxDepth int `env:"RENDER_MAX_DEPTH"`

	HTTPAddr    string `env:"HTTP_ADDR"`
	MetricsAddr string `env:"METRICS_ADDR"`
}

// ReadConfig загружает конфигурацию из переменных окружения и проверяет ее.
func ReadConfig() (*Config, error) {
	config := &Config{}

	if err := envConfig("env", config); err != nil {
		return nil, err
	}

	if err := config.prepare(); err != nil {
		return nil, err
	}
	return config, nil
}

// prepare проверяет обязательные значения и проставляет значения по умолчанию.
func (config *Config) prepare() error {
	if config.WebURLRaw == "" {
		return ErrWebURLRequired
	}
	var err error
	config.WebURL, err = url.Parse(config.WebURLRaw)
	if err != nil {
		return fmt.Errorf("WEB_URL incorrect: %w", err)
	}

	switch strings.ToLower(config.DatabaseDriver) {
	case "", DriverPostgres:
		config.DatabaseDriver = DriverPostgres
	case DriverSQLite:
		config.DatabaseDriver = DriverSQLite
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", config.DatabaseDriver)
	}

	if config.AWSBucketName == "" {
		config.AWSBucketName = DefaultBucketName
	}
	config.MediaPrefix = strings.Trim(config.MediaPrefix, "/")
	if config.MediaPrefix == "" {
		config.MediaPrefix = DefaultMediaPrefix
	}
	if config.MediaPublicURL == "" {
		config.MediaPublicURL = strings.TrimSuffix(config.WebURL.String(), "/") + "/" + config.AWSBucketName
	}

	if config.RenderMaxDepth <= 0 {
		config.RenderMaxDepth = DefaultMaxDepth
	}
	if config.HTTPAddr == "" {
		config.HTTPAddr = DefaultHTTPAddr
	}
	if config.MetricsAddr == "" {
		config.MetricsAddr = DefaultMetricsAddr
	}
	return nil
}

// Присваивает полям в переданной структуре значения переменных. Название переменной для каждого поля лежит в теге этого поля.
// Значение, которое не приводится к типу поля, возвращается ошибкой.
func envConfig(key string, s interface{}) error {
	v := reflect.ValueOf(s).Elem()
	typeParam := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fName := typeParam.Field(i).Name
		fEnvTag := typeParam.Field(i).Tag.Get(key)
		if fEnvTag == "" {
			continue
		}

		value, ok := LookupEnv(fEnvTag)
		if !ok {
			continue
		}

		switch v.Field(i).Interface().(type) {
		case string:
			v.Field(i).SetString(value)
		case int:
			n, err := ParseIntEnv(fEnvTag)
			if err != nil {
				return err
			}
			v.Field(i).SetInt(int64(n))
		case bool:
			b, err := ParseBoolEnv(fEnvTag)
			if err != nil {
				return err
			}
			v.Field(i).SetBool(b)
		default:
			continue
		}

		slog.Info("Set config value",
			slog.String("key", typeParam.Name()+"."+fName),
			slog.String("value", logValue(fName, value)),
			slog.String("source", "ENVIRONMENT"),
		)
	}
	return nil
}

// logValue маскирует секреты: остаются только первый и последний символы.
func logValue(field, value string) string {
	name := strings.ToLower(field)
	if !strings.Contains(name, "pass") && !strings.Contains(name, "secret") && !strings.Contains(name, "token") {
		return value
	}
	runes := []rune(value)
	if len(runes) <= 2 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
}
