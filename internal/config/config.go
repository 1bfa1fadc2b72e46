package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vfg2006/conversion-audit/pkg/utils"
)

const (
	DataSourceGoogleAds = "googleads"
	DataSourceWarehouse = "warehouse"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Auth          Auth          `mapstructure:",squash"`
	Email         Email         `mapstructure:",squash"`
	AuditPeriod   AuditPeriod   `mapstructure:",squash"`
	Goals         Goals         `mapstructure:",squash"`
	AuditSchedule AuditSchedule `mapstructure:",squash"`
	DataSource    string        `mapstructure:"data_source"`
	GoogleAds     GoogleAds     `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

type Server struct {
	Host        string   `mapstructure:"host"`
	Port        string   `mapstructure:"port"`
	Enabled     bool     `mapstructure:"server_enabled"`
	CorsOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

type Email struct {
	Enabled       bool   `mapstructure:"email_enabled"`
	Recipient     string `mapstructure:"email_recipient"`
	SubjectPrefix string `mapstructure:"email_subject_prefix"`
	From          string `mapstructure:"email_from"`
	SMTPHost      string `mapstructure:"smtp_host"`
	SMTPPort      int    `mapstructure:"smtp_port"`
	SMTPUser      string `mapstructure:"smtp_user"`
	SMTPPassword  string `mapstructure:"smtp_password"`
}

// AuditPeriod define o período selecionado. Com START_DATE e END_DATE informados o
// intervalo é exato, caso contrário são usados os últimos Days dias.
type AuditPeriod struct {
	Days         int        `mapstructure:"audit_period_days"`
	RawStartDate string     `mapstructure:"audit_period_start_date"`
	RawEndDate   string     `mapstructure:"audit_period_end_date"`
	StartDate    *time.Time `mapstructure:"-"`
	EndDate      *time.Time `mapstructure:"-"`
}

type Goals struct {
	PrimaryConversion string `mapstructure:"goals_primary_conversion"`
}

type AuditSchedule struct {
	CronSchedule string `mapstructure:"audit_cron"`
	Enabled      bool   `mapstructure:"audit_schedule_enabled"`
	RunOnStart   bool   `mapstructure:"audit_run_on_start"`
}

type GoogleAds struct {
	BaseURL            string        `mapstructure:"google_ads_base_url"`
	Version            string        `mapstructure:"google_ads_version"`
	URL                string        `mapstructure:"-"`
	DeveloperToken     string        `mapstructure:"google_ads_developer_token"`
	CustomerID         string        `mapstructure:"google_ads_customer_id"`
	LoginCustomerID    string        `mapstructure:"google_ads_login_customer_id"`
	ClientID           string        `mapstructure:"google_ads_client_id"`
	ClientSecret       string        `mapstructure:"google_ads_client_secret"`
	RefreshToken       string        `mapstructure:"google_ads_refresh_token"`
	TokenURL           string        `mapstructure:"google_ads_token_url"`
	RequestsPerSecond  float64       `mapstructure:"google_ads_requests_per_second"`
	BreakerMaxFailures int           `mapstructure:"google_ads_breaker_max_failures"`
	Timeout            time.Duration `mapstructure:"google_ads_timeout"`
}

type Database struct {
	DSN         string `mapstructure:"-"`
	Driver      string `mapstructure:"database_driver"`
	Password    string `mapstructure:"database_password"`
	URL         string `mapstructure:"database_url"`
	User        string `mapstructure:"database_user"`
	TablePrefix string `mapstructure:"warehouse_table_prefix"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("SERVER_ENABLED", true)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")

	viper.SetDefault("AUTH_SECRET", "")

	viper.SetDefault("EMAIL_ENABLED", true)
	viper.SetDefault("EMAIL_RECIPIENT", "")
	viper.SetDefault("EMAIL_SUBJECT_PREFIX", "Conversion Audit Report")
	viper.SetDefault("EMAIL_FROM", "conversion-audit@localhost")
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")

	viper.SetDefault("AUDIT_PERIOD_DAYS", 30) // Últimos 30 dias quando não há datas explícitas
	viper.SetDefault("AUDIT_PERIOD_START_DATE", "")
	viper.SetDefault("AUDIT_PERIOD_END_DATE", "")

	viper.SetDefault("GOALS_PRIMARY_CONVERSION", "")

	viper.SetDefault("AUDIT_CRON", "0 7 * * *") // Todos os dias às 7h da manhã
	viper.SetDefault("AUDIT_SCHEDULE_ENABLED", true)
	viper.SetDefault("AUDIT_RUN_ON_START", false)

	viper.SetDefault("DATA_SOURCE", DataSourceGoogleAds)

	viper.SetDefault("GOOGLE_ADS_BASE_URL", "https://googleads.googleapis.com")
	viper.SetDefault("GOOGLE_ADS_VERSION", "v17")
	viper.SetDefault("GOOGLE_ADS_DEVELOPER_TOKEN", "")
	viper.SetDefault("GOOGLE_ADS_CUSTOMER_ID", "")
	viper.SetDefault("GOOGLE_ADS_LOGIN_CUSTOMER_ID", "")
	viper.SetDefault("GOOGLE_ADS_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_ADS_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_ADS_REFRESH_TOKEN", "")
	viper.SetDefault("GOOGLE_ADS_TOKEN_URL", "https://oauth2.googleapis.com/token")
	viper.SetDefault("GOOGLE_ADS_REQUESTS_PER_SECOND", 5)
	viper.SetDefault("GOOGLE_ADS_BREAKER_MAX_FAILURES", 5)
	viper.SetDefault("GOOGLE_ADS_TIMEOUT", "30s")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/ads_reporting")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("WAREHOUSE_TABLE_PREFIX", "ads_")

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("LOG_FILE", "")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.resolve(); err != nil {
		return nil, err
	}

	return config, nil
}

// resolve preenche os campos derivados e valida o que não pode ser corrigido depois
func (c *Config) resolve() error {
	if c.AuditPeriod.Days <= 0 {
		logrus.WithField("days", c.AuditPeriod.Days).Warn("AUDIT_PERIOD_DAYS inválido, usando 30")
		c.AuditPeriod.Days = 30
	}

	if c.AuditPeriod.RawStartDate != "" {
		startDate, err := utils.ParseDate(c.AuditPeriod.RawStartDate)
		if err != nil {
			return fmt.Errorf("config: AUDIT_PERIOD_START_DATE inválida: %w", err)
		}
		c.AuditPeriod.StartDate = startDate
	}

	if c.AuditPeriod.RawEndDate != "" {
		endDate, err := utils.ParseDate(c.AuditPeriod.RawEndDate)
		if err != nil {
			return fmt.Errorf("config: AUDIT_PERIOD_END_DATE inválida: %w", err)
		}
		c.AuditPeriod.EndDate = endDate
	}

	switch c.DataSource {
	case DataSourceGoogleAds, DataSourceWarehouse:
	default:
		return fmt.Errorf("config: DATA_SOURCE desconhecido: %q", c.DataSource)
	}

	c.GoogleAds.URL = fmt.Sprintf("%s/%s", c.GoogleAds.BaseURL, c.GoogleAds.Version)

	c.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		c.Database.Driver,
		c.Database.User,
		c.Database.Password,
		c.Database.URL,
	)

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
