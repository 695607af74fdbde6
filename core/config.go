package core

import (
	"fmt"
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName      string
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		WorkDir      string
		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		Company  CompanyConfig
		Billing  BillingConfig
		Mail     MailConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	// CompanyConfig is printed on receipts and quotes.
	CompanyConfig struct {
		Name    string
		TaxID   string
		Address string
		Phone   string
		Email   string
		Website string
	}

	BillingConfig struct {
		CurrencySymbol    string
		DefaultPaymentDay int
		GraceDays         int
		ReceiptPrefix     string
		QuotePrefix       string
		QuoteValidityDays int
	}

	MailConfig struct {
		DefaultFromName    string
		DefaultFromAddress string
		SendgridApiKey     string
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.Mail.DefaultFromName, Address: c.Mail.DefaultFromAddress}
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed with the current env, eg. `PROD_DATABASE_HOST`.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.Getwd: %v", err)
	}
	v.SetDefault("workDir", wd)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(v.GetString("workDir"), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		WorkDir:      v.GetString("workDir"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugHost:       v.GetString("server.debugHost"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Company: CompanyConfig{
			Name:    v.GetString("company.name"),
			TaxID:   v.GetString("company.taxID"),
			Address: v.GetString("company.address"),
			Phone:   v.GetString("company.phone"),
			Email:   v.GetString("company.email"),
			Website: v.GetString("company.website"),
		},
		Billing: BillingConfig{
			CurrencySymbol:    v.GetString("billing.currencySymbol"),
			DefaultPaymentDay: v.GetInt("billing.defaultPaymentDay"),
			GraceDays:         v.GetInt("billing.graceDays"),
			ReceiptPrefix:     v.GetString("billing.receiptPrefix"),
			QuotePrefix:       v.GetString("billing.quotePrefix"),
			QuoteValidityDays: v.GetInt("billing.quoteValidityDays"),
		},
		Mail: MailConfig{
			DefaultFromName:    v.GetString("mail.defaultFromName"),
			DefaultFromAddress: v.GetString("mail.defaultFromAddress"),
			SendgridApiKey:     v.GetString("mail.sendgridApiKey"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "ON-NET WIRELESS")
	v.SetDefault("build", "develop")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "onnet")
	v.SetDefault("database.user", "onnet")
	v.SetDefault("database.password", "onnet")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "postgres")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("company.name", "ON-NET WIRELESS")
	v.SetDefault("company.taxID", "")
	v.SetDefault("company.address", "")
	v.SetDefault("company.phone", "")
	v.SetDefault("company.email", "")
	v.SetDefault("company.website", "")

	v.SetDefault("billing.currencySymbol", "$")
	v.SetDefault("billing.defaultPaymentDay", 5)
	v.SetDefault("billing.graceDays", 0)
	v.SetDefault("billing.receiptPrefix", "R-")
	v.SetDefault("billing.quotePrefix", "Q-")
	v.SetDefault("billing.quoteValidityDays", 15)

	v.SetDefault("mail.defaultFromName", "ON-NET WIRELESS")
	v.SetDefault("mail.defaultFromAddress", "noreply@localhost")
	v.SetDefault("mail.sendgridApiKey", "")

	v.SetDefault("rollbarToken", "")
}

// NewTestConfig returns the defaults with test mode on. It never reads the environment.
func NewTestConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{
		AppName:  v.GetString("appName"),
		Env:      "TEST",
		Build:    "test",
		Debug:    false,
		TestMode: true,
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  true,
		},
		Company: CompanyConfig{
			Name:    v.GetString("company.name"),
			TaxID:   "900.123.456-7",
			Address: "Calle 10 # 4-21",
			Phone:   "+57 300 000 0000",
			Email:   "billing@onnet.test",
		},
		Billing: BillingConfig{
			CurrencySymbol:    v.GetString("billing.currencySymbol"),
			DefaultPaymentDay: v.GetInt("billing.defaultPaymentDay"),
			GraceDays:         v.GetInt("billing.graceDays"),
			ReceiptPrefix:     v.GetString("billing.receiptPrefix"),
			QuotePrefix:       v.GetString("billing.quotePrefix"),
			QuoteValidityDays: v.GetInt("billing.quoteValidityDays"),
		},
		Mail: MailConfig{
			DefaultFromName:    v.GetString("mail.defaultFromName"),
			DefaultFromAddress: v.GetString("mail.defaultFromAddress"),
		},
	}
}

func (c *Config) String() string {
	return fmt.Sprintf("%s (env=%s, build=%s, debug=%t)", c.AppName, c.Env, c.Build, c.Debug)
}
