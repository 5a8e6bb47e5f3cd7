package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
		// Environment is "development" or "production"; it drives the
		// refresh cookie attributes.
		Environment string `mapstructure:"environment"`
	} `mapstructure:"server"`
	JWT struct {
		// PEM-encoded RSA key pair. The private key signs access tokens,
		// the public key verifies them in the auth middleware.
		PrivateKeyPath string `mapstructure:"private_key_path"`
		PublicKeyPath  string `mapstructure:"public_key_path"`
		Issuer         string `mapstructure:"issuer"`
		Audience       string `mapstructure:"audience"`
	} `mapstructure:"jwt"`
	BruteForce struct {
		MaxAttempts   int `mapstructure:"max_attempts"`
		WindowSeconds int `mapstructure:"window_seconds"`
		SweepSeconds  int `mapstructure:"sweep_seconds"`
	} `mapstructure:"bruteforce"`
	Telemetry struct {
		Channel string `mapstructure:"channel"`
	} `mapstructure:"telemetry"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
