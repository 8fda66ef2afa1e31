package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

type broker struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	ClientEventsTopic  string   `mapstructure:"client_events_topic"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	BackendDSN     string     `mapstructure:"backend_dsn"`
	LocalStorePath string     `mapstructure:"local_store_path"`
	Broker         broker     `mapstructure:"broker"`
}

// BackendConfigured reports whether backend credentials are present.
// Without them the storefront runs in permanent fallback mode.
func (c Config) BackendConfigured() bool {
	return c.BackendDSN != ""
}

// BrokerConfigured reports whether client events can be produced.
func (c Config) BrokerConfigured() bool {
	return len(c.Broker.SeedBrokers) != 0
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())

	err := viper.ReadInConfig()
	if err != nil {
		die(err)
	}

	var cfg Config
	err = viper.UnmarshalExact(&cfg)
	if err != nil {
		die(err)
	}

	return cfg
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	BackendDSN=%q
	LocalStorePath=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	ClientEventsTopic=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.BackendDSN,
		c.LocalStorePath,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.ClientEventsTopic,
	)
}
