package models

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type KafkaConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	BrokerList       string `mapstructure:"broker_list"`
	UseConfluent     bool   `mapstructure:"use_confluent"`
	TopicPrefix      string `mapstructure:"topic_prefix"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	Region     string `mapstructure:"region"`
	BucketName string `mapstructure:"bucket_name"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type Config struct {
	DataSource         string `mapstructure:"data_source"` // csv, excel or postgres
	DishDataPath       string `mapstructure:"dish_data_path"`
	IngredientDataPath string `mapstructure:"ingredient_data_path"`
	CurrencySymbol     string `mapstructure:"currency_symbol"`

	// Insight thresholds. Defaults match the upstream analysis: a low
	// performer sells fewer than 10 a week and wastes more than 20%.
	LowPerformerMaxOrders int     `mapstructure:"low_performer_max_orders"`
	LowPerformerMinWaste  float64 `mapstructure:"low_performer_min_waste"`
	TopWasteCount         int     `mapstructure:"top_waste_count"`

	OutputFormat      string `mapstructure:"output_format"` // console, json, csv, parquet or kafka
	OutputPath        string `mapstructure:"output_path"`
	OutputDestination string `mapstructure:"output_destination"` // local or s3

	// Reports enabled for --report runs, in export order.
	Reports []string `mapstructure:"reports"`

	Kafka        KafkaConfig        `mapstructure:"kafka"`
	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage"`
	Database     DatabaseConfig     `mapstructure:"database"`
}

// LoadConfig initializes and reads the configuration using Viper. A missing
// config file is fine when no explicit path was given; flags and env vars
// still apply on top of the defaults.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // read in environment variables that match

	viper.SetDefault("data_source", "csv")
	viper.SetDefault("dish_data_path", "examples/data/dish_sales.csv")
	viper.SetDefault("ingredient_data_path", "examples/data/ingredient_waste.csv")
	viper.SetDefault("currency_symbol", "₹")
	viper.SetDefault("low_performer_max_orders", 10)
	viper.SetDefault("low_performer_min_waste", 20.0)
	viper.SetDefault("top_waste_count", 3)
	viper.SetDefault("output_format", "console")
	viper.SetDefault("output_path", "output")
	viper.SetDefault("output_destination", "local")
	viper.SetDefault("reports", []string{"removal_candidates", "top_waste", "suggestions", "overlap_ranking", "summary"})
	viper.SetDefault("kafka.broker_list", "localhost:9092")
	viper.SetDefault("kafka.topic_prefix", "nomora_")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			dc.DecodeHook,
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}
