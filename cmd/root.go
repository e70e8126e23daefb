package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Tpg2004/nomora/internal/assistant"
	"github.com/Tpg2004/nomora/internal/factories"
	"github.com/Tpg2004/nomora/internal/insights"
	"github.com/Tpg2004/nomora/internal/loader"
	"github.com/Tpg2004/nomora/internal/models"
	"github.com/Tpg2004/nomora/internal/output"
	"github.com/Tpg2004/nomora/internal/repositories/postgres"
	"github.com/lucsky/cuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "nomora",
	Short: "Menu and waste insights for restaurant operators",
	Long: `nomora loads dish sales and ingredient waste data, derives per-dish
profitability and waste metrics, and answers menu planning questions such as
which dishes to remove, which ingredients are wasted the most, and where
high-margin dishes overlap on ingredients.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		applyFlagOverrides(cmd, cfg)

		if n := viper.GetInt("generate"); n > 0 {
			runGenerate(cfg, n)
			return
		}

		dishes, ingredients := loadTables(cfg)

		if viper.GetBool("persist") {
			persistTables(cfg, dishes, ingredients)
		}

		engine := insights.NewEngine(cfg)
		asst := assistant.New(engine, dishes, ingredients)

		switch {
		case viper.GetString("query") != "":
			runQuery(cfg, asst, viper.GetString("query"))
		case viper.GetBool("report"):
			runReports(cfg, asst)
		default:
			runInteractive(asst)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is examples/config.json)")

	rootCmd.Flags().String("data-source", "csv", "Data source: csv, excel or postgres")
	rootCmd.Flags().String("dish-data", "", "Path to the dish sales table")
	rootCmd.Flags().String("ingredient-data", "", "Path to the ingredient waste table")
	rootCmd.Flags().String("query", "", "Answer a single query and exit")
	rootCmd.Flags().Bool("report", false, "Run every analysis and export the reports")
	rootCmd.Flags().Int("generate", 0, "Generate a sample dataset with this many dishes")
	rootCmd.Flags().Int("generate-ingredients", 15, "Ingredient rows to generate alongside --generate")
	rootCmd.Flags().Int64("seed", 42, "Random seed for sample data generation")
	rootCmd.Flags().String("output-folder", "examples/data", "Folder for generated sample data")
	rootCmd.Flags().Bool("persist", false, "Write the normalized tables to Postgres")
	rootCmd.Flags().String("output-format", "console", "Report output: console, json, csv, parquet or kafka")
	rootCmd.Flags().String("output-path", "output", "Base directory for exported reports")
	rootCmd.Flags().String("kafka-broker-list", "localhost:9092", "Kafka broker list")

	viper.BindPFlags(rootCmd.Flags())
}

// applyFlagOverrides copies explicitly set command line flags over the
// values read from the config file.
func applyFlagOverrides(cmd *cobra.Command, cfg *models.Config) {
	flags := cmd.Flags()
	if flags.Changed("data-source") {
		cfg.DataSource = viper.GetString("data-source")
	}
	if flags.Changed("dish-data") {
		cfg.DishDataPath = viper.GetString("dish-data")
	}
	if flags.Changed("ingredient-data") {
		cfg.IngredientDataPath = viper.GetString("ingredient-data")
	}
	if flags.Changed("output-format") {
		cfg.OutputFormat = viper.GetString("output-format")
	}
	if flags.Changed("output-path") {
		cfg.OutputPath = viper.GetString("output-path")
	}
	if flags.Changed("kafka-broker-list") {
		cfg.Kafka.BrokerList = viper.GetString("kafka-broker-list")
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	viper.AutomaticEnv()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadTables(cfg *models.Config) ([]models.Dish, []models.Ingredient) {
	l := loader.New(cfg.CurrencySymbol)

	switch cfg.DataSource {
	case "", "csv":
		dishes, err := l.LoadDishesFile(cfg.DishDataPath)
		if err != nil {
			log.Fatalf("Failed to load dish data: %v", err)
		}
		ingredients, err := l.LoadIngredientsFile(cfg.IngredientDataPath)
		if err != nil {
			log.Fatalf("Failed to load ingredient data: %v", err)
		}
		return dishes, ingredients
	case "excel":
		dishes, err := l.LoadDishesXLSX(cfg.DishDataPath)
		if err != nil {
			log.Fatalf("Failed to load dish data: %v", err)
		}
		ingredients, err := l.LoadIngredientsXLSX(cfg.IngredientDataPath)
		if err != nil {
			log.Fatalf("Failed to load ingredient data: %v", err)
		}
		return dishes, ingredients
	case "postgres":
		ctx := context.Background()
		pool, err := postgres.NewPool(ctx, &cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pool.Close()

		dishes, err := postgres.NewDishRepository(pool).GetAll(ctx)
		if err != nil {
			log.Fatalf("Failed to load dish data: %v", err)
		}
		ingredients, err := postgres.NewIngredientRepository(pool).GetAll(ctx)
		if err != nil {
			log.Fatalf("Failed to load ingredient data: %v", err)
		}
		return dishes, ingredients
	default:
		log.Fatalf("Unsupported data source: %s", cfg.DataSource)
		return nil, nil
	}
}

func persistTables(cfg *models.Config, dishes []models.Dish, ingredients []models.Ingredient) {
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pool.Close()

	if err := postgres.NewDishRepository(pool).BulkCreate(ctx, dishes); err != nil {
		log.Fatalf("Failed to persist dishes: %v", err)
	}
	if err := postgres.NewIngredientRepository(pool).BulkCreate(ctx, ingredients); err != nil {
		log.Fatalf("Failed to persist ingredients: %v", err)
	}
	log.Printf("Persisted %d dishes and %d ingredients", len(dishes), len(ingredients))
}

func runGenerate(cfg *models.Config, dishes int) {
	gen := factories.NewGenerator(viper.GetInt64("seed"), cfg.CurrencySymbol)
	folder := viper.GetString("output-folder")
	if err := gen.WriteDataset(folder, dishes, viper.GetInt("generate-ingredients")); err != nil {
		log.Fatalf("Failed to generate sample data: %v", err)
	}
	log.Printf("Sample dataset written to %s", folder)
}

func runQuery(cfg *models.Config, asst *assistant.Assistant, query string) {
	dest, err := output.ForConfig(cfg, cuid.New())
	if err != nil {
		log.Fatalf("Failed to set up output: %v", err)
	}
	defer dest.Close()

	if err := dest.WriteReport("answer", asst.HandleQuery(query)); err != nil {
		log.Fatalf("Failed to write answer: %v", err)
	}
}

func runReports(cfg *models.Config, asst *assistant.Assistant) {
	// every export run gets its own session folder / batch id
	session := cuid.New()
	dest, err := output.ForConfig(cfg, session)
	if err != nil {
		log.Fatalf("Failed to set up output: %v", err)
	}
	defer dest.Close()

	enabled := make(map[string]bool, len(cfg.Reports))
	for _, name := range cfg.Reports {
		enabled[name] = true
	}

	for _, report := range asst.Reports() {
		if len(enabled) > 0 && !enabled[report.Name] {
			continue
		}
		if err := dest.WriteReport(report.Name, report.Response); err != nil {
			log.Fatalf("Failed to write report %s: %v", report.Name, err)
		}
	}
	log.Printf("Reports exported (session %s)", session)
}

func runInteractive(asst *assistant.Assistant) {
	console := &output.ConsoleOutput{}
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Ask a question about your menu (\"exit\" to quit).")
	for {
		fmt.Print("nomora> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "exit" || query == "quit" {
			break
		}
		if err := console.WriteReport("answer", asst.HandleQuery(query)); err != nil {
			log.Printf("Failed to render answer: %v", err)
		}
	}
}
