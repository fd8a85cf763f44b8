package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/orderservice"
	"github.com/chrisdamba/foodcart/internal/output"
	"github.com/chrisdamba/foodcart/internal/repositories/postgres"
	"github.com/chrisdamba/foodcart/internal/simulator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run simulated shoppers through checkout",
	RunE:  runSimulate,
}

// flag name -> config key
var simulateFlags = map[string]string{
	"seed":                "seed",
	"start-date":          "start_date",
	"sessions":            "sessions",
	"initial-restaurants": "initial_restaurants",
	"pickup-rate":         "pickup_rate",
	"abandon-rate":        "abandon_rate",
	"submit-timeout":      "submit_timeout",
	"kafka-enabled":       "kafka_enabled",
	"kafka-broker-list":   "kafka_broker_list",
	"rabbitmq-enabled":    "rabbitmq_enabled",
	"output-format":       "output_format",
	"output-path":         "output_path",
	"database-enabled":    "database.enabled",
	"database-url":        "database.url",
}

func init() {
	f := simulateCmd.Flags()
	f.Int("seed", 42, "random seed for the simulation")
	f.String("start-date", "", "simulated start time (RFC3339)")
	f.Int("sessions", 100, "number of checkout sessions")
	f.Int("initial-restaurants", 20, "restaurants to generate when the catalog is empty")
	f.Float64("pickup-rate", 0.3, "share of orders collected by the customer")
	f.Float64("abandon-rate", 0.05, "share of sessions torn down during submit")
	f.Duration("submit-timeout", 0, "bound on each order submission (0 disables)")
	f.Bool("kafka-enabled", false, "publish order events to Kafka")
	f.String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	f.Bool("rabbitmq-enabled", false, "publish order events to RabbitMQ")
	f.String("output-format", "json", "file output format (json, parquet or postgres)")
	f.String("output-path", "", "base path for file output")
	f.Bool("database-enabled", false, "persist catalog and orders in Postgres")
	f.String("database-url", "", "Postgres connection string")

	for flag, key := range simulateFlags {
		cobra.CheckErr(viper.BindPFlag(key, f.Lookup(flag)))
	}
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg, err := models.LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dest, err := output.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer func() {
		if err := dest.Close(); err != nil {
			logger.Error("failed to close output", zap.Error(err))
		}
	}()

	simOpts := []simulator.Option{
		simulator.WithLogger(logger),
		simulator.WithProgress(os.Stderr),
	}
	svcOpts := []orderservice.Option{orderservice.WithPublisher(dest)}

	if cfg.Database.Enabled {
		pool, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		svcOpts = append(svcOpts, orderservice.WithStore(postgres.NewOrderRepository(pool)))
		simOpts = append(simOpts, simulator.WithCatalogRepositories(
			postgres.NewRestaurantRepository(pool),
			postgres.NewMenuItemRepository(pool),
		))
	}

	sim := simulator.NewSimulator(cfg, simOpts...)
	svc := orderservice.NewService(cfg, logger, append(svcOpts, orderservice.WithClock(sim.Now))...)

	metrics, err := sim.Run(ctx, svc)
	if err != nil {
		return err
	}
	simulator.WriteSummary(cmd.OutOrStdout(), metrics, 5)
	return nil
}
