package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cardwell-io/gateway/internal/adapters/paygate"
	"github.com/cardwell-io/gateway/internal/adapters/stratus"
	"github.com/cardwell-io/gateway/internal/config"
	"github.com/cardwell-io/gateway/internal/domain/models"
)

// gatewayctl runs smoke transactions against the configured processor
// endpoints. Intended for the test/accreditation environments.
func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config (env-only when empty)")
		op         = flag.String("op", "authorize", "operation: authorize|purchase|tokenize|balance")
		amount     = flag.Int64("amount", 100, "amount in minor currency units")
		pan        = flag.String("pan", "", "card number")
		month      = flag.Int("month", 0, "card expiry month")
		year       = flag.Int("year", 0, "card expiry year")
		cvv        = flag.String("cvv", "", "card verification value")
		orderID    = flag.String("order", "", "merchant order id")
		currency   = flag.String("currency", "GBP", "ISO currency code")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := run(ctx, cfg, logger, *op, *amount, *pan, *month, *year, *cvv, *orderID, *currency)
	if err != nil {
		logger.Error("operation failed", zap.String("op", *op), zap.Error(err))
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
	if !result.Success {
		os.Exit(2)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, op string, amount int64, pan string, month, year int, cvv, orderID, currency string) (*models.Result, error) {
	switch op {
	case "authorize", "purchase", "tokenize":
		gw := paygate.NewAdapter(paygate.Config{
			Client:   cfg.PayGate.Client,
			Password: cfg.PayGate.Password,
			Endpoint: cfg.PayGate.Endpoint(),
			Timeout:  cfg.PayGate.Timeout(),
		}, nil, logger)

		card := models.CardDetails{Number: pan, Month: month, Year: year, VerificationValue: cvv}
		opts := models.Options{OrderID: orderID, Currency: currency}

		switch op {
		case "authorize":
			return gw.Authorize(ctx, amount, card, opts)
		case "purchase":
			return gw.Purchase(ctx, amount, card, opts)
		default:
			return gw.Tokenize(ctx, models.Profile{Card: card})
		}
	case "balance":
		sv := stratus.NewAdapter(stratus.Config{
			APIKey:    cfg.Stratus.APIKey,
			APISecret: cfg.Stratus.APISecret,
			BaseURL:   cfg.Stratus.BaseURL,
			Brand:     cfg.Stratus.Brand,
			Location:  cfg.Stratus.Location,
			Terminal:  cfg.Stratus.Terminal,
			Timeout:   cfg.Stratus.Timeout(),
		}, nil, logger)
		return sv.Balance(ctx, pan)
	default:
		return nil, fmt.Errorf("unknown operation %q", op)
	}
}

func buildLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	return zcfg.Build()
}
