package main

import (
	// Go Internal Packages
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	// Local Packages
	config "paybot-console/config"

	// External Packages
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	_ "github.com/jsternberg/zap-logfmt"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"go.uber.org/zap"
)

type filterArgs struct {
	status *string
	txType *string
	from   *string
	to     *string
	search *string
}

func filterFlags(cmd *kingpin.CmdClause) filterArgs {
	return filterArgs{
		status: cmd.Flag("status", "Status filter (all, pendiente, pagado, cancelado)").Default("all").String(),
		txType: cmd.Flag("type", "Type filter (all, pago, carga, reembolso)").Default("all").String(),
		from:   cmd.Flag("from", "First day included, YYYY-MM-DD").String(),
		to:     cmd.Flag("to", "Last day included, YYYY-MM-DD").String(),
		search: cmd.Flag("search", "Free-text search").String(),
	}
}

var (
	configPath = kingpin.Flag("config", "Path to the application config file").Short('c').Default("config.yml").String()

	loginCmd      = kingpin.Command("login", "Exchange operator credentials for an API token and store it")
	loginUsername = loginCmd.Flag("username", "Operator username").Short('u').Required().String()
	loginPassword = loginCmd.Flag("password", "Operator password").Envar("PAYBOT_PASSWORD").Required().String()

	txCmd     = kingpin.Command("transactions", "Transaction feed operations").Alias("tx")
	txListCmd = txCmd.Command("list", "List transactions with their progress").Default()
	txList    = filterFlags(txListCmd)

	txCancelCmd    = txCmd.Command("cancel", "Cancel a non-terminal transaction and refund the user")
	txCancelID     = txCancelCmd.Arg("id", "Transaction id").Required().String()
	txCancelReason = txCancelCmd.Flag("reason", "Cancellation reason").String()
	txCancelYes    = txCancelCmd.Flag("yes", "Do not ask for confirmation").Short('y').Bool()

	txClearCmd    = txCmd.Command("clear-all", "Archive every transaction")
	txClearYes    = txClearCmd.Flag("yes", "Do not ask the yes/no question").Short('y').Bool()
	txClearPhrase = txClearCmd.Flag("phrase", "Confirmation phrase").String()

	txExportCmd    = txCmd.Command("export", "Download the filtered transactions")
	txExportFormat = txExportCmd.Arg("format", "csv or pdf").Required().Enum("csv", "pdf")
	txExport       = filterFlags(txExportCmd)

	txDeletedCmd   = txCmd.Command("deleted", "List archived transactions")
	txDeletedMonth = txDeletedCmd.Flag("month", "Month, 1-12").Int()
	txDeletedYear  = txDeletedCmd.Flag("year", "Year").Int()
	txDeletedPDF   = txDeletedCmd.Flag("pdf", "Download the PDF report instead of listing").Bool()

	walletsCmd     = kingpin.Command("wallets", "Deposit wallet transfers")
	walletsListCmd = walletsCmd.Command("list", "List recent transfers by network").Default()

	watchCmd = kingpin.Command("watch", "Keep the feeds fresh and serve them over HTTP")
)

// LoadSecrets Loads the secret variables and overrides the config
func LoadSecrets(k config.Config) config.Config {
	_ = godotenv.Load()

	if token := os.Getenv("PAYBOT_API_TOKEN"); token != "" {
		k.API.Token = token
	}
	if baseURL := os.Getenv("PAYBOT_API_URL"); baseURL != "" {
		k.API.BaseURL = baseURL
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		k.Redis.Password = password
	}
	if mongoURI := os.Getenv("MONGO_URI"); mongoURI != "" {
		k.Mongo.URI = mongoURI
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		k.Kafka.Brokers = strings.Split(brokers, ",")
	}

	k.IsProdMode = os.Getenv("IS_PROD_MODE") == "true"
	return k
}

// LoadConfig loads the default configuration and overrides it with the config file
// specified by the path defined in the config flag. It returns the selected command.
func LoadConfig() (*koanf.Koanf, string) {
	command := kingpin.Parse()
	k := koanf.New(".")
	_ = k.Load(rawbytes.Provider(config.DefaultConfig), yaml.Parser())
	if *configPath != "" {
		_ = k.Load(file.Provider(*configPath), yaml.Parser())
	}
	return k, command
}

func newLogger(level, service string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "logfmt"
	_ = cfg.Level.UnmarshalText([]byte(level))
	cfg.InitialFields = make(map[string]any)
	cfg.InitialFields["host"], _ = os.Hostname()
	cfg.InitialFields["service"] = service
	// stdout carries command output
	cfg.OutputPaths = []string{"stderr"}
	logger, _ := cfg.Build()
	return logger
}

func main() {
	k, command := LoadConfig()
	appKonf := config.Config{}

	// Unmarshalling config into struct
	err := k.Unmarshal("", &appKonf)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Update and Validate config before starting
	updatedKonf := LoadSecrets(appKonf)
	if err = updatedKonf.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := newLogger(updatedKonf.Logger.Level, updatedKonf.Application)
	defer func() {
		_ = logger.Sync()
	}()
	if !updatedKonf.IsProdMode {
		logger.Debug("configuration loaded", zap.String("config", k.Sprint()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newConsole(ctx, updatedKonf, logger)
	if err != nil {
		logger.Fatal("cannot start console", zap.Error(err))
	}
	defer app.close()

	if err = app.run(ctx, command); err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		_ = logger.Sync()
		app.close()
		os.Exit(1)
	}
}
