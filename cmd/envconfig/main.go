package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/eugenenazirov/coffee-shop-env/internal/application"
	"github.com/eugenenazirov/coffee-shop-env/internal/config"
	"github.com/eugenenazirov/coffee-shop-env/internal/environment"
	"github.com/eugenenazirov/coffee-shop-env/internal/logging"
)

var signalNotify = signal.Notify

type cli struct {
	app *kingpin.Application

	serve              *kingpin.CmdClause
	configFile         *string
	port               *string
	serveTarget        *string
	serveEnvFile       *string
	rateLimitRPSFlag   *float64
	rateLimitBurstFlag *int

	show        *kingpin.CmdClause
	showTarget  *string
	showEnvFile *string
	showFormat  *string

	validate        *kingpin.CmdClause
	validateTarget  *string
	validateEnvFile *string
}

func newCLI() *cli {
	c := &cli{
		app: kingpin.New("envconfig", "Coffee Shop front-end environment configuration"),
	}

	c.serve = c.app.Command("serve", "Serve the validated environment record over HTTP").Default()
	c.configFile = c.serve.Flag("config", "Path to YAML configuration file").String()
	c.port = c.serve.Flag("port", "HTTP port exposed by the service").String()
	c.serveTarget = c.serve.Flag("target", "Deployment target (development or production)").String()
	c.serveEnvFile = c.serve.Flag("env-file", "JSON or YAML file overlaying the compiled-in record").String()
	c.rateLimitRPSFlag = c.serve.Flag("rate-limit-rps", "Requests per second allowed per client (set 0 to disable)").Default("-1").Float64()
	c.rateLimitBurstFlag = c.serve.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	c.show = c.app.Command("show", "Print the validated environment record")
	c.showTarget = c.show.Flag("target", "Deployment target").Default(environment.BuildTarget.String()).String()
	c.showEnvFile = c.show.Flag("env-file", "JSON or YAML file overlaying the compiled-in record").String()
	c.showFormat = c.show.Flag("format", "Output format").Default(string(environment.FormatJSON)).Enum(environment.Formats()...)

	c.validate = c.app.Command("validate", "Check an environment and list every violation")
	c.validateTarget = c.validate.Flag("target", "Deployment target").Default(environment.BuildTarget.String()).String()
	c.validateEnvFile = c.validate.Flag("env-file", "JSON or YAML file overlaying the compiled-in record").String()

	return c
}

func main() {
	c := newCLI()
	command := kingpin.MustParse(c.app.Parse(os.Args[1:]))

	switch command {
	case c.show.FullCommand():
		if err := runShow(os.Stdout, *c.showTarget, *c.showEnvFile, environment.Format(*c.showFormat)); err != nil {
			c.app.Fatalf("%v", err)
		}
	case c.validate.FullCommand():
		if err := runValidate(os.Stdout, *c.validateTarget, *c.validateEnvFile); err != nil {
			os.Exit(1)
		}
	default:
		serve(c)
	}
}

func serve(c *cli) {
	overrides := &config.CLIOverrides{
		ConfigFile: *c.configFile,
	}

	if *c.port != "" {
		overrides.Port = c.port
	}

	if *c.serveTarget != "" {
		overrides.Target = c.serveTarget
	}

	if *c.serveEnvFile != "" {
		overrides.EnvironmentFile = c.serveEnvFile
	}

	if *c.rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = c.rateLimitRPSFlag
	}

	if *c.rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = c.rateLimitBurstFlag
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.Target)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

func loadProvider(rawTarget, envFile string) (*environment.Provider, error) {
	target, err := environment.ParseTarget(rawTarget)
	if err != nil {
		return nil, err
	}
	opts := []environment.Option{
		environment.WithTarget(target),
		environment.WithEnv(environment.DefaultEnvPrefix),
	}
	if envFile != "" {
		opts = append(opts, environment.WithFile(envFile))
	}
	return environment.Load(opts...)
}

func runShow(w io.Writer, rawTarget, envFile string, format environment.Format) error {
	provider, err := loadProvider(rawTarget, envFile)
	if err != nil {
		return err
	}
	return environment.Render(w, provider.Record(), format)
}

func runValidate(w io.Writer, rawTarget, envFile string) error {
	provider, err := loadProvider(rawTarget, envFile)
	if err != nil {
		fmt.Fprintf(w, "environment is invalid:\n")
		for _, e := range multierr.Errors(unwrapAll(err)) {
			fmt.Fprintf(w, "  - %v\n", e)
		}
		return err
	}
	fmt.Fprintf(w, "%s environment is valid\n", provider.Target())
	return nil
}

// unwrapAll peels single-error wrappers until it reaches the aggregated
// validation error, so each violation is listed on its own line.
func unwrapAll(err error) error {
	for {
		if _, ok := err.(*environment.FieldError); ok {
			return err
		}
		if _, ok := err.(interface{ Unwrap() []error }); ok {
			return err
		}
		next, ok := err.(interface{ Unwrap() error })
		if !ok || next.Unwrap() == nil {
			return err
		}
		err = next.Unwrap()
	}
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
