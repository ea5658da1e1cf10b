package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/layered-configs/internal/application"
	"github.com/eugenenazirov/layered-configs/internal/config"
	"github.com/eugenenazirov/layered-configs/internal/logging"
	"github.com/eugenenazirov/layered-configs/internal/properties"
	"github.com/eugenenazirov/layered-configs/internal/storage"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var newLogger = func() (*zap.Logger, error) {
	return logging.New(logging.WithLevel("warn"), logging.WithOutput("stderr"))
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("propctl", "Inspect and update layered configuration properties")
	app.UsageWriter(stdout)
	app.ErrorWriter(stderr)
	exited := false
	app.Terminate(func(int) { exited = true })

	configFile := app.Flag("config", "Path to YAML configuration file").String()
	defaultsFiles := app.Flag("defaults", "Comma-separated defaults files (.yaml, .json, .env)").String()
	storeBackend := app.Flag("store", "Property store backend").Enum(storage.Backends()...)
	storeFile := app.Flag("store-file", "Path of the YAML file used by the file store").String()
	redisAddr := app.Flag("redis-addr", "Redis address used by the redis store").String()

	getCmd := app.Command("get", "Print the effective value of a property")
	getKey := getCmd.Arg("key", "Property name").Required().String()
	getSource := getCmd.Flag("source", "Also print where the value came from").Bool()

	listCmd := app.Command("list", "Print every property as YAML")
	defaultsCmd := app.Command("defaults", "Print the non-protected defaults as YAML")

	setCmd := app.Command("set", "Write a property to the store")
	setKey := setCmd.Arg("key", "Property name").Required().String()
	setValue := setCmd.Arg("value", "New value; true/false and numbers are typed").Required().String()

	command, err := app.Parse(args)
	if exited {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "propctl: %v\n", err)
		return exitUsage
	}

	cfg, err := config.Load(&config.CLIOverrides{
		ConfigFile:    *configFile,
		DefaultsFiles: defaultsFiles,
		StoreBackend:  storeBackend,
		StoreFile:     storeFile,
		RedisAddr:     redisAddr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "propctl: %v\n", err)
		return exitFailure
	}

	logger, err := newLogger()
	if err != nil {
		fmt.Fprintf(stderr, "propctl: %v\n", err)
		return exitFailure
	}
	defer func() {
		_ = logger.Sync()
	}()

	resolver, closer, err := application.BuildResolver(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "propctl: %v\n", err)
		return exitFailure
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Warn("failed to release property store", zap.Error(err))
		}
	}()

	switch command {
	case getCmd.FullCommand():
		err = runGet(resolver, *getKey, *getSource, stdout)
	case listCmd.FullCommand():
		var values properties.Values
		if values, err = resolver.Properties(); err == nil {
			err = writeYAML(stdout, values)
		}
	case defaultsCmd.FullCommand():
		err = writeYAML(stdout, resolver.PublicDefaults())
	case setCmd.FullCommand():
		if storage.Ephemeral(cfg.StoreBackend) {
			err = fmt.Errorf("set %q: %w", *setKey, errEphemeralStore)
			break
		}
		err = runSet(resolver, *setKey, *setValue, stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "propctl: %v\n", err)
		return exitFailure
	}
	return exitOK
}

var (
	errNotSet         = errors.New("property is not set")
	errEphemeralStore = errors.New("memory store is discarded when propctl exits; use --store file or --store redis")
)

func runGet(resolver *properties.Resolver, key string, withSource bool, out io.Writer) error {
	value, source, err := resolver.Lookup(key)
	if err != nil {
		return fmt.Errorf("get %q: %w", key, err)
	}
	if source == properties.SourceNone {
		return fmt.Errorf("get %q: %w", key, errNotSet)
	}
	if withSource {
		_, err = fmt.Fprintf(out, "%s\t(%s)\n", properties.FormatValue(value), source)
		return err
	}
	_, err = fmt.Fprintln(out, properties.FormatValue(value))
	return err
}

func runSet(resolver *properties.Resolver, key, raw string, out io.Writer) error {
	if err := resolver.SetProperty(key, properties.ParseScalar(raw)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%s updated\n", key)
	return err
}

// writeYAML emits values as a YAML mapping; yaml.v3 sorts map keys.
func writeYAML(out io.Writer, values properties.Values) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any(values)); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return enc.Close()
}
