package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	envValue   = "CRUD_BENCH_VALUE"
	envScans   = "CRUD_BENCH_SCANS"
	envBatches = "CRUD_BENCH_BATCHES"
)

// FromCommand assembles a Config from a cobra command's parsed flags, with
// -v/-a/--batches falling back to their CRUD_BENCH_* environment variables
// when the flag itself was never explicitly set on the command line.
func FromCommand(cmd *cobra.Command) (*Config, error) {
	flags := cmd.Flags()

	name, _ := flags.GetString("name")
	database, _ := flags.GetString("database")
	image, _ := flags.GetString("image")
	privileged, _ := flags.GetBool("privileged")
	endpoint, _ := flags.GetString("endpoint")
	sync, _ := flags.GetBool("sync")
	optimised, _ := flags.GetBool("optimised")
	blocking, _ := flags.GetInt("blocking")
	workers, _ := flags.GetInt("workers")
	clients, _ := flags.GetInt("clients")
	threads, _ := flags.GetInt("threads")
	samples, _ := flags.GetInt("samples")
	random, _ := flags.GetBool("random")
	seed, _ := flags.GetUint64("seed")
	keyType, _ := flags.GetString("key")
	value, _ := flags.GetString("value")
	showSample, _ := flags.GetBool("show-sample")
	pid, _ := flags.GetInt("pid")
	scansJSON, _ := flags.GetString("scans")
	batchesJSON, _ := flags.GetString("batches")

	if !flags.Changed("value") {
		if env, ok := os.LookupEnv(envValue); ok {
			value = env
		}
	}
	if !flags.Changed("scans") {
		if env, ok := os.LookupEnv(envScans); ok {
			scansJSON = env
		}
	}
	if !flags.Changed("batches") {
		if env, ok := os.LookupEnv(envBatches); ok {
			batchesJSON = env
		}
	}

	scans, err := ParseScans(scansJSON)
	if err != nil {
		return nil, fmt.Errorf("invalid scans configuration: %w", err)
	}
	batches, err := ParseBatches(batchesJSON)
	if err != nil {
		return nil, fmt.Errorf("invalid batches configuration: %w", err)
	}

	cfg := &Config{
		Name:       name,
		Database:   database,
		Image:      image,
		Privileged: privileged,
		Endpoint:   endpoint,
		Sync:       sync,
		Optimised:  optimised,
		Blocking:   blocking,
		Workers:    workers,
		Clients:    clients,
		Threads:    threads,
		Samples:    samples,
		Random:     random,
		Seed:       seed,
		KeyType:    keyType,
		Value:      value,
		ShowSample: showSample,
		PID:        pid,
		Scans:      scans,
		Batches:    batches,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RegisterFlags attaches every CLI flag the benchmark accepts to cmd.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("name", "n", "", "An optional name for the test, used as a suffix for the JSON result file name")
	flags.StringP("database", "d", "", "The database to benchmark")
	_ = cmd.MarkFlagRequired("database")
	flags.StringP("image", "i", "", "Specify a custom Docker image")
	flags.BoolP("privileged", "p", false, "Whether to run Docker in privileged mode")
	flags.StringP("endpoint", "e", "", "Specify a custom endpoint to connect to")
	flags.Bool("sync", false, "Request durable (fsync'd) writes from adapters that support it")
	flags.Bool("optimised", false, "Request adapter-specific performance tuning where supported")
	flags.IntP("blocking", "b", 12, "Maximum number of blocking-pool workers")
	flags.IntP("workers", "w", 12, "Maximum number of async-pool workers")
	flags.IntP("clients", "c", 1, "Number of concurrent clients")
	flags.IntP("threads", "t", 1, "Number of concurrent threads per client")
	flags.IntP("samples", "s", 0, "Number of samples to be created, read, updated, and deleted")
	_ = cmd.MarkFlagRequired("samples")
	flags.BoolP("random", "r", false, "Generate the keys in a pseudo-randomized dispatch order")
	flags.Uint64("seed", 0, "Seed for the pseudo-random key dispatch permutation")
	flags.StringP("key", "k", "integer", "The type of the key (integer, string26, string90, string250, string506, uuid)")
	flags.StringP("value", "v", "{\n\t\"text\": \"string:50\",\n\t\"integer\": \"int\"\n}", "The value template, as a JSON document")
	flags.StringP("scans", "a", "[\n\t{ \"name\": \"count_all\", \"samples\": 100, \"projection\": \"COUNT\" },\n\t{ \"name\": \"limit_id\", \"samples\": 100, \"projection\": \"ID\", \"limit\": 100, \"expect\": 100 }\n]", "An array of scan specifications")
	flags.String("batches", "", "An array of batch operation specifications")
	flags.Bool("show-sample", false, "Print an example of a generated value and exit")
	flags.Int("pid", 0, "Collect system information for a given pid")
}
