// phicrypt-admin is the operational companion to the phicrypt library: it
// validates encryption configuration, generates secrets, runs the
// re-encryption migration after a key rotation, and checks audit ledger
// integrity.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/careward/phicrypt"
	"github.com/careward/phicrypt/audit"
	"github.com/careward/phicrypt/internal/keymeta"
)

const version = "1.2.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "validate":
		validateCommand(os.Args[2:])
	case "gen-key":
		genKeyCommand()
	case "migrate":
		migrateCommand(os.Args[2:])
	case "verify-ledger":
		verifyLedgerCommand(os.Args[2:])
	case "rotation-status":
		rotationStatusCommand(os.Args[2:])
	case "version":
		fmt.Printf("phicrypt-admin %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nCommands:\n")
	fmt.Fprintf(os.Stderr, "  validate         Validate encryption configuration from the environment\n")
	fmt.Fprintf(os.Stderr, "  gen-key          Generate a new random encryption secret\n")
	fmt.Fprintf(os.Stderr, "  migrate          Re-encrypt stored envelopes under the current key\n")
	fmt.Fprintf(os.Stderr, "  verify-ledger    Verify audit ledger hash-chain integrity\n")
	fmt.Fprintf(os.Stderr, "  rotation-status  Show recorded key rotation history\n")
	fmt.Fprintf(os.Stderr, "  version          Show version information\n")
	fmt.Fprintf(os.Stderr, "\nRun '%s <command> -h' for help on a specific command.\n", os.Args[0])
}

func loadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load env file %s: %v\n", path, err)
		os.Exit(1)
	}
}

func validateCommand(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	envFile := fs.String("env-file", "", "Load environment from a .env file first")
	asJSON := fs.Bool("json", false, "Emit the validation result as JSON")
	fs.Parse(args)

	loadEnvFile(*envFile)

	cfg := phicrypt.LoadConfigFromEnvironment()
	defer cfg.Zero()
	result := phicrypt.NewConfigValidator().Validate(cfg)

	if *asJSON {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
	} else {
		for _, e := range result.Errors {
			fmt.Printf("ERROR: %s\n", e)
		}
		for _, w := range result.Warnings {
			fmt.Printf("WARNING: %s\n", w)
		}
		if result.Valid {
			fmt.Printf("Configuration valid (key version %d, previous key: %v)\n",
				result.KeyVersion, result.HasPreviousKey)
		}
	}

	if !result.Valid {
		os.Exit(1)
	}
}

func genKeyCommand() {
	secret, err := phicrypt.GenerateKeySecret()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate key: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(secret)
}

func migrateCommand(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	configPath := fs.String("config", "phicrypt.yaml", "Path to configuration file")
	envFile := fs.String("env-file", "", "Load environment from a .env file first")
	workers := fs.Int("workers", 0, "Override worker count from the config file")
	fs.Parse(args)

	loadEnvFile(*envFile)

	cliCfg, err := LoadCLIConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *workers > 0 {
		cliCfg.Migration.Workers = *workers
	}

	cfg := phicrypt.LoadConfigFromEnvironment()
	defer cfg.Zero()
	keys, err := phicrypt.NewKeyManager(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize key material: %v\n", err)
		os.Exit(1)
	}
	defer keys.Zero()

	cipher := phicrypt.NewEnvelopeCipher(keys)
	coordinator := phicrypt.NewKeyRotationCoordinator(keys, cipher)

	store, err := openEnvelopeStore(cliCfg.Migration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open envelope store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	report, err := coordinator.MigrateAll(ctx, store, cliCfg.Migration.Workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Migration complete: %d scanned, %d migrated, %d skipped, %d failed\n",
		report.Scanned, report.Migrated, report.Skipped, report.Failed)

	// Record the now-active version so rotation-status reflects reality.
	if cliCfg.Keymeta.Path != "" {
		meta, err := keymeta.Open(cliCfg.Keymeta.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open key metadata store: %v\n", err)
			os.Exit(1)
		}
		defer meta.Close()
		if err := meta.RecordActivation(ctx, keys.CurrentVersion()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to record key activation: %v\n", err)
			os.Exit(1)
		}
	}

	if report.Failed > 0 {
		os.Exit(1)
	}
}

func verifyLedgerCommand(args []string) {
	fs := flag.NewFlagSet("verify-ledger", flag.ExitOnError)
	configPath := fs.String("config", "phicrypt.yaml", "Path to configuration file")
	limit := fs.Int("limit", 0, "Verify only the first N records (0 = all)")
	archive := fs.Bool("archive", false, "Archive the verified window to S3 on success")
	fs.Parse(args)

	cliCfg, err := LoadCLIConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, err := audit.OpenSQLiteStore(cliCfg.Ledger.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open ledger: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	ledger := audit.NewLedger(store)
	report, err := ledger.Verify(ctx, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Verification failed: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))

	if !report.Valid {
		os.Exit(1)
	}

	if *archive {
		if cliCfg.Ledger.ArchiveBucket == "" {
			fmt.Fprintln(os.Stderr, "No archive_bucket configured")
			os.Exit(1)
		}
		records, _, err := store.Window(ctx, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load records for archiving: %v\n", err)
			os.Exit(1)
		}
		archiver, err := audit.NewS3Archiver(ctx, cliCfg.Ledger.ArchiveBucket, cliCfg.Ledger.ArchivePrefix)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create archiver: %v\n", err)
			os.Exit(1)
		}
		key, err := archiver.Archive(ctx, records)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Archive upload failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Archived %d records to s3://%s/%s\n", len(records), cliCfg.Ledger.ArchiveBucket, key)
	}
}

func rotationStatusCommand(args []string) {
	fs := flag.NewFlagSet("rotation-status", flag.ExitOnError)
	configPath := fs.String("config", "phicrypt.yaml", "Path to configuration file")
	fs.Parse(args)

	cliCfg, err := LoadCLIConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	meta, err := keymeta.Open(cliCfg.Keymeta.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open key metadata store: %v\n", err)
		os.Exit(1)
	}
	defer meta.Close()

	history, err := meta.History(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read history: %v\n", err)
		os.Exit(1)
	}
	if len(history) == 0 {
		fmt.Println("No key rotations recorded.")
		return
	}

	for _, kv := range history {
		status := "active"
		if kv.RetiredAt != nil {
			status = fmt.Sprintf("retired %s", kv.RetiredAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("version %d  installed %s  %s\n",
			kv.Version, kv.InstalledAt.Format("2006-01-02 15:04:05"), status)
	}
}
