package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/milaap/internal/db"
	"github.com/erazemk/milaap/internal/i18n"
	"github.com/erazemk/milaap/internal/portal"
	"github.com/erazemk/milaap/internal/store"
)

var (
	adminName  string
	adminEmail string
	seed       bool
)

// initCmd creates a new database with an administrator account.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and the first administrator",
	Long: `Create a new portal database, apply the schema and create an
administrator account with a generated password. With --seed the default
categories, locations and police station are added too.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&adminName, "admin-name", "Administrator", "administrator display name")
	initCmd.Flags().StringVar(&adminEmail, "admin-email", "admin@rajkotemilaap.com", "administrator login email")
	initCmd.Flags().BoolVar(&seed, "seed", true, "add default categories, locations and a police station")
}

func runInit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	closeLog, err := setupLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	if _, err := os.Stat(cfg.DBPath); err == nil {
		return fmt.Errorf("database file %s already exists", cfg.DBPath)
	}

	database, password, err := initDatabase(cmd.Context(), cfg.DBPath, adminName, adminEmail, seed)
	if err != nil {
		return err
	}
	database.Close()

	printInitResult(cfg.DBPath, adminEmail, password)
	return nil
}

// initDatabase creates a new database, ensures the schema, and creates the
// admin account. The file is removed again when any step fails.
func initDatabase(ctx context.Context, path, name, email string, withSeed bool) (*sql.DB, string, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, "", err
	}

	password, err := setupDatabase(ctx, database, name, email, withSeed)
	if err != nil {
		database.Close()
		os.Remove(path)
		return nil, "", err
	}
	return database, password, nil
}

func setupDatabase(ctx context.Context, database *sql.DB, name, email string, withSeed bool) (string, error) {
	if err := db.Migrate(database); err != nil {
		return "", fmt.Errorf("ensuring schema: %w", err)
	}

	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}

	text, err := i18n.Load()
	if err != nil {
		return "", err
	}
	svc := portal.New(database, nil, nil, text)
	if _, err := svc.Bootstrap(ctx, name, email, password); err != nil {
		var ve *portal.ValidationError
		if errors.As(err, &ve) {
			return "", fmt.Errorf("creating admin account: invalid %v", ve.Keys)
		}
		return "", fmt.Errorf("creating admin account: %w", err)
	}

	if withSeed {
		if err := seedCatalog(ctx, database); err != nil {
			return "", fmt.Errorf("seeding catalog: %w", err)
		}
	}
	return password, nil
}

// Default catalog of a fresh Rajkot installation.
var (
	defaultCategories = [][2]string{
		{"Mobile Phone", "Mobile phones and accessories"},
		{"Wallet", "Wallets and purses"},
		{"Documents", "ID cards, certificates and papers"},
		{"Jewellery", "Rings, chains and other jewellery"},
		{"Bag", "Bags, backpacks and luggage"},
		{"Keys", "Keys and key chains"},
		{"Electronics", "Laptops, cameras and other devices"},
		{"Vehicle", "Two-wheelers, bicycles and their parts"},
		{"Other", "Anything else"},
	}
	defaultLocations = []string{
		"Race Course", "Rajkot Junction Railway Station", "Rajkot Bus Port", "Jubilee Garden",
		"Kalawad Road", "Yagnik Road", "Aji Dam", "Lal Pari Lake", "Rajkot Airport",
	}
)

// seedCatalog adds the default categories, locations and headquarters
// station in one transaction.
func seedCatalog(ctx context.Context, database *sql.DB) error {
	return store.InTx(ctx, database, func(tx *sql.Tx) error {
		for _, c := range defaultCategories {
			if _, err := store.CreateCategory(ctx, tx, c[0], c[1]); err != nil {
				return err
			}
		}
		for _, name := range defaultLocations {
			if _, err := store.CreateLocation(ctx, tx, name); err != nil {
				return err
			}
		}
		_, err := store.CreateStation(ctx, tx, "Rajkot City Police Headquarters", "Jawahar Road, Rajkot", "02812457777")
		return err
	})
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, email, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Administrator account created:")
	fmt.Printf("  Email:    %s\n", email)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("The administrator can change it after logging in.")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
