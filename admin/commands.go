package admin

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"

	"chirper/log"
)

// HandleCommand handles db maintenance subcommands against the badger
// store. The postgres backend is maintained with its own tooling.
func HandleCommand(args []string) {
	if len(args) < 1 {
		printDbHelp()
		os.Exit(1)
	}

	flags := flag.NewFlagSet("db", flag.ExitOnError)
	dbPath := flags.String("db", "data/badger", "badger data directory")

	cmd := args[0]
	flags.Parse(args[1:])

	switch cmd {
	case "init":
		initDb(*dbPath)
	case "clean":
		clean(*dbPath)
	case "backup":
		backup(*dbPath)
	case "restore":
		if flags.NArg() < 1 {
			fmt.Println("Error: backup file path required for restore")
			os.Exit(1)
		}
		restore(*dbPath, flags.Arg(0))
	case "help":
		printDbHelp()
	default:
		fmt.Printf("Unknown db command: %s\n\n", cmd)
		printDbHelp()
		os.Exit(1)
	}
}

func printDbHelp() {
	helpText := `Usage: chirper db <command> [options]

Commands:
  init                           Initialize a new empty database
  clean                          Remove the database
  backup                         Create a backup of the database
  restore [file]                 Restore database from backup
  help                           Display this help message

Options:
  -db string                     Badger data directory (default "data/badger")
`
	fmt.Println(helpText)
}

func initDb(dbPath string) {
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Println("Database already exists. Use 'clean' first if you want to reinitialize.")
		return
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		log.Error.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(dbPath))
	if err != nil {
		log.Error.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	fmt.Println("Database initialized successfully")
}

func clean(dbPath string) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("Database is already clean (does not exist)")
		return
	}

	fmt.Print("Are you sure you want to clean the database? This cannot be undone. [y/N] ")
	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		fmt.Println("Operation cancelled")
		return
	}

	if err := os.RemoveAll(dbPath); err != nil {
		log.Error.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("Database cleaned successfully")
}

func backup(dbPath string) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No database exists to backup")
		return
	}

	backupDir := "data/backups"
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		log.Error.Fatalf("Failed to create backup directory: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(dbPath))
	if err != nil {
		log.Error.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	f, err := os.Create(backupFile)
	if err != nil {
		log.Error.Fatalf("Failed to create backup file: %v", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		log.Error.Fatalf("Failed to backup database: %v", err)
	}

	fmt.Printf("Database backed up successfully to %s\n", backupFile)
}

func restore(dbPath, backupFile string) {
	if _, err := os.Stat(backupFile); os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return
	}

	if _, err := os.Stat(dbPath); err == nil {
		fmt.Print("Existing database found. Do you want to replace it? [y/N] ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Operation cancelled")
			return
		}
		if err := os.RemoveAll(dbPath); err != nil {
			log.Error.Fatalf("Failed to remove existing database: %v", err)
		}
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		log.Error.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(dbPath))
	if err != nil {
		log.Error.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		log.Error.Fatalf("Failed to open backup file: %v", err)
	}
	defer f.Close()

	if err := db.Load(f, 4); err != nil {
		log.Error.Fatalf("Failed to restore database: %v", err)
	}

	fmt.Println("Database restored successfully")
}
