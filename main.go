package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"chirper/admin"
	"chirper/app/auth"
	"chirper/app/repositories"
	"chirper/app/routes"
	"chirper/log"
)

const cliVersion = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("chirper version %s\n", cliVersion)
	case "serve":
		serve(os.Args[2:])
	case "db":
		admin.HandleCommand(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	helpText := `Usage: chirper <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve [options]                Run the API server.
  db <command> [options]         Maintain the badger store (init, clean, backup, restore).

Serve options:
  -addr string                   Listen address (default ":8080").
  -store string                  Storage backend, badger or postgres (default "badger").
  -db string                     Badger data directory (default "data/badger").
  -dsn string                    Postgres connection string (default $DATABASE_URL).
  -session-key string            Session cookie signing key (default $SESSION_KEY).
`
	fmt.Println(helpText)
}

func serve(args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", ":8080", "listen address")
	store := flags.String("store", "badger", "storage backend: badger or postgres")
	dbPath := flags.String("db", "data/badger", "badger data directory")
	dsn := flags.String("dsn", os.Getenv("DATABASE_URL"), "postgres connection string")
	sessionKey := flags.String("session-key", os.Getenv("SESSION_KEY"), "session cookie signing key")
	flags.Parse(args)

	if *sessionKey == "" {
		log.Error.Fatal("a session key is required; pass -session-key or set SESSION_KEY")
	}

	postRepo, userRepo, cleanup, err := openStore(*store, *dbPath, *dsn)
	if err != nil {
		log.Error.Fatalf("Failed to open %s store: %v", *store, err)
	}
	defer cleanup()

	sessions := auth.NewSessionResolver([]byte(*sessionKey))
	router := routes.SetupRoutes(postRepo, userRepo, sessions)

	server := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info.Printf("Listening on %s (%s store)", *addr, *store)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error.Printf("Shutdown error: %v", err)
	}
}

// openStore builds the repository pair for the selected backend and
// returns a cleanup function that releases the underlying store.
func openStore(store, dbPath, dsn string) (repositories.PostRepository, repositories.UserRepository, func(), error) {
	switch store {
	case "badger":
		db, err := badger.Open(badger.DefaultOptions(dbPath))
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup := func() { db.Close() }
		return repositories.NewBadgerPostRepository(db), repositories.NewBadgerUserRepository(db), cleanup, nil

	case "postgres":
		if dsn == "" {
			return nil, nil, nil, fmt.Errorf("a postgres DSN is required; pass -dsn or set DATABASE_URL")
		}
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		if err := migrate(db); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		cleanup := func() { db.Close() }
		return repositories.NewPostgresPostRepository(db), repositories.NewPostgresUserRepository(db), cleanup, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown store %q (want badger or postgres)", store)
	}
}

func migrate(db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}
