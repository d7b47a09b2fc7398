package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"groundwork/internal/auth"
	"groundwork/internal/config"
	"groundwork/internal/constants"
	"groundwork/internal/database"
	"groundwork/internal/lifecycle"
	"groundwork/internal/logger"
	"groundwork/internal/server"
	"groundwork/internal/version"
)

func main() {
	// 0. Flags
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", constants.ConfigFileName, "path to the YAML config file")
	flag.Parse()
	if *showVersion {
		fmt.Printf("%s %s\n", constants.AppDisplayName, version.Version)
		os.Exit(0)
	}

	// 1. Initialize logger (stdout only until the data dir is known)
	log := logger.New(constants.DefaultLogLevel)
	log.Info("%s version %s starting", constants.AppDisplayName, version.Version)

	// 2. Load config: YAML file, env overrides, defaults
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.SetLevel(cfg.LogLevel)
	log.SetDataDir(cfg.DataDir)
	cfg.LogEffectiveValues(log)

	// 3. Open the database
	dbPath := filepath.Join(cfg.DataDir, constants.DatabaseFile)
	db, err := database.Open(dbPath)
	if err != nil {
		log.Error("Failed to open database: %v", err)
		os.Exit(1)
	}
	log.Info("Database ready at %s", dbPath)

	// 4. Wire the application
	app := server.NewApp(cfg, log, db)

	// 5. Bootstrap auth: create admin account if no users exist
	bootstrapResult, err := auth.Bootstrap(app.AuthStore, log)
	if err != nil {
		log.Error("Auth bootstrap failed: %v", err)
		os.Exit(1)
	}
	if bootstrapResult != nil {
		fmt.Println("╔══════════════════════════════════════════════════════════════╗")
		fmt.Println("║              INITIAL ADMIN CREDENTIALS                       ║")
		fmt.Println("║  Save these now — they will NOT be shown again.              ║")
		fmt.Println("╠══════════════════════════════════════════════════════════════╣")
		fmt.Printf("║  Email    : %-48s ║\n", bootstrapResult.Email)
		fmt.Printf("║  Password : %-48s ║\n", bootstrapResult.Password)
		fmt.Printf("║  API Key  : %-48s ║\n", bootstrapResult.APIKey)
		fmt.Println("╚══════════════════════════════════════════════════════════════╝")
		log.Info("Auth: bootstrap complete — admin account created")
	}

	// 6. Build the HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := server.NewServer(app, addr)

	// 7. Install the shutdown coordinator before serving so a signal arriving
	// during startup is still handled gracefully
	coordinator := lifecycle.New(srv, app, log,
		cfg.Shutdown.GracePeriod(), cfg.Shutdown.DrainTimeout())
	coordinator.Install()

	// A panic escaping main gets the same cleanup as a termination signal.
	defer func() {
		if r := recover(); r != nil {
			coordinator.Fatal(fmt.Sprintf("panic: %v", r))
		}
	}()

	// 8. Serve. A listen failure is routed through the same shutdown path as
	// a signal; Fatal never returns because the coordinator exits the process.
	log.Info("Starting %s on port %d", constants.AppDisplayName, cfg.Server.Port)
	if err := srv.Start(); err != nil {
		coordinator.Fatal(fmt.Sprintf("server error: %v", err))
	}

	// Start returned nil: the coordinator closed the listener and is running
	// cleanup on its own goroutine. Block here until it exits the process.
	select {}
}
