// Command cityconnect is a terminal client for the CityConnect citizen
// issue reporting service.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cityconnect/cityconnect/internal/api"
	"github.com/cityconnect/cityconnect/internal/app"
	"github.com/cityconnect/cityconnect/internal/cache"
	"github.com/cityconnect/cityconnect/internal/credential"
	"github.com/cityconnect/cityconnect/internal/model"
	"github.com/cityconnect/cityconnect/internal/notify"
	"github.com/cityconnect/cityconnect/internal/session"
	"github.com/cityconnect/cityconnect/internal/stream"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to config file")
	serverURL := flag.String("server", "", "backend base URL (overrides config)")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cityconnect: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}

	// The standard logger writes to stderr, which the alternate screen
	// owns while the program runs. Route it to a file instead.
	logFile, err := openLogFile(*configPath)
	if err == nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	// On first run, persist the defaults so the user has a file to edit.
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		if err := model.SaveConfig(*configPath, cfg); err != nil {
			log.Printf("main: writing initial config: %v", err)
		}
	}

	cachePath := cfg.Cache.Path
	if cachePath == "" {
		cachePath = model.DefaultCachePath()
	}
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "cityconnect: creating cache directory: %v\n", err)
		os.Exit(1)
	}

	store, err := cache.Open(cachePath)
	if err != nil {
		// The client works without the cache; it only loses offline reads.
		log.Printf("main: opening cache: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	creds, err := credential.Open()
	if err != nil {
		// The session still works; the token just won't survive a restart.
		log.Printf("main: opening keyring: %v", err)
		creds = credential.NewEphemeral()
	}

	client := api.NewClient(cfg.Server.BaseURL, time.Duration(cfg.Server.TimeoutSec)*time.Second)
	sess := session.New(client, creds)
	notifier := notify.NewDesktop(cfg.Notifications.Desktop)
	relay := stream.New(client, notifier)

	m := app.New(client, sess, relay, store)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "cityconnect: %v\n", err)
		os.Exit(1)
	}
}

// openLogFile opens the debug log next to the config file.
func openLogFile(configPath string) (*os.File, error) {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(
		filepath.Join(dir, "cityconnect.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0o644,
	)
}
