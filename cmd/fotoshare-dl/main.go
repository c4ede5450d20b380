package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/handiism/fotoshare-downloader/internal/config"
	"github.com/handiism/fotoshare-downloader/internal/download"
)

func main() {
	// Command line flags
	var (
		emailFlag    = flag.String("email", "", "Email address (for private albums; requires -password)")
		passwordFlag = flag.String("password", "", "Password (for private albums; requires -email)")
		outputFlag   = flag.String("output", "", "Output directory (default ./<album-id>)")
		workersFlag  = flag.Int("workers", 0, "Number of concurrent downloads (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag   = flag.Bool("dry-run", false, "List images without downloading")
	)

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("fotoshare-dl - Download full-resolution images from a fotoshare.co album")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  fotoshare-dl [options] <album-url>")
		fmt.Println()
		fmt.Println("For interactive mode, use: fotoshare-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}
	albumURL := flag.Arg(0)

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.OutputPath = *outputFlag
	}
	if *workersFlag > 0 {
		settings.Workers = *workersFlag
	}
	settings.Email = *emailFlag
	settings.Password = *passwordFlag

	if (settings.Email == "") != (settings.Password == "") {
		fmt.Fprintln(os.Stderr, "Error: -email and -password must be supplied together")
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "✗ "
		case download.LevelWarning:
			prefix = "! "
		case download.LevelSuccess:
			prefix = "✓ "
		case download.LevelInfo:
			prefix = "› "
		default:
			prefix = "  "
		}

		fmt.Println(prefix + event.Message)
	})

	if err := manager.Initialize(ctx, albumURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dryRunFlag {
		fmt.Println("\n[Dry run - not downloading]")
		for _, ref := range manager.References() {
			fmt.Printf("  %s  ->  %s\n", ref.URL, ref.Path)
		}
		return
	}

	if err := manager.StartDownloads(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	summary := manager.Summary()
	fmt.Println()
	fmt.Println(strings.Repeat("━", 40))
	fmt.Printf("Done. %d downloaded, %d skipped, %d failed\n",
		summary.Downloaded, summary.Skipped, summary.Failed)
	for _, failure := range summary.Failures {
		fmt.Printf("  failed: %s (%v)\n", failure.Ref.URL, failure.Err)
	}
	fmt.Printf("Files saved to %s\n", manager.Album().OutputDir)
}
