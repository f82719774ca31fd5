package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/docweave/docweave/internal/config"
	"github.com/docweave/docweave/internal/docsource"
	"github.com/docweave/docweave/internal/mcp"
	"github.com/docweave/docweave/internal/model"
	"github.com/docweave/docweave/internal/structure"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the server mode
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// In stdio mode, redirect log output to stderr to avoid interfering with MCP protocol
		log.SetOutput(os.Stderr)
		// Reduce log verbosity in stdio mode unless debug is enabled
		if !cfg.IsDebug() {
			log.SetOutput(os.NewFile(0, os.DevNull))
		}
	} else {
		// In server mode, use normal stdout logging with more detail
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// runServerMode handles server mode execution with signal handling
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server) {
	// Set up signal handling for graceful shutdown
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Start server in a goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-signalCh:
		log.Printf("Received signal: %s", sig)
		log.Println("Initiating graceful shutdown...")
		cancel()

		// Wait for server to shutdown
		if err := <-serverErrCh; err != nil {
			log.Printf("Server shutdown with error: %v", err)
			os.Exit(1)
		}

	case err := <-serverErrCh:
		if err != nil {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	}

	log.Println("Server stopped successfully")
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, _ context.CancelFunc, server *mcp.Server) {
	// In stdio mode, the parent process controls our lifecycle
	// We should exit cleanly when stdin is closed or we get an error

	// Start server and wait for it to complete
	if err := server.Run(ctx); err != nil {
		// Only log to stderr in debug mode to avoid protocol interference
		if os.Getenv("DEBUG") != "" {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

// runOneShot structures a single file and prints the result to stdout,
// bypassing the MCP protocol entirely.
func runOneShot(cfg *config.Config, path, format string) {
	extractor := docsource.NewExtractor(cfg.MaxFileSize)

	doc, err := extractor.ExtractPages(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to extract %s: %v\n", path, err)
		os.Exit(1)
	}
	if cfg.BodyFontSize > 0 {
		doc.AvgFontSize = cfg.BodyFontSize
	}

	result, err := structure.NewAssembler().Assemble(doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to structure %s: %v\n", path, err)
		os.Exit(1)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode result: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Println(result.Text)
		fmt.Println("---")
		fmt.Printf("Pages: %d  Blocks: %d  Characters: %d\n",
			result.Stats.PageCount, result.Stats.BlockCount, result.Stats.CharCount)
		for _, t := range highlightSummaryOrder {
			if n := result.Stats.HighlightCounts[t]; n > 0 {
				fmt.Printf("%s: %d\n", t, n)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown format %q (want json or text)\n", format)
		os.Exit(1)
	}
}

// highlightSummaryOrder fixes the summary line order; map iteration would
// shuffle it between runs.
var highlightSummaryOrder = []model.HighlightType{
	model.HighlightHeading,
	model.HighlightTOC,
	model.HighlightBibliography,
	model.HighlightAuthor,
	model.HighlightFootnote,
	model.HighlightFigureLabel,
	model.HighlightLegend,
	model.HighlightAnomaly,
	model.HighlightHeader,
	model.HighlightFooter,
	model.HighlightPageNumber,
	model.HighlightReference,
	model.HighlightURL,
	model.HighlightEmail,
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	// One-shot flags are registered here so config flag parsing picks them up
	filePath := pflag.String("file", "", "Structure a single PDF file, print the result, and exit")
	format := pflag.String("format", "json", "One-shot output format: json or text")

	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging based on mode
	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if *filePath != "" {
		runOneShot(cfg, *filePath, *format)
		return
	}

	if cfg.IsDebug() && cfg.IsServerMode() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	// Create MCP server with its collaborators
	extractor := docsource.NewExtractor(cfg.MaxFileSize)
	assembler := structure.NewAssembler()

	server, err := mcp.NewServer(cfg, extractor, assembler)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle different modes
	if cfg.IsServerMode() {
		runServerMode(ctx, cancel, server)
	} else {
		runStdioMode(ctx, cancel, server)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Docweave Document Structure Server\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
