package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/dental-xray-mcp/internal/config"
	"github.com/ironsheep/dental-xray-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv("XRAY_MCP_CONFIG")

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Printf("dental-xray-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--config", "-c":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a file path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		case "--write-config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--write-config requires a file path")
				os.Exit(2)
			}
			if err := config.Default().SaveToFile(args[i+1]); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown option: %s\n", args[i])
			os.Exit(2)
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	var debug *log.Logger
	if os.Getenv("XRAY_MCP_LOG_LEVEL") == "debug" {
		debug = log.New(os.Stderr, "[pipeline] ", log.Ldate|log.Ltime)
		log.Printf("Dental X-ray MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}
		cfg = loaded
		if debug != nil {
			log.Printf("Loaded config from %s", configPath)
		}
	}

	srv := server.New(cfg, debug)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("dental-xray-mcp - MCP server for dental X-ray annotation")
	fmt.Println()
	fmt.Println("Usage: dental-xray-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c <path>      Load configuration from a JSON file")
	fmt.Println("  --write-config <path>    Write the default configuration and exit")
	fmt.Println("  --version, -v            Print version information")
	fmt.Println("  --help, -h               Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  XRAY_MCP_CONFIG=<path>       Configuration file (overridden by --config)")
	fmt.Println("  XRAY_MCP_LOG_LEVEL=debug     Enable debug logging")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
