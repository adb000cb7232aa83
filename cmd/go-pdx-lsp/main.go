package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/CWBudde/go-pdx-lsp/internal/lsp"
	"github.com/CWBudde/go-pdx-lsp/internal/registry"
	"github.com/CWBudde/go-pdx-lsp/internal/server"
)

var (
	tcpMode      bool
	tcpPort      int
	logLevel     string
	logFile      string
	registryPath string
	rootType     string
)

func init() {
	// Command-line flags
	flag.BoolVar(&tcpMode, "tcp", false, "Run server in TCP mode (for debugging)")
	flag.IntVar(&tcpPort, "port", 8765, "TCP port to listen on (used with -tcp)")
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	flag.StringVar(&registryPath, "registry", "", "YAML keyword registry layered over the built-in one; reloaded on change")
	flag.StringVar(&rootType, "root-type", string(registry.Character), "Object type of documents outside known folders")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, "%s version %s\n\n", lsp.ServerName, lsp.ServerVersion)
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", lsp.ServerName)
	fmt.Fprintf(os.Stderr, "Language Server Protocol implementation for Paradox script\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	// Print version if requested
	if flag.NArg() > 0 && flag.Arg(0) == "version" {
		fmt.Printf("%s version %s\n", lsp.ServerName, lsp.ServerVersion)
		os.Exit(0)
	}

	fmt.Fprintf(os.Stderr, "%s version %s starting...\n", lsp.ServerName, lsp.ServerVersion)
	fmt.Fprintf(os.Stderr, "Transport: ")
	if tcpMode {
		fmt.Fprintf(os.Stderr, "TCP (port %d)\n", tcpPort)
	} else {
		fmt.Fprintf(os.Stderr, "STDIO\n")
	}
	fmt.Fprintf(os.Stderr, "Log level: %s\n", logLevel)

	setupLogging()

	reg, err := registry.LoadWithDefaults(registryPath)
	if err != nil {
		log.Fatalf("Registry error: %v", err)
	}

	// Initialize server state
	srv := server.NewWithRegistry(reg)
	srv.UpdateConfig(func(cfg *server.Config) {
		cfg.DefaultRootType = registry.ObjectType(rootType)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if registryPath != "" {
		go watchRegistry(ctx, srv)
	}

	handler := protocol.Handler{
		Initialize:  lsp.Initialize,
		Initialized: lsp.Initialized,
		Shutdown:    lsp.Shutdown,
		SetTrace:    func(context *glsp.Context, params *protocol.SetTraceParams) error { return nil },

		TextDocumentDidOpen:   lsp.DidOpen,
		TextDocumentDidChange: lsp.DidChange,
		TextDocumentDidClose:  lsp.DidClose,

		TextDocumentCompletion:     lsp.Completion,
		TextDocumentHover:          lsp.Hover,
		TextDocumentDefinition:     lsp.Definition,
		TextDocumentDocumentSymbol: lsp.DocumentSymbol,
		TextDocumentCodeAction:     lsp.CodeAction,

		WorkspaceSymbol:                    lsp.WorkspaceSymbol,
		WorkspaceDidChangeConfiguration:    lsp.DidChangeConfiguration,
		WorkspaceDidChangeWorkspaceFolders: lsp.DidChangeWorkspaceFolders,
	}

	glspServer := glspserver.NewServer(&handler, lsp.ServerName, logLevel == "debug")

	// Store our server instance for handler access
	lsp.SetServer(srv)

	// Start server with appropriate transport
	if tcpMode {
		fmt.Fprintf(os.Stderr, "Starting TCP server on port %d...\n", tcpPort)
		if err := glspServer.RunTCP(fmt.Sprintf("127.0.0.1:%d", tcpPort)); err != nil {
			log.Fatalf("TCP server error: %v", err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Starting STDIO server...\n")
		if err := glspServer.RunStdio(); err != nil {
			log.Fatalf("STDIO server error: %v", err)
		}
	}
}

// watchRegistry swaps in the registry file's new contents whenever it changes.
func watchRegistry(ctx context.Context, srv *server.Server) {
	err := registry.Watch(ctx, registryPath, registry.DefaultDebounce,
		func(reg *registry.Registry) {
			srv.SetRegistry(reg)
			log.Printf("Registry reloaded from %s (%d keywords)", registryPath, reg.Len())
		},
		func(err error) {
			log.Printf("Registry reload failed, keeping the previous one: %v", err)
		},
	)
	if err != nil {
		log.Printf("Registry watcher stopped: %v", err)
	}
}

// setupLogging configures the logging system based on command-line flags.
// Handler logging goes through the standard logger; the protocol layer logs
// through commonlog at the matching verbosity.
func setupLogging() {
	var path *string

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		log.SetOutput(f)

		path = &logFile
	} else {
		log.SetOutput(os.Stderr)
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	commonlog.Configure(verbosity(logLevel), path)
}

// verbosity maps a -log-level name to a commonlog verbosity.
func verbosity(level string) int {
	switch level {
	case "debug":
		return 2
	case "info":
		return 1
	case "warn":
		return -1
	default:
		return -2
	}
}
