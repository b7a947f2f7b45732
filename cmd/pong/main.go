// Command pong is the CLI and server entrypoint: `serve` runs the relay
// + HTTP API, `prove`/`verify` drive internal/proofboundary's
// CompositeBackend against a CompactLog file on disk.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kalepail/zkp-pong/internal/api"
	"github.com/kalepail/zkp-pong/internal/db"
	"github.com/kalepail/zkp-pong/internal/hostio"
	"github.com/kalepail/zkp-pong/internal/proofboundary"
	"github.com/kalepail/zkp-pong/internal/relay"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe()
	case "prove":
		runProve(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: pong <serve|prove|verify> [args...]")
	fmt.Fprintln(os.Stderr, "  pong serve")
	fmt.Fprintln(os.Stderr, "  pong prove <log.json> [--format composite|succinct|groth16]")
	fmt.Fprintln(os.Stderr, "  pong verify <proof.json>")
}

func runServe() {
	log.Println("Starting zkp-pong match engine...")

	// ─── Required Environment Variables ─────────────────────────────────
	// Credentials come from environment variables, no fallback defaults
	// for security-sensitive values. Export them in the shell for local
	// development.
	// ────────────────────────────────────────────────────────────────────

	dbUrl := os.Getenv("DATABASE_URL")
	var dbConn *db.Store
	if dbUrl != "" {
		conn, err := db.Connect(dbUrl)
		if err != nil {
			log.Printf("Warning: Failed to connect to PostgreSQL, continuing without persisting match logs. Error: %v", err)
		} else {
			dbConn = conn
			defer dbConn.Close()
			if err := dbConn.InitSchema(); err != nil {
				log.Printf("Warning: DB schema init failed: %v", err)
			}
		}
	} else {
		log.Println("DATABASE_URL not set — running without match persistence")
	}

	relayMgr := relay.NewManager()

	spectators := api.NewSpectatorHub()
	go spectators.Run()

	r := api.SetupRouter(dbConn, relayMgr, spectators)

	port := getEnvOrDefault("PORT", "5339")
	log.Printf("zkp-pong engine listening on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func runProve(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: pong prove <log.json> [--format composite|succinct|groth16] [proof.json]")
		os.Exit(1)
	}

	format, rest := parseFormatFlag(args)
	if format != "composite" {
		log.Fatalf("FATAL: --format %s is not implemented; this repository's proof boundary is a non-cryptographic stand-in (see internal/proofboundary), only \"composite\" is available", format)
	}
	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "usage: pong prove <log.json> [--format composite|succinct|groth16] [proof.json]")
		os.Exit(1)
	}
	logPath := rest[0]
	proofPath := logPath + ".proof.json"
	if len(rest) > 1 {
		proofPath = rest[1]
	}

	compactLog, err := hostio.LoadCompactLogFile(logPath)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	var backend proofboundary.CompositeBackend
	out, proof, err := backend.Prove(compactLog)
	if err != nil {
		log.Fatalf("FATAL: prove failed: %v", err)
	}

	if err := os.WriteFile(proofPath, proof, 0o644); err != nil {
		log.Fatalf("FATAL: failed to write proof: %v", err)
	}

	fmt.Printf("wrote proof to %s\n", proofPath)
	if !out.Fair {
		fmt.Printf("match rejected: %s\n", derefReason(out.Reason))
		os.Exit(1)
	}
	fmt.Printf("match fair: left=%d right=%d\n", out.LeftScore, out.RightScore)
}

func runVerify(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: pong verify <proof.json>")
		os.Exit(1)
	}
	proofPath := args[0]

	proof, err := os.ReadFile(proofPath)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	var backend proofboundary.CompositeBackend
	out, err := backend.Verify(proof)
	if err != nil {
		log.Fatalf("FATAL: verify failed: %v", err)
	}

	if !out.Fair {
		fmt.Printf("rejected: %s\n", derefReason(out.Reason))
		os.Exit(1)
	}
	fmt.Printf("fair: left=%d right=%d\n", out.LeftScore, out.RightScore)
}

func derefReason(reason *string) string {
	if reason == nil {
		return ""
	}
	return *reason
}

// parseFormatFlag pulls an optional "--format <name>" pair out of args,
// defaulting to "composite" (the only backend this repository
// implements — see internal/proofboundary), and returns the remaining
// positional arguments.
func parseFormatFlag(args []string) (format string, rest []string) {
	format = "composite"
	for i := 0; i < len(args); i++ {
		if args[i] == "--format" && i+1 < len(args) {
			format = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}
	return format, rest
}

func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
