package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pebblohq/pebblomcp/internal/config"
	"github.com/pebblohq/pebblomcp/internal/policy"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Pebblo MCP status — policy set, audit log, configuration",
	RunE:  statusCommand,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(policyPath, auditLogPath, listenAddr)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Println("  Pebblo MCP Status")
	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Println()

	binPath, err := os.Executable()
	if err != nil {
		binPath = "unknown"
	}
	fmt.Printf("  Binary:    %s (%s)\n", binPath, Version)
	fmt.Printf("  Config:    %s\n", cfg.ConfigDir)
	fmt.Println()

	fmt.Println("─── Policy ────────────────────────────────────────────")
	if _, err := os.Stat(cfg.PolicyPath); err == nil {
		fmt.Printf("  Policy file:  %s\n", cfg.PolicyPath)
	} else {
		fmt.Printf("  Policy file:  %s (missing — built-in defaults active)\n", cfg.PolicyPath)
	}
	set := policy.Load(cfg.PolicyPath)
	store := policy.NewStore(set)
	for _, role := range store.Roles() {
		p, _ := store.PolicyFor(role)
		fmt.Printf("  Role %-22s allowed=%d blocked=%d sources=%d quota=%d\n",
			role, len(p.AllowedFields), len(p.BlockedFields), len(p.DataSources), p.MaxRecordsPerQuery)
	}
	fmt.Printf("  Injection signatures: %d\n", len(store.InjectionSignatures()))
	fmt.Println()

	fmt.Println("─── Audit Log ─────────────────────────────────────────")
	if info, err := os.Stat(cfg.AuditLogPath); err == nil {
		fmt.Printf("  File:     %s (%d bytes)\n", cfg.AuditLogPath, info.Size())
		fmt.Printf("  Entries:  %d\n", countLines(cfg.AuditLogPath))
	} else {
		fmt.Printf("  File:     %s (not created yet)\n", cfg.AuditLogPath)
	}
	if cfg.AuditDBPath != "" {
		fmt.Printf("  Database: %s\n", cfg.AuditDBPath)
	}

	return nil
}

func countLines(path string) int {
	file, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer func() { _ = file.Close() }()

	count := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		count++
	}
	return count
}
