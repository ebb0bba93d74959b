package cli

import (
	"github.com/spf13/cobra"
)

var (
	policyPath   string
	auditLogPath string
	listenAddr   string
)

var rootCmd = &cobra.Command{
	Use:   "pebblomcp",
	Short: "Pebblo MCP - Role-based data-access policy engine",
	Long: `Pebblo MCP mediates reads of sensitive records behind role policies:
field-level redaction of blocked paths, detection and sanitization of
prompt-injection content, and an append-only audit trail of every
protected access.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyPath, "policy", "", "Path to policy YAML file (default: ~/.pebblomcp/policy.yaml)")
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "", "Path to audit JSONL file (default: ~/.pebblomcp/audit.jsonl)")
	rootCmd.PersistentFlags().StringVar(&listenAddr, "listen", "", "HTTP listen address (default: :8080)")
}

func Execute() error {
	return rootCmd.Execute()
}
