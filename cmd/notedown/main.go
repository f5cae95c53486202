package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/mvanders/notedown/internal/vault"
)

// CLI is the top-level command structure for notedown.
type CLI struct {
	Debug  bool   `env:"NOTEDOWN_DEBUG" help:"Enable debug logging."`
	Config string `type:"path" help:"Path to config.toml (default: ~/.config/notedown/config.toml)."`
	Vault  string `type:"path" help:"Override the vault database path."`

	Tui    TuiCmd    `cmd:"" default:"1" help:"Open the notes TUI."`
	Search SearchCmd `cmd:"" help:"Search notes from the command line."`
	Export ExportCmd `cmd:"" help:"Export all notes as markdown files."`
	Mcp    McpCmd    `cmd:"" help:"Serve the vault as an MCP server on stdio."`
}

// openVault applies the CLI overrides and opens the database, creating
// its directory on first run.
func (cli *CLI) openVault(cfg *UserConfig) (*vault.Vault, error) {
	path := cfg.VaultPath
	if cli.Vault != "" {
		path = cli.Vault
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}
	return vault.Open(vault.Config{
		DBPath:      path,
		RecentLimit: cfg.RecentLimit,
	})
}

func main() {
	cli := CLI{}
	parser, err := kong.New(&cli,
		kong.Name("notedown"),
		kong.Description("A folder-organized markdown notebook for the terminal."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			os.Exit(code)
		}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "notedown: %v\n", err)
		os.Exit(1)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	cfg, err := loadUserConfig(cli.Config)
	parser.FatalIfErrorf(err)

	ctx.Bind(&cli)
	ctx.Bind(cfg)

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
