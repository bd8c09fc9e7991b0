package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crystaldolphin/autohost/internal/config"
	"github.com/crystaldolphin/autohost/internal/config/tool"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize configuration, workspace and a servers file",
	RunE:  runOnboard,
}

const serversTemplate = `# MCP servers started by autohost. ${workspace} and ${VAR} are expanded
# at launch. Entries here override tools.mcpServers in config.json.
servers:
  # auto_advisor:
  #   command: python
  #   args: ["-m", "auto_advisor.server"]
  #   cwd: ${workspace}
  # remote_tools:
  #   url: https://tools.example.com/mcp
  #   headers:
  #     Authorization: Bearer ${TOOLS_TOKEN}
`

func runOnboard(_ *cobra.Command, _ []string) error {
	cfgPath := configPath()

	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Config already exists at %s\n", cfgPath)
		fmt.Printf("Press Enter to refresh (keep existing values) or Ctrl+C to cancel: ")
		fmt.Scanln()
		existing, loadErr := config.Load(cfgPath)
		if loadErr != nil {
			def := config.DefaultConfig()
			existing = &def
		}
		if err := config.Save(existing, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Config refreshed at %s\n", cfgPath)
	} else {
		cfg := config.DefaultConfig()
		if err := config.Save(&cfg, cfgPath); err != nil {
			return err
		}
		fmt.Printf("✓ Created config at %s\n", cfgPath)
	}

	def := config.DefaultConfig()
	workspace := def.WorkspacePath()
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	fmt.Printf("✓ Workspace at %s\n", workspace)

	serversPath := tool.DefaultServersFile
	if _, err := os.Stat(serversPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(serversPath), 0o755); err != nil {
			return fmt.Errorf("create servers dir: %w", err)
		}
		if err := os.WriteFile(serversPath, []byte(serversTemplate), 0o644); err != nil {
			return fmt.Errorf("write servers file: %w", err)
		}
		fmt.Printf("✓ Created %s\n", serversPath)
	}

	fmt.Printf("\nautohost is ready!\n\n")
	fmt.Println("Next steps:")
	fmt.Printf("  1. Add your API key to %s or export OPENAI_API_KEY / ANTHROPIC_API_KEY\n", cfgPath)
	fmt.Printf("  2. List your MCP servers in %s\n", serversPath)
	fmt.Println("  3. Chat: autohost agent -m \"top 3 diesel cars under $15k\"")
	return nil
}
