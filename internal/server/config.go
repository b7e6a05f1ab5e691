package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Table  TableSettings  `hcl:"table,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// TableSettings defines the rules every table on this server plays by
type TableSettings struct {
	DeckCount       int    `hcl:"deck_count,optional"`
	StartingBalance int    `hcl:"starting_balance,optional"`
	MinBet          int    `hcl:"min_bet,optional"`
	MaxBet          int    `hcl:"max_bet,optional"`
	Rebet           bool   `hcl:"rebet,optional"`
	BonusEnabled    bool   `hcl:"bonus_enabled,optional"`
	RecordDir       string `hcl:"record_dir,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
			LogFile:  "blackjack-server.log",
		},
		Table: TableSettings{
			DeckCount:       1,
			StartingBalance: 1000,
			MinBet:          1,
			MaxBet:          500,
			Rebet:           false,
			BonusEnabled:    true,
			RecordDir:       "sessions",
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A
// missing file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.LogFile == "" {
		config.Server.LogFile = "blackjack-server.log"
	}
	if config.Table.DeckCount == 0 {
		config.Table.DeckCount = 1
	}
	if config.Table.StartingBalance == 0 {
		config.Table.StartingBalance = 1000
	}
	if config.Table.MinBet == 0 {
		config.Table.MinBet = 1
	}
	if config.Table.MaxBet == 0 {
		config.Table.MaxBet = 500
	}
	if config.Table.RecordDir == "" {
		config.Table.RecordDir = "sessions"
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	switch c.Table.DeckCount {
	case 1, 2, 4, 6:
	default:
		return fmt.Errorf("invalid deck count: %d", c.Table.DeckCount)
	}

	if c.Table.StartingBalance <= 0 {
		return fmt.Errorf("starting balance must be positive")
	}
	if c.Table.MinBet <= 0 {
		return fmt.Errorf("minimum bet must be positive")
	}
	if c.Table.MaxBet < c.Table.MinBet {
		return fmt.Errorf("maximum bet %d below minimum bet %d", c.Table.MaxBet, c.Table.MinBet)
	}
	if c.Table.MaxBet > c.Table.StartingBalance {
		return fmt.Errorf("maximum bet %d exceeds starting balance %d", c.Table.MaxBet, c.Table.StartingBalance)
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
