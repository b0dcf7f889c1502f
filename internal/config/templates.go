package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Option Trade Dispatcher Configuration

[trading]
# Strategy tag recorded on every trade
strategy = "BB TRAP"
# Fixed order quantity per account (lots x lot size). Not capital-scaled.
quantity = 75
# Product type: INTRADAY, MARGIN
product = "INTRADAY"
# Exchange segment for option orders: NSE_FNO, BSE_FNO
exchange_segment = "NSE_FNO"

[dispatch]
# Sustained order placement rate across all accounts
orders_per_second = 0.5
# Burst capacity for the rate limiter
burst = 1
# Timeout for a single order placement call
order_timeout = "10s"

[marketdata]
# Option chain API base URL
base_url = "https://api.dhan.co/v2"

# Alert symbol -> underlying instrument mapping
[marketdata.underlyings.NIFTY1]
scrip = 13
segment = "IDX_I"

[marketdata.underlyings.BANKNIFTY1]
scrip = 25
segment = "IDX_I"

[storage]
# Primary trade store (SQLite)
db_path = ""
# Append-only backup log used when the primary store is down
backup_log_path = ""
# Account book: client_name, capital, access_token, state
accounts_csv = ""
# Security id reference table: security_id, strike_price, contract_type
securities_csv = ""

[server]
# Webhook listener address and path
addr = ":8080"
path = "/webhook"
# Shared secret required in the X-Auth-Token header (empty disables the check)
auth_token = ""

[notifications]
enabled = false

[notifications.telegram]
enabled = false
bot_token = ""
chat_id = ""

[notifications.webhook]
enabled = false
url = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
`

const credentialsTemplate = `# Option Trade Dispatcher Credentials
# WARNING: Keep this file secure! Do not commit to version control.

[data]
client_id = ""
access_token = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	// Use restricted permissions for credentials file
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}

	return fmt.Errorf("credentials file not found, created template at %s", path)
}
