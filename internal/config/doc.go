// Package config handles configuration loading for the agora server.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults; a zero config file
// is valid as long as server.http_addr is set.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from AGORA_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/agora/agora.yaml
//  3. ~/.config/agora/agora.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	content:
//	  api_key: "${GROQ_API_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	session:
//	  max_uptime: "5h55m"
//	  auto_gap: "25s"
//	  settle_min: "3s"
//	  settle_max: "6s"
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Session timing and turn scheduling:
//
//	session:
//	  max_uptime: "5h55m"        # session lifetime
//	  auto_gap: "25s"            # gap between scheduled AI turns
//	  settle_min: "3s"           # settle window after a human message
//	  settle_max: "6s"
//	  human_cooldown: "15s"      # auto-turn delay after a human response
//	  retry_backoff: "3s"        # delay after a failed content turn
//	  min_turns_per_topic: 20
//	  max_turns_per_topic: 30
//	  seed: 0                    # non-zero for deterministic replay
//
// Content source:
//
//	content:
//	  api_key: "${GROQ_API_KEY}"
//	  model: "llama-3.1-8b-instant"
//	  backup_model: "meta-llama/llama-4-scout-17b-16e-instruct"
//	  max_words: 80
//
// Catalog override:
//
//	catalog:
//	  path: "/etc/agora/catalog.toml"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
