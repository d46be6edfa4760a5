// Package config handles configuration loading for the maze services and gateway.
//
// # Overview
//
// Every binary loads the same Config shape; each uses the sections it needs.
// Defaults cover every field, so a service starts without any file.
//
// # Configuration File
//
// Path resolution (in order):
//
//  1. --config flag
//  2. MAZE_CONFIG environment variable
//  3. none: built-in defaults
//
// Files ending in .toml are decoded as TOML, anything else as YAML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${MAZE_JWT_SECRET}"
//
// Unset variables expand to the empty string.
//
// The storage endpoint can also be overridden per service without a file:
//
//	MAZE_DB_RESOURCE_HOST / MAZE_DB_RESOURCE_PORT   (mazesvc)
//	GRUE_DB_RESOURCE_HOST / GRUE_DB_RESOURCE_PORT   (gruesvc)
//
// # Configuration Sections
//
//	server:
//	  http_addr: ":5000"
//	  read_header_timeout: "10s"
//	  legacy_status: false      # true = always answer 200, clients check "ok"
//
//	database:
//	  driver: "postgres"        # or "sqlite"
//	  host: "postgres"
//	  port: 5432
//	  name: "maze"
//	  user: "postgres"
//	  password: "${MAZE_DB_PASSWORD}"
//	  sslmode: "disable"
//	  path: ""                  # sqlite file, or ":memory:"
//	  max_open_conns: 10
//	  max_idle_conns: 5
//	  conn_max_lifetime: "5m"
//	  create_database: false
//
//	upstreams:
//	  user_url: "http://usersvc:5000"
//	  grue_url: "http://gruesvc:5000"
//	  timeout: "10s"
//
//	auth:
//	  jwt_secret: ""            # empty disables bearer auth
//	  token_ttl: "24h"
//
//	logging:
//	  level: "info"             # debug, info, warn, error
//	  format: "text"            # text (colored) or json
//
//	metrics:
//	  enabled: true
//	  path: "/metrics"
package config
