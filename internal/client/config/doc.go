// Package config loads runtime configuration for the studysync CLI.
//
// Sources, in increasing precedence:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   address:port of the document store gRPC endpoint
//	-i int      online status check interval (seconds)
//	-f string   local cache database file
//	-t int      remote call timeout (seconds)
//
// JSON example:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "cache_file": "/home/me/.cache/studysync/cache.db",
//	  "remote_timeout": "10s"
//	}
package config
