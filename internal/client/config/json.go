package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/studysync/internal/flagx"
	"github.com/dmitrijs2005/studysync/internal/timex"
)

// JsonConfig is the on-disk form of Config. Intervals accept "3s" strings
// or integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	CacheFile           string         `json:"cache_file"`
	RemoteTimeout       timex.Duration `json:"remote_timeout"`
}

// parseJson overlays cfg with the JSON file named by -c or -config in args.
// Keys absent from the file keep their current values. Read and decode
// errors panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	jc := JsonConfig{
		ServerEndpointAddr:  cfg.ServerEndpointAddr,
		OnlineCheckInterval: timex.Duration{Duration: cfg.OnlineCheckInterval},
		CacheFile:           cfg.CacheFile,
		RemoteTimeout:       timex.Duration{Duration: cfg.RemoteTimeout},
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	cfg.CacheFile = jc.CacheFile
	cfg.RemoteTimeout = jc.RemoteTimeout.Duration
}
