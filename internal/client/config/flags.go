package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/studysync/internal/flagx"
)

// parseFlags populates Config fields from the short flags it knows about.
// Everything else in args is ignored. Parse errors panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-f", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.CacheFile, "f", cfg.CacheFile, "local cache database file")
	remoteTimeout := fs.Int("t", int(cfg.RemoteTimeout.Seconds()), "remote call timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RemoteTimeout = time.Duration(*remoteTimeout) * time.Second
}
