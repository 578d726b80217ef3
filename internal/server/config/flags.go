package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/studysync/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN, empty for in-memory storage
//	-s string   JWT HMAC secret key
//	-t int      issued access token validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-x int      presigned URL expiry, minutes
//
// Unknown arguments are filtered out with flagx.FilterArgs. Parse errors panic.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-u", "-p", "-b", "-g", "-e", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "issued access token validity (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	presignExpiry := fs.Int("x", int(config.PresignExpiry.Minutes()), "presigned URL expiry (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.PresignExpiry = time.Duration(*presignExpiry) * time.Minute
}
