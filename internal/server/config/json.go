package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/studysync/internal/flagx"
	"github.com/dmitrijs2005/studysync/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "15m" strings
// or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	PresignExpiry               timex.Duration `json:"presign_expiry"`
}

// parseJson overlays config with the JSON file named by -c or -config.
// Keys absent from the file keep their current values. Read and decode
// errors panic.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{
		EndpointAddrGRPC:            config.EndpointAddrGRPC,
		DatabaseDSN:                 config.DatabaseDSN,
		SecretKey:                   config.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: config.AccessTokenValidityDuration},
		S3RootUser:                  config.S3RootUser,
		S3RootPassword:              config.S3RootPassword,
		S3Bucket:                    config.S3Bucket,
		S3Region:                    config.S3Region,
		S3BaseEndpoint:              config.S3BaseEndpoint,
		PresignExpiry:               timex.Duration{Duration: config.PresignExpiry},
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.PresignExpiry = c.PresignExpiry.Duration
}
