package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/studysync/internal/buildinfo"
	"github.com/dmitrijs2005/studysync/internal/flagx"
	"github.com/dmitrijs2005/studysync/internal/logging"
	"github.com/dmitrijs2005/studysync/internal/server"
	"github.com/dmitrijs2005/studysync/internal/server/auth"
	"github.com/dmitrijs2005/studysync/internal/server/config"
)

// issueOwner returns the owner given with -issue, or "" when the flag is
// absent.
func issueOwner(args []string) string {
	var owner string
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&owner, "issue", "", "print a development access token for this owner and exit")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-issue", "--issue"}))
	return owner
}

func main() {
	cfg := config.LoadConfig()

	if owner := issueOwner(os.Args[1:]); owner != "" {
		token, err := auth.GenerateToken(owner, []byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
		if err != nil {
			log.Fatalf("issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
