// Command ingest onboards a single player from the command line and exits
// non-zero when the run does not succeed.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/MahdiRahman4/CodeJam2025/internal/domain"
	fxmodules "github.com/MahdiRahman4/CodeJam2025/internal/fx"
	"github.com/MahdiRahman4/CodeJam2025/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	handleFlag := flag.String("handle", "", `Riot ID as "name#tag"`)
	name := flag.String("name", "", "game name (alternative to -handle)")
	tag := flag.String("tag", "", "tag line (alternative to -handle)")
	minMatches := flag.Int("min", 0, "minimum valid matches required (0 = configured default)")
	flag.Parse()

	handle := domain.PlayerHandle{GameName: *name, TagLine: *tag}
	if *handleFlag != "" {
		parsed, err := domain.ParseHandle(*handleFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		handle = parsed
	}
	if handle.GameName == "" || handle.TagLine == "" {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(handle, *minMatches))
}

func run(handle domain.PlayerHandle, minMatches int) int {
	var (
		svc    *service.IngestionService
		db     *sql.DB
		logger zerolog.Logger
	)
	app := fx.New(
		fxmodules.Module,
		fx.NopLogger,
		fx.Populate(&svc, &db, &logger),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		return 1
	}

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing database connection")
		}
		_ = app.Stop(context.Background())
	}()

	result := svc.Ingest(ctx, handle.GameName, handle.TagLine, minMatches)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error().Err(err).Msg("failed to write result")
	}
	if !result.Success {
		return 1
	}
	return 0
}
