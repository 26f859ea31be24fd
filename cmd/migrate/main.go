package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	_ "github.com/lib/pq"
	"github.com/limbo/habitgrid/internal/repository"
	"github.com/limbo/habitgrid/pkg/config"
	"github.com/pressly/goose"
)

type Context struct {
	DB  *sql.DB
	Dir string
}

type UpCmd struct{}

func (c *UpCmd) Run(ctx *Context) error {
	return goose.Up(ctx.DB, ctx.Dir)
}

type DownCmd struct{}

func (c *DownCmd) Run(ctx *Context) error {
	return goose.Down(ctx.DB, ctx.Dir)
}

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *Context) error {
	return goose.Status(ctx.DB, ctx.Dir)
}

var CLI struct {
	Dir string `help:"Migrations directory." type:"path" default:"./migrations"`
	DSN string `help:"Postgres connection string, built from POSTGRES_* variables when empty." env:"DATABASE_URL"`

	Up     UpCmd     `cmd:"" help:"Apply all pending migrations." default:"1"`
	Down   DownCmd   `cmd:"" help:"Roll back the latest migration."`
	Status StatusCmd `cmd:"" help:"Show migrations status."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("migrate"),
		kong.Description("Habitgrid database migrations"),
		kong.UsageOnError(),
	)

	dsn := CLI.DSN
	if dsn == "" {
		cfg := config.New()
		pgCfg := &repository.PGCfg{
			Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
			Username: cfg.GetString("POSTGRES_USER"),
			Password: cfg.GetString("POSTGRES_PASSWORD"),
			DB:       cfg.GetString("POSTGRES_DB"),
			SSLMode:  cfg.GetStringOr("POSTGRES_SSLMODE", "disable"),
		}
		dsn = pgCfg.ConnString()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	if err = goose.SetDialect("postgres"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err = ctx.Run(&Context{DB: db, Dir: CLI.Dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
