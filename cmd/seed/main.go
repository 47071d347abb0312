// seed carga cajas y usuarios desde un fixture JSON en PostgreSQL (aplica las
// migraciones antes) e imprime un token JWT por usuario para probar la API.
//
// Uso: go run ./cmd/seed [-charset iso-8859-1] [-tokens=false] fixtures/cajas.json
// La conexión y el secreto JWT se leen de la misma configuración que cmd/api.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cajas-api/internal/infrastructure/fixture"
	"github.com/jhoicas/cajas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cajas-api/pkg/config"
	pkgjwt "github.com/jhoicas/cajas-api/pkg/jwt"
	"github.com/jhoicas/cajas-api/pkg/logger"
)

func main() {
	charset := flag.String("charset", "utf-8", "codificación del fixture (utf-8 | iso-8859-1)")
	tokens := flag.Bool("tokens", true, "imprimir un JWT por usuario")
	flag.Parse()

	path := "fixtures/cajas.json"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	if err := run(path, *charset, *tokens); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(path, charset string, printTokens bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "cajas-seed"})

	f, err := fixture.Load(path, charset)
	if err != nil {
		return err
	}

	if err := postgres.Migrate(cfg.DB, log); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Todo el fixture en una transacción: o se carga completo o no se carga.
	var nBoxes, nUsers int
	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		var err error
		nBoxes, nUsers, err = f.Apply(ctx, postgres.NewSeedSink(tx))
		return err
	})
	if err != nil {
		return err
	}
	log.Info().Str("file", path).Int("boxes", nBoxes).Int("users", nUsers).Msg("fixture cargado")

	if !printTokens {
		return nil
	}
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET vacío: no se pueden emitir tokens")
	}
	_, users, err := f.Entities(time.Now())
	if err != nil {
		return err
	}
	for _, u := range users {
		tok, err := pkgjwt.Generate(cfg.JWT.Secret, u.ID, string(u.Role), cfg.JWT.Issuer, cfg.JWT.Expiration)
		if err != nil {
			return fmt.Errorf("token %s: %w", u.ID, err)
		}
		fmt.Printf("%s\t%s\t%s\n", u.ID, u.Role, tok)
	}
	return nil
}
