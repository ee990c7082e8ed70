package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"escrow-broker.backend/internal/config"
	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/internal/infrastructure/datasources/postgres"
	"escrow-broker.backend/internal/infrastructure/repositories"
	"escrow-broker.backend/internal/usecases"
)

type promoter interface {
	PromoteByEmail(ctx context.Context, email string) (*entities.User, error)
}

type promoteDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (promoter, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultPromoteDeps() promoteDeps {
	return promoteDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (promoter, io.Closer, error) {
			sqlDB, err := postgres.NewConnection(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			db, err := postgres.NewGormDB(sqlDB, cfg.Server.Env)
			if err != nil {
				_ = sqlDB.Close()
				return nil, nil, err
			}
			return usecases.NewUserUsecase(repositories.NewUserRepository(db)), sqlDB, nil
		},
		out: os.Stdout,
	}
}

func runPromoteAdmin(args []string, deps promoteDeps) error {
	def := defaultPromoteDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("promote-admin", flag.ContinueOnError)
	emailFlag := fs.String("email", "", "email of a registered user (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *emailFlag == "" {
		return fmt.Errorf("--email is required")
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	runtime, closer, err := deps.prepare(deps.loadCfg())
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	user, err := runtime.PromoteByEmail(context.Background(), *emailFlag)
	if err != nil {
		return fmt.Errorf("failed to promote %s: %w", *emailFlag, err)
	}

	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", user.ID)
	_, _ = fmt.Fprintf(deps.out, "email=%s\n", user.Email)
	_, _ = fmt.Fprintf(deps.out, "role=%s\n", user.Role)
	return nil
}

func main() {
	if err := runPromoteAdmin(os.Args[1:], defaultPromoteDeps()); err != nil {
		log.Fatal(err)
	}
}
