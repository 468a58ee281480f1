// Command createadmin seeds an active admin account. Run it once after the
// first deployment. It is a no-op when the e-mail already belongs to an active
// admin and exits non-zero when it belongs to anyone else.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"smsportal/internal/config"
	"smsportal/internal/logger"
	"smsportal/internal/models"
	"smsportal/internal/repositories"
	"smsportal/internal/services"
)

var errNotAdmin = errors.New("e-mail belongs to an account that is not an active admin")

func main() {
	email := flag.String("email", "admin@example.com", "admin e-mail")
	password := flag.String("password", "", "admin password (or ADMIN_PASSWORD)")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	if *password == "" {
		log.Fatal().Msg("[createadmin] password is required: pass -password or set ADMIN_PASSWORD")
	}

	db, err := repositories.Open(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("[createadmin] open database")
	}
	defer db.Close()

	accountRepo := repositories.NewAccountRepository(db)
	auth := services.NewAuthService(accountRepo, cfg.Auth.BcryptCost)
	accounts := services.NewAccountService(accountRepo, auth, nil, nil, nil, cfg.Server.BaseURL, cfg.Twilio.Region)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seed(ctx, accounts, *email, *password); err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("[createadmin] failed")
	}
}

func seed(ctx context.Context, accounts services.AccountService, email, password string) error {
	acc, err := accounts.SeedAdmin(ctx, email, password)
	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		if acc == nil || acc.Role != models.RoleAdmin || !acc.IsActive {
			return errNotAdmin
		}
		log.Info().Str("email", acc.Email).Int("account_id", acc.ID).Msg("[createadmin] admin already exists")
		return nil
	case err != nil:
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info().Str("email", acc.Email).Int("account_id", acc.ID).Msg("[createadmin] admin created")
	return nil
}
