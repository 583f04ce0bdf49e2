package redis_client

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/transitview/transitview/pkg/util"
)

var Client *redis.Client

const defaultConnectionPassword = ""
const defaultDatabase = 0

// Connect sets up the shared redis client. Redis is optional - without an
// address configured the session shape cache just stays in memory
func Connect() error {
	env := util.GetEnvironmentVariables()

	address := env["TRANSITVIEW_REDIS_ADDRESS"]
	if address == "" {
		log.Info().Msg("Skipping Redis setup")
		return nil
	}

	password := defaultConnectionPassword
	database := defaultDatabase

	if env["TRANSITVIEW_REDIS_PASSWORD"] != "" {
		password = env["TRANSITVIEW_REDIS_PASSWORD"]
	}

	if env["TRANSITVIEW_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["TRANSITVIEW_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	statusCmd := Client.Ping(context.Background())
	err := statusCmd.Err()
	if err != nil {
		return err
	}

	return nil
}
