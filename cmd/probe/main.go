// probe is an ops smoke check: it logs in with PROBE_EMAIL/PROBE_PASSWORD and
// hits every endpoint the console depends on, concurrently, reporting
// per-endpoint health. Without credentials it only probes the public surface.
package main

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_manager/internal/adapters/backend"
	"hotel_manager/internal/adapters/observability"
	"hotel_manager/internal/shared"
)

type check struct {
	name string
	run  func(ctx context.Context) error
}

func main() {
	_ = godotenv.Load()
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger("probe", cfg.AppEnv)
	log.Info().Str("base", cfg.BackendBase).Int("workers", cfg.ProbeWorkers).Msg("probe starting")

	client, err := backend.New(cfg.BackendBase, cfg.BackendRPS, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("backend client init failed")
	}

	checks := []check{
		{"hotels-public", func(ctx context.Context) error {
			_, err := client.PublicHotels(ctx)
			return err
		}},
	}

	var token string
	if cfg.ProbeEmail != "" && cfg.ProbePassword != "" {
		sess, err := client.Login(ctx, cfg.ProbeEmail, cfg.ProbePassword)
		if err != nil {
			log.Fatal().Err(err).Msg("probe login failed")
		}
		token = sess.Token
		log.Info().Str("user", sess.User.Email).Msg("probe login ok")

		checks = append(checks,
			check{"user", func(ctx context.Context) error {
				_, err := client.CurrentUser(ctx, token)
				return err
			}},
			check{"my-hotels", func(ctx context.Context) error {
				_, err := client.MyHotels(ctx, token)
				return err
			}},
		)
		for _, path := range []string{"/forms", "/messages", "/users", "/emails", "/entities"} {
			path := path
			checks = append(checks, check{path, func(ctx context.Context) error {
				_, err := client.Count(ctx, token, path)
				return err
			}})
		}
	} else {
		log.Warn().Msg("PROBE_EMAIL/PROBE_PASSWORD not set, probing public endpoints only")
	}

	sem := semaphore.NewWeighted(int64(cfg.ProbeWorkers))
	var wg sync.WaitGroup
	var failures int32

	for _, c := range checks {
		c := c

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			if err := c.run(ctx); err != nil {
				atomic.AddInt32(&failures, 1)
				log.Warn().Str("check", c.name).Err(err).Msg("probe failed")
				return
			}
			log.Info().Str("check", c.name).Msg("probe ok")
		}()
	}

	wg.Wait()
	if n := atomic.LoadInt32(&failures); n > 0 {
		log.Error().Int32("failures", n).Msg("probe completed with failures")
		os.Exit(1)
	}
	log.Info().Msg("probe completed")
}
