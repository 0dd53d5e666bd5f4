package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gestaocx/acesso-api/internal/bootstrap"
)

const sessionKeyPattern = "session:*"

type sessionsPurgeOptions struct {
	DryRun bool
	Yes    bool
}

// runSessionsPurge deletes session records so every user is forced to sign
// in again, typically after a role-mapping or provider change.
func runSessionsPurge(cmdCtx *commandContext, args []string) error {
	opts, err := parseSessionsPurgeFlags(args)
	if err != nil {
		return err
	}

	if !opts.DryRun {
		if confirmErr := confirmAction(opts.Yes, "delete all active sessions from Redis"); confirmErr != nil {
			return confirmErr
		}
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	redisClient, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	cmdCtx.Logger.Info("scanning redis", "pattern", sessionKeyPattern, "dry_run", opts.DryRun)

	iter := redisClient.Scan(ctx, 0, sessionKeyPattern, 1000).Iterator()
	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if iterErr := iter.Err(); iterErr != nil {
		return fmt.Errorf("scan redis: %w", iterErr)
	}

	if len(keys) == 0 {
		return writeln(os.Stdout, "No active sessions found")
	}
	if opts.DryRun {
		return writef(os.Stdout, "Dry-run: would delete %d session(s)\n", len(keys))
	}

	var deleted int64
	for start := 0; start < len(keys); start += 100 {
		end := min(start+100, len(keys))
		n, delErr := redisClient.Del(ctx, keys[start:end]...).Result()
		if delErr != nil {
			return fmt.Errorf("delete session keys: %w", delErr)
		}
		deleted += n
	}

	cmdCtx.Logger.Info("sessions purged", "deleted", deleted)
	return writef(os.Stdout, "Deleted %d session(s)\n", deleted)
}

func parseSessionsPurgeFlags(args []string) (sessionsPurgeOptions, error) {
	fs := flag.NewFlagSet("sessions-purge", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts sessionsPurgeOptions
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print actions without executing")
	fs.BoolVar(&opts.Yes, "yes", false, "Skip confirmation prompt")

	if err := fs.Parse(args); err != nil {
		return sessionsPurgeOptions{}, err
	}
	return opts, nil
}
