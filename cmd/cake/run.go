package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/cakehq/cake/internal/config"
	"github.com/cakehq/cake/internal/logger"
	"github.com/cakehq/cake/internal/store"
	"github.com/cakehq/cake/internal/worker"
	"github.com/cakehq/cake/internal/worker/distributed"
)

var (
	runState            string
	runRuntime          float64
	runTimeout          float64
	runCheckoutDelay    float64
	runCheckoutNumTries int
	runPoolSize         int
	runDistributed      bool
	runSpawnMaster      bool
	runMasterInternal   bool
	runStopTime         float64
	runSilent           bool
)

var runCmd = &cobra.Command{
	Use:   "run DBPATH",
	Short: "Run tasks from the store until drained, paused, or time exhausted",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runWorker(args[0], nil)
	},
}

var retryCmd = &cobra.Command{
	Use:   "retry DBPATH",
	Short: "Equivalent to run --state failed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		failed := store.StateFailed
		runWorker(args[0], &failed)
	},
}

func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&runState, "state", "", "restrict checkout to this task state")
	cmd.Flags().Float64Var(&runRuntime, "runtime", 0, "total wall-clock budget in seconds (0 = unbounded)")
	cmd.Flags().Float64Var(&runTimeout, "timeout", 0, "store lock acquisition timeout in seconds")
	cmd.Flags().Float64Var(&runCheckoutDelay, "task-checkout-delay", 0, "delay between checkout retries in seconds")
	cmd.Flags().IntVar(&runCheckoutNumTries, "task-checkout-num-tries", 0, "number of checkout attempts before giving up")
	cmd.Flags().IntVarP(&runPoolSize, "n", "n", 1, "local worker pool size")
	cmd.Flags().BoolVar(&runDistributed, "distributed", false, "use the distributed message-passing worker")
	cmd.Flags().BoolVar(&runSpawnMaster, "spawn-master", false, "in distributed mode, also spawn the master role in this process")
	cmd.Flags().BoolVar(&runMasterInternal, "master", false, "internal: run as the distributed master rank")
	cmd.Flags().MarkHidden("master")
	cmd.Flags().Float64Var(&runStopTime, "stoptime", 300, "seconds before the runtime deadline to stop admitting new tasks")
	cmd.Flags().BoolVar(&runSilent, "silent", false, "suppress per-task log lines")
}

func init() {
	registerRunFlags(runCmd)
	registerRunFlags(retryCmd)
}

func runWorker(path string, state *store.State) {
	if runState != "" {
		parsed, ok := store.ParseState(runState)
		if !ok {
			exitWithError("invalid --state", fmt.Errorf("%q is not a legal task state", runState))
		}
		state = &parsed
	}

	ctx := context.Background()
	s, err := openStore(ctx, path, runTimeout, runCheckoutDelay, runCheckoutNumTries)
	if err != nil {
		exitWithError("failed to open store", err)
	}
	defer s.Close(ctx)

	cfg := worker.Config{
		Runtime:  time.Duration(runRuntime * float64(time.Second)),
		StopTime: time.Duration(runStopTime * float64(time.Second)),
		LeftFrac: 0.5,
		Silent:   runSilent,
	}

	if runDistributed {
		runDistributedWorker(ctx, s, state, cfg)
		return
	}

	var runner worker.Runner
	if runPoolSize > 1 {
		runner = worker.NewPool(s, cfg, runPoolSize)
	} else {
		runner = worker.NewSerial(s, cfg)
	}

	if err := runner.Run(ctx, state); err != nil {
		exitWithError("worker run failed", err)
	}
}

const distributedMasterRank = "master"
const rankTTL = 15 * time.Second

// runDistributedWorker selects the distributed master or worker role and
// runs it to completion against the Redis-backed transport of
// SPEC_FULL.md §4.6. --master (hidden) selects the master role directly;
// otherwise this process is a worker rank, optionally also running the
// master role in-process when --spawn-master is set ("the master may be
// spawned dynamically by an initial worker process and then merged into a
// shared communicator").
func runDistributedWorker(ctx context.Context, s *store.Store, state *store.State, cfg worker.Config) {
	appCfg, err := config.Load()
	if err != nil {
		exitWithError("failed to load configuration", err)
	}

	client, err := distributed.NewRedisClient(appCfg.Redis)
	if err != nil {
		exitWithError("failed to connect to distributed transport", err)
	}
	defer client.Close()

	keyPrefix := appCfg.Distributed.StreamPrefix
	registry := distributed.NewRegistry(client, keyPrefix)

	if runMasterInternal {
		if err := runMaster(ctx, s, state, cfg, client, registry, keyPrefix); err != nil {
			exitWithError("distributed master failed", err)
		}
		return
	}

	if runSpawnMaster {
		go func() {
			if err := runMaster(ctx, s, state, cfg, client, registry, keyPrefix); err != nil {
				logger.Error().Err(err).Msg("spawned distributed master failed")
			}
		}()
	}

	if err := runWorkerRank(ctx, client, registry, keyPrefix); err != nil {
		exitWithError("distributed worker failed", err)
	}
}

func runMaster(ctx context.Context, s *store.Store, state *store.State, cfg worker.Config,
	client *redis.Client, registry *distributed.Registry, keyPrefix string) error {
	channel := distributed.NewRedisChannel(client, keyPrefix, distributedMasterRank)
	defer channel.Close()

	if err := registry.Register(ctx, distributedMasterRank, rankTTL); err != nil {
		return fmt.Errorf("register master rank: %w", err)
	}
	defer registry.Deregister(context.Background(), distributedMasterRank)

	// Give worker ranks a brief window to register before the admit loop
	// starts sending them work.
	time.Sleep(500 * time.Millisecond)

	known, err := registry.Ranks(ctx)
	if err != nil {
		return fmt.Errorf("list worker ranks: %w", err)
	}
	var workerRanks []string
	for _, r := range known {
		if r != distributedMasterRank {
			workerRanks = append(workerRanks, r)
		}
	}

	master := &distributed.Master{
		Store:    s,
		Channel:  channel,
		Ranks:    workerRanks,
		Runtime:  cfg.Runtime,
		StopTime: cfg.StopTime,
		LeftFrac: cfg.LeftFrac,
		Silent:   cfg.Silent,
	}
	return master.Run(ctx, state)
}

func runWorkerRank(ctx context.Context, client *redis.Client, registry *distributed.Registry, keyPrefix string) error {
	rank := uuid.NewString()
	channel := distributed.NewRedisChannel(client, keyPrefix, rank)
	defer channel.Close()

	if err := registry.Register(ctx, rank, rankTTL); err != nil {
		return fmt.Errorf("register worker rank: %w", err)
	}
	defer registry.Deregister(context.Background(), rank)

	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	go refreshRankRegistration(refreshCtx, registry, rank)

	w := &distributed.Worker{Rank: rank, MasterRank: distributedMasterRank, Channel: channel}
	return w.Run(ctx)
}

func refreshRankRegistration(ctx context.Context, registry *distributed.Registry, rank string) {
	ticker := time.NewTicker(rankTTL / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = registry.Register(ctx, rank, rankTTL)
		}
	}
}
