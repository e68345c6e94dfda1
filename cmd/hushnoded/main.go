// Command hushnoded runs a single HushNode process: mempool, scheduler,
// block assembler, indexer, anonymous reaction subsystem, caches, and the
// metrics HTTP surface, all wired together over the shared event bus.
// Grounded on Synnergy's cmd/synnergy/main.go (cobra root command with one
// subcommand per operator action), generalised from that file's mock
// testnet/token stubs into a real node daemon.
package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/amount"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/cache"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/chain"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/indexer"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/mempool"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/metrics"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/reaction"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/scheduler"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/config"
)

var log = logrus.WithField("component", "cmd")

var (
	configPath     string
	configEnv      string
	credentialFile string
)

func main() {
	root := &cobra.Command{Use: "hushnoded"}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&configEnv, "env", "", "environment overlay name merged over --config")
	root.PersistentFlags().StringVar(&credentialFile, "credential-file", "", "path to the block producer's ECDSA key file (created if absent)")

	root.AddCommand(serveCmd())
	root.AddCommand(genesisCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the configuration schema version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.Version)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the node: mempool, scheduler, indexer, reaction subsystem, cache, metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			configureLogging(cfg.Logging.Level)

			n, err := buildNode(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			n.scheduler.Run(ctx)
			go func() {
				if err := n.metrics.Serve(ctx, fmt.Sprintf(":%d", cfg.Network.MetricsPort)); err != nil {
					log.WithError(err).Error("metrics server stopped")
				}
			}()

			log.WithField("producer_address", n.identity.ProducerAddress().String()).Info("hushnode serving")
			<-ctx.Done()
			log.Info("shutdown signal received, stopping scheduler")
			n.scheduler.Stop()
			n.bus.Close()
			return nil
		},
	}
}

func genesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genesis",
		Short: "assemble and print the genesis block, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			configureLogging(cfg.Logging.Level)

			n, err := buildNode(cfg)
			if err != nil {
				return err
			}
			block, err := n.assembler.Assemble(context.Background(), nil)
			if err != nil {
				return err
			}
			fmt.Printf("genesis block %s assembled at index %d\n", block.BlockID.String(), block.BlockIndex)
			n.bus.Close()
			return nil
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath, configEnv)
	if err != nil {
		return nil, err
	}
	if credentialFile != "" {
		cfg.Producer.CredentialFile = credentialFile
	}
	return cfg, nil
}

func configureLogging(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.JSONFormatter{})
}

// node bundles every component serveCmd/genesisCmd need to reach after
// construction.
type node struct {
	bus       *eventbus.Bus
	identity  *identity.Store
	assembler *chain.Assembler
	scheduler *scheduler.Scheduler
	metrics   *metrics.Registry
}

func buildNode(cfg *config.Config) (*node, error) {
	key, err := loadOrCreateProducerKey(cfg.Producer.CredentialFile)
	if err != nil {
		return nil, err
	}
	idStore, err := identity.NewStore(identity.StaticKeySource{Key: key})
	if err != nil {
		return nil, err
	}

	bus := eventbus.New()
	store := storage.NewMemStore()
	ledger := storage.NewLedgerView(store)
	mp := mempool.New(bus)
	for _, h := range mempool.NewHandlers(idStore, ledger) {
		mp.RegisterHandler(h)
	}

	rewardAmount, err := amount.Parse(cfg.BlockchainSettings.BlockReward)
	if err != nil {
		return nil, err
	}
	assembler := chain.New(store, mp, idStore, bus, cfg.BlockchainSettings.RewardToken, rewardAmount)

	reactionSvc, err := reaction.NewService(store, bus, cfg.BlockchainSettings.MerkleDepth)
	if err != nil {
		return nil, err
	}
	if err := loadCircuitKeys(reactionSvc.Verifier, cfg.BlockchainSettings.CircuitKeys); err != nil {
		return nil, err
	}
	indexer.NewDefault(store, bus, reactionSvc)

	if _, err := cache.New(store, bus, 4096, 4096); err != nil {
		return nil, err
	}

	ticker := scheduler.NewWallClockTicker(cfg.BlockchainSettings.TickerInterval)
	sched := scheduler.New(bus, mp, assembler, ticker, cfg.BlockchainSettings.MaxBlockSize, cfg.BlockchainSettings.MaxEmptyBlocksBeforePause)

	metricsRegistry := metrics.New(store, mp, bus)

	return &node{
		bus:       bus,
		identity:  idStore,
		assembler: assembler,
		scheduler: sched,
		metrics:   metricsRegistry,
	}, nil
}

// loadOrCreateProducerKey loads the producer's ECDSA key from path,
// generating and persisting a fresh one if the file does not exist yet
// (spec §1/§6 "credential file loading" external collaborator).
func loadOrCreateProducerKey(path string) (*ecdsa.PrivateKey, error) {
	if path == "" {
		return crypto.GenerateKey()
	}
	if key, err := crypto.LoadECDSA(path); err == nil {
		return key, nil
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := crypto.SaveECDSA(path, key); err != nil {
		return nil, err
	}
	return key, nil
}

// loadCircuitKeys reads and registers every configured Groth16 verifying
// key with verifier, mirroring loadOrCreateProducerKey's file-loading
// idiom for the anonymous reaction subsystem's circuit registry (spec
// §4.G.2, §6 "circuit key provisioning" external collaborator).
func loadCircuitKeys(verifier *reaction.Verifier, keys []config.CircuitKey) error {
	for _, ck := range keys {
		vkBytes, err := os.ReadFile(ck.Path)
		if err != nil {
			return err
		}
		state, err := reaction.ParseCircuitVersionState(ck.State)
		if err != nil {
			return err
		}
		if err := verifier.RegisterKey(ck.Version, vkBytes, state); err != nil {
			return err
		}
	}
	return nil
}
