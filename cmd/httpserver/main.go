package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ruteri/ccip-gateway/cmd/flags"
	"github.com/ruteri/ccip-gateway/gateway"
	"github.com/ruteri/ccip-gateway/httpserver"
	"github.com/ruteri/ccip-gateway/interfaces"
	"github.com/ruteri/ccip-gateway/kms"
	"github.com/ruteri/ccip-gateway/multicoin"
	"github.com/ruteri/ccip-gateway/registry"
	"github.com/ruteri/ccip-gateway/storage"
	"github.com/urfave/cli/v2"
)

var flagList = append([]cli.Flag{
	flags.RpcAddrFlag,
	flags.ListenAddrFlag,
	flags.PrivateKeyFlag,
	flags.VaultAddrFlag,
	flags.VaultTokenFlag,
	flags.VaultMountFlag,
	flags.VaultKeyPathFlag,
	flags.VaultKeyFieldFlag,
	flags.TLDConfigFlag,
	flags.NativeCoinTypeFlag,
	flags.AdminAddrFlag,
	flags.AdminTokenFlag,
}, flags.CommonFlags...)

func main() {
	app := &cli.App{
		Name:  "ccip-gateway",
		Usage: "Serve signed CCIP-Read responses for ENS names backed by records contracts",
		Flags: flagList,
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)
			ctx := cCtx.Context

			signer, err := loadSigner(cCtx, logger)
			if err != nil {
				logger.Error("Failed to load signing key", "err", err)
				return err
			}
			logger.Info("Signing with address", "address", signer.Address().Hex())

			// Load the TLD table
			locations := cCtx.StringSlice(flags.TLDConfigFlag.Name)
			if len(locations) == 0 {
				return errors.New("at least one --tld-config location is required")
			}

			storageFactory := storage.NewStorageBackendFactory(logger)
			tldLocations := make([]interfaces.StorageBackendLocation, len(locations))
			for i, location := range locations {
				tldLocations[i] = interfaces.StorageBackendLocation(location)
			}
			tldBackend, err := storageFactory.CreateMultiBackend(tldLocations)
			if err != nil {
				logger.Error("Failed to create TLD configuration backend", "err", err)
				return err
			}

			loadTLDs := func(ctx context.Context) (map[string]common.Address, error) {
				return registry.FetchTLDConfig(ctx, tldBackend)
			}

			initialTLDs, err := loadTLDs(ctx)
			if err != nil {
				logger.Error("Failed to load TLD configuration", "err", err)
				return err
			}
			tlds := registry.NewTLDTable(initialTLDs)
			logger.Info("Loaded TLD configuration", "tlds", len(initialTLDs))

			// Connect to the records chain
			rpcAddress := cCtx.String(flags.RpcAddrFlag.Name)
			logger.Info("Connecting to RPC", "address", rpcAddress)
			ethClient, err := ethclient.Dial(rpcAddress)
			if err != nil {
				logger.Error("Failed to dial RPC", "err", err)
				return err
			}
			defer ethClient.Close()

			records := registry.NewRecordStore(tlds, registry.NewOnchainRecordsClient(ethClient), logger)

			engineCfg := gateway.DefaultEngineConfig()
			engineCfg.NativeCoinType = multicoin.CoinType(cCtx.Uint64(flags.NativeCoinTypeFlag.Name))
			engine := gateway.NewEngine(records, engineCfg, logger)

			cfg := flags.ConfigureServer(cCtx, logger)

			var admin *httpserver.AdminHandler
			if cfg.AdminAddr != "" {
				admin = httpserver.NewAdminHandler(logger, cfg.AdminToken, tlds, loadTLDs)
			}

			server, err := httpserver.New(cfg, engine, signer, admin)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			server.RunInBackground()

			// Wait for termination signal
			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			logger.Info("Server is running, press Ctrl+C to stop")
			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadSigner prefers an explicit private key and falls back to Vault.
func loadSigner(cCtx *cli.Context, logger *slog.Logger) (*kms.LocalSigner, error) {
	if key := cCtx.String(flags.PrivateKeyFlag.Name); key != "" {
		return kms.NewLocalSignerFromHex(key)
	}

	vaultAddr := cCtx.String(flags.VaultAddrFlag.Name)
	if vaultAddr == "" {
		return nil, fmt.Errorf("%w: set --private-key or --vault-addr", kms.ErrMissingKey)
	}

	ctx, cancel := context.WithTimeout(cCtx.Context, 30*time.Second)
	defer cancel()

	return kms.LoadVaultSigner(ctx, kms.VaultKeyConfig{
		Address:    vaultAddr,
		Token:      cCtx.String(flags.VaultTokenFlag.Name),
		MountPath:  cCtx.String(flags.VaultMountFlag.Name),
		SecretPath: cCtx.String(flags.VaultKeyPathFlag.Name),
		Field:      cCtx.String(flags.VaultKeyFieldFlag.Name),
	}, logger)
}
