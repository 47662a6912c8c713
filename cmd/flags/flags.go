package flags

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ruteri/ccip-gateway/api"
	"github.com/ruteri/ccip-gateway/common"
	"github.com/urfave/cli/v2"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String(LogServiceFlag.Name)

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger) *api.HTTPServerConfig {
	drainDuration := time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second
	shutdownDuration := time.Duration(cCtx.Int64(ShutdownSecondsFlag.Name)) * time.Second

	return &api.HTTPServerConfig{
		ListenAddr:               cCtx.String(ListenAddrFlag.Name),
		MetricsAddr:              cCtx.String(MetricsAddrFlag.Name),
		AdminAddr:                cCtx.String(AdminAddrFlag.Name),
		AdminToken:               cCtx.String(AdminTokenFlag.Name),
		Log:                      logger,
		EnablePprof:              cCtx.Bool(PprofFlag.Name),
		DrainDuration:            drainDuration,
		GracefulShutdownDuration: shutdownDuration,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

var RpcAddrFlag = &cli.StringFlag{
	Name:    "rpc-addr",
	Value:   "http://127.0.0.1:8545",
	EnvVars: []string{"PROVIDER_URL", "RPC_ADDR"},
	Usage:   "address of the chain RPC hosting the records contracts",
}

var ListenAddrFlag = &cli.StringFlag{
	Name:    "listen-addr",
	Value:   "127.0.0.1:8080",
	EnvVars: []string{"LISTEN_ADDR"},
	Usage:   "address to listen on for gateway requests",
}

var PrivateKeyFlag = &cli.StringFlag{
	Name:    "private-key",
	EnvVars: []string{"PRIVATE_KEY"},
	Usage:   "hex-encoded secp256k1 key signing gateway responses",
}

var VaultAddrFlag = &cli.StringFlag{
	Name:    "vault-addr",
	EnvVars: []string{"VAULT_ADDR"},
	Usage:   "Vault server to load the signing key from when --private-key is not set",
}
var VaultTokenFlag = &cli.StringFlag{
	Name:    "vault-token",
	EnvVars: []string{"VAULT_TOKEN"},
	Usage:   "Vault token",
}
var VaultMountFlag = &cli.StringFlag{
	Name:  "vault-mount",
	Value: "secret",
	Usage: "KV v2 mount holding the signing key",
}
var VaultKeyPathFlag = &cli.StringFlag{
	Name:  "vault-key-path",
	Value: "ccip-gateway/signer",
	Usage: "path of the signing key secret within the mount",
}
var VaultKeyFieldFlag = &cli.StringFlag{
	Name:  "vault-key-field",
	Value: "private_key",
	Usage: "field of the secret holding the hex key",
}

var TLDConfigFlag = &cli.StringSliceFlag{
	Name:    "tld-config",
	EnvVars: []string{"SUPPORTED_TLD_PATH"},
	Usage:   "TLD configuration location (file path, file://, s3://, ipfs:// or vault://), tried in order",
}

var NativeCoinTypeFlag = &cli.Uint64Flag{
	Name:  "native-coin-type",
	Value: 643,
	Usage: "SLIP-44 coin type answered from the records contract's resolver address",
}

var AdminAddrFlag = &cli.StringFlag{
	Name:  "admin-addr",
	Usage: "address to listen on for the TLD admin API; disabled when empty",
}
var AdminTokenFlag = &cli.StringFlag{
	Name:    "admin-token",
	EnvVars: []string{"ADMIN_TOKEN"},
	Usage:   "bearer token required by the admin API",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}
var LogServiceFlag = &cli.StringFlag{
	Name:  "log-service",
	Value: "ccip-gateway",
	Usage: "add 'service' tag to logs",
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}
var ShutdownSecondsFlag = &cli.Int64Flag{
	Name:  "shutdown-seconds",
	Value: 30,
	Usage: "seconds to wait for in-flight requests on shutdown",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics",
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	LogServiceFlag,
	PprofFlag,
	DrainSecondsFlag,
	ShutdownSecondsFlag,
	MetricsAddrFlag,
}
