package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ruteri/ccip-gateway/api/clients"
	"github.com/urfave/cli/v2"
)

var flagAdminServer *cli.StringFlag = &cli.StringFlag{
	Name:  "admin-server-addr",
	Value: "http://127.0.0.1:8081",
	Usage: "Gateway admin API address",
}
var flagAdminToken *cli.StringFlag = &cli.StringFlag{
	Name:    "admin-token",
	EnvVars: []string{"ADMIN_TOKEN"},
	Usage:   "Bearer token configured on the gateway",
}
var flagContract *cli.StringFlag = &cli.StringFlag{
	Name:     "contract",
	Required: true,
	Usage:    "Records contract address, 0x-prefixed hex",
}

func main() {
	app := &cli.App{
		Name:           "admin client",
		Usage:          "Manage the TLD table of a running gateway",
		Flags:          []cli.Flag{flagAdminServer, flagAdminToken},
		DefaultCommand: "list",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print the configured TLDs",
				Action: func(cCtx *cli.Context) error {
					tlds, err := newClient(cCtx).ListTLDs(cCtx.Context)
					if err != nil {
						return err
					}
					return printTLDs(tlds)
				},
			},
			{
				Name:      "set",
				Usage:     "Set the records contract of a TLD",
				ArgsUsage: "<tld>",
				Flags:     []cli.Flag{flagContract},
				Action: func(cCtx *cli.Context) error {
					tld := cCtx.Args().First()
					if tld == "" {
						return fmt.Errorf("tld argument is required")
					}
					contract := cCtx.String(flagContract.Name)
					if !common.IsHexAddress(contract) {
						return fmt.Errorf("invalid contract address %q", contract)
					}
					return newClient(cCtx).SetTLD(cCtx.Context, tld, common.HexToAddress(contract))
				},
			},
			{
				Name:      "delete",
				Usage:     "Remove a TLD",
				ArgsUsage: "<tld>",
				Action: func(cCtx *cli.Context) error {
					tld := cCtx.Args().First()
					if tld == "" {
						return fmt.Errorf("tld argument is required")
					}
					return newClient(cCtx).DeleteTLD(cCtx.Context, tld)
				},
			},
			{
				Name:  "reload",
				Usage: "Re-read the TLD configuration from storage",
				Action: func(cCtx *cli.Context) error {
					tlds, err := newClient(cCtx).Reload(cCtx.Context)
					if err != nil {
						return err
					}
					return printTLDs(tlds)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newClient(cCtx *cli.Context) *clients.AdminClient {
	return clients.NewAdminClient(cCtx.String(flagAdminServer.Name), cCtx.String(flagAdminToken.Name))
}

func printTLDs(tlds map[string]common.Address) error {
	encoded, err := json.MarshalIndent(tlds, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
