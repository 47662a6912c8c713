package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ruteri/ccip-gateway/api/clients"
	"github.com/urfave/cli/v2"
)

var flagGatewayAddr *cli.StringFlag = &cli.StringFlag{
	Name:  "gateway-addr",
	Value: "http://127.0.0.1:8080",
	Usage: "Gateway base URL",
}
var flagSender *cli.StringFlag = &cli.StringFlag{
	Name:     "sender",
	Required: true,
	Usage:    "Resolver contract address the request is made on behalf of",
}
var flagSigner *cli.StringFlag = &cli.StringFlag{
	Name:     "signer",
	Required: true,
	Usage:    "Address the gateway is expected to sign with",
}
var flagName *cli.StringFlag = &cli.StringFlag{
	Name:     "name",
	Required: true,
	Usage:    "ENS name to resolve, e.g. alice.azero",
}
var flagPost *cli.BoolFlag = &cli.BoolFlag{
	Name:  "post",
	Usage: "Use the POST form of the request",
}
var flagKey *cli.StringFlag = &cli.StringFlag{
	Name:     "key",
	Required: true,
	Usage:    "Text record key",
}
var flagCoinType *cli.Uint64Flag = &cli.Uint64Flag{
	Name:  "coin-type",
	Value: 60,
	Usage: "SLIP-44 coin type",
}

func main() {
	app := &cli.App{
		Name:  "gateway client",
		Usage: "Query a CCIP-Read gateway and verify the signed answer",
		Flags: []cli.Flag{flagGatewayAddr, flagSender, flagSigner, flagName, flagPost},
		Commands: []*cli.Command{
			{
				Name:  "text",
				Usage: "Resolve a text record",
				Flags: []cli.Flag{flagKey},
				Action: func(cCtx *cli.Context) error {
					c, err := NewClient(cCtx)
					if err != nil {
						return err
					}
					value, err := c.gateway.ResolveText(cCtx.Context, c.sender, c.signer, c.name, cCtx.String(flagKey.Name))
					if err != nil {
						return err
					}
					return printResult(value)
				},
			},
			{
				Name:  "addr",
				Usage: "Resolve an address; with --coin-type, the multichain form",
				Flags: []cli.Flag{flagCoinType},
				Action: func(cCtx *cli.Context) error {
					c, err := NewClient(cCtx)
					if err != nil {
						return err
					}
					if !cCtx.IsSet(flagCoinType.Name) {
						addr, err := c.gateway.ResolveAddr(cCtx.Context, c.sender, c.signer, c.name)
						if err != nil {
							return err
						}
						return printResult(addr.Hex())
					}

					coinType := new(big.Int).SetUint64(cCtx.Uint64(flagCoinType.Name))
					value, err := c.gateway.ResolveAddrMultichain(cCtx.Context, c.sender, c.signer, c.name, coinType)
					if err != nil {
						return err
					}
					return printResult(hexutil.Encode(value))
				},
			},
			{
				Name:  "contenthash",
				Usage: "Resolve the content hash",
				Action: func(cCtx *cli.Context) error {
					c, err := NewClient(cCtx)
					if err != nil {
						return err
					}
					value, err := c.gateway.ResolveContentHash(cCtx.Context, c.sender, c.signer, c.name)
					if err != nil {
						return err
					}
					return printResult(hexutil.Encode(value))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type Client struct {
	gateway *clients.GatewayClient
	sender  common.Address
	signer  common.Address
	name    string
}

func NewClient(cCtx *cli.Context) (*Client, error) {
	sender := cCtx.String(flagSender.Name)
	if !common.IsHexAddress(sender) {
		return nil, fmt.Errorf("could not parse sender address %q", sender)
	}
	signer := cCtx.String(flagSigner.Name)
	if !common.IsHexAddress(signer) {
		return nil, fmt.Errorf("could not parse signer address %q", signer)
	}

	gatewayClient := clients.NewGatewayClient(cCtx.String(flagGatewayAddr.Name))
	gatewayClient.UsePost = cCtx.Bool(flagPost.Name)

	return &Client{
		gateway: gatewayClient,
		sender:  common.HexToAddress(sender),
		signer:  common.HexToAddress(signer),
		name:    cCtx.String(flagName.Name),
	}, nil
}

func printResult(value string) error {
	encoded, err := json.Marshal(map[string]string{"result": value})
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
