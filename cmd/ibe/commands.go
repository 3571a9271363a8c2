package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Layr-Labs/eigenx-ibe-go/pkg/authority"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/codec"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/config"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/drbg"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/ibe"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/logger"
	"github.com/Layr-Labs/eigenx-ibe-go/pkg/merkle"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var identityFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "id",
		Usage:    "Identity, e.g. an email address or a non-negative integer",
		Required: true,
	},
	&cli.StringFlag{
		Name:  "kind",
		Usage: "Identity kind: numeric, textual (default: numeric when the identity is all digits)",
	},
}

func commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "setup",
			Usage:  "Create the master secret, or restore it if one is already persisted",
			Action: setupCommand,
		},
		{
			Name:   "info",
			Usage:  "Print the public parameters",
			Action: infoCommand,
		},
		{
			Name:   "public-key",
			Usage:  "Derive the public key of an identity",
			Flags:  identityFlags,
			Action: publicKeyCommand,
		},
		{
			Name:   "private-key",
			Usage:  "Issue the private key of an identity (recorded in the issuance log)",
			Flags:  identityFlags,
			Action: privateKeyCommand,
		},
		{
			Name:  "encrypt",
			Usage: "Encrypt a message to an identity",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "data",
					Usage: "Message to encrypt (as string)",
				},
				&cli.StringFlag{
					Name:  "bits",
					Usage: "Message to encrypt as a 0/1 digit string instead of text",
				},
				&cli.Int64Flag{
					Name:  "encrypt-seed",
					Usage: "Seed for the ephemeral scalar r (testing only)",
				},
				&cli.StringFlag{
					Name:  "output",
					Usage: "Output file for the ciphertext",
				},
			}, identityFlags...),
			Action: encryptCommand,
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt a ciphertext by issuing the private key of its identity",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "input",
					Usage:    "Ciphertext file produced by encrypt",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "private-key",
					Usage: "Hex private key; skips issuance when set",
				},
			},
			Action: decryptCommand,
		},
		{
			Name:  "issuances",
			Usage: "List issued private keys and the merkle root over them",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "prove",
					Usage: "Issuance ID to print an inclusion proof for",
				},
			},
			Action: issuancesCommand,
		},
		{
			Name:  "serve",
			Usage: "Serve the authority over HTTP",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "port",
					Aliases: []string{"p"},
					Value:   8000,
					Usage:   "HTTP server port",
					EnvVars: []string{config.EnvIBEPort},
				},
			},
			Action: serveCommand,
		},
	}
}

// openService builds the logger and bootstraps the authority from flags.
func openService(c *cli.Context) (*authority.Service, *zap.Logger, error) {
	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("debug")})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	svc, err := authority.NewServiceFromConfig(c.Context, parseAuthorityConfig(c), l)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start authority: %w", err)
	}
	return svc, l, nil
}

func setupCommand(c *cli.Context) error {
	svc, l, err := openService(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()
	defer svc.Close()

	return printParams(svc)
}

func infoCommand(c *cli.Context) error {
	return setupCommand(c)
}

func printParams(svc *authority.Service) error {
	params, err := svc.Params()
	if err != nil {
		return err
	}
	curve, err := svc.Curve()
	if err != nil {
		return err
	}

	fmt.Printf("Curve:             %s (%s)\n", curve.Name, params.Engine().Name())
	fmt.Printf("Pairing:           %s\n", params.PairingKind())
	fmt.Printf("Distortion:        %s\n", params.Distortion().Name())
	fmt.Printf("Order:             %s\n", params.Order())
	fmt.Printf("Embedding degree:  %d\n", params.EmbeddingDegree())
	fmt.Printf("Generator:         %s\n", hexutil.Encode(params.Generator().Marshal()))
	fmt.Printf("Master public key: %s\n", hexutil.Encode(params.MasterPublicKey().Marshal()))
	return nil
}

func publicKeyCommand(c *cli.Context) error {
	id, err := ibe.ParseIdentityAs(c.String("id"), c.String("kind"))
	if err != nil {
		return err
	}
	svc, l, err := openService(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()
	defer svc.Close()

	pk, err := svc.PublicKey(id)
	if err != nil {
		return fmt.Errorf("failed to derive public key: %w", err)
	}
	fmt.Printf("Identity: %s (%s)\n", id, id.Kind())
	fmt.Printf("Q_ID:     %s\n", hexutil.Encode(pk.QID.Marshal()))
	fmt.Printf("P_pub:    %s\n", hexutil.Encode(pk.PPub.Marshal()))
	return nil
}

func privateKeyCommand(c *cli.Context) error {
	id, err := ibe.ParseIdentityAs(c.String("id"), c.String("kind"))
	if err != nil {
		return err
	}
	svc, l, err := openService(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()
	defer svc.Close()

	sk, record, err := svc.ExtractPrivateKey(c.Context, id)
	if err != nil {
		return fmt.Errorf("failed to issue private key: %w", err)
	}
	fmt.Printf("Identity:    %s (%s)\n", id, id.Kind())
	fmt.Printf("Issuance:    %s\n", record.ID)
	fmt.Printf("Private key: %s\n", hexutil.Encode(sk.DID.Marshal()))
	return nil
}

func encryptCommand(c *cli.Context) error {
	id, err := ibe.ParseIdentityAs(c.String("id"), c.String("kind"))
	if err != nil {
		return err
	}

	var msg codec.Bits
	text := true
	switch {
	case c.IsSet("bits") && c.IsSet("data"):
		return fmt.Errorf("--data and --bits are mutually exclusive")
	case c.IsSet("bits"):
		msg, err = codec.ParseBits(c.String("bits"))
		if err != nil {
			return err
		}
		text = false
	default:
		msg = codec.EncodeBytes([]byte(c.String("data")))
	}

	svc, l, err := openService(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()
	defer svc.Close()

	params, err := svc.Params()
	if err != nil {
		return err
	}
	curve, err := svc.Curve()
	if err != nil {
		return err
	}
	pk, err := params.PublicKey(id)
	if err != nil {
		return err
	}

	var opts []ibe.EncryptOption
	if c.IsSet("encrypt-seed") {
		opts = append(opts, ibe.WithSeed(drbg.IntSeed(c.Int64("encrypt-seed"))))
	}
	ct, err := params.Encrypt(msg, pk, opts...)
	if err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}

	out, err := encodeEnvelope(string(curve.Name), id, ct, text)
	if err != nil {
		return err
	}
	if output := c.String("output"); output != "" {
		if err := os.WriteFile(output, out, 0644); err != nil {
			return fmt.Errorf("failed to write to file: %w", err)
		}
		fmt.Printf("Ciphertext written to: %s\n", output)
		return nil
	}
	fmt.Println(string(out))
	return nil
}

func decryptCommand(c *cli.Context) error {
	data, err := os.ReadFile(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to read ciphertext: %w", err)
	}

	svc, l, err := openService(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()
	defer svc.Close()

	params, err := svc.Params()
	if err != nil {
		return err
	}
	curve, err := svc.Curve()
	if err != nil {
		return err
	}
	env, ct, err := decodeEnvelope(data, params)
	if err != nil {
		return err
	}
	if env.Curve != string(curve.Name) {
		return fmt.Errorf("ciphertext is for curve %s, authority uses %s", env.Curve, curve.Name)
	}

	var sk *ibe.PrivateKey
	if raw := c.String("private-key"); raw != "" {
		b, err := hexutil.Decode(raw)
		if err != nil {
			return fmt.Errorf("failed to decode private key: %w", err)
		}
		did, err := params.ParsePoint(b)
		if err != nil {
			return err
		}
		sk = &ibe.PrivateKey{DID: did}
	} else {
		id, err := env.identity()
		if err != nil {
			return err
		}
		sk, _, err = svc.ExtractPrivateKey(c.Context, id)
		if err != nil {
			return fmt.Errorf("failed to issue private key: %w", err)
		}
	}

	if env.Text {
		msg, err := params.DecryptText(ct, sk)
		if err != nil {
			return fmt.Errorf("failed to decrypt: %w", err)
		}
		fmt.Println(string(msg))
		return nil
	}
	bits, err := params.Decrypt(ct, sk)
	if err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}
	fmt.Println(bits.String())
	return nil
}

func issuancesCommand(c *cli.Context) error {
	svc, l, err := openService(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()
	defer svc.Close()

	records, err := svc.Issuances()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No private keys issued")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s  %s  %-8s %s\n",
			time.Unix(0, r.IssuedAt).UTC().Format(time.RFC3339), r.ID, r.Kind, r.Identity)
	}

	tree, err := svc.IssuanceTree()
	if err != nil {
		return err
	}
	fmt.Printf("Root: %s (%d issuances)\n", hexutil.Encode(tree.Root[:]), len(tree.Leaves))

	if issuanceID := c.String("prove"); issuanceID != "" {
		proof, root, err := svc.ProveIssuance(issuanceID)
		if err != nil {
			return err
		}
		fmt.Printf("Leaf %d: %s\n", proof.LeafIndex, hexutil.Encode(proof.Leaf[:]))
		for i, h := range proof.Proof {
			fmt.Printf("  sibling %d: %s\n", i, hexutil.Encode(h[:]))
		}
		fmt.Printf("Verified: %t\n", merkle.VerifyProof(proof, root))
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	svc, l, err := openService(c)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()
	defer svc.Close()

	port := c.Int("port")
	server := authority.NewServer(svc, port, l)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	l.Sugar().Infow("Available endpoints",
		"params", "GET /params",
		"pubkey", "GET /pubkey",
		"extract", "POST /extract",
		"issuances", "GET /issuances/{root,proof}")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	l.Sugar().Infow("Shutting down", "port", port)
	return server.Stop()
}
