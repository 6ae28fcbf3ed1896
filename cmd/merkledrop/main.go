package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/inkdrop-labs/merkledrop-go/pkg/config"
	"github.com/inkdrop-labs/merkledrop-go/pkg/distribution"
	"github.com/inkdrop-labs/merkledrop-go/pkg/merkle"
)

func main() {
	app := &cli.App{
		Name:  "merkledrop",
		Usage: "Merkle airdrop distribution artifact generator",
		Description: `Generates the claim material for a merkle airdrop campaign.

Given a CSV list of (address, amount) entitlements, merkledrop builds the
merkle tree the on-chain airdrop contract verifies against and emits a
single artifact containing the root, the total supply to fund, and every
recipient's proof. The artifact is deterministic: the same list always
produces the same bytes, so the root can be re-derived and audited
independently.`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Value:   config.DefaultInputPath,
				Usage:   "CSV distribution list (header: address,amount)",
				EnvVars: []string{config.EnvMerkledropInput},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   config.DefaultOutputPath,
				Usage:   "Path for the artifact JSON",
				EnvVars: []string{config.EnvMerkledropOutput},
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Parallel proof generation workers (0 = number of CPUs)",
				EnvVars: []string{config.EnvMerkledropWorkers},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvMerkledropVerbose},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Build the distribution artifact from the input list",
				Action: runGenerate,
			},
			{
				Name:      "verify",
				Usage:     "Re-derive the tree from an artifact and check its root and proofs",
				ArgsUsage: "[artifact.json]",
				Action:    runVerify,
			},
			{
				Name:   "root",
				Usage:  "Print only the merkle root for the input list",
				Action: runRoot,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func parseConfig(c *cli.Context) (*config.GeneratorConfig, error) {
	cfg := &config.GeneratorConfig{
		InputPath:  c.String("input"),
		OutputPath: c.String("output"),
		Workers:    c.Int("workers"),
		Verbose:    c.Bool("verbose"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runGenerate(c *cli.Context) error {
	cfg, err := parseConfig(c)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	allocations, err := distribution.ReadAllocations(cfg.InputPath)
	if err != nil {
		return err
	}

	pipeline := distribution.NewPipeline(logger, cfg.Workers)
	artifact, err := pipeline.Generate(allocations)
	if err != nil {
		return err
	}

	if err := distribution.WriteArtifact(cfg.OutputPath, artifact); err != nil {
		return err
	}

	logger.Info("artifact written",
		zap.String("path", cfg.OutputPath),
		zap.Int("recipients", len(artifact.Leaves)))
	fmt.Printf("root: %s\n", artifact.Root.Hex())
	fmt.Printf("totalSupply: %s\n", artifact.TotalSupply)
	fmt.Printf("recipients: %d\n", len(artifact.Leaves))

	return nil
}

func runVerify(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = c.String("output")
	}

	artifact, err := distribution.LoadArtifact(path)
	if err != nil {
		return err
	}

	if err := distribution.VerifyArtifact(artifact); err != nil {
		return fmt.Errorf("artifact %s failed verification: %w", path, err)
	}

	fmt.Printf("artifact OK: root %s, %d recipients, totalSupply %s\n",
		artifact.Root.Hex(), len(artifact.Leaves), artifact.TotalSupply)

	return nil
}

func runRoot(c *cli.Context) error {
	cfg, err := parseConfig(c)
	if err != nil {
		return err
	}

	allocations, err := distribution.ReadAllocations(cfg.InputPath)
	if err != nil {
		return err
	}

	leaves := make([][32]byte, len(allocations))
	for i, alloc := range allocations {
		leaf, err := merkle.HashLeaf(alloc.Recipient, alloc.Amount)
		if err != nil {
			return fmt.Errorf("leaf %d (%s): %w", i, alloc.Recipient.Hex(), err)
		}
		leaves[i] = leaf
	}

	tree, err := merkle.BuildMerkleTree(leaves)
	if err != nil {
		return err
	}

	fmt.Println(common.Hash(tree.Root).Hex())

	return nil
}
