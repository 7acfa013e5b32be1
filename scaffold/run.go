package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/logger"
	"github.com/consensys/gnark/test/unsafekzg"
	"github.com/spf13/viper"

	"github.com/plonkish-zk/scaffold/builder"
	"github.com/plonkish-zk/scaffold/checker"
	"github.com/plonkish-zk/scaffold/field"
	bn254 "github.com/plonkish-zk/scaffold/field/bn254"
)

// CircuitFn is a circuit definition: it records constraints on the builder
// from the decoded input. The same function runs unchanged in every stage.
type CircuitFn[T any] func(b *builder.Builder, input T) error

// Cli carries one resolved invocation of the scaffold.
type Cli struct {
	// mock | keygen | prove | verify
	Command string
	// circuit name, keys artifact and config files
	Name string
	// overrides config-file degree when > 0
	Degree     int
	InputPath  string
	ConfigPath string
	DataPath   string
}

// LoadConfig resolves the circuit's shape from configs/<name>.json under
// the config path, falling back to defaults, with the -k flag overriding
// the degree.
func (c *Cli) LoadConfig() (builder.Config, error) {
	v := viper.New()
	v.SetDefault("degree", 10)
	v.SetDefault("lookup_bits", 8)
	v.SetDefault("minimum_rows", 9)

	// a missing config file means defaults; a present but broken one is fatal
	path := filepath.Join(c.ConfigPath, c.Name+".json")
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return builder.Config{}, fmt.Errorf("scaffold: read config: %w", err)
		}
	}

	var cfg builder.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return builder.Config{}, fmt.Errorf("scaffold: decode config: %w", err)
	}
	if c.Degree > 0 {
		cfg.Degree = c.Degree
	}
	return cfg, nil
}

// Run executes one stage of the circuit's lifecycle. It is the single entry
// point the command binary dispatches to.
func Run[T any](fn CircuitFn[T], cli *Cli) error {
	f := field.Field(&bn254.Field{})
	cfg, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	log := logger.Logger().With().Str("circuit", cli.Name).Str("stage", cli.Command).Logger()

	// verify needs no input file, so the read happens here rather than up
	// front
	synthesize := func(stage builder.Stage) (*builder.Builder, error) {
		input, err := ReadInput[T](cli.InputPath)
		if err != nil {
			return nil, err
		}
		b, err := builder.NewBuilder(f, stage, cfg)
		if err != nil {
			return nil, err
		}
		if err := fn(b, input); err != nil {
			return nil, fmt.Errorf("scaffold: synthesize %s: %w", cli.Name, err)
		}
		if err := b.Seal(); err != nil {
			return nil, err
		}
		return b, nil
	}

	switch cli.Command {
	case "mock":
		b, err := synthesize(builder.StageMock)
		if err != nil {
			return err
		}
		if _, err := b.FitConfig(); err != nil {
			return err
		}
		if err := checker.Check(b); err != nil {
			return fmt.Errorf("scaffold: mock check failed:\n%w", err)
		}
		log.Info().Msg("mock run satisfied all constraints")
		return nil

	case "keygen":
		b, err := synthesize(builder.StageKeygen)
		if err != nil {
			return err
		}
		layout, err := b.FitConfig()
		if err != nil {
			return err
		}
		ccs, err := b.Compile()
		if err != nil {
			return err
		}
		// dev-only SRS, the trusted-setup ceremony is out of scope
		srs, srsLagrange, err := unsafekzg.NewSRS(ccs)
		if err != nil {
			return fmt.Errorf("scaffold: generate srs: %w", err)
		}
		pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
		if err != nil {
			return fmt.Errorf("scaffold: plonk setup: %w", err)
		}
		if err := writeTo(pkPath(cli.DataPath, cli.Name), pk); err != nil {
			return err
		}
		if err := writeTo(vkPath(cli.DataPath, cli.Name), vk); err != nil {
			return err
		}
		if err := builder.WritePinning(pinningPath(cli.DataPath, cli.Name), layout); err != nil {
			return err
		}
		log.Info().Int("constraints", ccs.GetNbConstraints()).Msg("wrote proving and verifying keys")
		return nil

	case "prove":
		pinned, err := builder.ReadPinning(pinningPath(cli.DataPath, cli.Name))
		if err != nil {
			return err
		}
		cfg = builder.Config{Degree: pinned.Degree, LookupBits: pinned.LookupBits, MinimumRows: cfg.MinimumRows}
		b, err := synthesize(builder.StageProver)
		if err != nil {
			return err
		}
		layout, err := b.FitConfig()
		if err != nil {
			return err
		}
		if err := layout.Validate(pinned); err != nil {
			return err
		}
		ccs, err := b.Compile()
		if err != nil {
			return err
		}
		pk, err := readProvingKey(pkPath(cli.DataPath, cli.Name))
		if err != nil {
			return err
		}
		assignment, err := b.Assignment()
		if err != nil {
			return err
		}
		fullWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
		if err != nil {
			return fmt.Errorf("scaffold: build witness: %w", err)
		}
		proof, err := plonk.Prove(ccs, pk, fullWitness)
		if err != nil {
			return fmt.Errorf("scaffold: prove: %w", err)
		}
		public, err := fullWitness.Public()
		if err != nil {
			return err
		}
		if err := writeTo(proofPath(cli.DataPath, cli.Name), proof); err != nil {
			return err
		}
		if err := writeTo(publicPath(cli.DataPath, cli.Name), public); err != nil {
			return err
		}
		log.Info().Msg("wrote proof and public inputs")
		return nil

	case "verify":
		vk, err := readVerifyingKey(vkPath(cli.DataPath, cli.Name))
		if err != nil {
			return err
		}
		proof, err := readProof(proofPath(cli.DataPath, cli.Name))
		if err != nil {
			return err
		}
		public, err := readPublicWitness(publicPath(cli.DataPath, cli.Name))
		if err != nil {
			return err
		}
		if err := plonk.Verify(proof, vk, public); err != nil {
			return fmt.Errorf("scaffold: verification failed: %w", err)
		}
		log.Info().Msg("proof verified")
		return nil

	default:
		return fmt.Errorf("scaffold: unknown command %q (want mock|keygen|prove|verify)", cli.Command)
	}
}
