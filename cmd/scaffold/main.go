// Command scaffold runs a named circuit through one lifecycle stage:
//
//	scaffold <mock|keygen|prove|verify> -name quadratic -input data/quadratic.in.json
//
// Keys, proofs, and the keygen-time pinning live under -data-path; circuit
// shape configs under -config-path, one JSON file per circuit name.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/plonkish-zk/scaffold/circuits/intdiv"
	"github.com/plonkish-zk/scaffold/circuits/merkle"
	"github.com/plonkish-zk/scaffold/circuits/polyreduce"
	"github.com/plonkish-zk/scaffold/circuits/quadratic"
	"github.com/plonkish-zk/scaffold/circuits/subarray"
	"github.com/plonkish-zk/scaffold/circuits/toyvm"
	"github.com/plonkish-zk/scaffold/circuits/varlenhash"
	"github.com/plonkish-zk/scaffold/scaffold"
)

var circuits = map[string]func(cli *scaffold.Cli) error{
	"quadratic": func(cli *scaffold.Cli) error { return scaffold.Run(quadratic.Circuit, cli) },
	"intdiv":    func(cli *scaffold.Cli) error { return scaffold.Run(intdiv.Circuit, cli) },
	// kept for demonstration, see the intdiv package docs
	"intdiv_unsound": func(cli *scaffold.Cli) error { return scaffold.Run(intdiv.CircuitUnsound, cli) },
	"polyreduce":     func(cli *scaffold.Cli) error { return scaffold.Run(polyreduce.Circuit, cli) },
	"subarray":       func(cli *scaffold.Cli) error { return scaffold.Run(subarray.Circuit, cli) },
	"toyvm":          func(cli *scaffold.Cli) error { return scaffold.Run(toyvm.Circuit, cli) },
	"merkle":         func(cli *scaffold.Cli) error { return scaffold.Run(merkle.Circuit, cli) },
	"varlenhash":     func(cli *scaffold.Cli) error { return scaffold.Run(varlenhash.Circuit, cli) },
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cli := &scaffold.Cli{Command: os.Args[1]}

	fs := flag.NewFlagSet("scaffold", flag.ExitOnError)
	fs.StringVar(&cli.Name, "name", "", "circuit name")
	fs.IntVar(&cli.Degree, "k", 0, "log2 rows, overrides the config file")
	fs.StringVar(&cli.InputPath, "input", "", "JSON input file")
	fs.StringVar(&cli.ConfigPath, "config-path", "configs", "directory of circuit shape configs")
	fs.StringVar(&cli.DataPath, "data-path", "data", "directory for keys, proofs and pinning")
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	run, ok := circuits[cli.Name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown circuit %q, available:\n", cli.Name)
		for name := range circuits {
			fmt.Fprintf(os.Stderr, "  %s\n", name)
		}
		os.Exit(2)
	}
	if err := run(cli); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: scaffold <mock|keygen|prove|verify> -name <circuit> [-k N] [-input FILE] [-config-path DIR] [-data-path DIR]")
}
