package scaffold

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/backend/witness"
)

// Artifacts produced by keygen and prove, all rooted at the data path.
func pkPath(dataPath, name string) string      { return filepath.Join(dataPath, name+".pk") }
func vkPath(dataPath, name string) string      { return filepath.Join(dataPath, name+".vk") }
func proofPath(dataPath, name string) string   { return filepath.Join(dataPath, name+".proof") }
func publicPath(dataPath, name string) string  { return filepath.Join(dataPath, name+".public") }
func pinningPath(dataPath, name string) string { return filepath.Join(dataPath, name+".pinning.json") }

func writeTo(path string, w io.WriterTo) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("scaffold: create data dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scaffold: create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := w.WriteTo(f); err != nil {
		return fmt.Errorf("scaffold: write %s: %w", path, err)
	}
	return f.Close()
}

func readInto(path string, r io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("scaffold: open %s (missing keygen run?): %w", path, err)
	}
	defer f.Close()
	if _, err := r.ReadFrom(f); err != nil {
		return fmt.Errorf("scaffold: read %s: %w", path, err)
	}
	return nil
}

func readProvingKey(path string) (plonk.ProvingKey, error) {
	pk := plonk.NewProvingKey(ecc.BN254)
	if err := readInto(path, pk); err != nil {
		return nil, err
	}
	return pk, nil
}

func readVerifyingKey(path string) (plonk.VerifyingKey, error) {
	vk := plonk.NewVerifyingKey(ecc.BN254)
	if err := readInto(path, vk); err != nil {
		return nil, err
	}
	return vk, nil
}

func readProof(path string) (plonk.Proof, error) {
	proof := plonk.NewProof(ecc.BN254)
	if err := readInto(path, proof); err != nil {
		return nil, err
	}
	return proof, nil
}

func readPublicWitness(path string) (witness.Witness, error) {
	w, err := witness.New(ecc.BN254.ScalarField())
	if err != nil {
		return nil, err
	}
	if err := readInto(path, w); err != nil {
		return nil, err
	}
	return w, nil
}
