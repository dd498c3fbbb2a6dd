package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teranos/kosyncd/errors"
	"github.com/teranos/kosyncd/fingerprint"
)

// FingerprintCmd computes document fingerprints the way KOReader clients do,
// useful for checking what key a given book will sync under.
var FingerprintCmd = &cobra.Command{
	Use:   "fingerprint FILE",
	Short: "Compute the kosync fingerprints of a document",
	Long: `Compute the three document fingerprints a KOReader client may use as
its sync key: the sparse partial-MD5 digest (the plugin default for most
formats), the MD5 of the filename, and the full-content MD5.

Example:
  kosyncd fingerprint minimal-v3plus2.epub`,
	Args: cobra.ExactArgs(1),
	RunE: runFingerprint,
}

func runFingerprint(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	sparse, err := fingerprint.SparseDefault(f)
	if err != nil {
		return errors.Wrap(err, "failed to compute sparse digest")
	}

	if _, err := f.Seek(0, 0); err != nil {
		return errors.Wrap(err, "failed to rewind file")
	}
	full, err := fingerprint.Full(f)
	if err != nil {
		return errors.Wrap(err, "failed to compute full digest")
	}

	fmt.Printf("sparse:   %s\n", sparse)
	fmt.Printf("filename: %s\n", fingerprint.Filename(filepath.Base(path)))
	fmt.Printf("full:     %s\n", full)
	return nil
}
