package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"bril/internal/irfile"
)

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack <in> <out>",
		Short: "Convert a snapshot between YAML and msgpack",
		Long:  `Pack re-encodes a snapshot; the codecs are chosen by the file extensions (.yaml/.yml, .mp/.msgpack). The input must resolve cleanly.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(args[0], args[1])
		},
	}
}

func runPack(in, out string) error {
	outFormat, err := irfile.FormatFromPath(out)
	if err != nil {
		return err
	}
	doc, _, err := irfile.ReadFile(in)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	// unresolvable snapshots are rejected here rather than at verify time
	if _, err := doc.Module(); err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	f, err := os.CreateTemp(filepath.Dir(out), ".pack-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := irfile.Encode(f, doc, outFormat); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("%s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, out)
}
