package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/milk9111/campusmap/floors"
	"github.com/spf13/cobra"
)

var webpOutDir string

var webpCmd = &cobra.Command{
	Use:   "webp",
	Short: "Convert every floor asset to lossless WebP",
	RunE:  runWebP,
}

func init() {
	webpCmd.Flags().StringVarP(&webpOutDir, "out", "o", "", "output directory (default: the asset directory)")
	rootCmd.AddCommand(webpCmd)
}

// webpName returns the .webp file name for an asset.
func webpName(file string) string {
	base := path.Base(filepath.ToSlash(file))
	return strings.TrimSuffix(base, path.Ext(base)) + ".webp"
}

// webpRel returns the path of an asset's .webp copy relative to the asset
// directory, next to its source.
func webpRel(file string) string {
	rel := assetRel(file)
	return path.Join(path.Dir(rel), webpName(rel))
}

// convertToWebP decodes src and writes it to dst as lossless WebP.
func convertToWebP(src, dst string) error {
	img, err := floors.DecodeFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("WebP encode %s: %w", dst, err)
	}
	return f.Close()
}

func runWebP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}
	outDir := webpOutDir
	if outDir == "" {
		outDir = cfg.AssetsDir
	}

	r := NewReporter(os.Stderr)
	r.Start(len(table.Floors), "Converting to WebP")
	failed := 0
	for i, f := range table.Floors {
		if filepath.Ext(f.File) == ".webp" {
			r.Update(i+1, f.File+" (already webp)")
			continue
		}
		dst := filepath.Join(outDir, filepath.FromSlash(webpRel(f.File)))
		if filepath.IsAbs(f.File) {
			dst = filepath.Join(outDir, webpName(f.File))
		}
		if err := convertToWebP(floors.AssetPath(cfg.AssetsDir, f), dst); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.File, err)
			failed++
		} else if verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", f.File, dst)
		}
		r.Update(i+1, f.File)
	}
	r.Finish()

	if failed > 0 {
		return fmt.Errorf("%d of %d conversions failed", failed, len(table.Floors))
	}
	return nil
}
