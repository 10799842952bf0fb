package main

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/milk9111/campusmap/floors"
	"github.com/spf13/cobra"
)

const imagePattern = "**/*.{jpg,jpeg,png,webp,tga,JPG,JPEG,PNG,WEBP,TGA}"

var orphanExcludes []string

var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List map images in the asset directory that no floor uses",
	RunE:  runOrphans,
}

func init() {
	orphansCmd.Flags().StringSliceVar(&orphanExcludes, "exclude", nil, "glob patterns to ignore (supports **)")
	rootCmd.AddCommand(orphansCmd)
}

// findOrphans returns the image paths in fsys that the table does not name.
// Paths are compared relative to the asset directory, and a converted .webp
// copy counts only when it sits next to its source.
func findOrphans(fsys fs.FS, table *floors.Table, excludes []string) ([]string, error) {
	matches, err := doublestar.Glob(fsys, imagePattern)
	if err != nil {
		return nil, fmt.Errorf("globbing assets: %w", err)
	}

	known := make(map[string]bool, 2*len(table.Floors))
	for _, f := range table.Floors {
		known[assetRel(f.File)] = true
		known[webpRel(f.File)] = true
	}

	var orphans []string
	for _, m := range matches {
		if excluded(m, excludes) || known[m] {
			continue
		}
		orphans = append(orphans, m)
	}
	sort.Strings(orphans)
	return orphans, nil
}

// assetRel normalizes a table file name to the slash-separated form fs.FS
// paths use.
func assetRel(file string) string {
	return path.Clean(filepath.ToSlash(file))
}

func excluded(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.PathMatch(pattern, p); err == nil && ok {
			return true
		}
		if ok, err := doublestar.PathMatch(pattern, path.Base(p)); err == nil && ok {
			return true
		}
	}
	return false
}

func runOrphans(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	orphans, err := findOrphans(os.DirFS(cfg.AssetsDir), table, orphanExcludes)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(orphans) == 0 {
		fmt.Fprintln(out, "No orphaned images.")
		return nil
	}
	for _, o := range orphans {
		fmt.Fprintln(out, o)
	}
	return nil
}
