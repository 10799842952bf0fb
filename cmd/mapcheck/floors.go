package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/milk9111/campusmap/floors"
	"github.com/spf13/cobra"
)

var floorsCmd = &cobra.Command{
	Use:   "floors",
	Short: "List the floor table and verify every asset decodes",
	RunE:  runFloors,
}

func init() {
	rootCmd.AddCommand(floorsCmd)
}

type assetStatus struct {
	Floor  floors.Floor
	Path   string
	Width  int
	Height int
	Err    error
}

// checkAssets decodes each floor's asset from dir. A nil load uses
// floors.DecodeFile.
func checkAssets(table *floors.Table, dir string, load floors.LoadFunc, r Reporter) []assetStatus {
	if load == nil {
		load = floors.DecodeFile
	}
	out := make([]assetStatus, 0, len(table.Floors))

	r.Start(len(table.Floors), "Checking assets")
	for i, f := range table.Floors {
		st := assetStatus{Floor: f, Path: floors.AssetPath(dir, f)}
		img, err := load(st.Path)
		if err != nil {
			st.Err = err
		} else {
			b := img.Bounds()
			st.Width, st.Height = b.Dx(), b.Dy()
		}
		out = append(out, st)
		r.Update(i+1, f.File)
	}
	r.Finish()
	return out
}

func printAssets(w io.Writer, table *floors.Table, statuses []assetStatus) int {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tFILE\tSIZE\tSTATUS")
	failed := 0
	for _, st := range statuses {
		id := st.Floor.ID
		if id == table.Default {
			id += "*"
		}
		size, status := fmt.Sprintf("%dx%d", st.Width, st.Height), "ok"
		if st.Err != nil {
			size, status = "-", st.Err.Error()
			failed++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", id, st.Floor.Label, st.Floor.File, size, status)
	}
	tw.Flush()
	return failed
}

func runFloors(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	statuses := checkAssets(table, cfg.AssetsDir, floors.DecodeFile, NewReporter(os.Stderr))
	if failed := printAssets(cmd.OutOrStdout(), table, statuses); failed > 0 {
		return fmt.Errorf("%d of %d assets failed to load", failed, len(statuses))
	}
	return nil
}
