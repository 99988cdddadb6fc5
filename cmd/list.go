package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Grumbel/gesichtool/internal/utils"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexed face crops",
	Run: func(cmd *cobra.Command, args []string) {
		runList()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList() {
	if err := requireDB(); err != nil {
		utils.Die("Cannot list face crops", err)
	}

	ctx := context.Background()
	faces, err := DB.ListFaces(ctx)
	if err != nil {
		utils.Die("Failed to list face crops", err)
	}

	if len(faces) == 0 {
		fmt.Println("No face crops found in database.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tIMAGE\tFACE\tBOX\tTHUMBNAIL\tDETECTOR\tCREATED")
	fmt.Fprintln(w, "--\t-----\t----\t---\t---------\t--------\t-------")

	for _, f := range faces {
		fmt.Fprintf(w, "%d\t%s\t%d\t%dx%d+%d+%d\t%s\t%s\t%s\n",
			f.ID, f.ImagePath, f.FaceIndex,
			f.Box.Dx(), f.Box.Dy(), f.Box.Min.X, f.Box.Min.Y,
			f.ThumbPath, f.Detector, f.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()
}
