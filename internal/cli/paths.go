package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"xctasks/internal/app"
)

func newPathsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print derived build artifact paths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPaths(cmd.Context(), cmd)
		},
	}
}

func runPaths(ctx context.Context, cmd *cobra.Command) error {
	service := newAppService()
	result, err := service.Paths(ctx, app.PathsRequest{ProjectPath: projectPath(cmd)})
	if err != nil {
		return err
	}
	p := result.Paths
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"root", result.Root},
		{"scheme_dir", p.SchemeDir},
		{"products_root", p.ProductsRoot},
		{"output_path", p.OutputPath},
		{"app_path", p.AppPath},
		{"dsym_path", p.DSYMPath},
		{"dsym_zip_path", p.DSYMZipPath},
		{"ipa_path", p.IPAPath},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	return w.Flush()
}
