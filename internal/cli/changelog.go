package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"xctasks/internal/adapters"
	"xctasks/internal/app"
)

type changelogOptions struct {
	Exclude        string
	Strict         bool
	TimeoutSeconds int
}

func newChangelogCommand() *cobra.Command {
	opts := changelogOptions{}
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Print release notes from the current CI build's changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChangelog(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Exclude, "exclude", "", "Author whose changes are left out")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Fail when the CI server cannot be queried")
	cmd.Flags().IntVar(&opts.TimeoutSeconds, "timeout", 30, "CI request timeout in seconds")
	_ = viper.BindPFlag("changelog_exclude", cmd.Flags().Lookup("exclude"))
	_ = viper.BindPFlag("changelog_strict", cmd.Flags().Lookup("strict"))
	_ = viper.BindPFlag("changelog_timeout", cmd.Flags().Lookup("timeout"))
	return cmd
}

func runChangelog(ctx context.Context, cmd *cobra.Command, opts changelogOptions) error {
	service := newAppService()
	timeout := resolveInt(cmd, opts.TimeoutSeconds, "changelog_timeout", "timeout")
	if timeout > 0 {
		service.ChangelogSource = adapters.NewJenkinsChangelogAdapter(time.Duration(timeout) * time.Second)
	}
	result, err := service.Changelog(ctx, app.ChangelogRequest{
		ExcludeAuthor: resolveString(cmd, opts.Exclude, "changelog_exclude", "exclude"),
		Strict:        resolveBool(cmd, opts.Strict, "changelog_strict", "strict"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Notes)
	return nil
}
