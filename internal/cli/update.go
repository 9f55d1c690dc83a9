package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pvm/internal/catalog"
	"pvm/internal/fetch"
	"pvm/internal/progress"
	"pvm/internal/tui"
)

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Refresh the cached catalog of PHP releases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd, a)
		},
	}
}

type updateResult struct {
	Path     string `json:"path"`
	Majors   int    `json:"majors"`
	Releases int    `json:"releases"`
}

func runUpdate(cmd *cobra.Command, a *app) error {
	table, err := a.statusTable()
	if err != nil {
		return err
	}
	fetcher := fetch.New(a.config.DocsEndpoint,
		fetch.WithStatusTable(table),
		fetch.WithLogger(a.logger),
		fetch.WithUserAgent(a.config.UserAgent),
	)

	ctx := commandContext(cmd)
	work := func(tr *progress.Tracker) (*catalog.Catalog, error) {
		return fetcher.Fetch(ctx, tr)
	}

	title := fmt.Sprintf("Updating catalog from %s", fetcher.Endpoint())
	var cat *catalog.Catalog
	switch outputMode(cmd) {
	case tui.ModeTUI:
		cat, err = tui.RunFetch(cmd.OutOrStdout(), title, work)
	case tui.ModePlain:
		cat, err = tui.RunPlain(cmd.OutOrStdout(), title, work)
	default:
		cat, err = progress.Run(work, nil)
	}
	if err != nil {
		return err
	}

	if err := a.store.Save(cat); err != nil {
		return err
	}

	res := updateResult{Path: a.store.Path(), Majors: cat.Len()}
	for _, r := range cat.Majors() {
		res.Releases += len(r.Releases)
	}
	a.logger.Info("catalog saved", "path", res.Path, "majors", res.Majors, "releases", res.Releases)

	if outputJSON {
		return writeJSON(cmd, res)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cached %d PHP versions (%d releases) in %s\n", res.Majors, res.Releases, res.Path)
	return nil
}
