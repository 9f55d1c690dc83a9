package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pvm/internal/catalog"
	"pvm/internal/tui"
	"pvm/internal/versiondb"
)

var (
	listMajor     string
	listInstalled bool
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List PHP versions from the cached catalog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, a)
		},
	}
	cmd.Flags().StringVarP(&listMajor, "major", "m", "", "List the point releases of one major version")
	cmd.Flags().BoolVar(&listInstalled, "installed", false, "Only list installed versions")
	return cmd
}

func runList(cmd *cobra.Command, a *app) error {
	cat, err := a.store.Read()
	if err != nil {
		return err
	}
	state, err := versiondb.Load(a.paths.DatabaseFile)
	if err != nil {
		return err
	}
	table, err := a.statusTable()
	if err != nil {
		return err
	}
	cwd, err := workingDir()
	if err != nil {
		return err
	}
	marks := newStateMarks(state, cwd)

	var rows []tui.ReleaseRow
	switch {
	case listMajor != "":
		release, ok := cat.Major(listMajor)
		if !ok {
			return fmt.Errorf("unknown PHP version %q; run `pvm update` to refresh the catalog", listMajor)
		}
		rows = minorRows(release, marks, listInstalled)
	case listInstalled:
		rows = installedRows(cat, table, state, marks)
	default:
		if cat.Len() == 0 {
			return fmt.Errorf("the catalog is empty; run `pvm update` first")
		}
		rows = majorRows(cat, table, marks)
	}

	if outputJSON {
		if rows == nil {
			rows = []tui.ReleaseRow{}
		}
		return writeJSON(cmd, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No versions to list.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), tui.RenderReleaseTable(rows))
	return nil
}

// stateMarks labels versions with how they are used.
type stateMarks struct {
	state versiondb.State
	local string
}

func newStateMarks(state versiondb.State, dir string) stateMarks {
	m := stateMarks{state: state}
	if key, err := versiondb.NormalizeDir(dir); err == nil {
		m.local = state.Local[key]
	}
	return m
}

func (m stateMarks) For(version string) []string {
	if !m.state.IsInstalled(version) {
		return nil
	}
	marks := []string{"installed"}
	if m.state.GlobalVersion() == version {
		marks = append(marks, "global")
	}
	if m.local == version {
		marks = append(marks, "local")
	}
	return marks
}

func majorRows(cat *catalog.Catalog, table catalog.StatusTable, marks stateMarks) []tui.ReleaseRow {
	var rows []tui.ReleaseRow
	for _, r := range catalog.SortedMajors(cat) {
		row := releaseRow(r, table)
		row.State = marks.For(r.Name)
		var minors int
		for _, minor := range r.Releases {
			if marks.state.IsInstalled(minor.Name) {
				minors++
			}
		}
		if minors > 0 {
			row.State = append(row.State, strconv.Itoa(minors)+" installed")
		}
		rows = append(rows, row)
	}
	return rows
}

func minorRows(r catalog.Release, marks stateMarks, installedOnly bool) []tui.ReleaseRow {
	var rows []tui.ReleaseRow
	for _, minor := range catalog.SortedMinors(r) {
		state := marks.For(minor.Name)
		if installedOnly && len(state) == 0 {
			continue
		}
		row := tui.ReleaseRow{Version: minor.Name, State: state}
		if minor.Date != nil {
			row.Released = minor.Date.Format(catalog.DateLayout)
		}
		rows = append(rows, row)
	}
	return rows
}

// installedRows lists installed versions in install order, with catalog
// details where the version is known.
func installedRows(cat *catalog.Catalog, table catalog.StatusTable, state versiondb.State, marks stateMarks) []tui.ReleaseRow {
	var rows []tui.ReleaseRow
	for _, version := range state.Installed {
		row := tui.ReleaseRow{Version: version}
		if r, ok := cat.Major(version); ok {
			row = releaseRow(r, table)
		} else if r, minor, ok := cat.FindMinor(version); ok {
			row = releaseRow(r, table)
			row.Version = minor.Name
			row.Latest = r.Latest
			row.Released = ""
			if minor.Date != nil {
				row.Released = minor.Date.Format(catalog.DateLayout)
			}
		}
		row.State = marks.For(version)
		rows = append(rows, row)
	}
	return rows
}

func releaseRow(r catalog.Release, table catalog.StatusTable) tui.ReleaseRow {
	row := tui.ReleaseRow{Version: r.Name, Status: r.Status, Latest: r.Latest}
	if r.Status != nil {
		row.Label = table.Label(*r.Status)
	}
	if r.Date != nil {
		row.Released = r.Date.Format(catalog.DateLayout)
	}
	return row
}
