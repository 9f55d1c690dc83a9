package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// HomeEnv overrides the data directory when --data-dir is not given.
const HomeEnv = "PVM_HOME"

// DataPaths captures canonical locations inside the pvm data directory.
type DataPaths struct {
	Root         string
	ConfigFile   string
	CatalogFile  string
	DatabaseFile string
	LogsDir      string
}

// Resolve determines the data directory from the --data-dir flag, then
// PVM_HOME, then the per-user default for the current OS.
func Resolve(dataDirFlag string) (DataPaths, error) {
	var (
		root string
		err  error
	)

	switch {
	case dataDirFlag != "":
		root, err = filepath.Abs(dataDirFlag)
	case os.Getenv(HomeEnv) != "":
		root, err = filepath.Abs(os.Getenv(HomeEnv))
		if err != nil {
			err = fmt.Errorf("resolve %s: %w", HomeEnv, err)
		}
	default:
		root, err = defaultRoot()
	}
	if err != nil {
		return DataPaths{}, fmt.Errorf("resolve data directory: %w", err)
	}

	return newDataPaths(root), nil
}

func newDataPaths(root string) DataPaths {
	return DataPaths{
		Root:         root,
		ConfigFile:   filepath.Join(root, "config.yaml"),
		CatalogFile:  filepath.Join(root, "versions.json"),
		DatabaseFile: filepath.Join(root, "database.json"),
		LogsDir:      filepath.Join(root, "logs"),
	}
}

// defaultRoot returns the per-user data directory.
func defaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "pvm"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "pvm"), nil
		}
		return filepath.Join(home, "AppData", "Local", "pvm"), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" && filepath.IsAbs(xdg) {
			return filepath.Join(xdg, "pvm"), nil
		}
		return filepath.Join(home, ".local", "share", "pvm"), nil
	}
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
