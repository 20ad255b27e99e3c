package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/brainctl/brainctl/internal/api"
	"github.com/brainctl/brainctl/internal/project"
)

// Shared brain-command flags
var (
	flagBrain   string
	flagProject string
	flagPullAll bool
)

// projectDir returns the directory brain commands treat as the project
// root: --project when given, else the working directory.
func projectDir() string {
	if flagProject != "" {
		return flagProject
	}
	return "."
}

// resolveBrainName picks the brain a command operates on: the --brain
// flag when given, else the project directory's default from .brains.
func resolveBrainName(explicit, dir string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	reg, err := project.LoadDotBrains(dir)
	if err != nil {
		return "", err
	}
	if ref := reg.Default(); ref != nil {
		return ref.Name, nil
	}
	return "", fmt.Errorf("no brain selected; pass --brain or run \"brainctl create\" in the project directory")
}

// loadPayload reads the project manifest and collects its files for
// upload.
func loadPayload(dir string) (*project.Manifest, *api.ProjectPayload, error) {
	m, err := project.FromFileOrDir(dir)
	if err != nil {
		return nil, nil, err
	}
	files, err := m.Collect()
	if err != nil {
		return nil, nil, err
	}
	return m, &api.ProjectPayload{Manifest: m, Files: files}, nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your brains",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := resolveSettings()
		if err != nil {
			return fail(err)
		}
		client, err := newClient(s)
		if err != nil {
			return fail(err)
		}
		brains, err := client.ListBrains(cmd.Context())
		if err != nil {
			return fail(err)
		}
		return writeDoc(s, brainList{Brains: brains})
	},
}

var createCmd = &cobra.Command{
	Use:   "create <brain>",
	Short: "Create a brain",
	Long:  "Create a brain on the server. When the project directory holds a manifest its files are uploaded as the first version, and the brain becomes the directory's default.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		_, s, err := resolveSettings()
		if err != nil {
			return fail(err)
		}
		client, err := newClient(s)
		if err != nil {
			return fail(err)
		}

		dir := projectDir()
		var payload *api.ProjectPayload
		if _, statErr := os.Stat(filepath.Join(dir, project.DefaultManifestName)); statErr == nil {
			_, payload, err = loadPayload(dir)
			if err != nil {
				return fail(err)
			}
		}

		info, err := client.CreateBrain(cmd.Context(), name, payload)
		if err != nil {
			return fail(err)
		}

		reg, err := project.LoadDotBrains(dir)
		if err != nil {
			return fail(err)
		}
		if err := reg.Add(name); err != nil {
			return fail(err)
		}

		fmt.Fprintf(os.Stdout, "Created brain %q (state: %s)\n", info.Name, info.State)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <brain>",
	Short: "Delete a brain and all its versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		_, s, err := resolveSettings()
		if err != nil {
			return fail(err)
		}
		client, err := newClient(s)
		if err != nil {
			return fail(err)
		}
		if err := client.DeleteBrain(cmd.Context(), name); err != nil {
			return fail(err)
		}
		fmt.Fprintf(os.Stdout, "Deleted brain %q\n", name)
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the project files to a brain",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := resolveSettings()
		if err != nil {
			return fail(err)
		}
		client, err := newClient(s)
		if err != nil {
			return fail(err)
		}

		m, payload, err := loadPayload(projectDir())
		if err != nil {
			return fail(err)
		}
		brain, err := resolveBrainName(flagBrain, m.Dir())
		if err != nil {
			return fail(err)
		}

		stop := spin(s.UseColor, fmt.Sprintf("Pushing %d files to %s...", len(payload.Files), brain))
		names, err := client.EditBrain(cmd.Context(), brain, payload)
		stop()
		if err != nil {
			return fail(err)
		}

		fmt.Fprintf(os.Stdout, "Pushed %d files to brain %q:\n", len(names), brain)
		for _, name := range names {
			fmt.Fprintf(os.Stdout, "  %s\n", name)
		}
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download a brain's project files into the project directory",
	Long:  "Download the latest project files from a brain. Files that already exist locally are skipped unless --all is given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, s, err := resolveSettings()
		if err != nil {
			return fail(err)
		}
		client, err := newClient(s)
		if err != nil {
			return fail(err)
		}

		dir := projectDir()
		brain, err := resolveBrainName(flagBrain, dir)
		if err != nil {
			return fail(err)
		}

		stop := spin(s.UseColor, fmt.Sprintf("Pulling files from %s...", brain))
		files, err := client.GetBrainFiles(cmd.Context(), brain)
		stop()
		if err != nil {
			return fail(err)
		}

		written, skipped, err := writeFiles(dir, files, flagPullAll)
		if err != nil {
			return fail(err)
		}
		fmt.Fprintf(os.Stdout, "Pulled %d files from brain %q", written, brain)
		if skipped > 0 {
			fmt.Fprintf(os.Stdout, " (%d existing files skipped; use --all to overwrite)", skipped)
		}
		fmt.Fprintln(os.Stdout)
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <brain>",
	Short: "Download a brain's project files into a new directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		_, s, err := resolveSettings()
		if err != nil {
			return fail(err)
		}
		client, err := newClient(s)
		if err != nil {
			return fail(err)
		}

		dest := name
		if _, statErr := os.Stat(dest); statErr == nil {
			return fail(fmt.Errorf("directory %q already exists; delete it or download elsewhere", dest))
		}

		stop := spin(s.UseColor, fmt.Sprintf("Downloading %s...", name))
		files, err := client.GetBrainFiles(cmd.Context(), name)
		stop()
		if err != nil {
			return fail(err)
		}

		if err := os.MkdirAll(dest, 0o755); err != nil {
			return fail(err)
		}
		written, _, err := writeFiles(dest, files, true)
		if err != nil {
			return fail(err)
		}

		reg, err := project.LoadDotBrains(dest)
		if err != nil {
			return fail(err)
		}
		if err := reg.Add(name); err != nil {
			return fail(err)
		}

		fmt.Fprintf(os.Stdout, "Downloaded %d files into %s%c\n", written, dest, os.PathSeparator)
		return nil
	},
}

// writeFiles writes downloaded files under dir, creating subdirectories
// as needed. Existing files are skipped unless overwrite is set. File
// names come from the server, so any name that would land outside dir
// is an error rather than a write.
func writeFiles(dir string, files map[string][]byte, overwrite bool) (written, skipped int, err error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		local := filepath.FromSlash(name)
		if !filepath.IsLocal(local) {
			return written, skipped, fmt.Errorf("server sent file name %q, which escapes the destination directory", name)
		}
		path := filepath.Join(dir, local)
		if !overwrite {
			if _, statErr := os.Stat(path); statErr == nil {
				skipped++
				continue
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, skipped, fmt.Errorf("creating directory for %s: %w", name, err)
		}
		if err := os.WriteFile(path, files[name], 0o644); err != nil {
			return written, skipped, fmt.Errorf("writing %s: %w", name, err)
		}
		written++
	}
	return written, skipped, nil
}

func init() {
	pushCmd.Flags().StringVar(&flagBrain, "brain", "", "Brain to push to (default: the project directory's default brain)")
	pushCmd.Flags().StringVar(&flagProject, "project", "", "Project directory or manifest file")

	pullCmd.Flags().StringVar(&flagBrain, "brain", "", "Brain to pull from (default: the project directory's default brain)")
	pullCmd.Flags().StringVar(&flagProject, "project", "", "Project directory")
	pullCmd.Flags().BoolVar(&flagPullAll, "all", false, "Overwrite files that already exist locally")

	createCmd.Flags().StringVar(&flagProject, "project", "", "Project directory to upload files from")
}
