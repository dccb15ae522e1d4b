package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVersion()
		},
	}
}

// VersionInfo represents version information for JSON output.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

func (c *CLI) runVersion() error {
	info := VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if c.jsonOutput {
		return c.outputJSON(info)
	}

	c.println("querybridge")
	c.printf("  Version:    %s\n", info.Version)
	c.printf("  Git Commit: %s\n", info.GitCommit)
	c.printf("  Build Date: %s\n", info.BuildDate)
	c.printf("  Go Version: %s\n", info.GoVersion)
	c.printf("  OS/Arch:    %s/%s\n", info.OS, info.Arch)

	return nil
}

// SetVersionInfo sets the version information (called from main).
func SetVersionInfo(version, commit, date string) {
	if version != "" {
		Version = version
	}
	if commit != "" {
		GitCommit = commit
	}
	if date != "" {
		BuildDate = date
	}
}
