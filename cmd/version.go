package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the commit it was built from",
	Run: func(cmd *cobra.Command, args []string) {
		v, rev := buildVersion()
		if rev != "" {
			fmt.Printf("vocabdrill %s (%s)\n", v, rev)
			return
		}
		fmt.Println("vocabdrill", v)
	},
}

// buildVersion falls back to the module version and VCS revision recorded
// by `go install` when no -ldflags version was given.
func buildVersion() (v, rev string) {
	v = version
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v, ""
	}
	if v == "(devel)" && info.Main.Version != "" {
		v = info.Main.Version
	}
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return v, rev
}
