package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Print archive metadata without decrypting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readArchiveFile(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			label := color.New(color.FgCyan).SprintFunc()
			fmt.Fprintf(w, "%s %d\n", label("version:"), a.Version)
			fmt.Fprintf(w, "%s %s\n", label("algorithms:"), a.Algs)
			fmt.Fprintf(w, "%s %s <%s>\n", label("owner:"), a.Meta.Name, a.Meta.Email)
			fmt.Fprintf(w, "%s %s\n", label("exported:"), a.Meta.ExportedAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(w, "%s %d\n", label("notes:"), len(a.Files))
			for _, f := range a.Files {
				fmt.Fprintf(w, "  %s  %s  %s\n", f.ID, f.Updated.Format("2006-01-02"), displayNameOf(f.Name, f.ID))
			}
			return nil
		},
	}
}

func displayNameOf(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
