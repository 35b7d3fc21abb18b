package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sealnote/client-go/internal/archive"
	"github.com/sealnote/client-go/internal/config"
	"github.com/sealnote/client-go/internal/crypto"
	"github.com/sealnote/client-go/internal/restore"
)

// errIncomplete is returned when the archive unlocked but some notes failed.
var errIncomplete = errors.New("some notes could not be decrypted")

type decryptOptions struct {
	outDir        string
	asJSON        bool
	passwordStdin bool
}

// fileOutput is the JSON form of one restored note.
type fileOutput struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	Text    string    `json:"text"`
	Error   string    `json:"error,omitempty"`
}

func newDecryptCmd(cfg Config, env config.Config, logger *slog.Logger) *cobra.Command {
	var opts decryptOptions

	cmd := &cobra.Command{
		Use:   "decrypt <archive>",
		Short: "Decrypt every note in an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecrypt(cmd, cfg, env, logger, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "write each note to a file in this directory")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print notes as JSON")
	cmd.Flags().BoolVar(&opts.passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	cmd.MarkFlagsMutuallyExclusive("out", "json")
	return cmd
}

func runDecrypt(cmd *cobra.Command, cfg Config, env config.Config, logger *slog.Logger, path string, opts decryptOptions) error {
	a, err := readArchiveFile(path)
	if err != nil {
		return err
	}

	password, err := readPassword(cfg, opts.passwordStdin)
	if err != nil {
		return err
	}
	defer crypto.Zero(password)

	stop := startSpinner(cfg, "Decrypting "+filepath.Base(path)+"...")
	d := restore.New(restore.WithWorkers(env.Workers), restore.WithLogger(logger))
	files, err := d.Decrypt(cmd.Context(), a, password)
	stop()
	if err != nil {
		return err
	}

	switch {
	case opts.asJSON:
		err = writeJSON(cmd.OutOrStdout(), files)
	case opts.outDir != "":
		err = writeFiles(opts.outDir, files)
	default:
		err = writeText(cmd.OutOrStdout(), files)
	}
	if err != nil {
		return err
	}

	failed := 0
	for i := range files {
		if files[i].Failed() {
			failed++
		}
	}

	errOut := cmd.ErrOrStderr()
	if failed > 0 {
		fmt.Fprintf(errOut, "%s %d of %d notes could not be decrypted\n",
			color.YellowString("!"), failed, len(files))
		return errIncomplete
	}
	fmt.Fprintf(errOut, "%s Restored %d notes\n", color.GreenString("✓"), len(files))
	return nil
}

func readArchiveFile(path string) (*archive.Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return archive.Parse(f)
}

func readPassword(cfg Config, fromStdin bool) ([]byte, error) {
	if !fromStdin {
		return cfg.ReadPassword("Password: ")
	}

	line, err := bufio.NewReader(cfg.Stdin).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return bytes.TrimRight(line, "\r\n"), nil
}

func startSpinner(cfg Config, message string) func() {
	if !cfg.Interactive {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cfg.Stderr))
	s.Suffix = " " + message
	// Ignore color errors - continue without a colored spinner.
	_ = s.Color("cyan")
	s.Start()
	return s.Stop
}

func writeJSON(w io.Writer, files []restore.File) error {
	out := make([]fileOutput, len(files))
	for i, f := range files {
		out[i] = fileOutput{
			ID:      f.ID,
			Name:    f.Name,
			Created: f.Created,
			Updated: f.Updated,
			Text:    f.Text,
		}
		if f.Failed() {
			out[i].Error = "decryption failed"
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeText(w io.Writer, files []restore.File) error {
	for i, f := range files {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", color.CyanString("#"), displayName(f))
		fmt.Fprintf(w, "%s\n", f.Text)
	}
	return nil
}

// writeFiles writes each note to dir, one file per note. Notes that failed
// are written with the placeholder text so none silently disappears.
func writeFiles(dir string, files []restore.File) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	// Keys are lower-cased so names differing only in case do not collide
	// on case-insensitive file systems.
	used := make(map[string]bool, len(files))
	for i, f := range files {
		base := fileName(f, i)
		name := base
		for n := 1; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[strings.ToLower(name)] = true

		target := filepath.Join(dir, name+".txt")
		if err := os.WriteFile(target, []byte(f.Text), 0o600); err != nil {
			return err
		}
	}
	return nil
}

func displayName(f restore.File) string {
	return displayNameOf(f.Name, f.ID)
}

// fileName turns a note name into a file name local to the output
// directory. It falls back to the record id and then to the record's
// position when nothing usable is left.
func fileName(f restore.File, i int) string {
	for _, s := range []string{f.Name, f.ID} {
		if name := sanitizeFileName(s); name != "" && filepath.IsLocal(name+".txt") {
			return name
		}
	}
	return fmt.Sprintf("note-%d", i+1)
}

func sanitizeFileName(s string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
	return strings.Trim(name, ". ")
}
