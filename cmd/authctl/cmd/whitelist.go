package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lecenter/dashboard/internal/auth/domain"
	"github.com/lecenter/dashboard/internal/auth/service"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// WhitelistCmd is the parent command for whitelist operations.
var WhitelistCmd = &cobra.Command{
	Use:   "whitelist",
	Short: "Manage the LINE login whitelist",
	Long:  `Only LINE users on the whitelist can log in to the dashboard.`,
}

var addNote string

var whitelistAddCmd = &cobra.Command{
	Use:   "add <line-uid>",
	Short: "Allow a LINE user to log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWhitelist(func(wl *service.WhitelistService) error {
			err := wl.Add(cmd.Context(), args[0], addNote)
			if errors.Is(err, service.ErrAlreadyListed) {
				pterm.Info.Printfln("%s is already whitelisted", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Whitelisted %s", args[0])
			return nil
		})
	},
}

var whitelistRemoveCmd = &cobra.Command{
	Use:     "remove <line-uid>",
	Aliases: []string{"rm"},
	Short:   "Revoke a LINE user's access",
	Long: `Removes the user from the whitelist. Sessions already issued stay valid
until they expire.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWhitelist(func(wl *service.WhitelistService) error {
			if err := wl.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			pterm.Success.Printfln("Removed %s", args[0])
			return nil
		})
	},
}

var whitelistListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List whitelisted LINE users",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWhitelist(func(wl *service.WhitelistService) error {
			entries, err := wl.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				pterm.Info.Println("Whitelist is empty.")
				return nil
			}

			table := pterm.TableData{{"LINE UID", "NOTE", "ADDED"}}
			for _, e := range entries {
				table = append(table, []string{e.LineUID, e.Note, e.CreatedAt.Format(time.RFC3339)})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(table).Render()
		})
	},
}

var whitelistImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import LINE users from a CSV file",
	Long: `Imports "line_uid[,note]" rows. Lines starting with # are ignored and
ids already on the whitelist are skipped. Use - to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		entries, err := ParseWhitelist(in)
		if err != nil {
			return err
		}

		return withWhitelist(func(wl *service.WhitelistService) error {
			added, err := wl.Import(cmd.Context(), entries)
			if err != nil {
				return err
			}
			pterm.Success.Printfln("Imported %d of %d entries", added, len(entries))
			return nil
		})
	},
}

func init() {
	whitelistAddCmd.Flags().StringVar(&addNote, "note", "", "free-form note, e.g. the person's name")

	WhitelistCmd.AddCommand(whitelistAddCmd)
	WhitelistCmd.AddCommand(whitelistRemoveCmd)
	WhitelistCmd.AddCommand(whitelistListCmd)
	WhitelistCmd.AddCommand(whitelistImportCmd)
}

func withWhitelist(fn func(wl *service.WhitelistService) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(&service.WhitelistService{Store: st})
}

// ParseWhitelist reads "line_uid[,note]" CSV rows.
func ParseWhitelist(r io.Reader) ([]domain.WhitelistEntry, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var entries []domain.WhitelistEntry
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse whitelist: %w", err)
		}

		e := domain.WhitelistEntry{LineUID: strings.TrimSpace(rec[0])}
		if len(rec) > 1 {
			e.Note = strings.TrimSpace(strings.Join(rec[1:], ","))
		}
		if e.LineUID == "" {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("parse whitelist: line %d: %w", line, service.ErrInvalidLineUID)
		}
		entries = append(entries, e)
	}
}
