package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/konorlevich/secureshare/internal/files"
	"github.com/konorlevich/secureshare/internal/store"
)

func newUploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>...",
		Short: "Validate, label and register files",
		Long: fmt.Sprintf(`Validate, label and register files.

Files up to %s are accepted when their type is unknown or one of:
  %s`, files.FormatSize(files.MaxSize), strings.Join(files.AllowedTypes(), "\n  ")),
		Args: cobra.MinimumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, paths []string) error {
			if _, err := a.requireUser(); err != nil {
				return err
			}
			candidates, err := a.inspector.Inspect(cmd.Context(), paths)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			failed := 0
			for _, c := range candidates {
				rec, err := a.registry.Upload(c)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s: %s\n", c.Name, err)
					continue
				}
				fmt.Fprintf(out, "%s: uploaded (%s) id=%d hash=%s label=%q\n",
					rec.Name, files.FormatSize(rec.Size), rec.ID, rec.Hash, rec.AILabel)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(candidates))
			}
			return nil
		}),
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List uploaded files",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireUser(); err != nil {
				return err
			}
			records := a.registry.List()
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No files yet.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSIZE\tLABEL\tUPLOADED\tHASH")
			for _, r := range records {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Name, files.FormatSize(r.Size), r.AILabel,
					r.UploadedAt.Local().Format(time.DateTime), r.Hash)
			}
			return w.Flush()
		}),
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a file from the list",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if _, err := a.requireUser(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad file id %q: %w", args[0], err)
			}
			if err := a.registry.Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d.\n", id)
			return nil
		}),
	}
}

func newUsageCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show storage used against the quota",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			user, err := a.requireUser()
			if err != nil {
				return err
			}
			u := a.registry.Usage(user.StorageQuota)
			fmt.Fprintf(cmd.OutOrStdout(), "%d files, %s of %s used (%.1f%%)\n",
				u.Files, files.FormatSize(u.Used), files.FormatSize(u.Quota), u.Percent)
			return nil
		}),
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the account, its credential and every file record",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if err := a.accounts.Logout(); err != nil {
				return err
			}
			if err := a.registry.Clear(); err != nil {
				return err
			}
			n, err := store.Purge(a.repo, a.l)
			if err != nil {
				return err
			}
			if n > 0 {
				a.l.WithField("records", n).Info("removed leftover records")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All local data cleared.")
			return nil
		}),
	}
}
