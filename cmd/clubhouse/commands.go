package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"clubhouse/internal/adapters/storage"
	attendanceStore "clubhouse/internal/adapters/storage/attendance"
	lineupStore "clubhouse/internal/adapters/storage/lineup"
	memberStore "clubhouse/internal/adapters/storage/member"
	sessionStore "clubhouse/internal/adapters/storage/trainingsession"
	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/domain/trainingsession"
)

func newMigrateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDB(g.cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			v, err := storage.SchemaVersion(db)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s at schema version %d\n", g.cfg.DB, v)
			return nil
		},
	}
}

func newGenerateCmd(g *globals) *cobra.Command {
	var (
		in         trainingsession.GenerateInput
		seasonID   string
		coachID    string
		location   string
		create     bool
		attendance bool
		status     string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Preview recurring training sessions, optionally saving them",
		Example: "  clubhouse generate --from 2026-03-02 --to 2026-03-31 --weekdays monday,wednesday \\\n" +
			"    --time 17:30 --title \"U12 training\" --ordinal --category u12 --season 2026 --create",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !create {
				if err := orchestrators.CheckGenerateRange(in); err != nil {
					return err
				}
				drafts, err := trainingsession.Generate(in)
				if err != nil {
					return err
				}
				printDrafts(out, drafts)
				return nil
			}

			db, err := openDB(g.cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			members := memberStore.NewSQLiteStore(db)
			result, err := orchestrators.ExecuteCreateGeneratedSessions(cmd.Context(), orchestrators.CreateGeneratedSessionsInput{
				Generate:            in,
				SeasonID:            seasonID,
				CoachID:             coachID,
				Location:            location,
				BootstrapAttendance: attendance,
				DefaultStatus:       status,
			}, orchestrators.CreateGeneratedSessionsDeps{
				SessionStore:    sessionStore.NewSQLiteStore(db),
				AttendanceStore: attendanceStore.NewSQLiteStore(db),
				Roster:          orchestrators.RosterResolver{Lineups: lineupStore.NewSQLiteStore(db), Members: members},
				GenerateID:      func() string { return uuid.New().String() },
				Now:             time.Now,
			})
			if err != nil {
				return err
			}
			printDrafts(out, result.Drafts)
			_, _ = fmt.Fprintf(out, "created %s, failed %s, attendance records %s\n",
				humanize.Comma(int64(result.Created)),
				humanize.Comma(int64(result.Failed)),
				humanize.Comma(int64(result.AttendanceRecords)),
			)
			for _, msg := range result.Errors {
				_, _ = fmt.Fprintf(out, "  error: %s\n", msg)
			}
			if result.Failed > 0 {
				return fmt.Errorf("%d of %d sessions failed", result.Failed, len(result.Drafts))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.DateFrom, "from", "", "first date, YYYY-MM-DD")
	f.StringVar(&in.DateTo, "to", "", "last date, YYYY-MM-DD")
	f.StringSliceVar(&in.Weekdays, "weekdays", nil, "weekdays, e.g. monday,wednesday")
	f.StringVar(&in.Time, "time", "", "start time, HH:MM")
	f.StringVar(&in.TitleTemplate, "title", "", "session title")
	f.BoolVar(&in.IncludeOrdinal, "ordinal", false, "append a running number to each title")
	f.StringVar(&in.CategoryID, "category", "", "category id")
	f.StringVar(&seasonID, "season", "", "season id (required with --create)")
	f.StringVar(&coachID, "coach", "", "coach id")
	f.StringVar(&location, "location", "", "venue")
	f.BoolVar(&create, "create", false, "save the sessions instead of previewing")
	f.BoolVar(&attendance, "attendance", false, "create an attendance sheet for the roster")
	f.StringVar(&status, "attendance-status", "", "initial attendance status (default present)")
	return cmd
}

func printDrafts(out io.Writer, drafts []trainingsession.Draft) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DATE\tDAY\tTIME\tTITLE")
	for _, d := range drafts {
		day := ""
		if t, err := time.Parse(trainingsession.DateLayout, d.Date); err == nil {
			day = t.Weekday().String()[:3]
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Date, day, d.Time, d.Title)
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintf(out, "%s sessions\n", humanize.Comma(int64(len(drafts))))
}

func newImportMembersCmd(g *globals) *cobra.Command {
	var (
		dryRun     bool
		update     bool
		categoryID string
		sex        string
		importedBy string
	)

	cmd := &cobra.Command{
		Use:   "import-members <file.csv>",
		Short: "Import members from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			db, err := openDB(g.cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := importMembers(cmd.Context(), f, memberStore.NewSQLiteStore(db), orchestrators.ImportMembersInput{
				ImportedBy:        importedBy,
				DefaultCategoryID: categoryID,
				DefaultSex:        sex,
				DryRun:            dryRun,
				UpdateMode:        update,
			})
			if err != nil {
				return err
			}
			printImport(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate without saving")
	cmd.Flags().BoolVar(&update, "update", false, "update members that already exist")
	cmd.Flags().StringVar(&categoryID, "category", "", "category for rows without one")
	cmd.Flags().StringVar(&sex, "sex", "", "sex for rows without one")
	cmd.Flags().StringVar(&importedBy, "by", "cli", "name recorded as the importer")
	return cmd
}

func importMembers(ctx context.Context, r io.Reader, store orchestrators.ImportMemberStore, input orchestrators.ImportMembersInput) (orchestrators.ImportMembersResult, error) {
	input.Reader = r
	return orchestrators.ExecuteImportMembers(ctx, input, orchestrators.ImportMembersDeps{
		MemberStore: store,
		GenerateID:  func() string { return uuid.New().String() },
	})
}

func printImport(out io.Writer, r orchestrators.ImportMembersResult) {
	verb := "imported"
	if r.DryRun {
		verb = "checked"
	}
	_, _ = fmt.Fprintf(out, "%s %s rows: %s created, %s updated, %s skipped\n", verb,
		humanize.Comma(int64(r.Total)),
		humanize.Comma(int64(r.Created)),
		humanize.Comma(int64(r.Updated)),
		humanize.Comma(int64(r.Skipped)),
	)
	for _, e := range r.Errors {
		_, _ = fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Message)
	}
	if len(r.Unknown) > 0 {
		_, _ = fmt.Fprintf(out, "  ignored columns: %v\n", r.Unknown)
	}
}
