package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"course-studio/core/course"
	"course-studio/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the course commands
	dryRunImport bool
	yesConfirm   bool
)

// courseCmd is the parent command for course operations.
var courseCmd = &cobra.Command{
	Use:   "course",
	Short: "List, inspect, delete and import courses",
}

var courseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List courses, newest first",
	Args:  cobra.NoArgs,
	RunE:  runCourseList,
}

var courseShowCmd = &cobra.Command{
	Use:   "show [course-id]",
	Short: "Show a course with its modules and videos",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourseShow,
}

var courseDeleteCmd = &cobra.Command{
	Use:   "delete [course-id]",
	Short: "Delete a course with its modules and videos",
	Args:  cobra.ExactArgs(1),
	RunE:  runCourseDelete,
}

// courseImportCmd saves a course tree from a JSON file.
var courseImportCmd = &cobra.Command{
	Use:   "import [file.json]",
	Short: "Create or update a course from a JSON tree (report + confirmed apply)",
	Long: `Import a course tree from a JSON file.

The file has the shape returned by GET /courses/:id. A tree whose id names an
existing course updates it: modules and videos whose ids exist under the same
parent are updated, new ones are inserted and persisted ones missing from the
file are deleted. Without an id, or with an unknown one, a new course is created.

The planned operations are always printed first.

Examples:
  # Report only
  course import course.json --dry-run

  # Apply with interactive confirmation
  course import course.json

  # Apply with auto-confirm (non-interactive)
  course import course.json --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runCourseImport,
}

func init() {
	courseCmd.AddCommand(courseListCmd, courseShowCmd, courseDeleteCmd, courseImportCmd)

	courseDeleteCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	courseImportCmd.Flags().BoolVar(&dryRunImport, "dry-run", false, "Only print the plan")
	courseImportCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(courseCmd)
}

func runCourseList(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadRuntime()
	if err != nil {
		return err
	}
	svc, err := courseService(cfg, l)
	if err != nil {
		return err
	}

	list, err := svc.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list courses: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), summaryTable(list))
	return nil
}

func runCourseShow(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadRuntime()
	if err != nil {
		return err
	}
	svc, err := courseService(cfg, l)
	if err != nil {
		return err
	}

	view, err := svc.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load course %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s [%s]\n%s\n\n", view.Title, view.Category.Label(), view.Description)
	var rows [][]string
	for _, m := range view.Modules {
		rows = append(rows, []string{strconv.Itoa(m.OrderIndex + 1), m.Title, "", ""})
		for _, v := range m.Videos {
			rows = append(rows, []string{"", "", v.Title, v.EmbedURL})
		}
	}
	fmt.Fprintln(out, renderTable([]string{"#", "Module", "Video", "Embed URL"}, rows, []columnAlignment{alignRight}))
	return nil
}

func runCourseDelete(cmd *cobra.Command, args []string) error {
	cfg, l, err := loadRuntime()
	if err != nil {
		return err
	}
	svc, err := courseService(cfg, l)
	if err != nil {
		return err
	}

	if !confirmDestructiveAction(cmd.InOrStdin()) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}
	if err := svc.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete course %s: %w", args[0], err)
	}
	l.Info("Course deleted", zap.String("course", args[0]))
	return nil
}

func runCourseImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	tree, err := readCourseFile(args[0])
	if err != nil {
		return err
	}

	cfg, l, err := loadRuntime()
	if err != nil {
		return err
	}
	svc, err := courseService(cfg, l)
	if err != nil {
		return err
	}

	// Step 1: Plan (always runs)
	l.Info("Planning import...", zap.String("file", args[0]))
	imp, err := svc.PrepareImport(ctx, tree)
	if err != nil {
		return fmt.Errorf("failed to plan import: %w", err)
	}

	// Step 2: Print report
	printPlanReport(l, cmd.OutOrStdout(), imp.Plan)

	if dryRunImport {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if len(imp.Plan.Operations) == 0 {
		l.Info("No actions required.")
		return nil
	}

	// Step 3: Apply (if confirmed)
	if !confirmDestructiveAction(cmd.InOrStdin()) {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	l.Info("Applying operations...")
	result, err := svc.ApplyImport(ctx, imp, false)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}
	l.Info("Successfully executed operations",
		zap.String("course", result.CourseID),
		zap.Int("count", result.Executed),
	)
	return nil
}

// readCourseFile decodes a course tree from path.
func readCourseFile(path string) (course.Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return course.Course{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var tree course.Course
	if err := json.NewDecoder(f).Decode(&tree); err != nil {
		return course.Course{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return tree, nil
}

func summaryTable(list []course.Summary) string {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		rows = append(rows, []string{
			s.ID,
			s.Title,
			s.Category.Label(),
			strconv.Itoa(s.ModuleCount),
			strconv.Itoa(s.VideoCount),
		})
	}
	return renderTable(
		[]string{"ID", "Title", "Category", "Modules", "Videos"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
	)
}

// printPlanReport logs the plan summary and prints its operations as a table.
func printPlanReport(l *zap.Logger, out io.Writer, plan *reconcile.Plan) {
	s := plan.Summary

	l.Info("Import report",
		zap.Bool("create", plan.Create),
		zap.Int("inserts", s.Inserts),
		zap.Int("updates", s.Updates),
		zap.Int("prunes", s.Prunes),
		zap.Int("deletions", s.Deletions),
		zap.Int("skipped", s.Skipped),
	)

	rows := make([][]string, 0, len(plan.Operations))
	for i, op := range plan.Operations {
		detail := op.Title
		if len(op.KeepIDs) > 0 {
			detail = "keep " + strings.Join(op.KeepIDs, ", ")
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), string(op.Type), op.Key, detail})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "Operation", "Key", "Detail"}, rows, []columnAlignment{alignRight}))
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(in io.Reader) bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
