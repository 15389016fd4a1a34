package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ezequiel-arevalo/uba-bedelia/internal/app"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/config"
	apperrors "github.com/ezequiel-arevalo/uba-bedelia/internal/errors"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/exporter"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/files"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/infrastructure"
	"github.com/ezequiel-arevalo/uba-bedelia/internal/services"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts"
	"github.com/ezequiel-arevalo/uba-bedelia/pkg/contracts/domain"
)

// errUsage marks a bad command line; the flag package already printed why.
var errUsage = errors.New("usage")

// cli carries what every subcommand needs.
type cli struct {
	app    *app.Application
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, c *cli, args []string) error
}

var commands = []command{
	{"init", "create the data files, optionally with demo data", cmdInit},
	{"import", "import attendance files or directories as class sessions", cmdImport},
	{"students", "list students with their attendance", cmdStudents},
	{"stats", "show attendance statistics", cmdStats},
	{"diplomaturas", "list diplomaturas with enrollment and approval", cmdDiplomaturas},
	{"diplomatura-add", "create a diplomatura", cmdDiplomaturaAdd},
	{"diplomatura-delete", "delete a diplomatura with its students and sessions", cmdDiplomaturaDelete},
	{"student-add", "create a student", cmdStudentAdd},
	{"student-delete", "delete a student", cmdStudentDelete},
	{"sessions", "list imported class sessions", cmdSessions},
	{"session-delete", "delete an imported class session", cmdSessionDelete},
	{"export", "write the backup workbook", cmdExport},
	{"export-csv", "write the filtered student list as CSV", cmdExportCSV},
	{"serve", "run the local desk server", cmdServe},
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("bedelia", flag.ContinueOnError)
	global.SetOutput(stderr)
	configFile := global.String("config", "", "YAML config file (default: BEDELIA_CONFIG or ./bedelia.yaml)")
	global.Usage = func() { usage(stderr) }
	if err := global.Parse(args); err != nil {
		return 2
	}

	rest := global.Args()
	if len(rest) == 0 {
		usage(stderr)
		return 2
	}
	name, cmdArgs := rest[0], rest[1:]

	if name == "version" {
		fmt.Fprintln(stdout, contracts.GetVersionInfo().String())
		return 0
	}

	cmd, ok := findCommand(name)
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", name)
		usage(stderr)
		return 2
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		printError(stderr, err)
		return 1
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	application, err := app.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	c := &cli{app: application, out: stdout, errOut: stderr, now: time.Now}
	if err := cmd.run(ctx, c, cmdArgs); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		logger.DebugContext(ctx, "command failed", slog.String("command", name), slog.String("error", err.Error()))
		printError(stderr, err)
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, apperrors.NewConfigError("No se pudo cargar la configuración", err)
	}
	return cfg, nil
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: bedelia [-config file] <command> [flags]\n\nCommands:\n")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", c.name, c.summary)
	}
	fmt.Fprintf(tw, "  version\tprint version information\n")
	tw.Flush()
}

// printError shows application errors with their per-field messages.
func printError(w io.Writer, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "error: %s\n", appErr.Message)
	for _, f := range appErr.Fields {
		fmt.Fprintf(w, "  %s: %s\n", f.Field, f.Message)
	}
	if file, ok := appErr.Context["file"]; ok {
		fmt.Fprintf(w, "  file: %v\n", file)
	}
	if appErr.Cause != nil && apperrors.StatusFor(appErr.Type) >= 500 {
		fmt.Fprintf(w, "  cause: %v\n", appErr.Cause)
	}
}

func newFlagSet(name string, c *cli) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

// viewFlags registers the filter and sort flags shared by students, stats
// and export-csv.
type viewFlags struct {
	search      *string
	diplomatura *string
	aprobado    *string
	sortKey     *string
	desc        *bool
}

func addViewFlags(fs *flag.FlagSet) viewFlags {
	return viewFlags{
		search:      fs.String("search", "", "match name, id, phone, email or diplomatura"),
		diplomatura: fs.String("diplomatura", "", "comma separated diplomaturas (default: all)"),
		aprobado:    fs.String("aprobado", "", "all, aprobado or no-aprobado"),
		sortKey:     fs.String("sort", "", "idEstudiante or aprobado"),
		desc:        fs.Bool("desc", false, "sort descending"),
	}
}

func (v viewFlags) query() (domain.Filters, domain.SortConfig) {
	filters := domain.Filters{
		Search:   *v.search,
		Aprobado: domain.ApprovalFilter(*v.aprobado),
	}
	for _, name := range strings.Split(*v.diplomatura, ",") {
		if name = strings.TrimSpace(name); name != "" {
			filters.Diplomatura = append(filters.Diplomatura, name)
		}
	}
	sortCfg := domain.SortConfig{Key: domain.SortKey(*v.sortKey), Direction: domain.SortAsc}
	if *v.desc {
		sortCfg.Direction = domain.SortDesc
	}
	return filters, sortCfg
}

func cmdInit(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("init", c)
	demo := fs.Bool("demo", false, "seed the demo diplomatura, student and session")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	written, err := c.app.Attendance.Initialize(ctx, *demo)
	if err != nil {
		return err
	}
	if !written {
		fmt.Fprintf(c.out, "data already initialized in %s\n", c.app.Paths.DataDir)
		return nil
	}
	fmt.Fprintf(c.out, "initialized %s\n", c.app.Paths.DataDir)
	return nil
}

func cmdImport(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("import", c)
	diplomatura := fs.String("diplomatura", "", "diplomatura the sessions belong to (required)")
	date := fs.String("date", "", "session date YYYY-MM-DD, overrides the file name date")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *diplomatura == "" || fs.NArg() == 0 {
		fmt.Fprintln(c.errOut, "usage: bedelia import -diplomatura NAME [-date YYYY-MM-DD] FILE|DIR...")
		return errUsage
	}

	paths, err := files.ExpandAttendancePaths(fs.Args())
	if err != nil {
		return apperrors.NewIOError("No se pudo leer la ruta", err)
	}
	if len(paths) == 0 {
		return apperrors.NewIOError("No se encontraron archivos de asistencia", nil)
	}

	reqs := make([]services.ImportRequest, 0, len(paths))
	for _, p := range paths {
		if err := c.app.FileValidator.ValidateAttendanceFile(p); err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return apperrors.NewIOError("No se pudo leer el archivo", err).WithContext("file", p)
		}
		reqs = append(reqs, services.ImportRequest{
			FileName:    filepath.Base(p),
			Diplomatura: *diplomatura,
			Date:        *date,
			Data:        data,
		})
	}

	sessions, err := c.app.Attendance.ImportBatch(ctx, reqs)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FECHA\tARCHIVO\tPRESENTES")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\n", s.Date, s.FileName, s.PresentStudents, s.TotalStudents)
	}
	tw.Flush()
	fmt.Fprintf(c.out, "%d session(s) imported into %s\n", len(sessions), *diplomatura)
	return nil
}

func cmdStudents(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("students", c)
	vf := addViewFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	filters, sortCfg := vf.query()
	view, err := c.app.Attendance.View(ctx, filters, sortCfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tID ESTUDIANTE\tNOMBRE\tDIPLOMATURA\tCLASES\tASISTENCIA\tESTADO")
	for _, s := range view.Students {
		estado := "No Aprobado"
		if s.Aprobado {
			estado = "Aprobado"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%.1f%%\t%s\n",
			s.ID, s.IDEstudiante, s.FullName(), s.Diplomatura,
			s.AttendedClasses, s.TotalClassesForDiplomatura, s.AttendancePercentage, estado)
	}
	tw.Flush()
	fmt.Fprintf(c.out, "%d student(s)\n", len(view.Students))
	return nil
}

func cmdStats(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("stats", c)
	vf := addViewFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	filters, sortCfg := vf.query()
	view, err := c.app.Attendance.View(ctx, filters, sortCfg)
	if err != nil {
		return err
	}

	st := view.Stats
	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total estudiantes\t%d\n", st.TotalStudents)
	fmt.Fprintf(tw, "Aprobados\t%d\n", st.ApprovedStudents)
	fmt.Fprintf(tw, "No aprobados\t%d\n", st.NotApprovedStudents)
	fmt.Fprintf(tw, "Asistencia promedio\t%.1f%%\n", st.AverageAttendance)
	return tw.Flush()
}

func cmdDiplomaturas(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("diplomaturas", c)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	list, err := c.app.Attendance.Diplomaturas(ctx)
	if err != nil {
		return err
	}
	summaries, err := c.app.Attendance.DiplomaturaSummaries(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]domain.DiplomaturaSummary, len(summaries))
	for _, s := range summaries {
		byName[s.Name] = s
	}

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tCLASES\tREQUERIDAS\tESTUDIANTES\tAPROBADOS")
	for _, d := range list {
		s := byName[d.Name]
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n", d.ID, d.Name, d.TotalClasses, d.RequiredClasses(), s.Students, s.Approved)
	}
	return tw.Flush()
}

func cmdDiplomaturaAdd(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("diplomatura-add", c)
	name := fs.String("name", "", "diplomatura name")
	classes := fs.Int("classes", c.app.Config.Attendance.DefaultTotalClasses, "total number of classes")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	d, err := c.app.Attendance.AddDiplomatura(ctx, domain.DiplomaturaInput{Name: *name, TotalClasses: *classes})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "diplomatura %s created (id %s, %d classes)\n", d.Name, d.ID, d.TotalClasses)
	return nil
}

func cmdDiplomaturaDelete(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("diplomatura-delete", c)
	id := fs.String("id", "", "diplomatura id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	res, err := c.app.Attendance.DeleteDiplomatura(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "diplomatura %s deleted with %d student(s) and %d session(s)\n",
		res.Diplomatura.Name, res.StudentsRemoved, res.SessionsRemoved)
	return nil
}

func cmdStudentAdd(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("student-add", c)
	var in domain.StudentInput
	fs.StringVar(&in.Nombre, "nombre", "", "first name")
	fs.StringVar(&in.Apellido, "apellido", "", "last name")
	fs.StringVar(&in.Telefono, "telefono", "", "phone")
	fs.StringVar(&in.Email, "email", "", "email")
	fs.StringVar(&in.Diplomatura, "diplomatura", "", "diplomatura name")
	fs.StringVar(&in.IDEstudiante, "id", "", "student id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	s, err := c.app.Attendance.AddStudent(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "student %s created (id %s)\n", s.FullName(), s.ID)
	return nil
}

func cmdStudentDelete(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("student-delete", c)
	id := fs.String("id", "", "student record id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := c.app.Attendance.DeleteStudent(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "student %s deleted\n", *id)
	return nil
}

func cmdSessions(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("sessions", c)
	diplomatura := fs.String("diplomatura", "", "only sessions of this diplomatura")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	sessions, err := c.app.Attendance.Sessions(ctx)
	if err != nil {
		return err
	}
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Date < sessions[j].Date })

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFECHA\tDIPLOMATURA\tARCHIVO\tPRESENTES")
	for _, s := range sessions {
		if *diplomatura != "" && s.Diplomatura != *diplomatura {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\n", s.ID, s.Date, s.Diplomatura, s.FileName, s.PresentStudents, s.TotalStudents)
	}
	return tw.Flush()
}

func cmdSessionDelete(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("session-delete", c)
	id := fs.String("id", "", "session id")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if err := c.app.Attendance.DeleteSession(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "session %s deleted\n", *id)
	return nil
}

func cmdExport(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("export", c)
	out := fs.String("out", "", "output file (default: exports/Backup-DD-MM-YYYY.xlsx)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	now := c.now()
	var buf bytes.Buffer
	if err := c.app.Attendance.ExportBackup(ctx, &buf, now); err != nil {
		return err
	}

	path := "exports/" + exporter.BackupFileName(now)
	if *out != "" {
		var err error
		if path, err = outputPath(c, *out); err != nil {
			return err
		}
	}
	if err := c.app.Files.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return apperrors.NewIOError("No se pudo guardar el respaldo", err)
	}
	fmt.Fprintf(c.out, "backup written to %s\n", c.app.Files.CleanPath(path))
	return nil
}

func cmdExportCSV(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("export-csv", c)
	out := fs.String("out", "", "output file (default: exports/estudiantes_DD-MM-YYYY.csv)")
	vf := addViewFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	filters, sortCfg := vf.query()
	view, err := c.app.Attendance.View(ctx, filters, sortCfg)
	if err != nil {
		return err
	}

	path := "estudiantes_" + c.now().Format("02-01-2006") + ".csv"
	if *out != "" {
		if path, err = outputPath(c, *out); err != nil {
			return err
		}
	}
	written, err := exporter.NewCSVWriter(c.app.Paths).WriteStudentsCSV(path, view.Students)
	if err != nil {
		return apperrors.NewIOError("No se pudo guardar el CSV", err)
	}
	fmt.Fprintf(c.out, "%d student(s) written to %s\n", len(view.Students), written)
	return nil
}

// outputPath makes a user supplied -out path absolute and checks that its
// directory is writable.
func outputPath(c *cli, out string) (string, error) {
	abs, err := filepath.Abs(out)
	if err != nil {
		return "", apperrors.NewIOError("Ruta de salida inválida", err)
	}
	if err := c.app.FileValidator.ValidateOutputDirectory(filepath.Dir(abs)); err != nil {
		return "", err
	}
	return abs, nil
}

func cmdServe(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet("serve", c)
	demo := fs.Bool("demo", false, "seed demo data when the data directory is empty")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if _, err := c.app.Attendance.Initialize(ctx, *demo); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "serving on http://%s (Ctrl+C to stop)\n", c.app.Config.Server.Addr())
	return c.app.Run(ctx)
}
