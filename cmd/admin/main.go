package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/pdf"
	"folio/internal/render"
	"folio/internal/resume"
	"folio/internal/store"
	"folio/internal/theme"
	"folio/internal/view"
)

const usage = `用法:
  admin themes
  admin render  -in resume.json [-theme modern] [-mode resume|cover] [-format page|fragment|text|pdf] [-out file]
  admin profile-export -owner OWNER -name NAME [-out file] [数据库参数]
  admin profile-import -owner OWNER -name NAME -in resume.json [数据库参数]`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "themes":
		err = listThemes(os.Stdout)
	case "render":
		err = runRender(os.Args[2:])
	case "profile-export":
		err = runProfileExport(os.Args[2:])
	case "profile-import":
		err = runProfileImport(os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func listThemes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLAYOUT\tPRIMARY")
	for _, t := range theme.Default().All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Layout, t.Colors.Primary)
	}
	return tw.Flush()
}

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var (
		in      = fs.String("in", "-", "简历 JSON 文件（导出信封或裸文档），- 表示标准输入")
		themeID = fs.String("theme", "", "主题 ID，未知时回落到默认主题")
		mode    = fs.String("mode", "resume", "resume 或 cover")
		format  = fs.String("format", "page", "page、fragment、text 或 pdf")
		out     = fs.String("out", "-", "输出文件，- 表示标准输出")
		browser = fs.String("browser", os.Getenv("ROD_BROWSER_BIN"), "pdf 输出使用的浏览器路径（可选）")
	)
	_ = fs.Parse(args)

	doc, err := readDocument(*in)
	if err != nil {
		return err
	}
	engine := render.NewEngine(theme.Default())
	m := render.ParseMode(*mode)

	var output []byte
	switch *format {
	case "page":
		output, err = engine.Page(doc, *themeID, m)
	case "fragment":
		root, _ := engine.RenderByID(doc, *themeID, m)
		output = []byte(view.String(root))
	case "text":
		output = []byte(resume.PlainText(doc))
	case "pdf":
		output, err = printPDF(engine, doc, *themeID, m, *browser)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		return err
	}
	return writeOutput(*out, output)
}

func printPDF(engine *render.Engine, doc resume.Document, themeID string, mode render.Mode, browser string) ([]byte, error) {
	page, err := engine.Page(doc, themeID, mode)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	gen := pdf.NewGenerator(browser, time.Minute, nil)
	return gen.PrintPDF(ctx, page, view.PaperFor(string(doc.Settings.PaperSize)))
}

func runProfileExport(args []string) error {
	fs := flag.NewFlagSet("profile-export", flag.ExitOnError)
	owner := fs.String("owner", "", "档案所属的 owner（必填）")
	name := fs.String("name", "", "档案名（必填）")
	out := fs.String("out", "-", "输出文件，- 表示标准输出")
	dbFlags := registerDatabaseFlags(fs)
	_ = fs.Parse(args)

	if strings.TrimSpace(*owner) == "" || strings.TrimSpace(*name) == "" {
		return errors.New("missing required flag: --owner / --name")
	}
	profiles, err := openProfiles(dbFlags, *owner)
	if err != nil {
		return err
	}
	data, err := profiles.Get(context.Background(), *name)
	if err != nil {
		return err
	}
	return writeOutput(*out, data)
}

func runProfileImport(args []string) error {
	fs := flag.NewFlagSet("profile-import", flag.ExitOnError)
	owner := fs.String("owner", "", "档案所属的 owner（必填）")
	name := fs.String("name", "", "档案名（必填）")
	in := fs.String("in", "-", "简历 JSON 文件，- 表示标准输入")
	dbFlags := registerDatabaseFlags(fs)
	_ = fs.Parse(args)

	if strings.TrimSpace(*owner) == "" || strings.TrimSpace(*name) == "" {
		return errors.New("missing required flag: --owner / --name")
	}
	doc, err := readDocument(*in)
	if err != nil {
		return err
	}
	envelope, err := resume.Export(doc)
	if err != nil {
		return err
	}
	profiles, err := openProfiles(dbFlags, *owner)
	if err != nil {
		return err
	}
	if err := profiles.Put(context.Background(), *name, envelope); err != nil {
		return err
	}
	fmt.Printf("已保存档案 %s/%s（%d 字节）\n", *owner, *name, len(envelope))
	return nil
}

func readDocument(path string) (resume.Document, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return resume.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return resume.Import(resume.Empty(), data)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

type databaseFlags struct {
	host, name, user, password, sslmode *string
	port                                *int
}

func registerDatabaseFlags(fs *flag.FlagSet) databaseFlags {
	return databaseFlags{
		host:     fs.String("db-host", "", "数据库 Host（可选，默认读 DATABASE_HOST）"),
		port:     fs.Int("db-port", 0, "数据库 Port（可选，默认读 DATABASE_PORT）"),
		name:     fs.String("db-name", "", "数据库名（可选，默认读 POSTGRES_DB）"),
		user:     fs.String("db-user", "", "数据库用户（可选，默认读 POSTGRES_USER）"),
		password: fs.String("db-password", "", "数据库密码（可选，默认读 POSTGRES_PASSWORD）"),
		sslmode:  fs.String("db-sslmode", "", "数据库 SSLMODE（可选，默认读 DATABASE_SSLMODE）"),
	}
}

func openProfiles(f databaseFlags, owner string) (*store.GormStore, error) {
	dbCfg, err := loadDatabaseConfig(*f.host, *f.port, *f.name, *f.user, *f.password, *f.sslmode)
	if err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}
	db, err := database.Open(context.Background(), dbCfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	return store.NewGormStore(db, owner, store.DefaultMaxBytes), nil
}

// loadDatabaseConfig 以命令行参数优先，其次读环境变量。
func loadDatabaseConfig(host string, port int, name, user, password, sslmode string) (config.DatabaseConfig, error) {
	host = firstNonEmpty(host, os.Getenv("DATABASE_HOST"), "localhost")
	name = firstNonEmpty(name, os.Getenv("POSTGRES_DB"))
	user = firstNonEmpty(user, os.Getenv("POSTGRES_USER"))
	password = firstNonEmpty(password, os.Getenv("POSTGRES_PASSWORD"))
	sslmode = firstNonEmpty(sslmode, os.Getenv("DATABASE_SSLMODE"), "disable")

	if port <= 0 {
		if env := strings.TrimSpace(os.Getenv("DATABASE_PORT")); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return config.DatabaseConfig{}, fmt.Errorf("parse DATABASE_PORT: %w", err)
			}
			port = p
		}
	}
	if port <= 0 {
		port = 5432
	}
	if name == "" {
		return config.DatabaseConfig{}, errors.New("database name is required (POSTGRES_DB)")
	}
	if user == "" {
		return config.DatabaseConfig{}, errors.New("database user is required (POSTGRES_USER)")
	}

	return config.DatabaseConfig{
		Host:         host,
		Port:         port,
		Name:         name,
		User:         user,
		Password:     password,
		SSLMode:      sslmode,
		MaxIdleConns: 1,
		MaxOpenConns: 2,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
