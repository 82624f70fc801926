package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/boardfoot/internal/export"
	"github.com/piwi3910/boardfoot/internal/importer"
	"github.com/piwi3910/boardfoot/internal/model"
	"github.com/piwi3910/boardfoot/internal/project"
	"github.com/piwi3910/boardfoot/internal/session"
)

var errQuit = errors.New("quit")

// app binds the commands to one session and its order store.
type app struct {
	cfg        model.AppConfig
	configPath string
	store      *project.OrderStore
	session    *session.Session
	out        io.Writer
	logger     *log.Logger
}

func newApp(ctx context.Context, store *project.OrderStore, cfg model.AppConfig, configPath string, out io.Writer, logger *log.Logger) *app {
	a := &app{
		cfg:        cfg,
		configPath: configPath,
		store:      store,
		out:        out,
		logger:     logger,
	}
	a.resetSession(ctx)
	return a
}

// resetSession starts a fresh session and picks up any stored draft.
func (a *app) resetSession(ctx context.Context) {
	a.session = session.New(a.store, session.WithLogger(a.logger), session.WithConfig(a.cfg))
	a.session.Restore(ctx)
}

var commandHelp = [][2]string{
	{"add", "add a board: -t thickness -w width -l length [-q qty] [-price p] [-species s] [-preset 2x4] [-unit u] [-length-unit u] [-pricing p]"},
	{"edit [flags] <board>", "change a board in the list, same flags as add"},
	{"remove <board>", "remove a board from the list"},
	{"list", "show the working list with totals"},
	{"clear", "empty the working list"},
	{"undo / redo", "revert or reapply the last change"},
	{"report", "print the export text of the working list"},
	{"save [-name n]", "save the working list as a new order"},
	{"orders", "list saved orders"},
	{"show <order>", "print a saved order's report"},
	{"load <order>", "copy a saved order into the working list"},
	{"delete <order>", "delete a saved order"},
	{"delete-all", "delete every saved order"},
	{"import <file>", "add boards from a .csv or .xlsx file"},
	{"pdf [-o file] [order]", "write a PDF report of an order or the working list"},
	{"labels [-o file] <order>", "write QR board labels for an order"},
	{"xlsx [-o file]", "write all saved orders to a workbook"},
	{"backup [-o file]", "write config, orders and draft to a JSON backup"},
	{"restore <file>", "replace orders and draft from a backup"},
	{"config [-init]", "print the effective config, or write it to the config file"},
	{"presets", "list lumber presets for the current unit"},
	{"species", "list common hardwoods"},
	{"help", "show this help"},
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "commands:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range commandHelp {
		fmt.Fprintf(tw, "  %s\t%s\n", c[0], c[1])
	}
	tw.Flush()
	fmt.Fprintln(w, "<board> and <order> are a list number or an id prefix.")
}

// shell reads commands line by line until EOF or quit.
func (a *app) shell(ctx context.Context, in io.Reader) error {
	if n := a.session.Len(); n > 0 {
		fmt.Fprintf(a.out, "restored %d boards from the last session\n", n)
	}
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}
		args, err := splitArgs(scanner.Text())
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if err := a.exec(ctx, args); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// splitArgs splits a shell line on spaces, honouring double quotes.
func splitArgs(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	r.LazyQuotes = true
	fields, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	args := fields[:0]
	for _, f := range fields {
		if f != "" {
			args = append(args, f)
		}
	}
	return args, nil
}

func (a *app) exec(ctx context.Context, args []string) error {
	name, rest := args[0], args[1:]
	switch name {
	case "add":
		return a.cmdAdd(ctx, rest)
	case "edit":
		return a.cmdEdit(ctx, rest)
	case "remove", "rm":
		return a.cmdRemove(ctx, rest)
	case "list", "ls":
		a.cmdList()
		return nil
	case "clear":
		a.session.Clear(ctx)
		fmt.Fprintln(a.out, "cleared")
		return nil
	case "undo":
		label := a.session.UndoLabel()
		if !a.session.Undo(ctx) {
			return errors.New("nothing to undo")
		}
		fmt.Fprintf(a.out, "undid %s\n", label)
		return nil
	case "redo":
		label := a.session.RedoLabel()
		if !a.session.Redo(ctx) {
			return errors.New("nothing to redo")
		}
		fmt.Fprintf(a.out, "redid %s\n", label)
		return nil
	case "report":
		fmt.Fprint(a.out, a.session.ExportText())
		return nil
	case "save":
		return a.cmdSave(ctx, rest)
	case "orders":
		a.cmdOrders(ctx)
		return nil
	case "show":
		return a.cmdShow(ctx, rest)
	case "load":
		return a.cmdLoad(ctx, rest)
	case "delete":
		return a.cmdDelete(ctx, rest)
	case "delete-all":
		a.store.DeleteAllOrders(ctx)
		fmt.Fprintln(a.out, "deleted all orders")
		return nil
	case "import":
		return a.cmdImport(ctx, rest)
	case "pdf":
		return a.cmdPDF(ctx, rest)
	case "labels":
		return a.cmdLabels(ctx, rest)
	case "xlsx":
		return a.cmdExcel(ctx, rest)
	case "backup":
		return a.cmdBackup(ctx, rest)
	case "restore":
		return a.cmdRestore(ctx, rest)
	case "config":
		return a.cmdConfig(rest)
	case "presets":
		a.cmdPresets()
		return nil
	case "species":
		for _, s := range model.CommonHardwoods {
			fmt.Fprintln(a.out, s)
		}
		return nil
	case "help", "-h", "--help":
		printHelp(a.out)
		return nil
	case "quit", "exit":
		return errQuit
	}
	return fmt.Errorf("unknown command %q, try help", name)
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// boardFlags registers the board input flags on fs. apply copies the flags
// that were set into in.
func boardFlags(fs *flag.FlagSet) (apply func(in *model.BoardInput) error) {
	thickness := fs.String("t", "", "thickness (quarters for imperial, cm for metric)")
	width := fs.String("w", "", "width (inches or cm)")
	length := fs.String("l", "", "length (feet/inches or cm)")
	qty := fs.String("q", "", "quantity")
	price := fs.String("price", "", "price per board foot or per linear unit")
	species := fs.String("species", "", "wood species")
	preset := fs.String("preset", "", "lumber preset, e.g. 2x4")
	unit := fs.String("unit", "", "Imperial or Metric")
	lengthUnit := fs.String("length-unit", "", "ft or in")
	pricing := fs.String("pricing", "", "per board foot or linear")

	return func(in *model.BoardInput) error {
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

		if set["unit"] {
			u, err := model.ParseMeasurementUnit(*unit)
			if err != nil {
				return err
			}
			in.Unit = u
		}
		if set["length-unit"] {
			lu, err := model.ParseLengthUnit(*lengthUnit)
			if err != nil {
				return err
			}
			in.LengthUnit = lu
		}
		if set["pricing"] {
			p, err := model.ParsePricingType(*pricing)
			if err != nil {
				return err
			}
			in.PricingType = p
		}
		if set["preset"] {
			p := model.FindPreset(in.Unit, *preset)
			if p == nil {
				return fmt.Errorf("no %s preset named %q", in.Unit, *preset)
			}
			in.ApplyPreset(*p)
		}
		if set["t"] {
			in.Thickness = *thickness
		}
		if set["w"] {
			in.Width = *width
		}
		if set["l"] {
			in.Length = *length
		}
		if set["q"] {
			in.Quantity = *qty
		}
		if set["price"] {
			in.Price = *price
		}
		if set["species"] {
			in.Species = *species
		}
		return nil
	}
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	fs := a.newFlagSet("add")
	apply := boardFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := apply(a.session.Input()); err != nil {
		return err
	}
	b, err := a.session.AddCurrent(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added %s\n", describe(b))
	return nil
}

func (a *app) cmdEdit(ctx context.Context, args []string) error {
	fs := a.newFlagSet("edit")
	apply := boardFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	current, err := a.findBoard(fs.Arg(0))
	if err != nil {
		return err
	}
	in := inputFromBoard(current)
	if err := apply(&in); err != nil {
		return err
	}
	b, err := in.Build()
	if err != nil {
		return err
	}
	b.ID = current.ID
	if err := a.session.Update(ctx, b); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "updated %s\n", describe(b))
	return nil
}

func (a *app) cmdRemove(ctx context.Context, args []string) error {
	b, err := a.findBoard(firstArg(args))
	if err != nil {
		return err
	}
	if err := a.session.Remove(ctx, b.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "removed %s\n", describe(b))
	return nil
}

func (a *app) cmdList() {
	boards := a.session.Boards()
	if len(boards) == 0 {
		fmt.Fprintln(a.out, "no boards")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tBOARD\tBOARD FEET\tCOST")
	for i, b := range boards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, shortID(b.ID), model.DisplayString(b, true),
			model.FormatFixed2(model.BoardFeet(b)), "$"+model.FormatFixed2(model.Cost(b)))
	}
	bf, cost := a.session.Totals()
	fmt.Fprintf(tw, "\t\tTotal\t%s\t%s\n", model.FormatFixed2(bf), "$"+model.FormatFixed2(cost))
	tw.Flush()
}

func (a *app) cmdSave(ctx context.Context, args []string) error {
	fs := a.newFlagSet("save")
	name := fs.String("name", "", "order name (default: Order N)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" && fs.NArg() > 0 {
		*name = strings.Join(fs.Args(), " ")
	}
	order, err := a.session.Save(ctx, *name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "saved %s (%s)%s\n", order.Name, shortID(order.ID), amounts(order.TotalBoardFeet, order.TotalCost))
	return nil
}

func (a *app) cmdOrders(ctx context.Context) {
	orders := a.store.ListOrders(ctx)
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "no saved orders")
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tDATE\tBOARDS\tBOARD FEET\tCOST")
	for i, o := range orders {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n", i+1, shortID(o.ID), o.Name, model.FormatReportDate(o.Date),
			len(o.Boards), model.FormatFixed2(o.TotalBoardFeet), "$"+model.FormatFixed2(o.TotalCost))
	}
	tw.Flush()
}

func (a *app) cmdShow(ctx context.Context, args []string) error {
	order, err := a.findOrder(ctx, firstArg(args))
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, order.ExportText())
	return nil
}

func (a *app) cmdLoad(ctx context.Context, args []string) error {
	order, err := a.findOrder(ctx, firstArg(args))
	if err != nil {
		return err
	}
	if _, err := a.session.LoadOrderByID(ctx, order.ID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "loaded %d boards from %s; save creates a new order\n", len(order.Boards), order.Name)
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	order, err := a.findOrder(ctx, firstArg(args))
	if err != nil {
		return err
	}
	a.store.DeleteOrder(ctx, order.ID)
	fmt.Fprintf(a.out, "deleted %s\n", order.Name)
	return nil
}

func (a *app) cmdImport(ctx context.Context, args []string) error {
	path := firstArg(args)
	if path == "" {
		return errors.New("import needs a file")
	}
	in := a.session.Input()
	opts := importer.Options{Unit: in.Unit, LengthUnit: in.LengthUnit, Species: in.Species, Price: in.Price}

	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		result = importer.ImportExcel(path, opts)
	default:
		result = importer.ImportCSV(path, opts)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(a.out, "warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(a.out, "skipped: %s\n", e)
	}
	if err := a.session.AddBoards(ctx, result.Boards); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %d boards\n", len(result.Boards))
	return nil
}

func (a *app) cmdPDF(ctx context.Context, args []string) error {
	fs := a.newFlagSet("pdf")
	out := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		path := orDefault(*out, "boards.pdf")
		title := a.cfg.ReportTitle
		if title == "" {
			title = model.DraftExportTitle
		}
		if err := export.ExportBoardsPDF(path, title, a.session.Boards()); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "wrote %s\n", path)
		return nil
	}
	order, err := a.findOrder(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	path := orDefault(*out, fileName(order.Name, ".pdf"))
	if err := export.ExportOrderPDF(path, order); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %s\n", path)
	return nil
}

func (a *app) cmdLabels(ctx context.Context, args []string) error {
	fs := a.newFlagSet("labels")
	out := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	order, err := a.findOrder(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	path := orDefault(*out, fileName(order.Name, "-labels.pdf"))
	if err := export.ExportLabels(path, order); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %s\n", path)
	return nil
}

func (a *app) cmdExcel(ctx context.Context, args []string) error {
	fs := a.newFlagSet("xlsx")
	out := fs.String("o", "orders.xlsx", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := export.ExportExcel(*out, a.store.ListOrders(ctx)); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %s\n", *out)
	return nil
}

func (a *app) cmdBackup(ctx context.Context, args []string) error {
	fs := a.newFlagSet("backup")
	out := fs.String("o", "boardfoot-backup.json", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	draft, _ := a.store.LoadDraft(ctx)
	if err := project.ExportAllData(*out, a.cfg, a.store.ListOrders(ctx), draft); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %s\n", *out)
	return nil
}

func (a *app) cmdRestore(ctx context.Context, args []string) error {
	path := firstArg(args)
	if path == "" {
		return errors.New("restore needs a backup file")
	}
	backup, err := project.ImportAllData(path)
	if err != nil {
		return err
	}
	project.RestoreBackup(ctx, a.store, backup)
	a.resetSession(ctx)
	fmt.Fprintf(a.out, "restored %d orders and %d draft boards\n", len(backup.Orders), len(backup.Draft))
	return nil
}

func (a *app) cmdConfig(args []string) error {
	fs := a.newFlagSet("config")
	initFile := fs.Bool("init", false, "write the effective config to the config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *initFile {
		if err := project.SaveAppConfig(a.configPath, a.cfg); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "wrote %s\n", a.configPath)
		return nil
	}
	data, err := json.MarshalIndent(a.cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, string(data))
	fmt.Fprintf(a.out, "config file: %s\n", a.configPath)
	if loc := a.store.Location(); loc != "" {
		fmt.Fprintf(a.out, "storage: %s (%s)\n", a.store.Backend(), loc)
	} else {
		fmt.Fprintf(a.out, "storage: %s\n", a.store.Backend())
	}
	return nil
}

func (a *app) cmdPresets() {
	unit := a.session.Input().Unit
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tTHICKNESS\tWIDTH\n", strings.ToUpper(unit.String()))
	for _, p := range model.PresetsFor(unit) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, strconv.FormatFloat(p.Thickness, 'f', -1, 64), strconv.FormatFloat(p.Width, 'f', -1, 64))
	}
	tw.Flush()
}

// findBoard resolves a list number or id prefix against the working list.
func (a *app) findBoard(ref string) (model.BoardEntry, error) {
	boards := a.session.Boards()
	i, err := resolve(ref, len(boards), func(i int) string { return boards[i].ID })
	if err != nil {
		return model.BoardEntry{}, fmt.Errorf("board %w", err)
	}
	return boards[i], nil
}

// findOrder resolves a list number or id prefix against the saved orders.
func (a *app) findOrder(ctx context.Context, ref string) (model.SavedOrder, error) {
	orders := a.store.ListOrders(ctx)
	i, err := resolve(ref, len(orders), func(i int) string { return orders[i].ID })
	if err != nil {
		return model.SavedOrder{}, fmt.Errorf("order %w", err)
	}
	return orders[i], nil
}

func resolve(ref string, n int, id func(int) string) (int, error) {
	if ref == "" {
		return 0, errors.New("reference missing")
	}
	if i, err := strconv.Atoi(ref); err == nil {
		if i < 1 || i > n {
			return 0, fmt.Errorf("%d out of range 1-%d", i, n)
		}
		return i - 1, nil
	}
	match := -1
	for i := 0; i < n; i++ {
		if strings.HasPrefix(id(i), ref) {
			if match >= 0 {
				return 0, fmt.Errorf("%q is ambiguous", ref)
			}
			match = i
		}
	}
	if match < 0 {
		return 0, fmt.Errorf("%q: %w", ref, session.ErrNotFound)
	}
	return match, nil
}

func inputFromBoard(b model.BoardEntry) model.BoardInput {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	in := model.NewBoardInput()
	in.Unit = b.Unit
	in.LengthUnit = b.LengthUnitOrFeet()
	in.PricingType = b.PricingType
	in.Length = num(b.Length)
	in.Quantity = strconv.Itoa(b.Quantity)
	if b.Thickness != nil {
		in.Thickness = num(*b.Thickness)
	}
	if b.Width != nil {
		in.Width = num(*b.Width)
	}
	if b.Price != nil {
		in.Price = num(*b.Price)
	}
	if b.WoodSpecies != nil {
		in.Species = *b.WoodSpecies
	}
	return in
}

func describe(b model.BoardEntry) string {
	return model.DisplayString(b, true) + amounts(model.BoardFeet(b), model.Cost(b))
}

// amounts renders the " - x bf - $y" suffix, leaving out zero parts.
func amounts(bf, cost float64) string {
	var s string
	if bf > 0 {
		s += " - " + model.FormatFixed2(bf) + " bf"
	}
	if cost > 0 {
		s += " - $" + model.FormatFixed2(cost)
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// fileName turns an order name into a file name with the given suffix.
func fileName(name, suffix string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, strings.TrimSpace(name))
	if clean == "" {
		clean = "order"
	}
	return strings.ToLower(clean) + suffix
}
