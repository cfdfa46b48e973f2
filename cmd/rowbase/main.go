// Command rowbase is a small shell over a rowbase data directory: create
// tables, insert rows, and dump contents through the cursor/accessor API.
package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rowbase/rowbase/internal"
	"github.com/rowbase/rowbase/internal/engine"
	"github.com/rowbase/rowbase/internal/storage"
	"github.com/rowbase/rowbase/internal/table"
	"github.com/rowbase/rowbase/internal/value"
)

var (
	dataDir    string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "rowbase",
	Short: "Embedded table store shell",
	Long: `rowbase manages tables in a local data directory.

Examples:
  rowbase create users id:int name:string active:bool
  rowbase insert users 1 alice true
  rowbase dump users`,
	SilenceUsage: true,
}

func openDatabase() (*engine.Database, error) {
	dir := dataDir
	db := engine.NewDatabase(dir)
	if configPath == "" {
		return db, nil
	}
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Storage.DataDir != "" {
		db.DataDir = cfg.Storage.DataDir
	}
	if cfg.Storage.PageSize != 0 {
		sm, err := storage.NewStorageManagerSize(cfg.Storage.PageSize)
		if err != nil {
			return nil, err
		}
		db.SM = sm
	}
	if cfg.CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	return db, nil
}

var createCmd = &cobra.Command{
	Use:   "create <table> <name:kind>...",
	Short: "Create a table from name:kind column declarations",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		schema, err := parseSchema(args[1:])
		if err != nil {
			return err
		}
		tbl, err := db.CreateTable(args[0], schema)
		if err != nil {
			return err
		}
		return db.SaveTable(args[0], tbl)
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		names, err := db.ListTables()
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <table>",
	Short: "Show a table's schema and row count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		meta, err := db.Meta(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("table %s: %d rows\n", meta.Name, meta.RowCount)
		for i, col := range meta.Schema.Cols {
			fmt.Printf("  %d %s %s\n", i, col.Name, col.Kind)
		}
		return nil
	},
}

var insertCmd = &cobra.Command{
	Use:   "insert <table> <value>...",
	Short: "Append one row, one value per column",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		name := args[0]
		tbl, err := db.OpenTable(name)
		if err != nil {
			return err
		}
		values, err := parseValues(tbl, args[1:])
		if err != nil {
			return err
		}
		if _, err := tbl.Append(values); err != nil {
			return err
		}
		return db.SaveTable(name, tbl)
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump <table>",
	Short: "Print every row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		tbl, err := db.OpenTable(args[0])
		if err != nil {
			return err
		}
		return dumpTable(tbl)
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop <table>",
	Short: "Delete a table's meta and data files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		return db.DropTable(args[0])
	},
}

// dumpTable walks the rows with one reused cursor and one accessor per
// column.
func dumpTable(tbl *table.Table) error {
	cur := table.NewCursor(tbl, 0)
	accs := make([]*table.Accessor, tbl.ColumnCount())
	for col := range accs {
		accs[col] = table.NewAccessor(cur, col)
	}
	for row := 0; row < tbl.RowCount(); row++ {
		cur.SetIndex(row)
		parts := make([]string, len(accs))
		for col, acc := range accs {
			s, err := cellString(tbl.ColumnKind(col), acc)
			if err != nil {
				return err
			}
			parts[col] = s
		}
		fmt.Println(strings.Join(parts, "\t"))
	}
	return nil
}

func cellString(kind value.Kind, acc *table.Accessor) (string, error) {
	switch kind {
	case value.KindBool:
		v, err := acc.GetBool()
		return strconv.FormatBool(v), err
	case value.KindInt:
		v, err := acc.GetInt()
		return strconv.FormatInt(v, 10), err
	case value.KindFloat:
		v, err := acc.GetFloat()
		return strconv.FormatFloat(float64(v), 'g', -1, 32), err
	case value.KindDouble:
		v, err := acc.GetDouble()
		return strconv.FormatFloat(v, 'g', -1, 64), err
	case value.KindString:
		return acc.GetString()
	case value.KindBinary:
		v, err := acc.GetBinary()
		return hex.EncodeToString(v.Bytes()), err
	case value.KindDate:
		v, err := acc.GetDate()
		return v.Time().Format("2006-01-02T15:04:05Z"), err
	case value.KindTable:
		sub, err := acc.GetSubtable()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("[subtable %d rows]", sub.RowCount()), nil
	case value.KindMixed:
		m, err := acc.GetMixed()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("mixed(%s)", m.Kind()), nil
	default:
		return "", fmt.Errorf("unknown kind %s", kind)
	}
}

func parseSchema(decls []string) (table.Schema, error) {
	cols := make([]table.Column, len(decls))
	for i, d := range decls {
		name, kindStr, ok := strings.Cut(d, ":")
		if !ok {
			return table.Schema{}, fmt.Errorf("bad column declaration %q, want name:kind", d)
		}
		kind, err := parseKind(kindStr)
		if err != nil {
			return table.Schema{}, err
		}
		cols[i] = table.Column{Name: name, Kind: kind}
	}
	return table.Schema{Cols: cols}, nil
}

func parseKind(s string) (value.Kind, error) {
	for k := value.KindBool; k <= value.KindMixed; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return value.KindNone, fmt.Errorf("unknown kind %q", s)
}

// parseValues maps CLI strings to the table's column kinds. Subtable and
// mixed columns cannot be populated from the command line.
func parseValues(tbl *table.Table, args []string) ([]any, error) {
	if len(args) != tbl.ColumnCount() {
		return nil, fmt.Errorf("%d values for %d columns", len(args), tbl.ColumnCount())
	}
	values := make([]any, len(args))
	for col, s := range args {
		switch tbl.ColumnKind(col) {
		case value.KindBool:
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, err
			}
			values[col] = v
		case value.KindInt:
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, err
			}
			values[col] = v
		case value.KindFloat:
			v, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, err
			}
			values[col] = float32(v)
		case value.KindDouble:
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, err
			}
			values[col] = v
		case value.KindString:
			values[col] = s
		case value.KindBinary:
			b, err := hex.DecodeString(s)
			if err != nil {
				return nil, err
			}
			values[col] = b
		case value.KindDate:
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, err
			}
			values[col] = value.Date(v)
		default:
			return nil, fmt.Errorf("column %s: %s values cannot be set from the CLI",
				tbl.ColumnName(col), tbl.ColumnKind(col))
		}
	}
	return values, nil
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "rowbase-data", "Data directory")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(dropCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
