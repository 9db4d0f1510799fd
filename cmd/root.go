package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"go.starlark.net/starlark"

	"github.com/starql/starql/catalog"
	"github.com/starql/starql/config"
	"github.com/starql/starql/execution"
	"github.com/starql/starql/interp"
	"github.com/starql/starql/starconv"
	"github.com/starql/starql/tvf"
)

var (
	callName    string
	argsJSON    string
	kwargsJSON  string
	columnsFlag string
	configPath  string
	profileFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "starql run <script.star>",
	Short: "Run Starlark scripts that register table functions and scan them",
	Example: `starql run examples/gen.star --call gen --args '[5]'
starql run examples/sales.star --call sales --columns region,total`,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:  "run <script.star>",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if profileFlag {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		}

		path := configPath
		if path == "" {
			defaultPath, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = defaultPath
		}
		cfg, err := config.Read(path)
		if err != nil {
			return err
		}
		location, err := cfg.Location()
		if err != nil {
			return err
		}

		logOpts := []lgr.Option{lgr.Msec}
		if cfg.Debug {
			logOpts = append(logOpts, lgr.Debug)
		}
		log := lgr.New(logOpts...)

		session := interp.New(
			interp.WithTimeZone(location),
			interp.WithLogger(log),
		)
		cat := catalog.New()

		predeclared := starlark.StringDict{
			"register_table_function": tvf.RegisterBuiltin(session, cat),
			"arrow_table":             starconv.TableBuiltin,
		}
		if _, err := session.RunScript(args[0], predeclared); err != nil {
			return err
		}

		if callName == "" {
			fmt.Printf("registered table functions: %s\n", strings.Join(cat.Names(), ", "))
			return nil
		}

		fn, err := cat.Get(callName)
		if err != nil {
			return err
		}
		positional, named, err := parseCallArguments(argsJSON, kwargsJSON)
		if err != nil {
			return err
		}

		qctx := execution.NewQueryContext(cmd.Context(), session)
		qctx.Config.EnableProgressBar = cfg.ProgressBar
		log.Logf("DEBUG invoking %s as invocation %s", callName, qctx.InvocationID)

		columnIDs, err := columnProjection(columnsFlag)
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		headerSet := false
		opts := &execution.ScanOptions{ColumnIDs: columnIDs}
		err = execution.Execute(qctx, fn, positional, named, opts, func(schema execution.Schema, chunk *execution.Chunk) error {
			if !headerSet {
				header := make([]string, len(schema.Fields))
				for i, field := range schema.Fields {
					header[i] = field.Name
				}
				table.SetHeader(header)
				headerSet = true
			}
			for row := 0; row < chunk.Cardinality(); row++ {
				values := chunk.Row(row)
				cells := make([]string, len(values))
				for i, value := range values {
					cells[i] = value.String()
				}
				table.Append(cells)
			}
			return nil
		})
		if err != nil {
			return err
		}
		if !headerSet {
			fmt.Println("no rows")
			return nil
		}
		table.Render()
		return nil
	},
}

func columnProjection(flag string) ([]int, error) {
	if flag == "" {
		return nil, nil
	}
	parts := strings.Split(flag, ",")
	ids := make([]int, len(parts))
	for i, part := range parts {
		var id int
		if _, err := fmt.Sscanf(strings.TrimSpace(part), "%d", &id); err != nil {
			return nil, fmt.Errorf("invalid column index %q: %w", part, err)
		}
		ids[i] = id
	}
	return ids, nil
}

func init() {
	runCmd.Flags().StringVar(&callName, "call", "", "name of the registered table function to invoke")
	runCmd.Flags().StringVar(&argsJSON, "args", "", "positional arguments as a JSON array")
	runCmd.Flags().StringVar(&kwargsJSON, "kwargs", "", "named arguments as a JSON object")
	runCmd.Flags().StringVar(&columnsFlag, "columns", "", "comma-separated column indices to push down as a projection")
	runCmd.Flags().StringVar(&configPath, "config", "", "path to the configuration file")
	runCmd.Flags().BoolVar(&profileFlag, "profile", false, "write a CPU profile to the working directory")
	rootCmd.AddCommand(runCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		lgr.Printf("ERROR %v", err)
		os.Exit(1)
	}
}
