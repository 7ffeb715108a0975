// Command filtered-logger prints every row of the users table through the
// redacting logger, one key=value line per row.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	log "github.com/nexuer/piilog"
	"github.com/nexuer/piilog/internal/db"
)

const loggerName = "user_data"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		table   string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "filtered-logger",
		Short: "Log the users table with PII fields redacted",
		Long: fmt.Sprintf(`Reads every row of the users table and logs it as key=value pairs.
The connection is configured by %s, %s, %s and %s.`,
			db.EnvUsername, db.EnvPassword, db.EnvHost, db.EnvName),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return run(ctx, table)
		},
	}

	goflags := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	log.AddFlags(goflags)
	cmd.Flags().AddGoFlagSet(goflags)
	cmd.Flags().StringVar(&table, "table", "users", "Table to read")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Deadline for connecting and reading")
	return cmd
}

func run(ctx context.Context, table string) error {
	if err := log.InitManager(loggerName); err != nil {
		return err
	}
	defer log.Close()
	logger := log.M().Logger()

	conn, err := db.OpenFromEnv(ctx)
	if err != nil {
		logger.ErrorS(err, "open database")
		return err
	}
	defer conn.Close()

	n, err := logRows(ctx, conn, table, log.M().Options().Separator, logger)
	if err != nil {
		logger.ErrorS(err, "read rows", "table", table)
		return err
	}
	logger.DebugS("done", "rows", n)
	return nil
}

// logRows writes one info line per row of table and returns the row count.
func logRows(ctx context.Context, conn *sql.DB, table, sep string, logger *log.Logger) (int, error) {
	rows, err := conn.QueryContext(ctx, "SELECT * FROM "+quoteIdent(table))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	n := 0
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return n, err
		}
		logger.Info(formatRow(columns, values, sep))
		n++
	}
	return n, rows.Err()
}

// formatRow renders a row as column=value pairs, each ending with sep.
func formatRow(columns []string, values []sql.NullString, sep string) string {
	var b strings.Builder
	for i, c := range columns {
		b.WriteString(c)
		b.WriteByte('=')
		if values[i].Valid {
			b.WriteString(values[i].String)
		}
		b.WriteString(sep)
	}
	return b.String()
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
