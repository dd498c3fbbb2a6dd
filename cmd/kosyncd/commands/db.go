package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/kosyncd/config"
	"github.com/teranos/kosyncd/db"
	"github.com/teranos/kosyncd/errors"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the kosyncd database",
	Long: `db - Manage kosyncd database operations

Examples:
  kosyncd db stats              # Show user and progress record counts
  kosyncd db migrate            # Apply pending schema migrations`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE:  runDbStats,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE:  runDbMigrate,
}

var dbPathFlag string

func init() {
	DbCmd.PersistentFlags().StringVar(&dbPathFlag, "db-path", "", "Database path (overrides config)")
	DbCmd.AddCommand(dbStatsCmd)
	DbCmd.AddCommand(dbMigrateCmd)
}

func databasePath() (string, error) {
	if dbPathFlag != "" {
		return dbPathFlag, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", errors.Wrap(err, "failed to load configuration")
	}
	return cfg.Database.Path, nil
}

func runDbStats(cmd *cobra.Command, args []string) error {
	path, err := databasePath()
	if err != nil {
		return err
	}

	database, err := db.OpenWithMigrations(path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	var users, records int
	if err := database.QueryRow("SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		return errors.Wrap(err, "failed to count users")
	}
	if err := database.QueryRow("SELECT COUNT(*) FROM progress").Scan(&records); err != nil {
		return errors.Wrap(err, "failed to count progress records")
	}

	fmt.Printf("Database:         %s\n", path)
	fmt.Printf("Users:            %d\n", users)
	fmt.Printf("Progress records: %d\n", records)
	return nil
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	path, err := databasePath()
	if err != nil {
		return err
	}

	database, err := db.OpenWithMigrations(path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	defer database.Close()

	fmt.Printf("Database %s is up to date\n", path)
	return nil
}
