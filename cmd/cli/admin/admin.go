package admin

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/myrjola/fraudintake/cmd/cli/store"
	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/models"
	"github.com/myrjola/fraudintake/internal/repositories"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "admin",
	Title: "Admin users",
}

var roles = []string{ //nolint:gochecknoglobals // flag choices
	string(models.AdminRoleViewer),
	string(models.AdminRoleAnalyst),
	string(models.AdminRoleAdmin),
	string(models.AdminRoleSuperAdmin),
}

func init() {
	Create.Flags().String("username", "", "login name")
	Create.Flags().String("password", "", "initial password")
	Create.Flags().String("role", string(models.AdminRoleViewer), fmt.Sprintf("one of %v", roles))
	Create.Flags().String("full-name", "", "display name used in case notes")
	Create.Flags().String("email", "", "contact email")
	_ = Create.MarkFlagRequired("username")
	_ = Create.MarkFlagRequired("password")
	Command.AddCommand(Create)
}

var Command = &cobra.Command{
	Use:     "admin",
	GroupID: "admin",
	Short:   "Manage admin users",
}

var Create = &cobra.Command{
	Use:     "create",
	Short:   "Create admin user",
	Long:    "Creates a dashboard account. Passwords are stored as bcrypt hashes.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var (
			username, _ = cmd.Flags().GetString("username")
			password, _ = cmd.Flags().GetString("password")
			role, _     = cmd.Flags().GetString("role")
			fullName, _ = cmd.Flags().GetString("full-name")
			email, _    = cmd.Flags().GetString("email")
		)
		if !slices.Contains(roles, role) {
			return errors.New("invalid role", slog.String("role", role))
		}

		ctx := cmd.Context()
		db, logger, err := store.Open(ctx, cmd)
		if err != nil {
			return err
		}
		defer store.Close(db)

		id, err := repositories.NewAdminRepository(db, logger).Create(ctx, models.AdminUser{ //nolint:exhaustruct // defaults
			Username: username,
			FullName: fullName,
			Email:    email,
			Role:     models.AdminRole(role),
			Active:   true,
		}, password)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(os.Stdout, "created %s %q with id %d\n", role, username, id)
		return nil
	},
}
