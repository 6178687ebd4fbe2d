package commands

import (
	"fmt" // Error wrapping and formatting

	"staffadmin/internal/service" // Domain operations

	"github.com/spf13/cobra" // CLI framework
)

// newCreateAdminCmd registers a new employee and grants admin rights
func newCreateAdminCmd(open Opener) *cobra.Command {
	var phone, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Register a new employee with admin rights",
		Long: `Register a new employee and grant it admin rights.

Examples:
  staffctl create-admin --phone 555-0100 --password s3cret`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := open()
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			svc := service.New(conn)
			ctx := cmd.Context()

			employee, err := svc.Register(ctx, service.RegisterInput{Phone: phone, Password: password})
			if err != nil {
				return err
			}
			if _, err := svc.SetAdmin(ctx, employee.Phone, true); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %d (%s).\n", employee.ID, employee.Phone)
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number used to log in")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// newSetAdminCmd builds promote and demote, which flip the admin flag by phone
func newSetAdminCmd(open Opener, use, short string, admin bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PHONE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := open()
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			employee, err := service.New(conn).SetAdmin(cmd.Context(), args[0], admin)
			if err != nil {
				return err
			}
			state := "no longer an admin"
			if employee.IsAdmin {
				state = "now an admin"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Employee %d (%s) is %s.\n", employee.ID, employee.Phone, state)
			return nil
		},
	}
}
