package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Manage clinic staff",
}

var staffListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staff members",
	Args:  cobra.NoArgs,
	RunE:  runStaffList,
}

var staffAdd struct {
	name, role, email, phone string
}

var staffAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a staff member",
	Long:  `Add a staff member. Roles: vet, groomer, assistant, receptionist, driver.`,
	Args:  cobra.NoArgs,
	RunE:  runStaffAdd,
}

func init() {
	f := staffAddCmd.Flags()
	f.StringVar(&staffAdd.name, "name", "", "full name (required)")
	f.StringVar(&staffAdd.role, "role", "", "role (required)")
	f.StringVar(&staffAdd.email, "email", "", "email")
	f.StringVar(&staffAdd.phone, "phone", "", "phone")
	_ = staffAddCmd.MarkFlagRequired("name")
	_ = staffAddCmd.MarkFlagRequired("role")

	staffCmd.AddCommand(staffListCmd, staffAddCmd)
	rootCmd.AddCommand(staffCmd)
}

func runStaffList(cmd *cobra.Command, _ []string) error {
	if svc.Staff == nil {
		return errNotConfigured("staff")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}
	staff, err := svc.Staff.List(cmd.Context(), tenant.ID)
	if err != nil {
		return fmt.Errorf("failed to list staff: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, staff)
	}

	rows := make([][]string, 0, len(staff))
	for i := range staff {
		s := &staff[i]
		rows = append(rows, []string{s.ID, s.Name, string(s.Role), yesNo(s.Active)})
	}
	printTable(cmd, "No staff registered.", []string{"ID", "NAME", "ROLE", "ACTIVE"}, rows)
	return nil
}

func runStaffAdd(cmd *cobra.Command, _ []string) error {
	if svc.Staff == nil {
		return errNotConfigured("staff")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}
	member, err := svc.Staff.Create(cmd.Context(), domain.Staff{
		TenantID: tenant.ID,
		Name:     staffAdd.name,
		Role:     domain.Role(staffAdd.role),
		Email:    staffAdd.email,
		Phone:    staffAdd.phone,
		Active:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to add staff member: %w", err)
	}
	cmd.Printf("Added %s as %s (%s)\n", member.Name, member.Role, member.ID)
	return nil
}
