package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

var appointmentCmd = &cobra.Command{
	Use:     "appointment",
	Aliases: []string{"appt"},
	Short:   "Check slots and manage appointments",
}

var slotFlags struct {
	client, pet, service string
	staff, room          string
	start                string
	homeVisit            bool
	notes                string
}

var appointmentAvailabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Check whether a slot can be booked",
	Long: `Check a slot without booking it. Every reason the slot is unavailable is
listed, followed by nearby free slots.

Start is read in the clinic's timezone unless it carries an offset:
  vetdesk appointment availability --client cl-1 --pet pt-1 \
    --service sv-consult --start "2030-03-04 10:00"`,
	Args: cobra.NoArgs,
	RunE: runAppointmentAvailability,
}

var appointmentBookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book an appointment",
	Args:  cobra.NoArgs,
	RunE:  runAppointmentBook,
}

var appointmentCancelCmd = &cobra.Command{
	Use:   "cancel <appointment-id>",
	Short: "Cancel an appointment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(cmd, args[0], domain.StatusCancelled)
	},
}

var appointmentStatusCmd = &cobra.Command{
	Use:   "status <appointment-id> <status>",
	Short: "Move an appointment to a new status",
	Long: `Move an appointment to a new status.

Statuses: scheduled, confirmed, in_progress, completed, cancelled, no_show.
Completed, cancelled and no_show are final.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(cmd, args[0], domain.AppointmentStatus(args[1]))
	},
}

var appointmentDate string

var appointmentDayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show the agenda for a day",
	Args:  cobra.NoArgs,
	RunE:  runAppointmentDay,
}

func init() {
	for _, c := range []*cobra.Command{appointmentAvailabilityCmd, appointmentBookCmd} {
		f := c.Flags()
		f.StringVar(&slotFlags.client, "client", "", "client ID (required)")
		f.StringVar(&slotFlags.pet, "pet", "", "pet ID (required)")
		f.StringVar(&slotFlags.service, "service", "", "service ID (required)")
		f.StringVar(&slotFlags.start, "start", "", `start, "YYYY-MM-DD HH:MM" or RFC 3339 (required)`)
		f.StringVar(&slotFlags.staff, "staff", "", "staff ID (default: first free)")
		f.StringVar(&slotFlags.room, "room", "", "room ID (default: first free)")
		f.BoolVar(&slotFlags.homeVisit, "home-visit", false, "visit the client's address")
		for _, name := range []string{"client", "pet", "service", "start"} {
			_ = c.MarkFlagRequired(name)
		}
	}
	appointmentBookCmd.Flags().StringVar(&slotFlags.notes, "notes", "", "notes")
	appointmentDayCmd.Flags().StringVar(&appointmentDate, "date", "", "day as YYYY-MM-DD (default: today)")

	appointmentCmd.AddCommand(
		appointmentAvailabilityCmd,
		appointmentBookCmd,
		appointmentCancelCmd,
		appointmentStatusCmd,
		appointmentDayCmd,
	)
	rootCmd.AddCommand(appointmentCmd)
}

func bookingFromFlags(cmd *cobra.Command) (*domain.Tenant, domain.BookingRequest, error) {
	if svc.Appointments == nil {
		return nil, domain.BookingRequest{}, errNotConfigured("appointment")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return nil, domain.BookingRequest{}, err
	}
	start, err := parseLocalTime(slotFlags.start, tenantLocation(tenant))
	if err != nil {
		return nil, domain.BookingRequest{}, err
	}

	req := domain.BookingRequest{
		TenantID:  tenant.ID,
		ClientID:  slotFlags.client,
		PetID:     slotFlags.pet,
		ServiceID: slotFlags.service,
		StaffID:   slotFlags.staff,
		RoomID:    slotFlags.room,
		Kind:      domain.KindClinic,
		Start:     start,
		Notes:     slotFlags.notes,
	}
	if slotFlags.homeVisit {
		req.Kind = domain.KindHomeVisit
		if svc.Clients != nil {
			if client, err := svc.Clients.Get(cmd.Context(), tenant.ID, req.ClientID); err == nil {
				req.Address = client.Address
			}
		}
	}
	return tenant, req, nil
}

func runAppointmentAvailability(cmd *cobra.Command, _ []string) error {
	tenant, req, err := bookingFromFlags(cmd)
	if err != nil {
		return err
	}
	avail, err := svc.Appointments.CheckAvailability(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("availability check failed: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, avail)
	}

	loc := tenantLocation(tenant)
	if avail.Available {
		cmd.Printf("Available: %s-%s", avail.Slot.Start.In(loc).Format("2006-01-02 15:04"), avail.Slot.End.In(loc).Format(clockLayout))
		if avail.Slot.StaffID != "" {
			cmd.Printf(" with %s", avail.Slot.StaffID)
		}
		if avail.Slot.RoomID != "" {
			cmd.Printf(" in %s", avail.Slot.RoomID)
		}
		cmd.Println()
		return nil
	}
	printConflicts(cmd, avail.Conflicts, avail.Suggestions, loc)
	return nil
}

func runAppointmentBook(cmd *cobra.Command, _ []string) error {
	tenant, req, err := bookingFromFlags(cmd)
	if err != nil {
		return err
	}
	appt, err := svc.Appointments.Book(cmd.Context(), req)
	var slotErr *domain.SlotError
	if errors.As(err, &slotErr) {
		printConflicts(cmd, slotErr.Conflicts, slotErr.Suggestions, tenantLocation(tenant))
		return err
	}
	if err != nil {
		return fmt.Errorf("booking failed: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, appt)
	}
	cmd.Printf("Booked %s at %s\n", appt.ID, appt.Start.In(tenantLocation(tenant)).Format("2006-01-02 15:04"))
	return nil
}

func printConflicts(cmd *cobra.Command, conflicts []domain.Conflict, suggestions []domain.Slot, loc *time.Location) {
	cmd.Println("Not available:")
	for _, c := range conflicts {
		cmd.Printf("  - [%s] %s\n", c.Reason, c.Message)
	}
	if len(suggestions) == 0 {
		return
	}
	cmd.Println("Nearby free slots:")
	for _, s := range suggestions {
		cmd.Printf("  %s-%s", s.Start.In(loc).Format("2006-01-02 15:04"), s.End.In(loc).Format(clockLayout))
		if s.StaffID != "" {
			cmd.Printf(" %s", s.StaffID)
		}
		if s.RoomID != "" {
			cmd.Printf(" %s", s.RoomID)
		}
		cmd.Println()
	}
}

func transition(cmd *cobra.Command, id string, status domain.AppointmentStatus) error {
	if svc.Appointments == nil {
		return errNotConfigured("appointment")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}
	appt, err := svc.Appointments.Transition(cmd.Context(), tenant.ID, id, status)
	if err != nil {
		return fmt.Errorf("appointment %s: %w", id, err)
	}
	cmd.Printf("Appointment %s is now %s\n", appt.ID, appt.Status)
	return nil
}

func runAppointmentDay(cmd *cobra.Command, _ []string) error {
	if svc.Appointments == nil {
		return errNotConfigured("appointment")
	}
	tenant, err := currentTenant(cmd)
	if err != nil {
		return err
	}
	loc := tenantLocation(tenant)

	day := time.Now().In(loc)
	if appointmentDate != "" {
		day, err = time.ParseInLocation(dateLayout, appointmentDate, loc)
		if err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", appointmentDate)
		}
	}
	appts, err := svc.Appointments.Day(cmd.Context(), tenant.ID, day)
	if err != nil {
		return fmt.Errorf("failed to load agenda: %w", err)
	}
	if jsonFlag {
		return printJSON(cmd, appts)
	}

	cmd.Printf("%s - %s\n", tenant.Name, day.Format("Monday 2006-01-02"))
	rows := make([][]string, 0, len(appts))
	for i := range appts {
		a := &appts[i]
		rows = append(rows, []string{
			a.Start.In(loc).Format(clockLayout) + "-" + a.End.In(loc).Format(clockLayout),
			string(a.Status), string(a.Kind), a.PetID, a.ServiceID, a.StaffID, a.RoomID, a.ID,
		})
	}
	printTable(cmd, "No appointments.", []string{"TIME", "STATUS", "KIND", "PET", "SERVICE", "STAFF", "ROOM", "ID"}, rows)
	return nil
}

var localLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04"}

func parseLocalTime(v string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: expected \"YYYY-MM-DD HH:MM\" or RFC 3339", v)
}
