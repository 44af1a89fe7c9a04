package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vetdesk/internal/adapters/driving/oauth"
	"github.com/custodia-labs/vetdesk/internal/core/domain"
)

// Loopback ports tried for the OAuth redirect.
const (
	callbackPortStart = 8085
	callbackPortEnd   = 8185
)

var calendarConnectTimeout = 5 * time.Minute

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Manage the Google Calendar mirror",
	Long: `Booked appointments can be mirrored to a Google Calendar. Connecting opens
the Google consent page in a browser and stores the refresh token in the
settings file.`,
}

var calendarConnect struct {
	clientID, clientSecret, calendarID string
}

var calendarConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect a Google Calendar",
	Long: `Connect a Google Calendar using an OAuth client of type "Desktop app".

Example:
  vetdesk calendar connect --client-id 123.apps.googleusercontent.com \
    --client-secret GOCSPX-... --calendar-id agenda@clinica.mx`,
	Args: cobra.NoArgs,
	RunE: runCalendarConnect,
}

var calendarDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Stop mirroring appointments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if svc.CalendarAuth == nil {
			return errNotConfigured("calendar")
		}
		if err := svc.CalendarAuth.Disconnect(); err != nil {
			return err
		}
		cmd.Println("Calendar disconnected.")
		return nil
	},
}

func init() {
	f := calendarConnectCmd.Flags()
	f.StringVar(&calendarConnect.clientID, "client-id", "", "OAuth client ID")
	f.StringVar(&calendarConnect.clientSecret, "client-secret", "", "OAuth client secret")
	f.StringVar(&calendarConnect.calendarID, "calendar-id", "primary", "calendar to write events to")
	_ = calendarConnectCmd.MarkFlagRequired("client-id")
	_ = calendarConnectCmd.MarkFlagRequired("client-secret")

	calendarCmd.AddCommand(calendarConnectCmd, calendarDisconnectCmd)
	rootCmd.AddCommand(calendarCmd)
}

func runCalendarConnect(cmd *cobra.Command, _ []string) error {
	if svc.CalendarAuth == nil {
		return errNotConfigured("calendar")
	}

	port, err := oauth.FindAvailablePort(callbackPortStart, callbackPortEnd)
	if err != nil {
		return err
	}
	callback := oauth.NewCallbackServer(port)
	if err := callback.Start(); err != nil {
		return err
	}
	defer callback.Stop() //nolint:errcheck // best effort on exit

	session, err := svc.CalendarAuth.Begin(domain.CalendarAuthRequest{
		ClientID:     calendarConnect.clientID,
		ClientSecret: calendarConnect.clientSecret,
		RedirectURI:  callback.RedirectURI(),
		CalendarID:   calendarConnect.calendarID,
	})
	if err != nil {
		return err
	}

	cmd.Println("Opening the Google consent page in your browser...")
	if err := oauth.OpenBrowser(session.AuthURL); err != nil {
		cmd.Println("Could not open a browser. Visit this URL to continue:")
		cmd.Println()
		cmd.Println("  " + session.AuthURL)
		cmd.Println()
	}
	cmd.Println("Waiting for authorization...")

	ctx, cancel := context.WithTimeout(cmd.Context(), calendarConnectTimeout)
	defer cancel()

	res, err := callback.Wait(ctx)
	if err != nil {
		return err
	}
	if err := svc.CalendarAuth.Complete(ctx, session, res.State, res.Code); err != nil {
		return fmt.Errorf("completing authorization: %w", err)
	}

	cmd.Printf("Calendar connected. Appointments will be mirrored to %s.\n", calendarConnect.calendarID)
	return nil
}
