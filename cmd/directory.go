package cmd

import (
	"fmt"
	"os"

	"github.com/Eursukkul/event-registration/internal/dto"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage the event catalog",
}

var eventImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Create the events listed in a YAML (or JSON) file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var events []models.Event
		if err := yaml.Unmarshal(raw, &events); err != nil {
			return fmt.Errorf("decode %s: %w", args[0], err)
		}

		return withApp(cmd, func(a *app) error {
			for i := range events {
				if err := a.events.CreateEvent(cmd.Context(), &events[i]); err != nil {
					return fmt.Errorf("event %d (%s): %w", i+1, events[i].Name, err)
				}
				cmd.Printf("created %s %s\n", events[i].ID, events[i].Name)
			}
			return nil
		})
	},
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events with their sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			events, err := a.events.ListEvents(cmd.Context())
			if err != nil {
				return err
			}
			resp := make([]dto.EventResponse, len(events))
			for i := range events {
				resp[i] = dto.ToEventResponse(&events[i])
			}
			return printJSON(cmd, resp)
		})
	},
}

var attendeeCmd = &cobra.Command{
	Use:   "attendee",
	Short: "Manage attendee profiles",
}

var attendeeAddCmd = &cobra.Command{
	Use:   "add NAME EMAIL",
	Short: "Create an attendee profile and print the generated PIN",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		org, _ := flags.GetString("organization")
		dietary, _ := flags.GetString("dietary")
		ticket, _ := flags.GetString("ticket")
		noEmail, _ := flags.GetBool("no-email")

		attendee := &models.Attendee{
			Name:         args[0],
			Email:        args[1],
			Organization: org,
			Dietary:      dietary,
			TicketType:   ticket,
			EmailOptIn:   !noEmail,
		}
		return withApp(cmd, func(a *app) error {
			if err := a.attendees.RegisterAttendee(cmd.Context(), attendee); err != nil {
				return err
			}
			return printJSON(cmd, dto.AttendeeCreatedResponse{
				AttendeeResponse: dto.ToAttendeeResponse(attendee),
				PIN:              attendee.PIN,
			})
		})
	},
}

func init() {
	attendeeAddCmd.Flags().String("organization", "", "organization")
	attendeeAddCmd.Flags().String("dietary", "", "dietary requirements")
	attendeeAddCmd.Flags().String("ticket", "", "ticket type (default General)")
	attendeeAddCmd.Flags().Bool("no-email", false, "opt out of e-mail")

	eventCmd.AddCommand(eventImportCmd, eventListCmd)
	attendeeCmd.AddCommand(attendeeAddCmd)
	rootCmd.AddCommand(eventCmd, attendeeCmd)
}
