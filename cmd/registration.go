package cmd

import (
	"github.com/Eursukkul/event-registration/internal/dto"
	"github.com/Eursukkul/event-registration/internal/ledger"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register EVENT_ID ATTENDEE_ID",
	Short: "Register an attendee; the registration is waitlisted when the event is full",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		ticket, _ := flags.GetString("ticket")
		method, _ := flags.GetString("payment-method")
		status, _ := flags.GetString("payment-status")
		sessions, _ := flags.GetStringSlice("session")

		req := ledger.CreateRequest{
			EventID:       args[0],
			AttendeeID:    args[1],
			TicketType:    ticket,
			PaymentMethod: method,
			Sessions:      sessions,
			PaymentStatus: models.PaymentStatus(status),
		}
		if flags.Changed("price") {
			price, _ := flags.GetFloat64("price")
			req.Price = &price
		}

		return withApp(cmd, func(a *app) error {
			reg, err := a.registrations.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, dto.ToRegistrationResponse(reg))
		})
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel REGISTRATION_ID",
	Short: "Cancel a registration and apply the refund policy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		promote, _ := cmd.Flags().GetBool("promote")

		return withApp(cmd, func(a *app) error {
			reg, err := a.registrations.Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			resp := dto.CancelResponse{Cancelled: dto.ToRegistrationResponse(reg)}
			if promote {
				promoted, err := a.registrations.PromoteWaitlist(cmd.Context(), reg.EventID)
				if err != nil {
					return err
				}
				if promoted != nil {
					p := dto.ToRegistrationResponse(promoted)
					resp.Promoted = &p
				}
			}
			return printJSON(cmd, resp)
		})
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote EVENT_ID",
	Short: "Move the head of the waitlist into a free seat",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			reg, err := a.registrations.PromoteWaitlist(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if reg == nil {
				cmd.Println("nothing to promote")
				return nil
			}
			return printJSON(cmd, dto.ToRegistrationResponse(reg))
		})
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer REGISTRATION_ID NEW_ATTENDEE_ID",
	Short: "Give a confirmed registration to another attendee",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			reg, err := a.registrations.Transfer(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, dto.ToRegistrationResponse(reg))
		})
	},
}

var payCmd = &cobra.Command{
	Use:   "pay REGISTRATION_ID",
	Short: "Mark a pending registration as paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			reg, err := a.registrations.MarkPaid(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, dto.ToRegistrationResponse(reg))
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status EVENT_ID",
	Short: "Show seats, waitlist and revenue for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			status, err := a.registrations.EventStatus(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			revenue, err := a.registrations.Revenue(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, struct {
				dto.EventStatusResponse
				Revenue float64 `json:"revenue"`
			}{dto.ToEventStatusResponse(status), revenue})
		})
	},
}

func init() {
	registerCmd.Flags().String("ticket", "General", "ticket type")
	registerCmd.Flags().String("payment-method", "card", "payment method")
	registerCmd.Flags().String("payment-status", "", "initial payment status (pending or paid)")
	registerCmd.Flags().Float64("price", 0, "price override (defaults to the event price)")
	registerCmd.Flags().StringSlice("session", nil, "session id, repeatable")

	cancelCmd.Flags().Bool("promote", false, "promote the head of the waitlist after cancelling")

	rootCmd.AddCommand(registerCmd, cancelCmd, promoteCmd, transferCmd, payCmd, statusCmd)
}

// withApp wires the app, runs fn and flushes on the way out.
func withApp(cmd *cobra.Command, fn func(a *app) error) (err error) {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
