package cmd

import (
	"github.com/Eursukkul/event-registration/internal/dto"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin KEY",
	Short: "Check in by registration id or confirmation code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			reg, err := a.checkins.CheckIn(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, dto.ToRegistrationResponse(reg))
		})
	},
}

var attendanceCmd = &cobra.Command{
	Use:   "attendance EVENT_ID [SESSION_ID]",
	Short: "Show session attendance, or everyone checked in when no session is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			if len(args) == 1 {
				regs, err := a.checkins.CheckedIn(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd, dto.ToRegistrationResponses(regs))
			}
			att, err := a.checkins.SessionAttendance(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, dto.ToAttendanceResponse(att))
		})
	},
}

var badgeCmd = &cobra.Command{
	Use:   "badge REGISTRATION_ID",
	Short: "Write the attendee badge for a registration",
	Long:  "Writes badge_<id>.txt into the badge directory, or prints the badge with --print.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printOnly, _ := cmd.Flags().GetBool("print")

		return withApp(cmd, func(a *app) error {
			if printOnly {
				badge, err := a.checkins.Badge(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				cmd.Print(badge.Render())
				return nil
			}
			path, err := a.checkins.WriteBadge(cmd.Context(), afero.NewOsFs(), args[0], a.cfg.BadgeDir)
			if err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", path)
			return nil
		})
	},
}

func init() {
	badgeCmd.Flags().Bool("print", false, "print the badge instead of writing it")
	rootCmd.AddCommand(checkinCmd, attendanceCmd, badgeCmd)
}
