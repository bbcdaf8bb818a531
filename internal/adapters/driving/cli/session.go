package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage saved comparison sessions",
	Long: `Manages comparison runs saved with 'compare --save-session'. Saved
sessions record which pages matched and where they differed, but not the
rendered page images.`,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	RunE:  runSessionList,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionDelete,
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	rootCmd.AddCommand(sessionCmd)
}

func sessionContext(cmd *cobra.Command) (context.Context, error) {
	if sessionStore == nil {
		return nil, errors.New("session store not configured")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx, nil
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	ctx, err := sessionContext(cmd)
	if err != nil {
		return err
	}
	sessions, err := sessionStore.List(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		cmd.Println("No saved sessions.")
		return nil
	}
	for _, s := range sessions {
		cmd.Printf("%s  %s  %s vs %s\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.LeftPath, s.RightPath)
	}
	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	ctx, err := sessionContext(cmd)
	if err != nil {
		return err
	}
	session, err := sessionStore.Get(ctx, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("session %s not found", args[0])
		}
		return err
	}

	cmd.Printf("Session:  %s\n", session.ID)
	cmd.Printf("Created:  %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("Left:     %s\n", session.LeftPath)
	cmd.Printf("Right:    %s\n", session.RightPath)
	if len(session.Zones.Zones) > 0 {
		cmd.Printf("Zones:    %d\n", len(session.Zones.Zones))
	}
	cmd.Println()

	for _, pair := range session.Pairs {
		switch pair.Match.Status {
		case domain.StatusUnmatchedLeft:
			cmd.Printf("  A:%-3d  ---    removed\n", pair.Match.LeftIndex+1)
		case domain.StatusUnmatchedRight:
			cmd.Printf("  ---    B:%-3d  added\n", pair.Match.RightIndex+1)
		case domain.StatusMatched:
			state := "identical"
			switch {
			case pair.Error != "":
				state = "error: " + pair.Error
			case !pair.Identical:
				state = fmt.Sprintf("differs (%d region(s))", len(pair.Regions))
			}
			cmd.Printf("  A:%-3d  B:%-3d  %s\n", pair.Match.LeftIndex+1, pair.Match.RightIndex+1, state)
		}
	}
	return nil
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	ctx, err := sessionContext(cmd)
	if err != nil {
		return err
	}
	if err := sessionStore.Delete(ctx, args[0]); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("session %s not found", args[0])
		}
		return err
	}
	cmd.Printf("Session %s deleted.\n", args[0])
	return nil
}
