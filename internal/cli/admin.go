package cli

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/dues_ledger/internal/core/services"
	"github.com/SscSPs/dues_ledger/internal/dto"
	"github.com/SscSPs/dues_ledger/internal/utils"
	"github.com/spf13/cobra"
)

// cliActor is recorded as the creator of members registered from the command line.
const cliActor = "cli"

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd)

	adminCreateCmd.Flags().String("id", "", "Member ID of the admin")
	adminCreateCmd.Flags().String("name", "", "Display name")
	adminCreateCmd.Flags().String("password", "", "Login password (at least 6 characters)")
	_ = adminCreateCmd.MarkFlagRequired("id")
	_ = adminCreateCmd.MarkFlagRequired("name")
	_ = adminCreateCmd.MarkFlagRequired("password")
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage administrator accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register an admin member",
	Long: `Registers a member with admin rights. Every HTTP route except login needs a
token, so the first admin has to be created here.`,
	RunE: runAdminCreate,
}

func runAdminCreate(cmd *cobra.Command, _ []string) error {
	id, _ := cmd.Flags().GetString("id")
	name, _ := cmd.Flags().GetString("name")
	password, _ := cmd.Flags().GetString("password")
	if err := utils.ValidatePassword(password); err != nil {
		return err
	}

	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	repos, closeStore, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	memberService := services.NewServiceContainer(cfg, repos).Member
	member, err := memberService.CreateMember(cmd.Context(), dto.CreateMemberRequest{
		MemberID: id,
		Name:     name,
		Password: &password,
		IsAdmin:  true,
	}, cliActor)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	logger.Info("Admin member created", slog.String("member_id", member.MemberID))
	fmt.Fprintf(cmd.OutOrStdout(), "Admin %s (%s) created\n", member.MemberID, member.Name)
	return nil
}
