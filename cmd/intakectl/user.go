package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"hiringdesk/resume-intake/internal/auth"
	"hiringdesk/resume-intake/internal/models"
	"hiringdesk/resume-intake/internal/repositories"
	"hiringdesk/resume-intake/internal/services"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long: "Create a user in an existing company (--company-id) or register a new company " +
		"together with its first admin (--company-name).",
	RunE: runUserCreate,
}

var (
	userCompanyID   string
	userCompanyName string
	userEmail       string
	userName        string
	userPassword    string
	userRole        string
)

func init() {
	userCreateCmd.Flags().StringVar(&userCompanyID, "company-id", "", "Existing company ID")
	userCreateCmd.Flags().StringVar(&userCompanyName, "company-name", "", "Name of a new company; the user becomes its admin")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Login email (required)")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name (required)")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "Initial password, at least 8 characters (required)")
	userCreateCmd.Flags().StringVar(&userRole, "role", string(models.RoleRecruiter), "Role in an existing company: admin or recruiter")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("name")
	_ = userCreateCmd.MarkFlagRequired("password")
	userCreateCmd.MarkFlagsMutuallyExclusive("company-id", "company-name")
	userCreateCmd.MarkFlagsOneRequired("company-id", "company-name")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserCreate(cmd *cobra.Command, _ []string) error {
	if len(userPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	var companyID uuid.UUID
	if userCompanyID != "" {
		id, err := uuid.Parse(userCompanyID)
		if err != nil {
			return fmt.Errorf("invalid company ID: %w", err)
		}
		companyID = id
	}

	cfg, db, err := connect()
	if err != nil {
		return err
	}

	accounts := services.NewAccountService(
		repositories.NewUserRepository(db),
		auth.NewTokenService(cfg.JWT),
		auth.NewPasswordHasher(cfg.Password),
	)
	ctx := context.Background()

	if userCompanyName != "" {
		resp, err := accounts.Register(ctx, models.RegisterRequest{
			CompanyName: userCompanyName,
			Name:        userName,
			Email:       userEmail,
			Password:    userPassword,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created company %s with admin %s (%s)\n", resp.User.CompanyID, resp.User.Email, resp.User.ID)
		return nil
	}

	user, err := accounts.CreateUser(ctx, companyID, models.CreateUserRequest{
		Name:     userName,
		Email:    userEmail,
		Password: userPassword,
		Role:     models.Role(userRole),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}
