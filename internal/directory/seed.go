// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package directory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reportdeck/reportdeck/internal/model"
)

// Seed populates an empty store with demo accounts, report pages, and a
// starter content model, mirroring the dashboard's stock data set. It is a
// no-op when users already exist.
func (s *Store) Seed(ctx context.Context) error {
	if len(s.ListUsers(ctx)) > 0 {
		return nil
	}

	admin, err := s.CreateUser(ctx, CreateUserParams{
		Username: "admin", Password: "admin123", Role: model.RoleAdmin,
		Name: "Administrator", Phone: "081234567890", Email: "admin@example.com",
	})
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	dev, err := s.CreateUser(ctx, CreateUserParams{
		Username: "developer", Password: "dev12345", Role: model.RoleDeveloper,
		Name: "Developer", Phone: "081234567891", Email: "dev@example.com",
	})
	if err != nil {
		return fmt.Errorf("seeding developer: %w", err)
	}

	powerbi, err := s.CreatePage(ctx, CreatePageParams{
		Title: "Power BI Dashboard", Type: model.PageTypePowerBI, SubType: "dashboard",
		Description: "Power BI analytics dashboard for real-time business intelligence",
		EmbedURL:    "https://app.powerbi.com/embed/sample",
		CreatedBy:   admin.ID,
		AllowedRoles: []string{
			model.RoleAdmin, model.RoleDeveloper, model.RoleUser,
		},
	})
	if err != nil {
		return fmt.Errorf("seeding powerbi page: %w", err)
	}

	sales, err := s.CreatePage(ctx, CreatePageParams{
		Title: "Sales Report", Type: model.PageTypeSpreadsheet, SubType: "report",
		Description: "Monthly sales analysis and performance metrics",
		EmbedURL:    "https://docs.google.com/spreadsheets/embed/sample1",
		CreatedBy:   dev.ID,
		AllowedRoles: []string{
			model.RoleAdmin, model.RoleDeveloper, model.RoleUser,
		},
	})
	if err != nil {
		return fmt.Errorf("seeding sales page: %w", err)
	}

	if _, err := s.CreatePage(ctx, CreatePageParams{
		Title: "Inventory Management", Type: model.PageTypeSpreadsheet, SubType: "analytics",
		Description:  "Real-time inventory tracking",
		EmbedURL:     "https://docs.google.com/spreadsheets/embed/sample2",
		CreatedBy:    admin.ID,
		AllowedRoles: []string{model.RoleAdmin, model.RoleDeveloper},
	}); err != nil {
		return fmt.Errorf("seeding inventory page: %w", err)
	}

	if _, err := s.CreatePage(ctx, CreatePageParams{
		Title: "Custom Dashboard", Type: model.PageTypeHTML, SubType: "custom",
		Description: "Custom HTML dashboard with editable sections",
		CreatedBy:   dev.ID,
		Content: &model.PageContent{
			Layout: "grid",
			Sections: []model.Section{
				{
					ID:      "section-1",
					Type:    model.SectionText,
					Content: model.TextContent{Text: "Welcome to your dashboard"},
					Styles:  map[string]string{"fontSize": "24px", "color": "#333333"},
				},
				{
					ID:      "section-2",
					Type:    model.SectionStats,
					Content: model.StatsContent{Title: "Orders", Value: "150", Description: "This month"},
					Styles:  map[string]string{"background": "#f8f9fa", "padding": "1rem"},
				},
			},
		},
		AllowedRoles: []string{model.RoleAdmin, model.RoleDeveloper},
	}); err != nil {
		return fmt.Errorf("seeding html page: %w", err)
	}

	if _, err := s.CreateUser(ctx, CreateUserParams{
		Username: "user1", Password: "user1234", Role: model.RoleUser,
		Name: "Bobby", Phone: "081234567892", Email: "bobby@example.com",
		AssignedPages: []string{powerbi.ID, sales.ID},
	}); err != nil {
		return fmt.Errorf("seeding user1: %w", err)
	}

	user2, err := s.CreateUser(ctx, CreateUserParams{
		Username: "user2", Password: "user4567", Role: model.RoleUser,
		Name: "Ntuy", Phone: "081234567893", Email: "ntuy@example.com",
		AssignedPages: []string{sales.ID},
	})
	if err != nil {
		return fmt.Errorf("seeding user2: %w", err)
	}
	if err := s.SetUserActive(ctx, user2.ID, false); err != nil {
		return fmt.Errorf("deactivating user2: %w", err)
	}

	slog.Info("directory seeded",
		"users", len(s.ListUsers(ctx)),
		"pages", len(s.ListPages(ctx)),
	)
	return nil
}
