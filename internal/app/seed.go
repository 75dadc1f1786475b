package app

import (
	"fmt"
	"time"

	"productdesk/internal/models"
	"productdesk/internal/repositories"
	"productdesk/internal/validation"
)

// Seed stores a few sample products, released relative to now, when repo is
// empty.
func Seed(repo repositories.ProductRepository, now time.Time) error {
	existing, err := repo.GetAll()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	samples := []struct {
		id, name, description string
		offsetDays            int
	}{
		{"trj-crd", "Credit card", "Gold credit card with travel rewards", 0},
		{"sav-acc", "Savings account", "High yield savings account", 30},
		{"inv-fnd", "Investment fund", "Diversified low cost index fund", 90},
	}

	for _, s := range samples {
		release := validation.Today(now.AddDate(0, 0, s.offsetDays))
		revision, err := validation.RevisionFor(release)
		if err != nil {
			return err
		}
		product := models.Product{
			ID:           s.id,
			Name:         s.name,
			Description:  s.description,
			Logo:         fmt.Sprintf("https://example.com/logos/%s.png", s.id),
			DateRelease:  release,
			DateRevision: revision,
		}
		if err := repo.Create(&product); err != nil {
			return fmt.Errorf("seeding product %s: %w", s.id, err)
		}
	}
	return nil
}
