package plans

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ragstack/core/v1/models"
)

// defaultPlans are the canonical tier definitions. Limits <= 0 mean
// unlimited; QPS limits double as token-bucket capacity and refill rate.
var defaultPlans = []models.Plan{
	{
		Slug:           "tinkering",
		Name:           "Tinkering",
		PriceCents:     500,
		QueryQPSLimit:  5,
		IngestQPSLimit: 5,
		ProjectLimit:   3,
		VectorLimit:    10_000,
	},
	{
		Slug:           "building",
		Name:           "Building",
		PriceCents:     2_000,
		QueryQPSLimit:  10,
		IngestQPSLimit: 10,
		ProjectLimit:   20,
		VectorLimit:    100_000,
	},
	{
		Slug:           "scale",
		Name:           "Scale",
		PriceCents:     5_000,
		QueryQPSLimit:  100,
		IngestQPSLimit: 100,
		ProjectLimit:   -1,
		VectorLimit:    250_000,
	},
}

// legacySlugs maps retired tier names onto their current equivalents.
// Renaming in place keeps subscription foreign keys intact.
var legacySlugs = map[string]string{
	"free":       "tinkering",
	"testing":    "tinkering",
	"pro":        "building",
	"enterprise": "scale",
}

// Seed ensures the canonical plan definitions exist and match the tier
// table above. It is safe to run on every startup.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var existing []models.Plan
		if err := tx.Find(&existing).Error; err != nil {
			return fmt.Errorf("plans: loading existing plans: %w", err)
		}

		bySlug := make(map[string]*models.Plan, len(existing))
		for i := range existing {
			bySlug[existing[i].Slug] = &existing[i]
		}

		now := time.Now().UTC()

		for legacy, current := range legacySlugs {
			row, ok := bySlug[legacy]
			if !ok {
				continue
			}
			if _, taken := bySlug[current]; taken {
				continue
			}
			row.Slug = current
			row.UpdatedAt = now
			if err := tx.Save(row).Error; err != nil {
				return fmt.Errorf("plans: renaming legacy plan %q: %w", legacy, err)
			}
			delete(bySlug, legacy)
			bySlug[current] = row
		}

		for _, want := range defaultPlans {
			row, ok := bySlug[want.Slug]
			if !ok {
				plan := want
				plan.CreatedAt = now
				plan.UpdatedAt = now
				if err := tx.Create(&plan).Error; err != nil {
					return fmt.Errorf("plans: creating plan %q: %w", want.Slug, err)
				}
				continue
			}

			if planFieldsEqual(*row, want) {
				continue
			}
			row.Name = want.Name
			row.PriceCents = want.PriceCents
			row.QueryQPSLimit = want.QueryQPSLimit
			row.IngestQPSLimit = want.IngestQPSLimit
			row.ProjectLimit = want.ProjectLimit
			row.VectorLimit = want.VectorLimit
			row.UpdatedAt = now
			if err := tx.Save(row).Error; err != nil {
				return fmt.Errorf("plans: updating plan %q: %w", want.Slug, err)
			}
		}

		return nil
	})
}

func planFieldsEqual(a, b models.Plan) bool {
	return a.Name == b.Name &&
		a.PriceCents == b.PriceCents &&
		a.QueryQPSLimit == b.QueryQPSLimit &&
		a.IngestQPSLimit == b.IngestQPSLimit &&
		a.ProjectLimit == b.ProjectLimit &&
		a.VectorLimit == b.VectorLimit
}
