package seeds

import (
	"context"

	"gorm.io/gorm"

	"lms_backend/internals/seeds/academics"
)

// RunAllSeeds dipasang sebagai Seeder di database.Open, jalan di dalam
// transaksi open-time. Gagal di sini = Open gagal.
func RunAllSeeds(ctx context.Context, tx *gorm.DB) error {
	//* Academics
	cat, err := academics.DefaultCatalog()
	if err != nil {
		return err
	}
	if _, err := academics.Seed(ctx, tx, cat); err != nil {
		return err
	}

	return nil
}
