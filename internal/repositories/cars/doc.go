// Package cars persists vehicle units keyed by VIN.
//
// Records are stored as "vin;model_id;price;date_start;status" slots in the
// cars data file, with a lexically sorted "vin;slot" index next to it.
// Point lookups go through the index; ListByStatus and ListAll scan the data
// file sequentially.
//
// Typical Usage
//
//	repo := cars.NewFileRepository(dataPath, indexPath, codec.DefaultSlotWidth)
//	_, _ = repo.Create(ctx, car)
//	sold, _ := repo.ListByStatus(ctx, models.CarStatusSold)
package cars
