package parser

import "github.com/jengzang/locstore-backend-go/internal/models"

// Expand flattens rec into one record per hop, in hop order.
func Expand(rec *models.MultiHopRecord) []models.FlattenedRecord {
	if rec == nil {
		return nil
	}
	out := make([]models.FlattenedRecord, len(rec.Hops))
	for i, h := range rec.Hops {
		out[i] = models.FlattenedRecord{
			RecordScalars: rec.RecordScalars,
			Hop:           h,
		}
	}
	return out
}

// StrictSuccess keeps only the hops that belong in strict views.
func StrictSuccess(records []models.FlattenedRecord) []models.FlattenedRecord {
	out := records[:0:0]
	for _, r := range records {
		if r.Code.OK() {
			out = append(out, r)
		}
	}
	return out
}
