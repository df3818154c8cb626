package events

import (
	"time"

	"github.com/allegro/techsite/pkg/domain"
)

// MarkNearest returns a copy of events with the single upcoming event closest to now
// marked as near, all others normal. Ties go to the earlier event in the input.
// Past events are never near, so nothing is marked when all events are in the past.
func MarkNearest(events []domain.Event, now time.Time) []domain.Event {
	res := make([]domain.Event, len(events))
	copy(res, events)

	nearest := -1
	for i := range res {
		res[i].Status = domain.EventNormal
		if res[i].Time.Before(now) {
			continue
		}
		if nearest < 0 || res[i].Time.Sub(now) < res[nearest].Time.Sub(now) {
			nearest = i
		}
	}
	if nearest >= 0 {
		res[nearest].Status = domain.EventNear
	}
	return res
}
