package tracker

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/julianstephens/wellday/internal/aggregate"
	"github.com/julianstephens/wellday/internal/api"
	"github.com/julianstephens/wellday/internal/constants"
	"github.com/julianstephens/wellday/internal/daterange"
	"github.com/julianstephens/wellday/internal/models"
	"github.com/julianstephens/wellday/internal/query"
)

// YearResource is the collection path filtered to Jan 1 through Dec 31 of year.
func YearResource(c constants.Category, year int) string {
	v := url.Values{}
	v.Set("start_date", fmt.Sprintf("%04d-01-01", year))
	v.Set("end_date", fmt.Sprintf("%04d-12-31", year))
	return c.Resource() + "?" + v.Encode()
}

// Commitments fetches a calendar year of kind's records and marks each day
// against goal. Days after now are marked as future.
func Commitments[R models.Record, In any](ctx context.Context, kind Kind[R, In], r api.Requester, reg *query.Registry, year int, goal float64, now time.Time) (aggregate.Heatmap, error) {
	q := query.NewQuery[[]R](ctx, r, reg, YearResource(kind.Category, year), kind.Category.Tag())
	defer q.Close()
	q.Start()
	q.Wait()
	if err := q.Err(); err != nil {
		return aggregate.Heatmap{}, err
	}

	buckets := daterange.FillDates(q.State().Data, daterange.CalendarYear(year, now.Location()), now)
	return aggregate.BuildHeatmap(buckets, goal, now.Format(constants.DateFormat)), nil
}
