package api

import (
	"net/http"
	"time"

	"aviablog/internal/common"
	"aviablog/internal/models/dtos"
	"aviablog/internal/services"
)

type homePayload struct {
	LatestFlights []dtos.FlightCard   `json:"latest_flights"`
	TopPassengers []dtos.TopPassenger `json:"top_passengers"`
	SiteTotals    []dtos.SiteTotal    `json:"site_totals"`
}

// HomeHandler handles GET /api/v1/feed: the landing page payload of latest
// cards, the frequent-flyer board and site-wide totals.
func HomeHandler(feedSvc *services.FeedService, statsSvc *services.StatsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		ctx := r.Context()

		cards, err := feedSvc.LatestCards(ctx, services.DefaultFeedSize)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to load latest flights")
			return
		}

		top, err := statsSvc.TopPassengers(ctx, services.DefaultLeaderboardSize)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to load top passengers")
			return
		}

		totals, err := statsSvc.SiteTotals(ctx)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to load site totals")
			return
		}

		common.RespondSuccess(w, initTime, "Feed loaded", homePayload{
			LatestFlights: cards,
			TopPassengers: top,
			SiteTotals:    totals,
		})
	}
}
