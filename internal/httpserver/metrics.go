package httpserver

import "expvar"

// Maps are keyed by game ("matching", "valuation", "guess") or by ignore reason.
var (
	metricSessionsStarted = expvar.NewMap("sessions_started_total")
	metricActionsIgnored  = expvar.NewMap("actions_ignored_total")
	metricGamesFinished   = expvar.NewMap("games_finished_total")
	metricRecordsSet      = expvar.NewInt("high_score_records_total")
)
