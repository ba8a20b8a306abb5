// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

/*
Package services provides suture.Service wrappers for Stallcast components.

Each wrapper implements suture.Service and fmt.Stringer:

	type Service interface {
	    Serve(ctx context.Context) error
	}

ScheduledService runs a job on a cron schedule (robfig/cron, standard
5-field syntax or descriptors such as "@daily") and optionally once at
startup. A failing run is logged and does not stop the service; only a
canceled context ends Serve. Runs never overlap: a tick that arrives while
a run is in progress is dropped.

RetrainService and AccuracyService are ScheduledServices bound to the
trainer's RetrainAll and the accuracy monitor's Run.

HTTPServerService wraps *http.Server with graceful shutdown, and
NewOpsRouter builds the chi router it serves: /metrics for Prometheus and
/healthz for liveness with a database ping.
*/
package services
