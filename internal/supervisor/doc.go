// Stallcast - Market Vendor Inventory Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stallcast

/*
Package supervisor runs Stallcast's long-lived services under a suture v4
supervisor tree.

	RootSupervisor ("stallcast")
	├── JobsSupervisor ("jobs-layer")
	│   ├── RetrainService (if training.retrain_enabled)
	│   └── AccuracyService (if accuracy.monitor_enabled)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventLog (if events.enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (/metrics, /healthz)

A crashing service is restarted with backoff. Failures are counted per layer,
so a wedged event subscriber does not take down the metrics endpoint.
Supervisor events are logged through sutureslog on top of the zerolog
logger (see logging.NewSlogHandler).

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddJobService(services.NewRetrainService(trainer, cfg.Training, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
