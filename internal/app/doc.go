// Package app wires the HTTP service together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. Resolve and create the data, charts, reports and logs directories
//	2. Initialize OpenTelemetry (tracer, meter, Prometheus exposition)
//	3. Create the analysis and health services
//	4. Build the chi router and middleware chain
//	5. Configure the HTTP server
//
// # Usage
//
//	cfg, _ := config.Load()
//	logger, _ := infrastructure.InitializeLogger(cfg.Logging)
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run returns after SIGINT or SIGTERM once in-flight requests have finished
// (bounded by Server.ShutdownTimeout) and telemetry has been flushed.
package app
