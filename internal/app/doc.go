// Package app wires configuration, logging, storage, the attendance service
// and the desk HTTP server, and manages the server lifecycle.
//
// # Initialization Flow
//
//	1. The caller loads configuration and initializes the global logger
//	2. Resolve and create the data, exports and logs directories
//	3. Build the file-backed store, the attendance service and its metrics
//	4. Mount middleware and API routes on a chi router
//	5. Serve until the context ends or SIGINT/SIGTERM arrives
//
// # Usage
//
//	cfg, err := config.Load()
//	...
//	logger, err := infrastructure.InitializeLogger(cfg.Logging)
//	...
//	a, err := app.New(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return a.Run(ctx)
//
// The CLI builds an Application with New for one-shot commands and only
// calls Run for "serve".
package app
