// Package app provides application initialization and lifecycle management
// for the fundx web service.
//
// # Initialization Flow
//
//  1. Load configuration (defaults, YAML file, environment)
//  2. Initialize logging and OpenTelemetry (tracing, Prometheus metrics)
//  3. Build the pipeline, exporter and optional Google Sheets source
//  4. Create the extraction and health services
//  5. Set up chi middleware and routes
//  6. Start the HTTP server and wait for a shutdown signal
//
// # Usage
//
//	application, err := app.NewApplication("fundx.yaml")
//	if err != nil {
//	    return err
//	}
//	return application.Run()
package app
