// Package server exposes a running job's progress over HTTP.
//
// The server is backed by Gin and accepts HTTP/1.1 and h2c on one port. A
// Monitor collects the pipes, trackers and step runs to report:
//
//	mon := server.NewMonitor()
//	mon.AddPipes(src, mapper, sink)
//	mon.AddTracker(runner.Tracker())
//	runner := step.NewRunner("job", job, step.WithObserver(mon))
//
//	srv := server.New(cfg.Server, log)
//	srv.ApplyDefaults("pipekit", mon)
//	srv.Start(ctx)
//	defer srv.Stop(ctx)
//
// # Endpoints
//
//   - GET /health: service health, one component per pipe
//   - GET /version: build version information
//   - GET /pipes: pipe statuses
//   - GET /progress, /progress/:tracker: open tracker wholes
//   - GET /runs, /runs/:id: recent step runs
package server
