// Package pipe provides lazy, composable pipes for multi-stage ETL jobs.
//
// A Sequence is a lazy factory of pull-based iterators: no work happens until
// a cursor opened with Iter is pulled. Pipes turn a consumed sequence into a
// produced one and carry a lifecycle Status:
//
//	Created -> Working -> Finished
//	                   \-> Errored
//
// The status becomes Working on the first pull of a produced cursor, Finished
// when a cursor reports exhaustion and Errored when a pull returns an error.
// Finished and Errored are terminal.
//
// # Pipes
//
//   - FirstPipe: produces only (LambdaFirstPipe)
//   - MidPipe: consumes and produces (LambdaMidPipe, MapPipe)
//   - LastPipe: consumes and produces Nothing (LambdaLastPipe, WritePipe)
//   - AsyncPipe: runs any first or mid pipe on its own goroutine behind a
//     bounded channel
//
// Errors returned by mappers, writers and transforms are passed through
// unchanged; the pipe only records that it Errored.
//
// # Usage
//
//	src := pipe.NewLambdaFirstPipe(pipe.FromSlice([]string{"A", "B", "C"}))
//	lower := pipe.NewMapPipe([]pipe.Mapper[string, string]{
//	    pipe.MapperFunc[string, string](func(_ context.Context, s string) (string, error) {
//	        return strings.ToLower(s), nil
//	    }),
//	})
//	lower.SetConsumes(src.Produces())
//
//	async := pipe.Async[string, string](lower, pipe.WithBufferSize(8))
//	sink := pipe.NewWritePipe[string](writer)
//	sink.SetConsumes(async.Produces())
//	err := sink.Run(ctx)
package pipe
