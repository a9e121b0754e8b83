// Package step runs units of work with observable progress.
//
// A Step has an Initializing and a Processing phase. A Runner executes both
// in order, opening a tracing span and a log scope for each, and tags every
// run with a UUID run ID. Processing reports progress on a Tracker by
// acquiring scopes:
//
//	whole := t.Whole(len(files))
//	defer whole.Release()
//	for _, f := range files {
//	    piece := t.Piece()
//	    err := load(ctx, f)
//	    piece.Release()
//	    if err != nil {
//	        return err
//	    }
//	}
//
// Releasing a scope is idempotent. Scopes still open when Processing
// returns are released by the Runner, so a failing step never leaves
// progress dangling.
package step
