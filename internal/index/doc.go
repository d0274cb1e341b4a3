// Package index walks a score archive against a schema and builds the domain
// model.
//
// # Walking
//
// Index reads the archive through an fs.FS, matching each directory level
// against ordered schema alternatives:
//
//	res, err := index.Index(ctx, os.DirFS("/archive"), schema.Default(), index.Options{
//	    OnProgress: func(e progress.Event) { fmt.Println(e.Message) },
//	})
//
// Entries starting with '.' or '_' are skipped at every level. Entries are
// visited in name order (fs.ReadDir sorts), so ids and warning order are
// reproducible.
//
// # Context
//
// Each subtree receives a Context value holding the active tag, song and
// arrangement. Emitters return an updated copy for the subtree; the entities
// themselves live in Results.
//
// # Failures
//
// Anything structural (an unexpected entry, a part whose instrument cannot be
// resolved, a file outside an arrangement) becomes a model.Warning and the
// walk continues. Unreadable directories abort the run unless
// Options.Policy is PolicyContinue.
package index
