// Package catalog serializes the result of a run.
//
// Two JSON documents are written through any [Putter], usually the same sink
// that received the assets: collection.json holds the ordered song list with
// its nested arrangements, parts and files, and warnings.json holds the
// anomalies of the run. The warnings document only exists when there is
// something in it.
//
// [PostgresStore] additionally mirrors the collection into the tables songs,
// arrangements, parts and files using the pgx driver:
//
//	store, err := catalog.OpenPostgres(ctx, dsn)
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//	err = store.Replace(ctx, catalog.Flatten(res.Songs))
package catalog
