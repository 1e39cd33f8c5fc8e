/*
Package history persists validation run outcomes in a local SQLite database.

Each run records the file, the validation mode, the verdict, and the full
defect list. The store backs the history subcommands (list, show, prune)
and, when enabled, receives a run from every check and watch validation.

The scheduler prunes runs older than the configured retention window on a
cron schedule:

	store, err := history.NewStore(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	sched := history.NewScheduler(store, cfg.History.PruneSchedule, cfg.History.RetentionDays)
	if err := sched.Start(ctx); err != nil {
		return err
	}
*/
package history
