/*
Package watch provides filesystem watching for continuous CSV validation.

The watcher monitors a file or directory tree via fsnotify and calls back
with the path of each changed file once writes have settled. Events are
debounced per file so that editors and bulk copies do not trigger a
validation per write syscall.

Usage:

	fw, err := watch.NewFileWatcher(&watch.Config{
		Path:             "data/",
		DebounceInterval: 250 * time.Millisecond,
		Extensions:       []string{".csv", ".tsv"},
	}, logger)
	if err != nil {
		return err
	}
	err = fw.Watch(ctx, func(path string) error {
		return validateFile(path)
	})
*/
package watch
